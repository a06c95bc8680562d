package batch

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/relsim/internal/relativity"
	"github.com/san-kum/relsim/internal/storage"
)

const scenarioYAML = `
name: lab
description: reference collisions
steps:
  - name: reference
    mode: inelastic
    m1: 1
    v1: 0.6
    m2: 2
    v2: -0.6
    save: true
  - name: exchange
    mode: elastic
    method: closed
    m1: 1
    v1: 0.5
    m2: 1
    v2: -0.5
  - name: superluminal
    mode: elastic
    m1: 1
    v1: 1.2
    m2: 1
    v2: 0
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}
	want := Step{Name: "exchange", Mode: "elastic", Method: "closed", M1: 1, V1: 0.5, M2: 1, V2: -0.5}
	if diff := cmp.Diff(want, sc.Steps[1]); diff != "" {
		t.Errorf("step mismatch (-want +got):\n%s", diff)
	}
	if sc.Name != "lab" || len(sc.Steps) != 3 {
		t.Errorf("unexpected scenario %+v", sc)
	}
}

func TestParseScenarioErrors(t *testing.T) {
	if _, err := ParseScenario([]byte("name: empty\nsteps: []\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
	if _, err := ParseScenario([]byte("steps: [")); err == nil {
		t.Error("expected yaml error")
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Steps[0].Name != "reference" {
		t.Errorf("first step = %q", sc.Steps[0].Name)
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	st := storage.New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer

	r := NewRunner(relativity.Natural(), relativity.DefaultOptions())
	r.Store = st
	r.Logger = log.New(&logs, "", 0)

	results, err := r.RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}

	ok, failed := Summary(results)
	if ok != 2 || failed != 1 {
		t.Errorf("summary = %d ok, %d failed", ok, failed)
	}
	if !errors.Is(results[2].Err, relativity.ErrDomain) {
		t.Errorf("superluminal step: expected domain error, got %v", results[2].Err)
	}

	if results[0].RunID == "" {
		t.Error("saved step has no run id")
	}
	if results[1].RunID != "" {
		t.Error("unsaved step has a run id")
	}
	run, err := st.Load(context.Background(), results[0].RunID)
	if err != nil {
		t.Fatal(err)
	}
	if run.Name != "reference" || run.Outcome.Inelastic == nil {
		t.Errorf("unexpected stored run %+v", run)
	}

	e := results[1].Outcome.Elastic
	if e.Method != relativity.MethodClosed {
		t.Errorf("step method override ignored: %s", e.Method)
	}
	if v := e.Final[0].Velocity; v > -0.5+1e-9 || v < -0.5-1e-9 {
		t.Errorf("exchange v1' = %g, want -0.5", v)
	}

	if !strings.Contains(logs.String(), "step 3/3: superluminal") {
		t.Errorf("missing progress log:\n%s", logs.String())
	}
}

func TestRunScenarioBadStep(t *testing.T) {
	sc := &Scenario{Steps: []Step{{Mode: "sticky", M1: 1, M2: 1}, {Mode: "elastic", Method: "bisect", M1: 1, M2: 1, V1: 0.1}}}
	r := NewRunner(relativity.Natural(), relativity.DefaultOptions())
	results, err := r.RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}
	for i, res := range results {
		if res.Err == nil {
			t.Errorf("step %d: expected error", i)
		}
	}
	if results[0].Name != "step1" {
		t.Errorf("default name = %q", results[0].Name)
	}
}

func TestRunScenarioCancelled(t *testing.T) {
	sc, _ := ParseScenario([]byte(scenarioYAML))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(relativity.Natural(), relativity.DefaultOptions())
	if _, err := r.RunScenario(ctx, sc); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunMonteCarlo(t *testing.T) {
	for _, mode := range []relativity.Mode{relativity.Elastic, relativity.Inelastic} {
		cfg := &MonteCarloConfig{
			Base: relativity.Input{
				Particles: [2]relativity.Particle{{Mass: 1, Velocity: 0.6}, {Mass: 2, Velocity: -0.6}},
				Mode:      mode,
			},
			VelocityPerturbation: 0.3,
			MassPerturbation:     0.5,
			Trials:               40,
			Seed:                 7,
		}
		r := NewRunner(relativity.Natural(), relativity.DefaultOptions())
		results, err := r.RunMonteCarlo(context.Background(), cfg)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 40 {
			t.Fatalf("%s: got %d trials", mode, len(results))
		}
		conservedCount, violated, failed := MonteCarloStats(results)
		if conservedCount != 40 || violated != 0 || failed != 0 {
			t.Errorf("%s: conserved=%d violated=%d failed=%d", mode, conservedCount, violated, failed)
		}
		for _, res := range results {
			for _, p := range res.Input.Particles {
				if p.Mass <= 0 || p.Velocity >= 1 || p.Velocity <= -1 {
					t.Errorf("%s: trial %d drew invalid particle %+v", mode, res.Trial, p)
				}
			}
		}
	}
}

func TestRunMonteCarloDeterministic(t *testing.T) {
	cfg := &MonteCarloConfig{
		Base: relativity.Input{
			Particles: [2]relativity.Particle{{Mass: 1, Velocity: 0.2}, {Mass: 1, Velocity: -0.2}},
			Mode:      relativity.Elastic,
		},
		VelocityPerturbation: 0.1,
		Trials:               5,
		Seed:                 42,
	}
	r := NewRunner(relativity.Natural(), relativity.DefaultOptions())
	a, err := r.RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i].Input != b[i].Input {
			t.Errorf("trial %d differs between seeded runs", i)
		}
	}
}
