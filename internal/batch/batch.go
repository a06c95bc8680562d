// Package batch runs scripted collision scenarios and Monte Carlo trials.
package batch

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/relsim/internal/relativity"
	"github.com/san-kum/relsim/internal/storage"
)

// Scenario is a named list of collisions read from YAML.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one collision of a scenario. Method falls back to the runner's
// options when empty.
type Step struct {
	Name   string  `yaml:"name"`
	Mode   string  `yaml:"mode"`
	Method string  `yaml:"method"`
	M1     float64 `yaml:"m1"`
	V1     float64 `yaml:"v1"`
	M2     float64 `yaml:"m2"`
	V2     float64 `yaml:"v2"`
	Save   bool    `yaml:"save"`
}

// Input converts the step into a validated-later collision request.
func (s Step) Input() (relativity.Input, error) {
	mode, err := relativity.ParseMode(s.Mode)
	if err != nil {
		return relativity.Input{}, err
	}
	return relativity.Input{
		Particles: [2]relativity.Particle{
			{Mass: s.M1, Velocity: s.V1},
			{Mass: s.M2, Velocity: s.V2},
		},
		Mode: mode,
	}, nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// StepResult is the status of one scenario step. Err holds validation or
// solver failures; the scenario keeps going past them.
type StepResult struct {
	Index   int
	Name    string
	Outcome *relativity.Outcome
	RunID   string
	Err     error
}

// Runner executes scenarios. Store and Logger are optional.
type Runner struct {
	Units   relativity.Units
	Options relativity.Options
	Store   storage.Backend
	Logger  *log.Logger
}

func NewRunner(u relativity.Units, opts relativity.Options) *Runner {
	return &Runner{
		Units:   u,
		Options: opts,
		Logger:  log.New(io.Discard, "", 0),
	}
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

// RunScenario resolves every step in order and saves the steps marked
// save when a store is configured. Storage failures and cancellation stop
// the scenario; collision errors are recorded per step.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		r.logf("step %d/%d: %s", i+1, len(scenario.Steps), name)

		res := StepResult{Index: i, Name: name}
		res.Outcome, res.Err = r.runStep(step)
		if res.Err != nil {
			r.logf("step %d: %v", i+1, res.Err)
			results = append(results, res)
			continue
		}

		if step.Save && r.Store != nil {
			id, err := r.Store.Save(ctx, name, res.Outcome)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			res.RunID = id
		}
		results = append(results, res)
	}

	return results, nil
}

func (r *Runner) runStep(step Step) (*relativity.Outcome, error) {
	in, err := step.Input()
	if err != nil {
		return nil, err
	}
	opts := r.Options
	if step.Method != "" {
		m, err := relativity.ParseMethod(step.Method)
		if err != nil {
			return nil, err
		}
		opts.Method = m
	}
	return relativity.Collide(r.Units, opts, in)
}

// Summary counts succeeded and failed steps.
func Summary(results []StepResult) (ok, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			ok++
		}
	}
	return
}
