// Package storage persists collision runs.
package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/san-kum/relsim/internal/relativity"
)

var (
	ErrNotFound  = errors.New("storage: run not found")
	ErrInvalidID = errors.New("storage: invalid run id")
)

// ValidateID rejects ids that could name anything but a single entry
// directly under the data directory.
func ValidateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) || filepath.Base(id) != id {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Run is one persisted collision.
type Run struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Timestamp time.Time           `json:"timestamp"`
	Outcome   *relativity.Outcome `json:"outcome"`
}

// Metrics summarises a run for `show`.
func (r *Run) Metrics() map[string]float64 {
	m := map[string]float64{
		"energy_total":   r.Outcome.Totals.Energy,
		"momentum_total": r.Outcome.Totals.Momentum,
		"v_com":          r.Outcome.VCoM,
	}
	if e := r.Outcome.Elastic; e != nil {
		m["v1_final"] = e.Final[0].Velocity
		m["v2_final"] = e.Final[1].Velocity
		m["residual_energy"] = e.ResidualEnergy
		m["residual_momentum"] = e.ResidualMomentum
	}
	if in := r.Outcome.Inelastic; in != nil {
		m["v_final"] = in.Velocity
		m["invariant_mass"] = in.InvariantMass
	}
	return m
}

// Backend is implemented by every run store.
type Backend interface {
	Init() error
	Save(ctx context.Context, name string, out *relativity.Outcome) (string, error)
	List(ctx context.Context) ([]Run, error)
	Load(ctx context.Context, id string) (*Run, error)
	Close() error
}

// Open returns the backend named by kind ("fs" or "sqlite") rooted at dir.
func Open(kind, dir string) (Backend, error) {
	switch kind {
	case "", "fs", "file":
		return New(dir), nil
	case "sqlite":
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		return OpenSQLite(filepath.Join(dir, "runs.db"))
	}
	return nil, fmt.Errorf("unknown storage backend: %s", kind)
}

var runSeq atomic.Uint64

func newRunID(mode relativity.Mode) string {
	return fmt.Sprintf("%s_%d_%d", mode, time.Now().UnixNano(), runSeq.Add(1))
}

// Store keeps one directory per run holding metadata.json and states.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Close() error { return nil }

func (s *Store) Save(ctx context.Context, name string, out *relativity.Outcome) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	run := Run{
		ID:        newRunID(out.Mode),
		Name:      name,
		Timestamp: time.Now().UTC(),
		Outcome:   out,
	}
	runDir := filepath.Join(s.baseDir, run.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	if err := WriteJSON(metaFile, &run); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	if err := WriteCSV(csvFile, out); err != nil {
		return "", err
	}

	return run.ID, nil
}

func (s *Store) List(ctx context.Context) ([]Run, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Run{}, nil
		}
		return nil, err
	}

	runs := make([]Run, 0)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		run, err := s.Load(ctx, entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *run)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(ctx context.Context, runID string) (*Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateID(runID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, err
	}
	if run.Outcome == nil {
		return nil, fmt.Errorf("run %s: missing outcome", runID)
	}
	return &run, nil
}

// StateRow is one line of states.csv.
type StateRow struct {
	Phase    string
	Label    string
	Velocity float64
	Gamma    float64
	Energy   float64
	Momentum float64
}

// Rows flattens an outcome into initial and final state rows.
func Rows(out *relativity.Outcome) []StateRow {
	rows := make([]StateRow, 0, 5)
	for i, k := range out.Kinematics {
		rows = append(rows, StateRow{
			Phase: "initial", Label: fmt.Sprintf("particle%d", i+1),
			Velocity: k.Velocity, Gamma: k.Gamma, Energy: k.Energy, Momentum: k.Momentum,
		})
	}
	switch {
	case out.Elastic != nil:
		for i, st := range out.Elastic.Final {
			g, _ := out.Units.Gamma(st.Velocity)
			rows = append(rows, StateRow{
				Phase: "final", Label: fmt.Sprintf("particle%d", i+1),
				Velocity: st.Velocity, Gamma: g, Energy: st.Energy, Momentum: st.Momentum,
			})
		}
	case out.Inelastic != nil:
		in := out.Inelastic
		rows = append(rows, StateRow{
			Phase: "final", Label: "composite",
			Velocity: in.Velocity, Gamma: in.Gamma, Energy: in.Energy, Momentum: in.Momentum,
		})
	}
	return rows
}

var csvHeader = []string{"phase", "label", "velocity", "gamma", "energy", "momentum"}

// WriteCSV writes the state rows of out to w.
func WriteCSV(w io.Writer, out *relativity.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range Rows(out) {
		row := []string{
			r.Phase,
			r.Label,
			strconv.FormatFloat(r.Velocity, 'g', -1, 64),
			strconv.FormatFloat(r.Gamma, 'g', -1, 64),
			strconv.FormatFloat(r.Energy, 'g', -1, 64),
			strconv.FormatFloat(r.Momentum, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses rows written by WriteCSV.
func ReadCSV(r io.Reader) ([]StateRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return []StateRow{}, nil
	}

	rows := make([]StateRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		vals := make([]float64, 4)
		for j := range vals {
			v, err := strconv.ParseFloat(rec[j+2], 64)
			if err != nil {
				return nil, fmt.Errorf("states.csv line %d: %w", i+2, err)
			}
			vals[j] = v
		}
		rows = append(rows, StateRow{
			Phase: rec[0], Label: rec[1],
			Velocity: vals[0], Gamma: vals[1], Energy: vals[2], Momentum: vals[3],
		})
	}
	return rows, nil
}

// LoadStates reads the states.csv of a run.
func (s *Store) LoadStates(runID string) ([]StateRow, error) {
	if err := ValidateID(runID); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// States returns the state rows of run: the stored states.csv for the file
// store, or rows rebuilt from the outcome for backends that keep none.
func States(b Backend, run *Run) ([]StateRow, error) {
	if fs, ok := b.(*Store); ok {
		return fs.LoadStates(run.ID)
	}
	return Rows(run.Outcome), nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
