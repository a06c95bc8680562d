// Package sweep runs one collision per value of a swept input parameter.
package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/relsim/internal/relativity"
)

// Param names the swept input.
type Param string

const (
	ParamV1 Param = "v1"
	ParamV2 Param = "v2"
	ParamM1 Param = "m1"
	ParamM2 Param = "m2"
)

func ParseParam(s string) (Param, error) {
	switch p := Param(strings.ToLower(strings.TrimSpace(s))); p {
	case ParamV1, ParamV2, ParamM1, ParamM2:
		return p, nil
	}
	return "", fmt.Errorf("unknown sweep parameter: %q (want v1, v2, m1 or m2)", s)
}

// Spec is a linear sweep of Param over [From, To] in Steps points.
type Spec struct {
	Param Param   `yaml:"param"`
	From  float64 `yaml:"from"`
	To    float64 `yaml:"to"`
	Steps int     `yaml:"steps"`
}

func (s Spec) Values() ([]float64, error) {
	if _, err := ParseParam(string(s.Param)); err != nil {
		return nil, err
	}
	if s.Steps < 1 {
		return nil, fmt.Errorf("sweep steps must be at least 1, got %d", s.Steps)
	}
	if math.IsNaN(s.From) || math.IsNaN(s.To) || math.IsInf(s.From, 0) || math.IsInf(s.To, 0) {
		return nil, fmt.Errorf("sweep bounds must be finite")
	}
	if s.Steps == 1 {
		return []float64{s.From}, nil
	}
	vals := make([]float64, s.Steps)
	h := (s.To - s.From) / float64(s.Steps-1)
	for i := range vals {
		vals[i] = s.From + float64(i)*h
	}
	vals[len(vals)-1] = s.To
	return vals, nil
}

// Apply returns a copy of in with the swept parameter set to v.
func (s Spec) Apply(in relativity.Input, v float64) relativity.Input {
	switch s.Param {
	case ParamV1:
		in.Particles[0].Velocity = v
	case ParamV2:
		in.Particles[1].Velocity = v
	case ParamM1:
		in.Particles[0].Mass = v
	case ParamM2:
		in.Particles[1].Mass = v
	}
	return in
}

// Point is one evaluated sweep value. Err is set instead of Outcome when
// the collision at Value could not be resolved.
type Point struct {
	Index   int
	Value   float64
	Outcome *relativity.Outcome
	Err     error
}

// Runner evaluates sweeps with at most Workers collisions in flight.
type Runner struct {
	Units   relativity.Units
	Options relativity.Options
	Workers int
}

func NewRunner(u relativity.Units, opts relativity.Options) *Runner {
	return &Runner{Units: u, Options: opts, Workers: runtime.NumCPU()}
}

// Run resolves base with the swept parameter at every value of spec.
// Points come back in sweep order. Only cancellation of ctx aborts the run.
func (r *Runner) Run(ctx context.Context, base relativity.Input, spec Spec) ([]Point, error) {
	vals, err := spec.Values()
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(vals))
	g, ctx := errgroup.WithContext(ctx)
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i, v := range vals {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := relativity.Collide(r.Units, r.Options, spec.Apply(base, v))
			points[i] = Point{Index: i, Value: v, Outcome: out, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// Failed counts points that carry an error.
func Failed(points []Point) int {
	n := 0
	for _, p := range points {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// Series extracts one value per point; failed points map to NaN.
func Series(points []Point, f func(*relativity.Outcome) float64) []float64 {
	s := make([]float64, len(points))
	for i, p := range points {
		if p.Err != nil || p.Outcome == nil {
			s[i] = math.NaN()
			continue
		}
		s[i] = f(p.Outcome)
	}
	return s
}

// FinalVelocities returns the post-collision velocity series: both
// particles for elastic sweeps, the composite (twice) for inelastic ones.
func FinalVelocities(points []Point) (v1, v2 []float64) {
	pick := func(i int) func(*relativity.Outcome) float64 {
		return func(o *relativity.Outcome) float64 {
			switch {
			case o.Elastic != nil:
				return o.Elastic.Final[i].Velocity
			case o.Inelastic != nil:
				return o.Inelastic.Velocity
			}
			return math.NaN()
		}
	}
	return Series(points, pick(0)), Series(points, pick(1))
}

// Residuals returns the largest of |ΔE| and |Δp·c| per point.
func Residuals(points []Point) []float64 {
	return Series(points, func(o *relativity.Outcome) float64 {
		f := o.FinalTotals()
		dE := math.Abs(f.Energy - o.Totals.Energy)
		dP := math.Abs(f.Momentum-o.Totals.Momentum) * o.Units.C
		return math.Max(dE, dP)
	})
}
