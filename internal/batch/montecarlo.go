package batch

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/relsim/internal/relativity"
)

// MonteCarloConfig perturbs a base collision and checks conservation on
// every trial.
type MonteCarloConfig struct {
	Base                 relativity.Input
	VelocityPerturbation float64 // absolute, in units of c
	MassPerturbation     float64 // relative
	Trials               int
	Seed                 int64
}

type MonteCarloResult struct {
	Trial     int
	Input     relativity.Input
	Outcome   *relativity.Outcome
	Conserved bool
	Err       error
}

// RunMonteCarlo draws Trials perturbed inputs. Velocities are clamped
// below c and masses kept positive, so failures point at the solver.
func (r *Runner) RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.Trials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	jitter := func(width float64) float64 { return (rng.Float64() - 0.5) * 2 * width }

	for trial := 0; trial < cfg.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		in := cfg.Base
		for i := range in.Particles {
			p := &in.Particles[i]
			p.Mass = math.Abs(p.Mass * (1 + jitter(cfg.MassPerturbation)))
			if p.Mass == 0 {
				p.Mass = cfg.Base.Particles[i].Mass
			}
			p.Velocity = r.Units.Clamp(p.Velocity+jitter(cfg.VelocityPerturbation)*r.Units.C, relativity.DefaultClamp)
		}

		res := MonteCarloResult{Trial: trial, Input: in}
		res.Outcome, res.Err = relativity.Collide(r.Units, r.Options, in)
		if res.Err == nil {
			res.Conserved = conserved(r.Units, res.Outcome)
		}
		results = append(results, res)

		if (trial+1)%10 == 0 {
			r.logf("monte carlo: %d/%d trials complete", trial+1, cfg.Trials)
		}
	}

	return results, nil
}

func conserved(u relativity.Units, o *relativity.Outcome) bool {
	f := o.FinalTotals()
	scale := math.Max(1, math.Abs(o.Totals.Energy))
	dE := math.Abs(f.Energy - o.Totals.Energy)
	dP := math.Abs(f.Momentum-o.Totals.Momentum) * u.C
	return dE <= u.Tolerance*scale && dP <= u.Tolerance*scale
}

// MonteCarloStats counts conserving, violating and failed trials.
func MonteCarloStats(results []MonteCarloResult) (conservedCount, violated, failed int) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
		case r.Conserved:
			conservedCount++
		default:
			violated++
		}
	}
	return
}
