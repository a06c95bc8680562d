package relativity

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/relsim/internal/solver"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// Method selects how the elastic system is solved.
type Method string

const (
	// MethodNewton solves the conservation system numerically, seeded with
	// the exchanged initial velocities.
	MethodNewton Method = "newton"
	// MethodClosed reflects both velocities in the centre-of-momentum frame.
	MethodClosed Method = "closed"
)

// ParseMethod accepts "newton" and "closed" (case insensitive).
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case MethodNewton, "":
		return MethodNewton, nil
	case MethodClosed, "closed-form", "reflection":
		return MethodClosed, nil
	}
	return "", fmt.Errorf("unknown elastic method: %q (want newton or closed)", s)
}

// Seeds used by the Newton method.
const (
	SeedSwap       = "swap"
	SeedReflection = "reflection"
)

// passThroughTol is how close (in rapidity) a root may sit to the initial
// state before it is treated as the no-collision root.
const passThroughTol = 1e-6

// reflectionTol is how far (in rapidity) a Newton root may sit from the
// centre-of-momentum reflection before the solve is reseeded from there.
const reflectionTol = 1e-12

// Rounding floors, in units of machine epsilon times the total energy.
// Sums of energies near E cannot be resolved more finely than this.
const (
	newtonULPs   = 32
	conserveULPs = 64
)

// newNewton builds the root finder for one elastic solve.
var newNewton = func(tol float64, maxIter int) *solver.Newton {
	n := solver.NewNewton()
	n.Tol = tol
	if maxIter > 0 {
		n.MaxIter = maxIter
	}
	return n
}

// State is one particle after an elastic collision.
type State struct {
	Velocity float64 `json:"velocity"`
	Energy   float64 `json:"energy"`
	Momentum float64 `json:"momentum"`
}

// ElasticResult holds both outgoing particles and the conservation
// residuals recomputed from them.
type ElasticResult struct {
	Final            [2]State `json:"final"`
	ResidualEnergy   float64  `json:"residual_energy"`
	ResidualMomentum float64  `json:"residual_momentum"`
	Method           Method   `json:"method"`
	Seed             string   `json:"seed,omitempty"`
	Iterations       int      `json:"iterations"`
	Reseeded         bool     `json:"reseeded,omitempty"`
}

// ResolveElastic finds the outgoing velocities that conserve total energy
// and momentum while preserving each particle's rest mass.
func (u Units) ResolveElastic(p [2]Particle, t Totals, opts Options) (*ElasticResult, error) {
	if p[0].Velocity == p[1].Velocity {
		// no relative motion, nothing collides
		var final [2]State
		for i := range p {
			k, err := u.Kinematics(p[i])
			if err != nil {
				return nil, err
			}
			final[i] = State{Velocity: k.Velocity, Energy: k.Energy, Momentum: k.Momentum}
		}
		return u.verifyElastic(p, final, t, &ElasticResult{Method: opts.Method})
	}

	eta := [2]float64{}
	for i := range p {
		r, err := u.Rapidity(p[i].Velocity)
		if err != nil {
			return nil, err
		}
		eta[i] = r
	}
	etaCoM := math.Atanh(u.Beta(t.VCoM(u)))
	reflected := [2]float64{2*etaCoM - eta[0], 2*etaCoM - eta[1]}

	res := &ElasticResult{Method: opts.Method}
	var roots [2]float64

	switch opts.Method {
	case MethodClosed:
		roots = reflected
	case MethodNewton, "":
		res.Method = MethodNewton
		lighter := u.lighterRest(p)
		sys := u.elasticSystem(p, t)
		// tighter than the post-condition so the round trip through
		// rapidity cannot push a converged root over the conservation check
		floor := newtonULPs * epsilon * math.Abs(t.Energy) / lighter
		newton := newNewton(math.Max(u.Tolerance*1e-3, floor), opts.MaxIter)

		res.Seed = SeedSwap
		out, err := newton.Solve(sys, []float64{eta[1], eta[0]})
		res.Iterations = out.Iterations
		if err != nil || passesThrough(out.X, eta) || !nearReflection(out.X, reflected) {
			res.Reseeded = true
			res.Seed = SeedReflection
			out, err = newton.Solve(sys, reflected[:])
			res.Iterations += out.Iterations
			if err != nil {
				return nil, &ConvergenceError{
					Seed:       SeedReflection,
					Iterations: res.Iterations,
					Residual:   out.Residual * lighter,
					Wrapped:    err,
				}
			}
		}
		roots = [2]float64{out.X[0], out.X[1]}
	default:
		return nil, fmt.Errorf("unknown elastic method: %q", opts.Method)
	}

	var final [2]State
	for i := range p {
		st, err := u.outgoing(p[i].Mass, roots[i], i)
		if err != nil {
			return nil, err
		}
		final[i] = st
	}
	return u.verifyElastic(p, final, t, res)
}

// elasticSystem poses conservation over the outgoing rapidities η:
//
//	m1c² sinh η1 + m2c² sinh η2 = p c
//	m1c² cosh η1 + m2c² cosh η2 = E
//
// Both equations are divided by the lighter rest energy, so a unit residual
// is the whole rest energy of the lighter particle however heavy the other.
func (u Units) elasticSystem(p [2]Particle, t Totals) solver.Problem {
	rest := [2]float64{u.RestEnergy(p[0].Mass), u.RestEnergy(p[1].Mass)}
	s := u.lighterRest(p)
	pc := t.Momentum * u.C
	return solver.Problem{
		Dim: 2,
		Func: func(x, fx []float64) {
			fx[0] = (rest[0]*math.Sinh(x[0]) + rest[1]*math.Sinh(x[1]) - pc) / s
			fx[1] = (rest[0]*math.Cosh(x[0]) + rest[1]*math.Cosh(x[1]) - t.Energy) / s
		},
		Jacobian: func(jac *mat.Dense, x []float64) {
			jac.Set(0, 0, rest[0]*math.Cosh(x[0])/s)
			jac.Set(0, 1, rest[1]*math.Cosh(x[1])/s)
			jac.Set(1, 0, rest[0]*math.Sinh(x[0])/s)
			jac.Set(1, 1, rest[1]*math.Sinh(x[1])/s)
		},
	}
}

func passesThrough(root []float64, initial [2]float64) bool {
	return scalar.EqualWithinAbs(root[0], initial[0], passThroughTol) &&
		scalar.EqualWithinAbs(root[1], initial[1], passThroughTol)
}

// nearReflection reports whether a root agrees with the closed-form
// solution. Small relative velocities against a heavy partner leave the
// system nearly singular, and Newton can stop short of the root there.
func nearReflection(root []float64, reflected [2]float64) bool {
	return scalar.EqualWithinAbs(root[0], reflected[0], reflectionTol) &&
		scalar.EqualWithinAbs(root[1], reflected[1], reflectionTol)
}

func (u Units) lighterRest(p [2]Particle) float64 {
	return math.Min(u.RestEnergy(p[0].Mass), u.RestEnergy(p[1].Mass))
}

// conservationTol is the absolute energy tolerance of the elastic
// post-condition: Tolerance times the lighter rest energy, never finer than
// the rounding floor of sums the size of the total energy.
func (u Units) conservationTol(p [2]Particle, t Totals) float64 {
	return math.Max(u.Tolerance*u.lighterRest(p), conserveULPs*epsilon*math.Abs(t.Energy))
}

// outgoing builds the state of particle i at rapidity eta. Energy and
// momentum come from the rapidity directly; the velocity is reported as
// c·tanh η and must stay below c in float64.
func (u Units) outgoing(mass, eta float64, i int) (State, error) {
	beta := math.Tanh(eta)
	if math.Abs(beta) >= 1 {
		return State{}, &PrecisionError{Field: fmt.Sprintf("v%d'", i+1), Beta: beta, Rapidity: eta}
	}
	rest := u.RestEnergy(mass)
	return State{
		Velocity: u.C * beta,
		Energy:   rest * math.Cosh(eta),
		Momentum: rest * math.Sinh(eta) / u.C,
	}, nil
}

// verifyElastic checks the outgoing states against the rest masses and the
// conserved totals.
func (u Units) verifyElastic(p [2]Particle, final [2]State, t Totals, res *ElasticResult) (*ElasticResult, error) {
	tol := u.conservationTol(p, t)
	var sumE, sumP float64
	for i, s := range final {
		rest := u.RestEnergy(p[i].Mass)
		shell := (s.Energy-s.Momentum*u.C)*(s.Energy+s.Momentum*u.C) - rest*rest
		if math.Abs(shell) > u.Tolerance*math.Max(1, s.Energy*s.Energy) {
			return nil, &InvariantError{Check: fmt.Sprintf("rest mass of particle %d", i+1), Got: shell + rest*rest, Want: rest * rest}
		}
		res.Final[i] = s
		sumE += s.Energy
		sumP += s.Momentum
	}

	res.ResidualEnergy = sumE - t.Energy
	res.ResidualMomentum = sumP - t.Momentum
	if math.Abs(res.ResidualEnergy) > tol {
		return nil, &InvariantError{Check: "energy conservation", Got: sumE, Want: t.Energy}
	}
	if math.Abs(res.ResidualMomentum)*u.C > tol {
		return nil, &InvariantError{Check: "momentum conservation", Got: sumP, Want: t.Momentum}
	}
	return res, nil
}
