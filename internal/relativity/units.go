package relativity

import (
	"fmt"
	"math"
)

const (
	// SpeedOfLight in metres per second.
	SpeedOfLight = 299792458.0

	// DefaultTolerance is the working precision of the solver, in units of
	// the lighter rest energy.
	DefaultTolerance = 1e-9

	// DefaultClamp is the largest |v|/c accepted by Units.Clamp callers.
	DefaultClamp = 0.999999

	// epsilon is the float64 machine epsilon.
	epsilon = 0x1p-52
)

// Units is the unit context every primitive is evaluated in.
// C is the speed of light; velocities are absolute, so in natural units
// (C = 1) they are fractions of light speed.
type Units struct {
	C         float64 `json:"c" yaml:"c" toml:"c"`
	Tolerance float64 `json:"tolerance" yaml:"tolerance" toml:"tolerance"`
}

// Natural returns the c = 1 context.
func Natural() Units {
	return Units{C: 1, Tolerance: DefaultTolerance}
}

// SI returns a context with c in metres per second.
func SI() Units {
	return Units{C: SpeedOfLight, Tolerance: DefaultTolerance}
}

// Validate checks that the context itself is usable.
func (u Units) Validate() error {
	if !(u.C > 0) || math.IsInf(u.C, 0) {
		return &DomainError{Field: "c", Value: u.C, Reason: "speed of light must be positive and finite"}
	}
	if !(u.Tolerance > 0) {
		return &DomainError{Field: "tolerance", Value: u.Tolerance, Reason: "tolerance must be positive"}
	}
	return nil
}

// Beta returns v/c.
func (u Units) Beta(v float64) float64 { return v / u.C }

// Clamp limits v to [-limit*c, limit*c]. The primitives never clamp;
// input layers call this before handing velocities over.
func (u Units) Clamp(v, limit float64) float64 {
	if limit <= 0 || limit >= 1 {
		limit = DefaultClamp
	}
	bound := limit * u.C
	return math.Max(-bound, math.Min(bound, v))
}

// RestEnergy returns m c².
func (u Units) RestEnergy(m float64) float64 { return m * u.C * u.C }

func (u Units) String() string {
	if u.C == 1 {
		return fmt.Sprintf("natural (c=1, tol=%g)", u.Tolerance)
	}
	return fmt.Sprintf("c=%g, tol=%g", u.C, u.Tolerance)
}
