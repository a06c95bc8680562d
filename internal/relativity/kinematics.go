package relativity

import (
	"fmt"
	"math"
)

// Particle is a point mass moving along the collision axis.
type Particle struct {
	Mass     float64 `json:"mass" yaml:"mass" toml:"mass"`
	Velocity float64 `json:"velocity" yaml:"velocity" toml:"velocity"`
}

// Validate rejects non-physical particle states. label prefixes the
// reported field name ("m1", "v1", ...).
func (p Particle) Validate(u Units, label string) error {
	if math.IsNaN(p.Mass) || p.Mass <= 0 || math.IsInf(p.Mass, 0) {
		return &DomainError{Field: "m" + label, Value: p.Mass, Reason: "mass must be positive and finite"}
	}
	if err := u.checkVelocity(p.Velocity); err != nil {
		err.Field = "v" + label
		return err
	}
	return nil
}

// Kinematics are the derived quantities of one particle state.
type Kinematics struct {
	Velocity float64 `json:"velocity"`
	Gamma    float64 `json:"gamma"`
	Momentum float64 `json:"momentum"`
	Energy   float64 `json:"energy"`
}

func (u Units) checkVelocity(v float64) *DomainError {
	if math.IsNaN(v) {
		return &DomainError{Field: "v", Value: v, Reason: "velocity is not a number"}
	}
	if math.Abs(v) >= u.C {
		return &DomainError{Field: "v", Value: v, Reason: fmt.Sprintf("|v| must be strictly below c=%g", u.C)}
	}
	return nil
}

// Gamma returns the Lorentz factor 1/sqrt(1-v²/c²).
// It fails with a *DomainError when |v| >= c.
func (u Units) Gamma(v float64) (float64, error) {
	if err := u.checkVelocity(v); err != nil {
		return 0, err
	}
	b := u.Beta(v)
	// (1-b)(1+b) keeps precision as |b| -> 1
	return 1 / math.Sqrt((1-b)*(1+b)), nil
}

// Momentum returns γmv.
func (u Units) Momentum(m, v float64) (float64, error) {
	g, err := u.Gamma(v)
	if err != nil {
		return 0, err
	}
	return g * m * v, nil
}

// Energy returns γmc².
func (u Units) Energy(m, v float64) (float64, error) {
	g, err := u.Gamma(v)
	if err != nil {
		return 0, err
	}
	return g * u.RestEnergy(m), nil
}

// Rapidity returns atanh(v/c).
func (u Units) Rapidity(v float64) (float64, error) {
	if err := u.checkVelocity(v); err != nil {
		return 0, err
	}
	return math.Atanh(u.Beta(v)), nil
}

// Kinematics derives γ, p and E for a validated particle.
func (u Units) Kinematics(p Particle) (Kinematics, error) {
	g, err := u.Gamma(p.Velocity)
	if err != nil {
		return Kinematics{}, err
	}
	return Kinematics{
		Velocity: p.Velocity,
		Gamma:    g,
		Momentum: g * p.Mass * p.Velocity,
		Energy:   g * u.RestEnergy(p.Mass),
	}, nil
}

// Gamma evaluates the Lorentz factor in natural units.
func Gamma(v float64) (float64, error) { return Natural().Gamma(v) }

// Momentum evaluates γmv in natural units.
func Momentum(m, v float64) (float64, error) { return Natural().Momentum(m, v) }

// Energy evaluates γm in natural units.
func Energy(m, v float64) (float64, error) { return Natural().Energy(m, v) }
