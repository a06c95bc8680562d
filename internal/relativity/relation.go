package relativity

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Relation is the energy–momentum relation E² = (pc)² + (mc²)² evaluated
// for one particle.
type Relation struct {
	Kinematics
	Mass            float64 `json:"mass"`
	EnergySquared   float64 `json:"energy_squared"`
	MomentumSquared float64 `json:"momentum_squared"`
	RestSquared     float64 `json:"rest_squared"`
	Holds           bool    `json:"holds"`
}

// relationTol matches the absolute tolerance the calculator displays.
const relationTol = 1e-6

// EnergyMomentum evaluates the relation for mass m moving at v.
func (u Units) EnergyMomentum(m, v float64) (Relation, error) {
	p := Particle{Mass: m, Velocity: v}
	if err := p.Validate(u, ""); err != nil {
		return Relation{}, err
	}
	k, err := u.Kinematics(p)
	if err != nil {
		return Relation{}, err
	}
	pc := k.Momentum * u.C
	rest := u.RestEnergy(m)
	r := Relation{
		Kinematics:      k,
		Mass:            m,
		EnergySquared:   k.Energy * k.Energy,
		MomentumSquared: pc * pc,
		RestSquared:     rest * rest,
	}
	r.Holds = math.Abs(r.EnergySquared-(r.MomentumSquared+r.RestSquared)) <= relationTol*math.Max(1, r.EnergySquared)
	return r, nil
}

// MomentumCurve samples relativistic (γmv) and Newtonian (mv) momentum at
// n evenly spaced speeds in [0, vmax].
func (u Units) MomentumCurve(m, vmax float64, n int) (relativistic, newtonian []float64, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("momentum curve needs at least 2 samples, got %d", n)
	}
	if vmax <= 0 {
		return nil, nil, &DomainError{Field: "vmax", Value: vmax, Reason: "must be positive"}
	}
	relativistic = make([]float64, n)
	newtonian = make([]float64, n)
	step := vmax / float64(n-1)
	for i := 0; i < n; i++ {
		v := float64(i) * step
		p, err := u.Momentum(m, v)
		if err != nil {
			return nil, nil, err
		}
		relativistic[i] = p
		newtonian[i] = m * v
	}
	return relativistic, newtonian, nil
}

// PreciseGamma evaluates the Lorentz factor of beta (given as a decimal
// string, |beta| < 1) with prec bits of mantissa. Used for display near c
// where float64 runs out of digits.
func PreciseGamma(beta string, prec uint) (*big.Float, error) {
	b, _, err := big.ParseFloat(strings.TrimSpace(beta), 10, prec, big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("parse beta %q: %w", beta, err)
	}
	one := new(big.Float).SetPrec(prec).SetInt64(1)
	abs := new(big.Float).SetPrec(prec).Abs(b)
	if abs.Cmp(one) >= 0 {
		f, _ := b.Float64()
		return nil, &DomainError{Field: "v", Value: f, Reason: "|v| must be strictly below c"}
	}

	// 1 / sqrt(1 - b²)
	b2 := new(big.Float).SetPrec(prec).Mul(b, b)
	rad := new(big.Float).SetPrec(prec).Sub(one, b2)
	root := new(big.Float).SetPrec(prec).Sqrt(rad)
	return new(big.Float).SetPrec(prec).Quo(one, root), nil
}
