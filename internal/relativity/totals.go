package relativity

import (
	"math"

	"go-hep.org/x/hep/fmom"
)

// Totals are the conserved system quantities.
type Totals struct {
	Energy   float64 `json:"energy_total"`
	Momentum float64 `json:"momentum_total"`
}

// FourMomentum returns the (E, pc) four-vector of a particle with motion
// along the x axis. Both components are in energy units.
func (u Units) FourMomentum(k Kinematics) fmom.PxPyPzE {
	return fmom.NewPxPyPzE(k.Momentum*u.C, 0, 0, k.Energy)
}

// Aggregate sums the two particles' four-momenta.
func (u Units) Aggregate(k1, k2 Kinematics) Totals {
	p1 := u.FourMomentum(k1)
	p2 := u.FourMomentum(k2)
	sum := fmom.Add(&p1, &p2)
	return Totals{
		Energy:   sum.E(),
		Momentum: sum.Px() / u.C,
	}
}

// FourMomentum returns the total four-vector.
func (t Totals) FourMomentum(u Units) fmom.PxPyPzE {
	return fmom.NewPxPyPzE(t.Momentum*u.C, 0, 0, t.Energy)
}

// VCoM returns the velocity of the centre-of-momentum frame, pc²/E.
func (t Totals) VCoM(u Units) float64 {
	return t.Momentum * u.C * u.C / t.Energy
}

// InvariantMass returns sqrt(E² - (pc)²)/c². A negative radicand cannot
// come from two sub-luminal massive particles and is reported as an
// *InvariantError.
func (t Totals) InvariantMass(u Units) (float64, error) {
	p4 := t.FourMomentum(u)
	m2 := p4.M2()
	if m2 < 0 || math.IsNaN(m2) {
		return 0, &InvariantError{Check: "invariant mass radicand E²-(pc)²", Got: m2, Want: 0}
	}
	return math.Sqrt(m2) / (u.C * u.C), nil
}
