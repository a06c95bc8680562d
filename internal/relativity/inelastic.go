package relativity

// InelasticResult is the composite object left by a perfectly inelastic
// collision.
type InelasticResult struct {
	Velocity      float64 `json:"final_velocity"`
	Gamma         float64 `json:"final_gamma"`
	InvariantMass float64 `json:"invariant_mass"`
	Energy        float64 `json:"final_energy"`
	Momentum      float64 `json:"final_momentum"`
}

// ResolveInelastic merges the two particles. The composite moves with the
// centre-of-momentum velocity and carries the system totals unchanged.
func (u Units) ResolveInelastic(t Totals) (*InelasticResult, error) {
	mass, err := t.InvariantMass(u)
	if err != nil {
		return nil, err
	}

	vf := t.VCoM(u)
	g, err := u.Gamma(vf)
	if err != nil {
		return nil, &InvariantError{Check: "composite velocity below c", Got: vf, Want: u.C}
	}

	return &InelasticResult{
		Velocity:      vf,
		Gamma:         g,
		InvariantMass: mass,
		Energy:        t.Energy,
		Momentum:      t.Momentum,
	}, nil
}
