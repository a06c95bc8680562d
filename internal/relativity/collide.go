package relativity

import (
	"fmt"
	"strings"
)

// Mode selects the collision regime.
type Mode string

const (
	Elastic   Mode = "elastic"
	Inelastic Mode = "inelastic"
)

// ParseMode accepts "elastic", "inelastic" and "perfectly_inelastic"
// (or "perfectly-inelastic").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "elastic":
		return Elastic, nil
	case "inelastic", "perfectly_inelastic", "perfectly-inelastic", "perfectly inelastic":
		return Inelastic, nil
	}
	return "", fmt.Errorf("unknown collision mode: %q (want elastic or inelastic)", s)
}

// Options tune the elastic resolver.
type Options struct {
	Method  Method `json:"method" yaml:"method" toml:"method"`
	MaxIter int    `json:"max_iter" yaml:"max_iter" toml:"max_iter"`
}

func DefaultOptions() Options {
	return Options{Method: MethodNewton, MaxIter: 100}
}

// Input is one collision request.
type Input struct {
	Particles [2]Particle `json:"particles"`
	Mode      Mode        `json:"mode"`
}

// Outcome is the full record of one collision.
type Outcome struct {
	Units      Units            `json:"units"`
	Mode       Mode             `json:"mode"`
	Initial    [2]Particle      `json:"initial"`
	Kinematics [2]Kinematics    `json:"kinematics"`
	Totals     Totals           `json:"totals"`
	VCoM       float64          `json:"v_com"`
	Inelastic  *InelasticResult `json:"inelastic,omitempty"`
	Elastic    *ElasticResult   `json:"elastic,omitempty"`
}

// Validate checks both particles and the mode without computing anything.
func (in Input) Validate(u Units) error {
	if err := u.Validate(); err != nil {
		return err
	}
	for i, p := range in.Particles {
		if err := p.Validate(u, fmt.Sprint(i+1)); err != nil {
			return err
		}
	}
	if in.Mode != Elastic && in.Mode != Inelastic {
		return fmt.Errorf("unknown collision mode: %q", in.Mode)
	}
	return nil
}

// Collide validates the input, aggregates the conserved totals and
// resolves the collision in the requested mode.
func Collide(u Units, opts Options, in Input) (*Outcome, error) {
	if err := in.Validate(u); err != nil {
		return nil, err
	}
	if opts.Method == "" {
		opts.Method = MethodNewton
	}

	out := &Outcome{
		Units:   u,
		Mode:    in.Mode,
		Initial: in.Particles,
	}
	for i, p := range in.Particles {
		k, err := u.Kinematics(p)
		if err != nil {
			return nil, err
		}
		out.Kinematics[i] = k
	}
	out.Totals = u.Aggregate(out.Kinematics[0], out.Kinematics[1])
	out.VCoM = out.Totals.VCoM(u)

	var err error
	switch in.Mode {
	case Inelastic:
		out.Inelastic, err = u.ResolveInelastic(out.Totals)
	case Elastic:
		out.Elastic, err = u.ResolveElastic(in.Particles, out.Totals, opts)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FinalTotals recomputes the system totals from the post-collision state.
func (o *Outcome) FinalTotals() Totals {
	switch {
	case o.Inelastic != nil:
		return Totals{Energy: o.Inelastic.Energy, Momentum: o.Inelastic.Momentum}
	case o.Elastic != nil:
		return Totals{
			Energy:   o.Elastic.Final[0].Energy + o.Elastic.Final[1].Energy,
			Momentum: o.Elastic.Final[0].Momentum + o.Elastic.Final[1].Momentum,
		}
	}
	return Totals{}
}
