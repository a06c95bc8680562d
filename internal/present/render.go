package present

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/relsim/internal/relativity"
)

const (
	defaultWidth    = 70
	defaultBarWidth = 40
	plotHeight      = 12
)

// Renderer writes human-readable reports to w.
type Renderer struct {
	w     io.Writer
	theme Theme
	st    styles

	Width    int
	BarWidth int
}

func NewRenderer(w io.Writer, theme Theme) *Renderer {
	return &Renderer{
		w:        w,
		theme:    theme,
		st:       theme.styles(),
		Width:    defaultWidth,
		BarWidth: defaultBarWidth,
	}
}

func (r *Renderer) Theme() Theme { return r.theme }

// FormatDelta renders a conservation residual with sign and exponent.
func FormatDelta(x float64) string {
	return fmt.Sprintf("%+.4e", x)
}

func (r *Renderer) kv(b *strings.Builder, label string, value string) {
	fmt.Fprintf(b, "  %s %s\n", r.st.label.Render(fmt.Sprintf("%-14s", label)), r.st.value.Render(value))
}

func (r *Renderer) particleBlock(b *strings.Builder, label string, m float64, k relativity.Kinematics, u relativity.Units) {
	b.WriteString(r.st.title.Render(label))
	b.WriteString("\n")
	r.kv(b, "mass", fmt.Sprintf("%.6g", m))
	r.kv(b, "velocity", fmt.Sprintf("%.6g (β = %.6f)", k.Velocity, u.Beta(k.Velocity)))
	r.kv(b, "gamma", fmt.Sprintf("%.6f", k.Gamma))
	r.kv(b, "momentum", fmt.Sprintf("%.6g", k.Momentum))
	r.kv(b, "energy", fmt.Sprintf("%.6g", k.Energy))
}

// Outcome prints the initial state, the final state, the conservation
// residuals and the centre-of-momentum velocity.
func (r *Renderer) Outcome(out *relativity.Outcome) error {
	var b strings.Builder
	u := out.Units

	b.WriteString(r.st.header.Render(fmt.Sprintf("%s collision  [%s]", out.Mode, u)))
	b.WriteString("\n\nInitial state\n")
	for i, k := range out.Kinematics {
		r.particleBlock(&b, fmt.Sprintf("particle %d", i+1), out.Initial[i].Mass, k, u)
	}
	r.kv(&b, "total energy", fmt.Sprintf("%.6g", out.Totals.Energy))
	r.kv(&b, "total momentum", fmt.Sprintf("%.6g", out.Totals.Momentum))

	b.WriteString("\nFinal state\n")
	switch {
	case out.Elastic != nil:
		e := out.Elastic
		for i, st := range e.Final {
			g, err := u.Gamma(st.Velocity)
			if err != nil {
				return err
			}
			k := relativity.Kinematics{Velocity: st.Velocity, Gamma: g, Momentum: st.Momentum, Energy: st.Energy}
			r.particleBlock(&b, fmt.Sprintf("particle %d", i+1), out.Initial[i].Mass, k, u)
		}
		solver := string(e.Method)
		switch {
		case out.Initial[0].Velocity == out.Initial[1].Velocity:
			solver += ", no relative motion"
		case e.Method == relativity.MethodNewton:
			solver = fmt.Sprintf("newton, %d iterations, %s seed", e.Iterations, e.Seed)
			if e.Reseeded {
				solver += " (reseeded)"
			}
		}
		r.kv(&b, "solver", solver)
	case out.Inelastic != nil:
		in := out.Inelastic
		b.WriteString(r.st.title.Render("composite"))
		b.WriteString("\n")
		r.kv(&b, "mass", fmt.Sprintf("%.6g", in.InvariantMass))
		r.kv(&b, "velocity", fmt.Sprintf("%.6g (β = %.6f)", in.Velocity, u.Beta(in.Velocity)))
		r.kv(&b, "gamma", fmt.Sprintf("%.6f", in.Gamma))
		r.kv(&b, "momentum", fmt.Sprintf("%.6g", in.Momentum))
		r.kv(&b, "energy", fmt.Sprintf("%.6g", in.Energy))
	}

	final := out.FinalTotals()
	dE := final.Energy - out.Totals.Energy
	dP := final.Momentum - out.Totals.Momentum
	b.WriteString("\nConservation\n")
	r.kv(&b, "ΔE", r.residual(dE, out.Totals.Energy, u.Tolerance))
	r.kv(&b, "Δp", r.residual(dP, out.Totals.Energy/u.C, u.Tolerance))
	r.kv(&b, "v_com", fmt.Sprintf("%.6g (β = %.6f)", out.VCoM, u.Beta(out.VCoM)))

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) residual(d, scale, tol float64) string {
	s := FormatDelta(d)
	if math.Abs(d) <= tol*math.Max(1, math.Abs(scale)) {
		return r.st.ok.Render(s)
	}
	return r.st.warn.Render(s)
}

type bar struct {
	label  string
	before float64
	after  float64
}

// Bars prints before/after comparison charts for energy and momentum:
// per particle for elastic outcomes, system totals for inelastic ones.
func (r *Renderer) Bars(out *relativity.Outcome) error {
	var energy, momentum []bar
	switch {
	case out.Elastic != nil:
		for i, k := range out.Kinematics {
			name := fmt.Sprintf("particle %d", i+1)
			energy = append(energy, bar{name, k.Energy, out.Elastic.Final[i].Energy})
			momentum = append(momentum, bar{name, k.Momentum, out.Elastic.Final[i].Momentum})
		}
	case out.Inelastic != nil:
		energy = append(energy, bar{"total", out.Totals.Energy, out.Inelastic.Energy})
		momentum = append(momentum, bar{"total", out.Totals.Momentum, out.Inelastic.Momentum})
	default:
		return fmt.Errorf("outcome has no final state")
	}

	var b strings.Builder
	r.chart(&b, "Energy", energy)
	b.WriteString("\n")
	r.chart(&b, "Momentum", momentum)
	_, err := io.WriteString(r.w, r.st.panel.Render(strings.TrimRight(b.String(), "\n"))+"\n")
	return err
}

func (r *Renderer) chart(b *strings.Builder, title string, bars []bar) {
	maxAbs := 0.0
	for _, br := range bars {
		maxAbs = math.Max(maxAbs, math.Max(math.Abs(br.before), math.Abs(br.after)))
	}
	b.WriteString(r.st.title.Render(title))
	b.WriteString("\n")
	for _, br := range bars {
		fmt.Fprintf(b, "  %-11s before %s %.6g\n", br.label, r.st.barA.Render(Bar(br.before, maxAbs, r.BarWidth)), br.before)
		fmt.Fprintf(b, "  %-11s after  %s %.6g\n", "", r.st.barB.Render(Bar(br.after, maxAbs, r.BarWidth)), br.after)
	}
}

// Bar draws |v|/limit of width cells behind a sign column.
func Bar(v, limit float64, width int) string {
	if width <= 0 {
		return ""
	}
	n := 0
	if limit > 0 {
		n = int(math.Round(math.Abs(v) / limit * float64(width)))
	}
	if n > width {
		n = width
	}
	sign := " "
	if v < 0 {
		sign = "-"
	}
	return sign + strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

// Relation prints the energy-momentum calculator report.
func (r *Renderer) Relation(rel relativity.Relation, u relativity.Units) error {
	var b strings.Builder
	b.WriteString(r.st.header.Render(fmt.Sprintf("energy-momentum  [%s]", u)))
	b.WriteString("\n")
	r.particleBlock(&b, "particle", rel.Mass, rel.Kinematics, u)
	r.kv(&b, "E²", fmt.Sprintf("%.10g", rel.EnergySquared))
	r.kv(&b, "(pc)²+(mc²)²", fmt.Sprintf("%.10g", rel.MomentumSquared+rel.RestSquared))
	if rel.Holds {
		r.kv(&b, "relation", r.st.ok.Render("holds"))
	} else {
		r.kv(&b, "relation", r.st.bad.Render("violated"))
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Plot draws one or more series on a shared ascii chart.
func (r *Renderer) Plot(caption string, series ...[]float64) error {
	if len(series) == 0 || len(series[0]) == 0 {
		return fmt.Errorf("nothing to plot")
	}
	opts := []asciigraph.Option{
		asciigraph.Height(plotHeight),
		asciigraph.Width(r.Width),
		asciigraph.Caption(caption),
	}
	if !r.theme.Plain && len(series) > 1 {
		opts = append(opts, asciigraph.SeriesColors(asciigraph.Red, asciigraph.Cyan, asciigraph.Yellow, asciigraph.Green))
	}
	graph := asciigraph.PlotMany(series, opts...)
	_, err := fmt.Fprintln(r.w, graph)
	return err
}

// MomentumCurve plots relativistic against Newtonian momentum.
func (r *Renderer) MomentumCurve(relativistic, newtonian []float64, vmax float64) error {
	caption := fmt.Sprintf("momentum vs velocity, 0 to %.3g (relativistic, newtonian)", vmax)
	return r.Plot(caption, relativistic, newtonian)
}

// Error prints err in the theme's error colour.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.w, r.st.bad.Render("error: ")+err.Error())
}
