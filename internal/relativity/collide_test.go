package relativity

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/relsim/internal/solver"
)

func collide(mode Mode, opts Options, m1, v1, m2, v2 float64) (*Outcome, error) {
	return Collide(Natural(), opts, Input{
		Particles: [2]Particle{{Mass: m1, Velocity: v1}, {Mass: m2, Velocity: v2}},
		Mode:      mode,
	})
}

var _ = Describe("Collide", func() {
	opts := DefaultOptions()

	Describe("inelastic", func() {
		It("matches the closed form for the reference case", func() {
			out, err := collide(Inelastic, opts, 1, 0.6, 1, -0.3)
			Expect(err).NotTo(HaveOccurred())

			g1 := 1.25
			g2 := 1 / math.Sqrt(1-0.09)
			Expect(g2).To(BeNumerically("~", 1.0483, 1e-4))

			e := g1 + g2
			p := g1*0.6 + g2*(-0.3)
			Expect(out.Totals.Energy).To(BeNumerically("~", e, 1e-12))
			Expect(out.Totals.Momentum).To(BeNumerically("~", p, 1e-12))

			res := out.Inelastic
			Expect(res).NotTo(BeNil())
			Expect(out.Elastic).To(BeNil())
			Expect(res.Velocity).To(BeNumerically("~", p/e, 1e-12))
			Expect(res.InvariantMass).To(BeNumerically("~", math.Sqrt(e*e-p*p), 1e-12))
			Expect(res.Gamma).To(BeNumerically("~", 1/math.Sqrt(1-(p/e)*(p/e)), 1e-12))
			Expect(res.Energy).To(Equal(out.Totals.Energy))
			Expect(res.Momentum).To(Equal(out.Totals.Momentum))
		})

		It("produces a composite heavier than its parts when they move", func() {
			out, err := collide(Inelastic, opts, 1, 0.9, 3, -0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Inelastic.InvariantMass).To(BeNumerically(">", 4))
			Expect(math.Abs(out.Inelastic.Velocity)).To(BeNumerically("<", 1))
		})

		It("leaves a particle pair at rest with the sum of masses", func() {
			out, err := collide(Inelastic, opts, 1.5, 0, 2.5, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Inelastic.InvariantMass).To(BeNumerically("~", 4, 1e-12))
			Expect(out.Inelastic.Velocity).To(BeNumerically("~", 0, 1e-15))
		})
	})

	Describe("elastic", func() {
		It("exchanges velocities for equal masses moving head on", func() {
			out, err := collide(Elastic, opts, 1, 0.6, 1, -0.6)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Elastic.Final[0].Velocity).To(BeNumerically("~", -0.6, 1e-6))
			Expect(out.Elastic.Final[1].Velocity).To(BeNumerically("~", 0.6, 1e-6))
			Expect(out.Elastic.Reseeded).To(BeFalse())
		})

		It("leaves particles without relative motion untouched", func() {
			out, err := collide(Elastic, opts, 2, 0.5, 2, 0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Elastic.Final[0].Velocity).To(Equal(0.5))
			Expect(out.Elastic.Final[1].Velocity).To(Equal(0.5))
		})

		It("bounces a light particle back off a heavy target", func() {
			out, err := collide(Elastic, opts, 1, 0.9, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Elastic.Final[0].Velocity).To(BeNumerically("<", 0))
			Expect(out.Elastic.Final[1].Velocity).To(BeNumerically(">", 0))
		})

		It("agrees with the closed form reflection", func() {
			newton, err := collide(Elastic, opts, 1, 0.7, 4, -0.2)
			Expect(err).NotTo(HaveOccurred())
			closed, err := collide(Elastic, Options{Method: MethodClosed}, 1, 0.7, 4, -0.2)
			Expect(err).NotTo(HaveOccurred())
			Expect(closed.Elastic.Method).To(Equal(MethodClosed))
			for i := 0; i < 2; i++ {
				Expect(newton.Elastic.Final[i].Velocity).To(BeNumerically("~", closed.Elastic.Final[i].Velocity, 1e-9))
			}
		})

		It("reports residuals close to zero", func() {
			out, err := collide(Elastic, opts, 1, 0.6, 1, -0.3)
			Expect(err).NotTo(HaveOccurred())
			Expect(math.Abs(out.Elastic.ResidualEnergy)).To(BeNumerically("<", 1e-9))
			Expect(math.Abs(out.Elastic.ResidualMomentum)).To(BeNumerically("<", 1e-9))
		})

		It("preserves each particle's rest mass", func() {
			out, err := collide(Elastic, opts, 0.5, 0.95, 2, -0.4)
			Expect(err).NotTo(HaveOccurred())
			masses := []float64{0.5, 2}
			for i, s := range out.Elastic.Final {
				Expect(s.Energy*s.Energy - s.Momentum*s.Momentum).To(BeNumerically("~", masses[i]*masses[i], 1e-9))
			}
		})
	})

	DescribeTable("conserves energy and momentum",
		func(mode Mode, m1, v1, m2, v2 float64) {
			for _, method := range []Method{MethodNewton, MethodClosed} {
				out, err := collide(mode, Options{Method: method, MaxIter: 100}, m1, v1, m2, v2)
				Expect(err).NotTo(HaveOccurred())
				final := out.FinalTotals()
				Expect(final.Energy).To(BeNumerically("~", out.Totals.Energy, 1e-6))
				Expect(final.Momentum).To(BeNumerically("~", out.Totals.Momentum, 1e-6))
			}
		},
		Entry("reference elastic", Elastic, 1.0, 0.6, 1.0, -0.3),
		Entry("unequal masses", Elastic, 1.0, 0.8, 5.0, -0.1),
		Entry("same direction", Elastic, 2.0, 0.9, 1.0, 0.2),
		Entry("heavy projectile", Elastic, 20.0, 0.5, 0.1, 0.0),
		Entry("near light", Elastic, 1.0, 0.999999, 1.0, -0.999),
		Entry("reference inelastic", Inelastic, 1.0, 0.6, 1.0, -0.3),
		Entry("inelastic near light", Inelastic, 0.1, -0.999999, 3.0, 0.7),
	)

	DescribeTable("mirrors under label swap and velocity negation",
		func(mode Mode, m1, v1, m2, v2 float64) {
			out, err := collide(mode, opts, m1, v1, m2, v2)
			Expect(err).NotTo(HaveOccurred())
			mirror, err := collide(mode, opts, m2, -v2, m1, -v1)
			Expect(err).NotTo(HaveOccurred())

			Expect(mirror.VCoM).To(BeNumerically("~", -out.VCoM, 1e-12))
			Expect(mirror.Totals.Energy).To(BeNumerically("~", out.Totals.Energy, 1e-12))

			switch mode {
			case Elastic:
				a, b := out.Elastic.Final, mirror.Elastic.Final
				Expect(b[0].Velocity).To(BeNumerically("~", -a[1].Velocity, 1e-6))
				Expect(b[1].Velocity).To(BeNumerically("~", -a[0].Velocity, 1e-6))
				Expect(b[0].Energy).To(BeNumerically("~", a[1].Energy, 1e-6))
				Expect(b[1].Energy).To(BeNumerically("~", a[0].Energy, 1e-6))
				Expect(b[0].Momentum).To(BeNumerically("~", -a[1].Momentum, 1e-6))
				Expect(b[1].Momentum).To(BeNumerically("~", -a[0].Momentum, 1e-6))
			case Inelastic:
				Expect(mirror.Inelastic.Velocity).To(BeNumerically("~", -out.Inelastic.Velocity, 1e-12))
				Expect(mirror.Inelastic.InvariantMass).To(BeNumerically("~", out.Inelastic.InvariantMass, 1e-12))
			}
		},
		Entry("elastic", Elastic, 1.0, 0.6, 3.0, -0.3),
		Entry("elastic same direction", Elastic, 2.0, 0.7, 1.0, 0.1),
		Entry("inelastic", Inelastic, 1.0, 0.6, 3.0, -0.3),
	)

	DescribeTable("rejects inputs outside the physical domain",
		func(m1, v1 float64, field string) {
			for _, mode := range []Mode{Elastic, Inelastic} {
				out, err := collide(mode, opts, m1, v1, 1, 0)
				Expect(out).To(BeNil())
				Expect(err).To(MatchError(ErrDomain))
				var de *DomainError
				Expect(err).To(BeAssignableToTypeOf(de))
				Expect(err.(*DomainError).Field).To(Equal(field))
			}
		},
		Entry("v = c", 1.0, 1.0, "v1"),
		Entry("v = -c", 1.0, -1.0, "v1"),
		Entry("v > c", 1.0, 1.5, "v1"),
		Entry("zero mass", 0.0, 0.5, "m1"),
		Entry("negative mass", -1.0, 0.5, "m1"),
	)

	It("names the second particle when it is the invalid one", func() {
		_, err := collide(Elastic, opts, 1, 0.5, 1, 1.0)
		Expect(err).To(MatchError(ErrDomain))
		Expect(err.(*DomainError).Field).To(Equal("v2"))
	})

	It("rejects an unknown mode", func() {
		_, err := collide(Mode("bounce"), opts, 1, 0.5, 1, -0.5)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown method", func() {
		_, err := collide(Elastic, Options{Method: "bisection"}, 1, 0.5, 1, -0.2)
		Expect(err).To(HaveOccurred())
	})

	It("falls back to the reflection seed when the swap seed runs out of budget", func() {
		out, err := collide(Elastic, Options{Method: MethodNewton, MaxIter: 1}, 1, 0.9, 7, -0.6)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Elastic.Reseeded).To(BeTrue())
		Expect(out.Elastic.Seed).To(Equal(SeedReflection))
	})

	Describe("when neither seed reaches tolerance", func() {
		BeforeEach(func() {
			orig := newNewton
			DeferCleanup(func() { newNewton = orig })
			// an unreachable tolerance makes every solve spend its budget
			newNewton = func(float64, int) *solver.Newton {
				return &solver.Newton{MaxIter: 2, Tol: -1, MaxStep: 2}
			}
		})

		It("fails with a convergence error and no outcome", func() {
			out, err := collide(Elastic, opts, 1, 0.9, 7, -0.6)
			Expect(out).To(BeNil())
			Expect(err).To(MatchError(ErrConvergence))
			Expect(err).To(MatchError(solver.ErrMaxIter))
			Expect(errors.Is(err, ErrInvariant)).To(BeFalse())

			var ce *ConvergenceError
			Expect(errors.As(err, &ce)).To(BeTrue())
			Expect(ce.Seed).To(Equal(SeedReflection))
			Expect(ce.Iterations).To(Equal(4))
		})

		It("leaves the closed form untouched", func() {
			out, err := collide(Elastic, Options{Method: MethodClosed}, 1, 0.9, 7, -0.6)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Elastic.Method).To(Equal(MethodClosed))
		})
	})

	It("finds the reflected root against a heavy target at small relative velocity", func() {
		m1, v1, m2, v2 := 1.0, 0.5, 1e6, 0.499999999
		g1, g2 := 1/math.Sqrt(1-v1*v1), 1/math.Sqrt(1-v2*v2)
		vcom := (m1*g1*v1 + m2*g2*v2) / (m1*g1 + m2*g2)
		// boost into the centre-of-momentum frame, reverse, boost back
		star := (v1 - vcom) / (1 - v1*vcom)
		want := (vcom - star) / (1 - star*vcom)
		Expect(want).To(BeNumerically("~", 0.499999998, 1e-9))

		for _, method := range []Method{MethodNewton, MethodClosed} {
			out, err := collide(Elastic, Options{Method: method}, m1, v1, m2, v2)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Elastic.Final[0].Velocity).To(BeNumerically("~", want, 1e-10))
			Expect(math.Abs(out.Elastic.ResidualEnergy)).To(BeNumerically("<", 1e-8))
			Expect(math.Abs(out.Elastic.ResidualMomentum)).To(BeNumerically("<", 1e-8))
		}
	})

	It("reports an outgoing speed that rounds to c as a precision failure", func() {
		for _, method := range []Method{MethodNewton, MethodClosed} {
			out, err := collide(Elastic, Options{Method: method}, 1000, 0.999999, 0.001, -0.999999)
			Expect(out).To(BeNil())
			Expect(err).To(MatchError(ErrPrecision))
			Expect(errors.Is(err, ErrInvariant)).To(BeFalse())

			var pe *PrecisionError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Field).To(Equal("v2'"))
			Expect(math.Abs(pe.Beta)).To(Equal(1.0))
			Expect(err.Error()).To(ContainSubstring("β"))
		}
	})
})

var _ = Describe("ParseMode", func() {
	DescribeTable("accepts known spellings",
		func(in string, want Mode) {
			got, err := ParseMode(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry(nil, "elastic", Elastic),
		Entry(nil, "Elastic", Elastic),
		Entry(nil, "perfectly_inelastic", Inelastic),
		Entry(nil, "Perfectly Inelastic", Inelastic),
		Entry(nil, "inelastic", Inelastic),
	)

	It("rejects garbage", func() {
		_, err := ParseMode("sticky")
		Expect(err).To(HaveOccurred())
	})
})
