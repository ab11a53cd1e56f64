package universe_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/universe"
)

func twoBody(sep float64) *universe.Universe {
	u := universe.New(10)
	u.Add(universe.NewBody(1e10, r2.Vec{}, r2.Vec{}, "a.gif"))
	u.Add(universe.NewBody(1e10, r2.Vec{X: sep}, r2.Vec{}, "b.gif"))
	return u
}

var _ = Describe("Step", func() {
	It("moves every body of the solar fixture", func() {
		u := mustParse(solarSnapshot)
		before := u.Bodies()

		u.Step(3600)

		for i, b := range before {
			Expect(u.At(i).Position()).NotTo(Equal(b.Position()), "body %d position", i)
			Expect(u.At(i).Velocity()).NotTo(Equal(b.Velocity()), "body %d velocity", i)
		}
	})

	It("stores the net force and acceleration", func() {
		u := twoBody(1)
		u.Step(0.1)

		f := universe.G * 1e10 * 1e10
		expectVecClose(0, u.At(0).Force(), r2.Vec{X: f}, 1e-12)
		expectVecClose(0, u.At(1).Force(), r2.Vec{X: -f}, 1e-12)
		expectVecClose(0, u.At(0).Acceleration(), r2.Vec{X: f / 1e10}, 1e-12)
	})

	It("advances position with the updated velocity", func() {
		u := twoBody(1)
		dt := 0.1
		u.Step(dt)

		a := universe.G * 1e10
		v := a * dt
		Expect(u.At(0).Velocity().X).To(BeNumerically("~", v, 1e-15))
		Expect(u.At(0).Position().X).To(BeNumerically("~", v*dt, 1e-15))
		Expect(u.At(0).Position().X).NotTo(BeZero())
		Expect(u.At(1).Position().X).To(BeNumerically("~", 1-v*dt, 1e-15))
	})

	It("does nothing on an empty universe", func() {
		u := universe.New(1)
		Expect(func() { u.Step(10) }).NotTo(Panic())
		Expect(u.Len()).To(BeZero())
	})

	It("moves a lone body in a straight line", func() {
		b := universe.NewBody(5, r2.Vec{X: 1}, r2.Vec{X: 2, Y: 3}, "lone.gif")
		b.SetForce(r2.Vec{X: 100, Y: 100})
		b.SetAcceleration(r2.Vec{X: 100, Y: 100})
		u := universe.New(1)
		u.Add(b)

		u.Step(2)

		Expect(u.At(0).Force()).To(Equal(r2.Vec{}))
		Expect(u.At(0).Acceleration()).To(Equal(r2.Vec{}))
		Expect(u.At(0).Position()).To(Equal(r2.Vec{X: 5, Y: 6}))
		Expect(u.At(0).Velocity()).To(Equal(r2.Vec{X: 2, Y: 3}))
	})

	It("is not idempotent", func() {
		once, twice := mustParse(solarSnapshot), mustParse(solarSnapshot)
		once.Step(3600)
		twice.Step(3600)
		twice.Step(3600)
		Expect(twice.String()).NotTo(Equal(once.String()))
	})

	It("is deterministic across independent loads", func() {
		a, b := mustParse(solarSnapshot), mustParse(solarSnapshot)
		for i := 0; i < 2; i++ {
			a.Step(3600)
			b.Step(3600)
		}
		Expect(a.Bodies()).To(Equal(b.Bodies()))
	})

	It("does not depend on insertion order", func() {
		u := mustParse(solarSnapshot)
		rev := universe.New(u.Radius())
		bodies := u.Bodies()
		for i := len(bodies) - 1; i >= 0; i-- {
			rev.Add(bodies[i])
		}

		u.Step(3600)
		rev.Step(3600)

		n := u.Len()
		for i := 0; i < n; i++ {
			expectVecClose(0, rev.At(n-1-i).Position(), u.At(i).Position(), 1e-12)
			expectVecClose(0, rev.At(n-1-i).Velocity(), u.At(i).Velocity(), 1e-12)
		}
	})

	It("gives identical results with parallel force accumulation", func() {
		serial, par := ring(40), ring(40)
		par.SetWorkers(4)
		Expect(par.Workers()).To(Equal(4))

		for i := 0; i < 3; i++ {
			serial.Step(60)
			par.Step(60)
		}
		Expect(par.Bodies()).To(Equal(serial.Bodies()))
	})

	It("conserves linear momentum over a step", func() {
		u := mustParse(solarSnapshot)
		p0 := u.Momentum()
		u.Step(3600)
		tol := 1e-9 * r2.Norm(p0)
		Expect(r2.Norm(r2.Sub(u.Momentum(), p0))).To(BeNumerically("<", tol))
	})

	Context("with degenerate input", func() {
		It("gives zero acceleration to a zero-mass body", func() {
			u := universe.New(10)
			u.Add(universe.NewBody(1e20, r2.Vec{}, r2.Vec{}, "star.gif"))
			u.Add(universe.NewBody(0, r2.Vec{X: 1}, r2.Vec{Y: 1}, "dust.gif"))

			u.Step(1)

			Expect(u.At(1).Acceleration()).To(Equal(r2.Vec{}))
			Expect(u.At(1).Position()).To(Equal(r2.Vec{X: 1, Y: 1}))
			Expect(u.At(0).Position()).To(Equal(r2.Vec{}))
		})

		It("skips coincident pairs", func() {
			u := universe.New(10)
			u.Add(universe.NewBody(1e10, r2.Vec{}, r2.Vec{}, "a.gif"))
			u.Add(universe.NewBody(1e10, r2.Vec{}, r2.Vec{}, "b.gif"))
			u.Add(universe.NewBody(1e10, r2.Vec{X: 1}, r2.Vec{}, "c.gif"))

			Expect(u.ForceBetween(0, 1)).To(Equal(r2.Vec{}))
			u.Step(0.1)

			Expect(u.At(0).Force()).To(Equal(u.At(1).Force()))
			Expect(u.At(0).Force().X).To(BeNumerically(">", 0))
			for i := 0; i < u.Len(); i++ {
				p := u.At(i).Position()
				Expect(math.IsNaN(p.X) || math.IsNaN(p.Y)).To(BeFalse())
				Expect(math.IsInf(p.X, 0) || math.IsInf(p.Y, 0)).To(BeFalse())
			}
		})
	})
})

var _ = Describe("ForceBetween", func() {
	It("obeys Newton's third law and attracts", func() {
		u := mustParse(solarSnapshot)
		for i := 0; i < u.Len(); i++ {
			for j := 0; j < u.Len(); j++ {
				if i == j {
					continue
				}
				fij, fji := u.ForceBetween(i, j), u.ForceBetween(j, i)
				expectVecClose(0, fij, r2.Scale(-1, fji), 1e-12)

				away := r2.Sub(u.At(i).Position(), u.At(j).Position())
				Expect(r2.Dot(fij, away)).To(BeNumerically("<", 0), "pair %d,%d", i, j)
			}
		}
	})

	It("follows the inverse-square law", func() {
		near, far := twoBody(1), twoBody(2)
		fn := r2.Norm(near.ForceBetween(0, 1))
		ff := r2.Norm(far.ForceBetween(0, 1))
		Expect(fn / ff).To(BeNumerically("~", 4, 1e-12))
		Expect(fn).To(BeNumerically("~", universe.G*1e20, 1e-3))
	})

	It("is zero for a body on itself", func() {
		Expect(twoBody(1).ForceBetween(1, 1)).To(Equal(r2.Vec{}))
	})
})
