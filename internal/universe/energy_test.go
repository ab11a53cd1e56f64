package universe_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/universe"
)

var _ = Describe("diagnostics", func() {
	var u *universe.Universe

	BeforeEach(func() {
		u = universe.New(10)
		u.Add(universe.NewBody(1e10, r2.Vec{X: -1}, r2.Vec{Y: 1}, "a.gif"))
		u.Add(universe.NewBody(1e10, r2.Vec{X: 1}, r2.Vec{Y: -1}, "b.gif"))
	})

	It("computes kinetic and potential energy", func() {
		Expect(u.KineticEnergy()).To(BeNumerically("~", 1e10, 1e-3))
		Expect(u.PotentialEnergy()).To(BeNumerically("~", -universe.G*1e20/2, 1e-3))
		Expect(u.Energy()).To(BeNumerically("~", u.KineticEnergy()+u.PotentialEnergy(), 1e-3))
	})

	It("computes momentum, angular momentum and center of mass", func() {
		Expect(u.Momentum()).To(Equal(r2.Vec{}))
		Expect(u.AngularMomentum()).To(BeNumerically("~", -2e10, 1e-3))
		Expect(u.CenterOfMass()).To(Equal(r2.Vec{}))
	})

	It("finds the closest pair", func() {
		Expect(u.MinSeparation()).To(Equal(2.0))
		Expect(mustParse(solarSnapshot).MinSeparation()).To(BeNumerically("~", 4.14e10, 1))
		Expect(math.IsInf(universe.New(1).MinSeparation(), 1)).To(BeTrue())
	})

	It("returns the origin as center of a massless system", func() {
		m := universe.New(1)
		m.Add(universe.NewBody(0, r2.Vec{X: 3, Y: 4}, r2.Vec{}, "ghost.gif"))
		Expect(m.CenterOfMass()).To(Equal(r2.Vec{}))
	})

	It("keeps a circular orbit's energy bounded over a year", func() {
		const (
			sunMass = 1.989e30
			au      = 1.496e11
		)
		orbit := universe.New(2 * au)
		orbit.Add(universe.NewBody(sunMass, r2.Vec{}, r2.Vec{}, "sun.gif"))
		v := math.Sqrt(universe.G * sunMass / au)
		orbit.Add(universe.NewBody(5.974e24, r2.Vec{X: au}, r2.Vec{Y: v}, "earth.gif"))

		e0 := orbit.Energy()
		worst := 0.0
		for i := 0; i < 8766; i++ {
			orbit.Step(3600)
			worst = math.Max(worst, math.Abs((orbit.Energy()-e0)/e0))
		}
		Expect(worst).To(BeNumerically("<", 5e-3))
		Expect(r2.Norm(orbit.At(1).Position())).To(BeNumerically("~", au, 0.01*au))
	})
})
