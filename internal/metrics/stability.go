package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/universe"
)

// Containment is the fraction of observed states in which every body lies
// within factor*radius of the origin.
type Containment struct {
	name       string
	factor     float64
	violations int
	samples    int
}

func NewContainment(factor float64) *Containment {
	return &Containment{
		name:   "containment",
		factor: factor,
	}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(u *universe.Universe, t float64) {
	c.samples++
	limit := c.factor * u.Radius()
	for i := 0; i < u.Len(); i++ {
		if r2.Norm(u.At(i).Position()) > limit {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
