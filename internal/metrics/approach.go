package metrics

import (
	"math"

	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/universe"
)

// ClosestApproach is the minimum pairwise distance seen during a run.
// It reports zero when fewer than two bodies were ever observed.
type ClosestApproach struct {
	name string
	min  float64
}

func NewClosestApproach() *ClosestApproach {
	return &ClosestApproach{name: "closest_approach", min: math.Inf(1)}
}

func (c *ClosestApproach) Name() string { return c.name }

func (c *ClosestApproach) Observe(u *universe.Universe, t float64) {
	c.min = math.Min(c.min, u.MinSeparation())
}

func (c *ClosestApproach) Value() float64 {
	if math.IsInf(c.min, 1) {
		return 0
	}
	return c.min
}

func (c *ClosestApproach) Reset() { c.min = math.Inf(1) }

// Default returns a fresh set of the standard run metrics.
func Default() []sim.Metric {
	return []sim.Metric{
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewClosestApproach(),
		NewContainment(2),
	}
}
