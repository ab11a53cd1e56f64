package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Projection maps simulation coordinates onto canvas sub-pixels. The origin
// sits at the canvas centre and y grows upwards.
type Projection struct {
	Scale  float64
	CX, CY float64
}

// NewProjection fits a universe of the given radius onto a canvas w by h
// sub-pixels: the display scale is the canvas half extent over the radius.
// A non-positive or non-finite radius gives a scale of 1.
func NewProjection(w, h int, radius float64) Projection {
	half := float64(min(w, h)) / 2
	scale := 1.0
	if radius > 0 && !math.IsInf(radius, 0) && !math.IsNaN(radius) {
		scale = half / radius
	}
	return Projection{Scale: scale, CX: float64(w) / 2, CY: float64(h) / 2}
}

// Apply returns the sub-pixel for simulation point p. The result may lie off
// the canvas; drawing clips it.
func (p Projection) Apply(v r2.Vec) (x, y int) {
	sx := p.CX + v.X*p.Scale
	sy := p.CY - v.Y*p.Scale
	return clampInt(sx), clampInt(sy)
}

// clampInt keeps far-away bodies from overflowing int conversion.
func clampInt(f float64) int {
	const limit = 1 << 30
	switch {
	case math.IsNaN(f):
		return -1
	case f > limit:
		return limit
	case f < -limit:
		return -limit
	}
	return int(math.Floor(f))
}
