package universe

import "gonum.org/v1/gonum/spatial/r2"

// Body is a point mass. Force and acceleration are scratch values written by
// Step; they describe the most recent step only.
type Body struct {
	mass         float64
	position     r2.Vec
	velocity     r2.Vec
	force        r2.Vec
	acceleration r2.Vec
	tag          string
}

// NewBody stores every field verbatim. mass is expected to be non-negative.
func NewBody(mass float64, position, velocity r2.Vec, tag string) Body {
	return Body{
		mass:     mass,
		position: position,
		velocity: velocity,
		tag:      tag,
	}
}

func (b Body) Mass() float64        { return b.mass }
func (b Body) Position() r2.Vec     { return b.position }
func (b Body) Velocity() r2.Vec     { return b.velocity }
func (b Body) Force() r2.Vec        { return b.force }
func (b Body) Acceleration() r2.Vec { return b.acceleration }
func (b Body) Tag() string          { return b.tag }

func (b *Body) SetMass(mass float64)     { b.mass = mass }
func (b *Body) SetPosition(p r2.Vec)     { b.position = p }
func (b *Body) SetVelocity(v r2.Vec)     { b.velocity = v }
func (b *Body) SetTag(tag string)        { b.tag = tag }
func (b *Body) SetForce(f r2.Vec)        { b.force = f }
func (b *Body) SetAcceleration(a r2.Vec) { b.acceleration = a }
