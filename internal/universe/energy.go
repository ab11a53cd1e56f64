package universe

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

func (u *Universe) KineticEnergy() float64 {
	ke := 0.0
	for i := range u.bodies {
		b := &u.bodies[i]
		ke += 0.5 * b.mass * r2.Norm2(b.velocity)
	}
	return ke
}

// PotentialEnergy sums -G*mi*mj/r over distinct pairs. Coincident pairs are
// skipped, matching the force computation in Step.
func (u *Universe) PotentialEnergy() float64 {
	pe := 0.0
	for i := range u.bodies {
		for j := i + 1; j < len(u.bodies); j++ {
			r := r2.Norm(r2.Sub(u.bodies[j].position, u.bodies[i].position))
			if r == 0 {
				continue
			}
			pe -= G * u.bodies[i].mass * u.bodies[j].mass / r
		}
	}
	return pe
}

func (u *Universe) Energy() float64 {
	return u.KineticEnergy() + u.PotentialEnergy()
}

// Momentum is the total linear momentum.
func (u *Universe) Momentum() r2.Vec {
	var p r2.Vec
	for i := range u.bodies {
		p = r2.Add(p, r2.Scale(u.bodies[i].mass, u.bodies[i].velocity))
	}
	return p
}

// AngularMomentum is the z component of the total angular momentum about
// the origin.
func (u *Universe) AngularMomentum() float64 {
	l := 0.0
	for i := range u.bodies {
		b := &u.bodies[i]
		l += b.mass * r2.Cross(b.position, b.velocity)
	}
	return l
}

// CenterOfMass returns the mass-weighted mean position, or the origin when
// the total mass is zero.
func (u *Universe) CenterOfMass() r2.Vec {
	var c r2.Vec
	total := 0.0
	for i := range u.bodies {
		b := &u.bodies[i]
		c = r2.Add(c, r2.Scale(b.mass, b.position))
		total += b.mass
	}
	if total == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/total, c)
}

// MinSeparation returns the smallest pairwise distance, or +Inf with fewer
// than two bodies.
func (u *Universe) MinSeparation() float64 {
	best := math.Inf(1)
	for i := range u.bodies {
		for j := i + 1; j < len(u.bodies); j++ {
			r := r2.Norm(r2.Sub(u.bodies[j].position, u.bodies[i].position))
			if r < best {
				best = r
			}
		}
	}
	return best
}
