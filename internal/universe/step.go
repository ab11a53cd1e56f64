package universe

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// G is the Newtonian gravitational constant in SI units.
const G = 6.67430e-11

// minChunk is the smallest body range handed to a single worker.
const minChunk = 8

// Step advances the system by dt using semi-implicit Euler:
//
//	v' = v + a*dt
//	p' = p + v'*dt
//
// All forces come from the pre-step positions. A pair of bodies at the same
// position contributes no force, and a body of zero mass has zero
// acceleration. dt is expected to be positive.
func (u *Universe) Step(dt float64) {
	n := len(u.bodies)
	if n == 0 {
		return
	}
	u.ensureWorkspace(n)

	parallelFor(n, u.workers, minChunk, u.accumulate)

	for i := range u.bodies {
		b := &u.bodies[i]
		b.force = u.forces[i]
		b.acceleration = u.accels[i]

		v := r2.Add(b.velocity, r2.Scale(dt, b.acceleration))
		u.newVel[i] = v
		u.newPos[i] = r2.Add(b.position, r2.Scale(dt, v))
	}

	for i := range u.bodies {
		u.bodies[i].velocity = u.newVel[i]
		u.bodies[i].position = u.newPos[i]
	}
}

// accumulate fills the force and acceleration slots for bodies [start, end).
// It only reads u.bodies.
func (u *Universe) accumulate(start, end int) {
	for i := start; i < end; i++ {
		bi := &u.bodies[i]
		var f r2.Vec
		for j := range u.bodies {
			if i == j {
				continue
			}
			f = r2.Add(f, attraction(bi, &u.bodies[j]))
		}
		u.forces[i] = f
		if bi.mass == 0 {
			u.accels[i] = r2.Vec{}
		} else {
			u.accels[i] = r2.Scale(1/bi.mass, f)
		}
	}
}

// ForceBetween returns the force exerted on body i by body j at the current
// positions. It panics with an *IndexError for an invalid index.
func (u *Universe) ForceBetween(i, j int) r2.Vec {
	a, b := u.At(i), u.At(j)
	if i == j {
		return r2.Vec{}
	}
	return attraction(&a, &b)
}

// attraction is the force on a due to b, directed from a toward b.
func attraction(a, b *Body) r2.Vec {
	d := r2.Sub(b.position, a.position)
	dist2 := d.X*d.X + d.Y*d.Y
	if dist2 == 0 {
		return r2.Vec{}
	}
	dist := math.Sqrt(dist2)
	mag := G * a.mass * b.mass / dist2
	return r2.Scale(mag/dist, d)
}
