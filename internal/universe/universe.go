package universe

import "gonum.org/v1/gonum/spatial/r2"

// Universe is an ordered collection of bodies and a domain radius.
// A body's index is stable for the lifetime of the Universe.
type Universe struct {
	bodies  []Body
	radius  float64
	workers int

	// per-step workspace, indexed like bodies
	forces []r2.Vec
	accels []r2.Vec
	newPos []r2.Vec
	newVel []r2.Vec
}

// New returns an empty Universe with the given radius.
func New(radius float64) *Universe {
	return &Universe{radius: radius, workers: 1}
}

// Len reports the number of bodies.
func (u *Universe) Len() int { return len(u.bodies) }

// Radius is the characteristic domain scale. Step does not read it.
func (u *Universe) Radius() float64 { return u.radius }

func (u *Universe) SetRadius(radius float64) { u.radius = radius }

// Workers reports how many goroutines Step may use for force accumulation.
func (u *Universe) Workers() int { return u.workers }

// SetWorkers sets the force accumulation parallelism. Values below one are
// treated as one.
func (u *Universe) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	u.workers = n
}

// Add appends b; its index is the previous Len.
func (u *Universe) Add(b Body) {
	u.bodies = append(u.bodies, b)
}

// At returns a copy of body i. It panics with an *IndexError when i is out
// of range.
func (u *Universe) At(i int) Body {
	if i < 0 || i >= len(u.bodies) {
		panic(&IndexError{Index: i, Len: len(u.bodies)})
	}
	return u.bodies[i]
}

// Body is the checked form of At.
func (u *Universe) Body(i int) (Body, error) {
	if i < 0 || i >= len(u.bodies) {
		return Body{}, &IndexError{Index: i, Len: len(u.bodies)}
	}
	return u.bodies[i], nil
}

// Bodies returns a copy of the body sequence in index order.
func (u *Universe) Bodies() []Body {
	out := make([]Body, len(u.bodies))
	copy(out, u.bodies)
	return out
}

// Clone returns an independent deep copy. The workspace is not shared.
func (u *Universe) Clone() *Universe {
	c := &Universe{radius: u.radius, workers: u.workers}
	c.bodies = u.Bodies()
	return c
}

func (u *Universe) ensureWorkspace(n int) {
	if len(u.forces) == n {
		return
	}
	u.forces = make([]r2.Vec, n)
	u.accels = make([]r2.Vec, n)
	u.newPos = make([]r2.Vec, n)
	u.newVel = make([]r2.Vec, n)
}
