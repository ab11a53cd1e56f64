package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/universe"
)

// EnergyDrift reports the largest relative deviation of total energy from
// its first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(u *universe.Universe, t float64) {
	energy := u.Energy()

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift reports the largest change in total linear momentum,
// relative to the summed magnitudes of the individual body momenta at the
// first observation.
type MomentumDrift struct {
	name     string
	initial  r2.Vec
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(u *universe.Universe, t float64) {
	p := u.Momentum()
	if m.samples == 0 {
		m.initial = p
		m.scale = 0
		for i := 0; i < u.Len(); i++ {
			b := u.At(i)
			m.scale += b.Mass() * r2.Norm(b.Velocity())
		}
	}
	m.samples++

	if m.scale > 0 {
		m.maxDrift = math.Max(m.maxDrift, r2.Norm(r2.Sub(p, m.initial))/m.scale)
	}
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = r2.Vec{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
