package sim

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/universe"
)

// Metric accumulates a scalar over the states of a run.
type Metric interface {
	Name() string
	Observe(u *universe.Universe, t float64)
	Value() float64
	Reset()
}

// Observer is notified before every step.
type Observer interface {
	OnStep(u *universe.Universe, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            25000,
		Duration:      157788000,
		SampleEvery:   10,
		ValidateState: true,
	}
}

// BodyState is the kinematic part of a body at one sample.
type BodyState struct {
	Position r2.Vec
	Velocity r2.Vec
}

type Sample struct {
	Step   int
	Time   float64
	Bodies []BodyState
}

type Result struct {
	Tags        []string
	Samples     []Sample
	StepsTaken  int
	Time        float64
	Metrics     map[string]float64
	EnergyDrift float64
	Errors      []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func snapshot(u *universe.Universe, step int, t float64) Sample {
	s := Sample{Step: step, Time: t, Bodies: make([]BodyState, u.Len())}
	for i := range s.Bodies {
		b := u.At(i)
		s.Bodies[i] = BodyState{Position: b.Position(), Velocity: b.Velocity()}
	}
	return s
}

func tags(u *universe.Universe) []string {
	out := make([]string, u.Len())
	for i := range out {
		out[i] = u.At(i).Tag()
	}
	return out
}
