package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/nbody/internal/universe"
)

// Simulator drives a Universe with a fixed time step.
type Simulator struct {
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps u in place while the elapsed time is below cfg.Duration. The
// time after k steps is k*cfg.Dt. Metrics see every state including the
// final one. Cancellation is checked between steps; on cancellation the
// partial result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, u *universe.Universe, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Tags:    tags(u),
		Samples: make([]Sample, 0, 2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	result.Samples = append(result.Samples, snapshot(u, 0, t))
	initialEnergy := u.Energy()

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			result.Time = t
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(u, t)
		}

		u.Step(cfg.Dt)
		result.StepsTaken++
		t = float64(result.StepsTaken) * cfg.Dt

		if cfg.ValidateState && !finite(u) {
			err := SimError{Time: t, Step: result.StepsTaken, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			break
		}

		if cfg.SampleEvery > 0 && result.StepsTaken%cfg.SampleEvery == 0 {
			result.Samples = append(result.Samples, snapshot(u, result.StepsTaken, t))
		}
	}

	result.Time = t
	if len(result.Errors) == 0 {
		if last := result.Samples[len(result.Samples)-1]; last.Step != result.StepsTaken {
			result.Samples = append(result.Samples, snapshot(u, result.StepsTaken, t))
		}
		for _, m := range s.metrics {
			m.Observe(u, t)
		}
	}

	finalEnergy := u.Energy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %g", cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %g", cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d", cfg.SampleEvery)
	}
	return nil
}

func finite(u *universe.Universe) bool {
	for i := 0; i < u.Len(); i++ {
		b := u.At(i)
		for _, v := range [...]float64{b.Position().X, b.Position().Y, b.Velocity().X, b.Velocity().Y} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
