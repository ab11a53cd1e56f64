package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/nbody/internal/config"
	"github.com/san-kum/nbody/internal/metrics"
	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/storage"
	"github.com/san-kum/nbody/internal/universe"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Exactly one of Preset and Snapshot names the
// initial state; Snapshot is a file path.
type ScenarioStep struct {
	Name        string  `yaml:"name"`
	Preset      string  `yaml:"preset"`
	Snapshot    string  `yaml:"snapshot"`
	Duration    float64 `yaml:"duration"`
	Dt          float64 `yaml:"dt"`
	Workers     int     `yaml:"workers"`
	SampleEvery int     `yaml:"sample_every"`
	Save        bool    `yaml:"save"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}

	return &scenario, nil
}

// Load returns the initial universe of the step.
func (s ScenarioStep) Load() (*universe.Universe, string, error) {
	switch {
	case s.Preset != "" && s.Snapshot != "":
		return nil, "", errors.New("preset and snapshot are mutually exclusive")
	case s.Preset != "":
		text, ok := config.GetPreset(s.Preset)
		if !ok {
			return nil, "", fmt.Errorf("unknown preset: %s", s.Preset)
		}
		u, err := universe.Parse(text)
		return u, "preset:" + s.Preset, err
	case s.Snapshot != "":
		f, err := os.Open(s.Snapshot)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		u, err := universe.Load(f)
		return u, s.Snapshot, err
	}
	return nil, "", errors.New("step needs a preset or a snapshot")
}

// Outcome is the result of one scenario step.
type Outcome struct {
	Step   ScenarioStep
	Source string
	RunID  string
	Result *sim.Result
	Final  *universe.Universe
}

// RunScenario executes all steps in order. Saved steps go to st, which may
// be nil when no step saves. Outcomes of completed steps are returned with
// the first error.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, log *slog.Logger) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("scenario step", "n", i+1, "of", len(scenario.Steps), "name", step.Name)

		u, source, err := step.Load()
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}
		if step.Workers > 0 {
			u.SetWorkers(step.Workers)
		}

		s := sim.New()
		for _, m := range metrics.Default() {
			s.AddMetric(m)
		}
		result, err := s.Run(ctx, u, sim.Config{
			Dt:            step.Dt,
			Duration:      step.Duration,
			SampleEvery:   step.SampleEvery,
			ValidateState: true,
		})
		if err != nil {
			return outcomes, fmt.Errorf("step %d run: %w", i+1, err)
		}
		if len(result.Errors) > 0 {
			return outcomes, fmt.Errorf("step %d: %w", i+1, result.Errors[0])
		}

		out := Outcome{Step: step, Source: source, Result: result, Final: u}
		if step.Save {
			if st == nil {
				return outcomes, fmt.Errorf("step %d: no store to save to", i+1)
			}
			if err := st.Init(); err != nil {
				return outcomes, err
			}
			out.RunID, err = st.Save(storage.RunMetadata{
				Source:   source,
				Dt:       step.Dt,
				Duration: step.Duration,
				Workers:  u.Workers(),
			}, result, u)
			if err != nil {
				return outcomes, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}

// MonteCarloConfig perturbs every velocity by a random fraction of its
// magnitude, up to Perturbation, and runs each trial independently.
// State validation is always on for trials.
type MonteCarloConfig struct {
	Perturbation float64
	NumTrials    int
	Containment  float64 // bodies must stay within this multiple of the radius
	Seed         int64
	Sim          sim.Config
}

// MonteCarloResult holds one trial.
type MonteCarloResult struct {
	TrialID     int
	EnergyDrift float64
	Contained   float64 // fraction of states with every body inside the bound
	Stable      bool
	Final       *universe.Universe
}

// RunMonteCarlo executes multiple trials with random perturbations of base,
// which is not modified.
func RunMonteCarlo(ctx context.Context, base *universe.Universe, cfg MonteCarloConfig, log *slog.Logger) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.NumTrials)
	}
	if cfg.Containment <= 0 {
		cfg.Containment = 1
	}
	// A NaN position never trips the containment bound.
	cfg.Sim.ValidateState = true

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		u := perturbed(base, rng, cfg.Perturbation)

		containment := metrics.NewContainment(cfg.Containment)
		s := sim.New()
		s.AddMetric(containment)

		result, err := s.Run(ctx, u, cfg.Sim)
		if err != nil {
			return results, err
		}

		contained := result.Metrics[containment.Name()]
		results = append(results, MonteCarloResult{
			TrialID:     trial,
			EnergyDrift: result.EnergyDrift,
			Contained:   contained,
			Stable:      len(result.Errors) == 0 && contained == 1,
			Final:       u,
		})

		if (trial+1)%10 == 0 {
			log.Debug("monte carlo", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// perturbed returns a copy of base with every velocity kicked by up to frac
// of its own magnitude in each component.
func perturbed(base *universe.Universe, rng *rand.Rand, frac float64) *universe.Universe {
	u := universe.New(base.Radius())
	u.SetWorkers(base.Workers())
	for _, b := range base.Bodies() {
		v := b.Velocity()
		kick := r2.Scale(frac*r2.Norm(v), r2.Vec{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1})
		b.SetVelocity(r2.Add(v, kick))
		u.Add(b)
	}
	return u
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
