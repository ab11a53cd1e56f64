package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/nbody/internal/config"
	"github.com/san-kum/nbody/internal/metrics"
	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/storage"
	"github.com/san-kum/nbody/internal/universe"
	"github.com/san-kum/nbody/internal/viz"
)

// sourceFlags select where the initial snapshot comes from.
type sourceFlags struct {
	input  string
	preset string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "snapshot file (default stdin)")
	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "use a built-in snapshot")
}

// apply lets explicit flags replace the config's source. The two are
// mutually exclusive, so setting one clears the other.
func (f *sourceFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("input") {
		cfg.Snapshot, cfg.Preset = f.input, ""
	}
	if cmd.Flags().Changed("preset") {
		cfg.Preset, cfg.Snapshot = f.preset, ""
	}
}

// timeArgs accepts either nothing or "<time> <dt>".
func timeArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return fmt.Errorf("want <time> <dt>, got %d argument(s)", len(args))
	}
	return nil
}

func parsePositive(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	if !(v > 0) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be positive and finite, got %s", name, s)
	}
	return v, nil
}

func applyTimes(cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return nil
	}
	duration, err := parsePositive("time", args[0])
	if err != nil {
		return err
	}
	dt, err := parsePositive("dt", args[1])
	if err != nil {
		return err
	}
	cfg.Duration, cfg.Dt = duration, dt
	return nil
}

// loadUniverse reads the initial state named by cfg and returns it with a
// short description of where it came from.
func loadUniverse(cmd *cobra.Command, cfg *config.Config) (*universe.Universe, string, error) {
	if cfg.Preset != "" {
		text, ok := config.GetPreset(cfg.Preset)
		if !ok {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", cfg.Preset, config.ListPresets())
		}
		u, err := universe.Parse(text)
		return u, "preset:" + cfg.Preset, err
	}

	var r io.Reader = cmd.InOrStdin()
	source := "-"
	if cfg.Snapshot != "" && cfg.Snapshot != "-" {
		f, err := os.Open(cfg.Snapshot)
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		r, source = f, cfg.Snapshot
	}
	u, err := universe.Load(r)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", source, err)
	}
	return u, source, nil
}

// progress logs at debug level every n steps.
type progress struct {
	log   *slog.Logger
	every int
	steps int
}

func (p *progress) OnStep(u *universe.Universe, t float64) {
	if p.every > 0 && p.steps%p.every == 0 {
		p.log.Debug("step", "n", p.steps, "t", t, "energy", u.Energy())
	}
	p.steps++
}

func (c *cli) runCmd() *cobra.Command {
	var (
		src     sourceFlags
		workers int
		sample  int
		save    bool
		noCheck bool
	)
	cmd := &cobra.Command{
		Use:   "run [<time> <dt>]",
		Short: "simulate and print the final snapshot",
		Long:  "Reads a universe snapshot, advances it until the elapsed time reaches <time>\n" +
			"in steps of <dt> seconds, and writes the final snapshot to stdout.",
		Args: timeArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			src.apply(cmd, cfg)
			if err := applyTimes(cfg, args); err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("sample") {
				cfg.SampleEvery = sample
			}
			if noCheck {
				cfg.ValidateState = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			u, source, err := loadUniverse(cmd, cfg)
			if err != nil {
				return err
			}
			u.SetWorkers(cfg.Workers)

			s := sim.New()
			for _, m := range metrics.Default() {
				s.AddMetric(m)
			}
			s.AddObserver(&progress{log: c.log, every: 1000})

			c.log.Info("running", "source", source, "bodies", u.Len(), "time", cfg.Duration, "dt", cfg.Dt, "workers", cfg.Workers)
			start := time.Now()
			result, err := s.Run(cmd.Context(), u, sim.Config{
				Dt:            cfg.Dt,
				Duration:      cfg.Duration,
				SampleEvery:   cfg.SampleEvery,
				ValidateState: cfg.ValidateState,
			})
			if err != nil {
				// Interrupted: emit the state reached so far.
				if result != nil {
					c.log.Warn("interrupted", "steps", result.StepsTaken, "t", result.Time)
					if _, werr := u.WriteTo(cmd.OutOrStdout()); werr != nil {
						return werr
					}
				}
				return err
			}
			if len(result.Errors) > 0 {
				return result.Errors[0]
			}
			c.log.Info("completed", "elapsed", time.Since(start), "steps", result.StepsTaken, "energy_drift", result.EnergyDrift)
			for name, val := range result.Metrics {
				c.log.Debug("metric", "name", name, "value", val)
			}

			if save {
				st := storage.New(cfg.DataDir)
				if err := st.Init(); err != nil {
					return err
				}
				id, err := st.Save(storage.RunMetadata{
					Source:   source,
					Dt:       cfg.Dt,
					Duration: cfg.Duration,
					Workers:  cfg.Workers,
				}, result, u)
				if err != nil {
					return err
				}
				c.log.Info("saved", "run", id, "dir", cfg.DataDir)
			}

			_, err = u.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	src.register(cmd)
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "goroutines for the force computation")
	cmd.Flags().IntVar(&sample, "sample", config.DefaultSampleEvery, "record every n-th step when saving (0 keeps only the endpoints)")
	cmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")
	cmd.Flags().BoolVar(&noCheck, "no-check", false, "do not stop on non-finite state")
	return cmd
}

func (c *cli) liveCmd() *cobra.Command {
	var (
		src     sourceFlags
		fps     int
		speed   int
		workers int
	)
	cmd := &cobra.Command{
		Use:   "live [<time> <dt>]",
		Short: "simulate with a live terminal view",
		Args:  timeArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			src.apply(cmd, cfg)
			if err := applyTimes(cfg, args); err != nil {
				return err
			}
			if cmd.Flags().Changed("fps") {
				cfg.View.FPS = fps
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			u, _, err := loadUniverse(cmd, cfg)
			if err != nil {
				return err
			}
			u.SetWorkers(cfg.Workers)

			m, err := viz.Run(cmd.Context(), u, viz.Options{
				Dt:            cfg.Dt,
				Duration:      cfg.Duration,
				Width:         cfg.View.Width,
				Height:        cfg.View.Height,
				FPS:           cfg.View.FPS,
				StepsPerFrame: speed,
			})
			if err != nil {
				return err
			}
			c.log.Info("live view closed", "elapsed", m.Elapsed(), "steps", m.Steps(), "finished", m.Done())

			_, err = u.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	src.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().IntVar(&speed, "speed", 1, "steps per frame")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "goroutines for the force computation")
	return cmd
}

func (c *cli) compareCmd() *cobra.Command {
	var src sourceFlags
	cmd := &cobra.Command{
		Use:   "compare <time> <dt>...",
		Short: "run the same universe at several time steps",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			src.apply(cmd, cfg)
			duration, err := parsePositive("time", args[0])
			if err != nil {
				return err
			}
			dts := make([]float64, 0, len(args)-1)
			for _, a := range args[1:] {
				dt, err := parsePositive("dt", a)
				if err != nil {
					return err
				}
				dts = append(dts, dt)
			}
			cfg.Duration, cfg.Dt = duration, dts[0]
			if err := cfg.Validate(); err != nil {
				return err
			}

			u, source, err := loadUniverse(cmd, cfg)
			if err != nil {
				return err
			}
			c.log.Info("comparing", "source", source, "dts", dts)

			results, err := sim.NewSweep(dts, metrics.Default).Run(cmd.Context(), u, sim.Config{
				Duration:      cfg.Duration,
				ValidateState: cfg.ValidateState,
			})
			if err != nil {
				return err
			}
			return writeComparison(cmd.OutOrStdout(), dts, results)
		},
	}
	src.register(cmd)
	return cmd
}
