package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/nbody/internal/automation"
	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/storage"
)

func (c *cli) scenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario <file.yaml>",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			outcomes, err := automation.RunScenario(cmd.Context(), sc, storage.New(cfg.DataDir), c.log)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STEP\tSOURCE\tSTEPS\tENERGY_DRIFT\tRUN_ID")
			for i, o := range outcomes {
				name := o.Step.Name
				if name == "" {
					name = fmt.Sprint(i + 1)
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%.3e\t%s\n", name, o.Source, o.Result.StepsTaken, o.Result.EnergyDrift, o.RunID)
			}
			if ferr := w.Flush(); err == nil {
				err = ferr
			}
			return err
		},
	}
}

func (c *cli) monteCarloCmd() *cobra.Command {
	var (
		src     sourceFlags
		trials  int
		perturb float64
		bound   float64
		seed    int64
	)
	cmd := &cobra.Command{
		Use:   "montecarlo [<time> <dt>]",
		Short: "test how often small velocity kicks keep the system bounded",
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
			if err := cfg.Validate(); err != nil {
				return err
			}
			u, source, err := loadUniverse(cmd, cfg)
			if err != nil {
				return err
			}
			u.SetWorkers(cfg.Workers)

			c.log.Info("monte carlo", "source", source, "trials", trials, "perturbation", perturb)
			results, err := automation.RunMonteCarlo(cmd.Context(), u, automation.MonteCarloConfig{
				Perturbation: perturb,
				NumTrials:    trials,
				Containment:  bound,
				Seed:         seed,
				Sim: sim.Config{
					Dt:            cfg.Dt,
					Duration:      cfg.Duration,
					ValidateState: cfg.ValidateState,
				},
			}, c.log)
			if err != nil {
				return err
			}

			stable, unstable := automation.MonteCarloStats(results)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "trials:   %d\n", len(results))
			fmt.Fprintf(out, "stable:   %d\n", stable)
			fmt.Fprintf(out, "unstable: %d\n", unstable)
			return nil
		},
	}
	src.register(cmd)
	cmd.Flags().IntVarP(&trials, "trials", "n", 20, "number of trials")
	cmd.Flags().Float64Var(&perturb, "perturb", 0.01, "largest velocity kick as a fraction of speed")
	cmd.Flags().Float64Var(&bound, "bound", 1, "containment bound as a multiple of the radius")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	return cmd
}
