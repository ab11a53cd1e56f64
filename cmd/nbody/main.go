package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/nbody/internal/config"
)

// cli carries the persistent flags shared by every command.
type cli struct {
	dataDir    string
	configFile string
	verbose    bool
	log        *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "nbody",
		Short:        "2-D Newtonian n-body simulator",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if c.verbose {
				level = slog.LevelDebug
			}
			c.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	root.PersistentFlags().StringVar(&c.dataDir, "data", config.DefaultDataDir, "data directory for saved runs")
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file path (yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		c.runCmd(),
		c.liveCmd(),
		c.compareCmd(),
		c.scenarioCmd(),
		c.monteCarloCmd(),
		c.listCmd(),
		c.plotCmd(),
		c.analyzeCmd(),
		c.exportJSONCmd(),
		c.svgCmd(),
		presetsCmd(),
		snapshotCmd(),
	)
	return root
}

// loadConfig returns the config file named by --config, or the defaults,
// with --data applied when it was given explicitly.
func (c *cli) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if c.configFile != "" {
		loaded, err := config.Load(c.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("data") {
		cfg.DataDir = c.dataDir
	}
	return cfg, nil
}
