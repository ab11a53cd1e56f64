package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/analysis"
	"github.com/san-kum/nbody/internal/config"
	"github.com/san-kum/nbody/internal/export"
	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/storage"
	"github.com/san-kum/nbody/internal/universe"
	"github.com/san-kum/nbody/internal/viz"
)

func (c *cli) store(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.store(cmd)
			if err != nil {
				return err
			}
			runs, err := st.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSOURCE\tBODIES\tSTEPS\tDT\tDRIFT\tTIMESTAMP")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%g\t%.3e\t%s\n",
					r.ID, r.Source, len(r.Tags), r.Steps,
					r.Dt, r.EnergyDrift, r.Timestamp.Format(time.DateTime))
			}
			return w.Flush()
		},
	}
}

// quantity extracts one scalar per sample for a body.
type quantity func(b sim.BodyState) float64

var quantities = map[string]quantity{
	"r":     func(b sim.BodyState) float64 { return r2.Norm(b.Position) },
	"x":     func(b sim.BodyState) float64 { return b.Position.X },
	"y":     func(b sim.BodyState) float64 { return b.Position.Y },
	"speed": func(b sim.BodyState) float64 { return r2.Norm(b.Velocity) },
}

func lookupQuantity(name string) (quantity, error) {
	q, ok := quantities[name]
	if !ok {
		return nil, fmt.Errorf("unknown quantity %q (want r, x, y or speed)", name)
	}
	return q, nil
}

func series(samples []sim.Sample, body int, q quantity) []float64 {
	out := make([]float64, 0, len(samples))
	for _, s := range samples {
		if body < len(s.Bodies) {
			out = append(out, q(s.Bodies[body]))
		}
	}
	return out
}

func bodyLabel(tags []string, i int) string {
	if i < len(tags) && tags[i] != "" {
		return tags[i]
	}
	return "#" + strconv.Itoa(i)
}

func (c *cli) plotCmd() *cobra.Command {
	var (
		body int
		qty  string
	)
	cmd := &cobra.Command{
		Use:   "plot <run_id>",
		Short: "plot a body quantity over a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := lookupQuantity(qty)
			if err != nil {
				return err
			}
			st, err := c.store(cmd)
			if err != nil {
				return err
			}
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			samples, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			if len(samples) < 2 {
				return errors.New("not enough samples to plot")
			}

			bodies := []int{body}
			if body < 0 {
				bodies = bodies[:0]
				for i := range samples[0].Bodies {
					bodies = append(bodies, i)
				}
			} else if body >= len(samples[0].Bodies) {
				return &universe.IndexError{Index: body, Len: len(samples[0].Bodies)}
			}

			data := make([][]float64, 0, len(bodies))
			labels := make([]string, 0, len(bodies))
			for _, i := range bodies {
				data = append(data, series(samples, i, q))
				labels = append(labels, bodyLabel(meta.Tags, i))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run: %s (%s)\n\n", meta.ID, meta.Source)
			fmt.Fprintln(out, asciigraph.PlotMany(data,
				asciigraph.Height(15),
				asciigraph.Width(70),
				asciigraph.Caption(qty+" vs sample: "+strings.Join(labels, ", "))))
			return nil
		},
	}
	cmd.Flags().IntVarP(&body, "body", "b", -1, "body index (-1 for all)")
	cmd.Flags().StringVarP(&qty, "quantity", "q", "r", "r, x, y or speed")
	return cmd
}

// uniform drops a trailing sample whose spacing differs from the rest, as
// happens when the run length is not a multiple of the sample interval.
func uniform(samples []sim.Sample) ([]sim.Sample, float64) {
	if len(samples) < 2 {
		return samples, 0
	}
	spacing := samples[1].Time - samples[0].Time
	if n := len(samples); n > 2 {
		last := samples[n-1].Time - samples[n-2].Time
		if math.Abs(last-spacing) > 1e-9*math.Abs(spacing) {
			samples = samples[:n-1]
		}
	}
	return samples, spacing
}

func (c *cli) analyzeCmd() *cobra.Command {
	var (
		body int
		qty  string
	)
	cmd := &cobra.Command{
		Use:   "analyze <run_id>",
		Short: "estimate the orbital period of a body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := lookupQuantity(qty)
			if err != nil {
				return err
			}
			st, err := c.store(cmd)
			if err != nil {
				return err
			}
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			samples, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return analysis.ErrTooShort
			}
			if body < 0 || body >= len(samples[0].Bodies) {
				return &universe.IndexError{Index: body, Len: len(samples[0].Bodies)}
			}

			samples, spacing := uniform(samples)
			period, err := analysis.DominantPeriod(series(samples, body, q), spacing)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run:       %s\n", meta.ID)
			fmt.Fprintf(out, "body:      %d (%s)\n", body, bodyLabel(meta.Tags, body))
			fmt.Fprintf(out, "samples:   %d every %g s\n", len(samples), spacing)
			fmt.Fprintf(out, "period:    %.6g s (%.2f days)\n", period, period/86400)
			fmt.Fprintf(out, "frequency: %.6g Hz\n", 1/period)
			return nil
		},
	}
	cmd.Flags().IntVarP(&body, "body", "b", 0, "body index")
	cmd.Flags().StringVarP(&qty, "quantity", "q", "x", "r, x, y or speed")
	return cmd
}

func (c *cli) exportJSONCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-json <run_id>",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.store(cmd)
			if err != nil {
				return err
			}
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			samples, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return storage.ExportJSON(cmd.OutOrStdout(), meta, samples)
			}
			if err := storage.ExportJSONFile(output, meta, samples); err != nil {
				return err
			}
			c.log.Info("exported", "run", meta.ID, "file", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *cli) svgCmd() *cobra.Command {
	var (
		output        string
		width, height int
		braille       bool
	)
	cmd := &cobra.Command{
		Use:   "svg <run_id>",
		Short: "render the trajectories of a saved run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.store(cmd)
			if err != nil {
				return err
			}
			samples, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			paths := export.Paths(samples)

			var doc string
			if braille {
				final, err := st.LoadSnapshot(args[0])
				if err != nil {
					return err
				}
				canvas := viz.NewCanvas(width/8, height/16)
				proj := viz.NewProjection(canvas.SubWidth(), canvas.SubHeight(), final.Radius())
				viz.DrawFrame(canvas, proj, final.Bodies(), nil, viz.DefaultGlyphs())
				viz.DrawPaths(canvas, proj, paths)
				doc = export.CanvasToSVG(canvas, 4)
			} else {
				meta, err := st.Load(args[0])
				if err != nil {
					return err
				}
				doc = export.TrajectoryToSVG(paths, meta.Tags, width, height)
			}
			if doc == "" {
				return errors.New("nothing to draw")
			}

			if output == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), doc+"\n")
				return err
			}
			if err := os.WriteFile(output, []byte(doc+"\n"), 0644); err != nil {
				return err
			}
			c.log.Info("wrote svg", "file", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&width, "width", 800, "image width")
	cmd.Flags().IntVar(&height, "height", 800, "image height")
	cmd.Flags().BoolVar(&braille, "braille", false, "render the terminal canvas instead of vector paths")
	return cmd
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list built-in snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tRADIUS")
			for _, name := range config.ListPresets() {
				text, _ := config.GetPreset(name)
				u, err := universe.Parse(text)
				if err != nil {
					return fmt.Errorf("preset %s: %w", name, err)
				}
				fmt.Fprintf(w, "%s\t%d\t%g\n", name, u.Len(), u.Radius())
			}
			return w.Flush()
		},
	}
}

func snapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <preset>",
		Short: "print a built-in snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, ok := config.GetPreset(args[0])
			if !ok {
				return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
			}
			_, err := io.WriteString(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func writeComparison(out io.Writer, dts []float64, results []*sim.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tENERGY_DRIFT\tMAX_DRIFT\tMOMENTUM_DRIFT\tCLOSEST")
	for i, r := range results {
		fmt.Fprintf(w, "%g\t%d\t%.3e\t%.3e\t%.3e\t%.3e\n",
			dts[i], r.StepsTaken, r.EnergyDrift,
			r.Metrics["energy_drift"], r.Metrics["momentum_drift"], r.Metrics["closest_approach"])
	}
	return w.Flush()
}
