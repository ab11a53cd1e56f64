package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/nbody/internal/universe"
)

// Sweep runs independent copies of one initial state at several time steps
// concurrently, for comparing step sizes.
type Sweep struct {
	dts     []float64
	metrics func() []Metric
}

// NewSweep builds a sweep over dts. metrics, when non-nil, is called once
// per run so runs never share metric state.
func NewSweep(dts []float64, metrics func() []Metric) *Sweep {
	return &Sweep{dts: dts, metrics: metrics}
}

// Run returns one result per dt, in the order given. u is not modified.
func (w *Sweep) Run(ctx context.Context, u *universe.Universe, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(w.dts))
	g, ctx := errgroup.WithContext(ctx)

	for i, dt := range w.dts {
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Dt = dt

			s := New()
			if w.metrics != nil {
				for _, m := range w.metrics() {
					s.AddMetric(m)
				}
			}

			res, err := s.Run(ctx, u.Clone(), cfgCopy)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
