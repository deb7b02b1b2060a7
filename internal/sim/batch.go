package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunAll runs independent simulators concurrently. Each simulator owns its
// scene, so no state is shared between goroutines.
func RunAll(ctx context.Context, sims []*Simulator, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(sims))

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range sims {
		i, s := i, s
		g.Go(func() error {
			r, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
