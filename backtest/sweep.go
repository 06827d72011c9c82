package backtest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Job builds one independent run. Build is called on the worker goroutine,
// so every job must construct its own Simulator, strategy and feed.
type Job struct {
	Name  string
	Build func() (*Runner, error)
}

// Sweep runs jobs concurrently, at most limit at a time (limit <= 0 means
// no limit). Results are returned in job order. The first failure cancels
// the remaining jobs.
func Sweep(ctx context.Context, jobs []Job, limit int) ([]Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	results := make([]Result, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			r, err := job.Build()
			if err != nil {
				return fmt.Errorf("sweep %s: %w", job.Name, err)
			}
			res, err := r.Run(ctx)
			if err != nil {
				return fmt.Errorf("sweep %s: %w", job.Name, err)
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
