package analysis

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"benchgate/domain/decision"
	"benchgate/domain/quality"
)

// RunComparisons computes every (task, scale) comparison in parallel.
// The pairs are independent given their cleaned groups, so this is a
// bounded parallel map fanning in before synthesis; results come back
// sorted by (task, scale) regardless of completion order.
func RunComparisons(ctx context.Context, analyzer *Analyzer, ds quality.CleanedDataset, workers int) ([]decision.ComparisonResult, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]decision.ComparisonResult, len(ds.TaskResults))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, tr := range ds.TaskResults {
		i, tr := i, tr
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = analyzer.GenerateTaskComparison(tr)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Pair().String() < results[j].Pair().String()
	})
	return results, nil
}
