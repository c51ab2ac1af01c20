package reconstruct

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Item is an outcome of one request of [Reconstructor.ReconstructAll].
type Item struct {
	Violation Violation
	Result    *Result
	Err       error
}

// ReconstructAll runs independent requests concurrently, each over its own error
// graph. A failed request does not stop others. Items follow the order of
// violations.
func (r *Reconstructor) ReconstructAll(ctx context.Context, vs []Violation) []Item {
	workers := r.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	items := make([]Item, len(vs))
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, v := range vs {
		eg.Go(func() error {
			res, err := r.Reconstruct(ctx, v)
			items[i] = Item{Violation: v, Result: res, Err: err}
			return nil
		})
	}
	_ = eg.Wait()

	return items
}
