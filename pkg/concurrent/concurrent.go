package concurrent

import "golang.org/x/sync/errgroup"

// ParallelMap applies mapFn to each element of in, preserving order. At most workers
// goroutines run at a time; workers <= 1 maps sequentially in the caller goroutine.
func ParallelMap[T any, R any](in []T, workers int, mapFn func(T) R) []R {
	out := make([]R, len(in))
	if workers <= 1 || len(in) < 2 {
		for i, v := range in {
			out[i] = mapFn(v)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, v := range in {
		g.Go(func() error {
			out[i] = mapFn(v)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
