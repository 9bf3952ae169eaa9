package app

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// parallel2 runs two functions concurrently and returns both results or the
// first error. The sibling function is canceled when either fails. Used to
// resolve independent lazy references in one round trip's worth of latency.
func parallel2[T1, T2 any](
	ctx context.Context,
	fn1 func(context.Context) (T1, error),
	fn2 func(context.Context) (T2, error),
) (result1 T1, result2 T2, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var fnErr error
		result1, fnErr = fn1(ctx)
		return fnErr
	})

	g.Go(func() error {
		var fnErr error
		result2, fnErr = fn2(ctx)
		return fnErr
	})

	err = g.Wait()

	return result1, result2, err
}
