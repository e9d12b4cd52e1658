package async

import (
	"context"
	"sync"
)

// Map runs fn once per item, each in its own goroutine, and waits for every
// invocation to finish. Results keep the order of items. The first non-nil
// error wins: it cancels the group context handed to the remaining
// invocations and is returned after all of them have completed, with no
// partial results.
func Map[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}

	gctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	results := make([]R, len(items))
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()

			res, err := fn(gctx, item)
			if err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			results[i] = res
		}(i, item)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// Each is Map without results: it fans fn out over items and joins the whole
// group, returning the first error or nil once every invocation finished.
func Each[T any](ctx context.Context, items []T, fn func(context.Context, T) error) error {
	_, err := Map(ctx, items, func(ctx context.Context, item T) (struct{}, error) {
		return struct{}{}, fn(ctx, item)
	})
	return err
}
