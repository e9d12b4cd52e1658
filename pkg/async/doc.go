// Package async provides structured fan-out helpers built on Go generics.
//
// Map and Each run one goroutine per input item and always join the whole
// group before returning, so callers never leak in-flight work. Failure is
// all-or-nothing: the first error cancels the context passed to the remaining
// invocations and becomes the group's result; partial results are discarded.
//
// Fan a slice out and collect results in input order:
//
//	records, err := async.Map(ctx, challenges, func(ctx context.Context, c Challenge) (Record, error) {
//		return c.Record(ctx)
//	})
//	if err != nil {
//		return err // first failing branch
//	}
//
// Fire-and-join without results:
//
//	err := async.Each(ctx, challenges, func(ctx context.Context, c Challenge) error {
//		return c.Submit(ctx)
//	})
//
// Branches must honor context cancellation to benefit from early abort; the
// group still waits for every branch to return either way.
//
// All operations are safe for concurrent use. The first-error slot is guarded
// by sync.Once to prevent races between simultaneously failing branches.
package async
