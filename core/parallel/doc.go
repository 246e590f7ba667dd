// Package parallel runs batches of I/O-bound tasks with bounded concurrency.
//
// Tasks are split into ceil(n/limit) batches. The tasks of a batch run
// concurrently; batches run strictly one after another, each ending with a
// join barrier. Results come back in the original task order whatever the
// completion order was. With concurrency disabled the same tasks run one by
// one and the result shape is unchanged.
//
// The engine never retries. Retry policy belongs to the caller.
//
// # Usage
//
//	tasks := []parallel.Task[int]{...}
//	results := parallel.Run(ctx, tasks, parallel.Options{Limit: 8})
//	for i, r := range results {
//	    if r.Err != nil { ... }
//	}
package parallel
