package parallel

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task is a unit of work returning a value.
type Task[T any] func(ctx context.Context) (T, error)

// Result is the outcome of one task.
type Result[T any] struct {
	Value T
	Err   error
}

// Options controls how tasks are scheduled.
type Options struct {
	// Limit is the maximum number of tasks in flight per batch. Values below 1 mean 1.
	Limit int
	// Sequential disables concurrency entirely.
	Sequential bool
}

// Batches returns how many sequential batches n tasks are split into.
func Batches(n, limit int) int {
	if n <= 0 {
		return 0
	}
	if limit < 1 {
		limit = 1
	}
	return (n + limit - 1) / limit
}

// Run executes tasks and returns one Result per task, in task order.
// A task that panics yields an error result; the other tasks are unaffected.
func Run[T any](ctx context.Context, tasks []Task[T], opts Options) []Result[T] {
	results := make([]Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	if opts.Sequential || opts.Limit <= 1 {
		for i, task := range tasks {
			results[i] = call(ctx, task)
		}
		return results
	}

	for start := 0; start < len(tasks); start += opts.Limit {
		end := min(start+opts.Limit, len(tasks))

		// Task errors live in results; the group is only the join barrier.
		var g errgroup.Group
		for i := start; i < end; i++ {
			task := tasks[i]
			g.Go(func() error {
				results[i] = call(ctx, task)
				return nil
			})
		}
		_ = g.Wait()
	}
	return results
}

func call[T any](ctx context.Context, task Task[T]) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	res.Value, res.Err = task(ctx)
	return res
}
