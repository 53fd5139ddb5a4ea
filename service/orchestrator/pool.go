// Package orchestrator runs scan tasks on a bounded worker pool and persists
// audit results.
package orchestrator

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxParallel is the worker count used when none is configured.
const DefaultMaxParallel = 3

// Task is a unit of scan work. Tasks report failures through their own
// result slots, never through the pool.
type Task func(ctx context.Context)

// Pool bounds concurrent tasks. A cancelled context stops new tasks from
// being scheduled. Tasks already scheduled see the cancellation through ctx.
type Pool struct {
	ctx     context.Context
	g       errgroup.Group
	skipped int
}

// NewPool returns a pool running at most maxParallel tasks at once.
// Values below 1 run tasks one at a time.
func NewPool(ctx context.Context, maxParallel int) *Pool {
	if maxParallel < 1 {
		maxParallel = 1
	}
	p := &Pool{ctx: ctx}
	p.g.SetLimit(maxParallel)
	return p
}

// Go schedules task, blocking while the pool is full. It returns false when
// the context was already cancelled and the task was not started. Once Go
// returns true the task always runs, possibly with a cancelled ctx.
func (p *Pool) Go(name string, task Task) bool {
	if p.ctx.Err() != nil {
		p.skipped++
		return false
	}

	p.g.Go(func() error {
		logger := zerolog.Ctx(p.ctx).With().Str("task", name).Logger()
		start := time.Now()
		task(logger.WithContext(p.ctx))
		logger.Debug().Dur("duration", time.Since(start)).Msg("task finished")
		return nil
	})
	return true
}

// Wait blocks until every started task has returned.
func (p *Pool) Wait() {
	_ = p.g.Wait()
}

// Skipped reports how many tasks were refused after cancellation.
func (p *Pool) Skipped() int {
	return p.skipped
}
