package parallel

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/parsum/internal/errors"
)

// Task is a unit of work submitted to a Pool.
type Task func(ctx context.Context) error

// Pool runs tasks on at most Size goroutines at a time. A Pool is single-use:
// submit with Go, then join with Wait.
type Pool struct {
	g    *errgroup.Group
	ctx  context.Context
	size int
}

// NewPool creates a pool of exactly size workers bound to ctx. The first
// failing task cancels the context seen by the remaining ones.
func NewPool(ctx context.Context, size int) (*Pool, error) {
	if size <= 0 {
		return nil, apperrors.InvalidArgumentError{Name: "workers", Value: size}
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(size)
	return &Pool{g: g, ctx: gctx, size: size}, nil
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Go submits a task, blocking while all workers are busy. A task that has not
// started when the pool context is done is skipped with the context error. A
// panicking task is reported as an error instead of crashing the process.
func (p *Pool) Go(task Task) {
	p.g.Go(func() (err error) {
		if err := p.ctx.Err(); err != nil {
			return err
		}
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v", r)
			}
		}()
		return task(p.ctx)
	})
}

// Wait blocks until every submitted task has returned and yields the first
// error, if any.
func (p *Pool) Wait() error {
	return p.g.Wait()
}

// WithPool acquires a pool of size workers, hands it to fn for submission,
// and always joins it before returning, on success and on every error path.
// The error from fn takes precedence over task errors.
func WithPool(ctx context.Context, size int, fn func(*Pool) error) error {
	p, err := NewPool(ctx, size)
	if err != nil {
		return err
	}
	submitErr := fn(p)
	waitErr := p.Wait()
	if submitErr != nil {
		return submitErr
	}
	return waitErr
}
