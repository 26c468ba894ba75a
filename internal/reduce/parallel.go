package reduce

import (
	"context"

	apperrors "github.com/agbru/parsum/internal/errors"
	"github.com/agbru/parsum/internal/logging"
	"github.com/agbru/parsum/internal/parallel"
)

// ParallelReducer sums a dataset by splitting it into one contiguous block per
// worker and summing the blocks on a pool sized to the worker count. Each
// invocation acquires its own pool, so nothing carries over between calls.
type ParallelReducer struct {
	logger logging.Logger
	// blockSum computes a partial result; replaced in tests to inject failures.
	blockSum func([]int32) int64
}

// Option configures a ParallelReducer.
type Option func(*ParallelReducer)

// WithLogger sets the logger used for per-invocation debug output.
func WithLogger(l logging.Logger) Option {
	return func(r *ParallelReducer) { r.logger = l }
}

// NewParallelReducer creates a ParallelReducer.
func NewParallelReducer(opts ...Option) *ParallelReducer {
	r := &ParallelReducer{logger: logging.Nop(), blockSum: SequentialSum}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sum returns the total of data computed with workers parallel tasks.
//
// Errors:
//   - apperrors.InvalidArgumentError if workers <= 0, before anything runs.
//   - apperrors.ExecutionError if a task panicked or ctx was canceled.
func (r *ParallelReducer) Sum(ctx context.Context, data []int32, workers int) (int64, error) {
	partials, err := r.PartialSums(ctx, data, workers)
	if err != nil {
		return 0, err
	}
	return Combine(partials), nil
}

// PartialSums runs one task per partition and returns the partial results in
// ascending partition order. Every task writes only its own result slot.
func (r *ParallelReducer) PartialSums(ctx context.Context, data []int32, workers int) ([]Partial, error) {
	parts, err := parallel.Blocks(len(data), workers)
	if err != nil {
		return nil, err
	}

	partials := make([]Partial, len(parts))
	err = parallel.WithPool(ctx, workers, func(pool *parallel.Pool) error {
		for i, part := range parts {
			pool.Go(func(context.Context) error {
				partials[i] = Partial{Partition: part, Sum: r.blockSum(data[part.Start:part.End])}
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.ExecutionError{Workers: workers, Cause: err}
	}

	r.logger.Debug("parallel sum complete",
		logging.Int("workers", workers),
		logging.Int("partitions", len(parts)),
		logging.Int("elements", len(data)))
	return partials, nil
}
