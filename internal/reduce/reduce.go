//go:generate mockgen -source=reduce.go -destination=../orchestration/mocks/mock_reducer.go -package=mocks

// Package reduce implements the summation strategies compared by the
// benchmark: a single-pass sequential sum and a block-parallel sum whose
// partial results are combined at a single join point.
package reduce

import (
	"context"

	"github.com/agbru/parsum/internal/parallel"
)

// Reducer computes the total of a dataset using a given number of workers.
type Reducer interface {
	Sum(ctx context.Context, data []int32, workers int) (int64, error)
}

// Partial is the sum of one partition, produced by exactly one task.
type Partial struct {
	parallel.Partition
	Sum int64
}

// SequentialSum returns the sum of data in a single pass. The accumulator is
// 64-bit so that a million 32-bit values cannot overflow it.
func SequentialSum(data []int32) int64 {
	var sum int64
	for _, v := range data {
		sum += int64(v)
	}
	return sum
}

// Combine adds partial sums in slice order.
func Combine(partials []Partial) int64 {
	var total int64
	for _, p := range partials {
		total += p.Sum
	}
	return total
}
