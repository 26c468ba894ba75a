package parallel

import (
	apperrors "github.com/agbru/parsum/internal/errors"
)

// Partition is a half-open index range [Start, End) over a dataset.
type Partition struct {
	Start int
	End   int
}

// Len returns the number of indices covered by the partition.
func (p Partition) Len() int { return p.End - p.Start }

// Blocks splits [0, n) into at most workers contiguous blocks of
// ceil(n/workers) indices each, the last one truncated to n. Blocks that
// would start at or past n are not emitted, so workers > n is valid and
// leaves the excess workers without a block.
//
// Returns an InvalidArgumentError when workers <= 0 or n < 0.
func Blocks(n, workers int) ([]Partition, error) {
	if workers <= 0 {
		return nil, apperrors.InvalidArgumentError{Name: "workers", Value: workers}
	}
	if n < 0 {
		return nil, apperrors.InvalidArgumentError{Name: "n", Value: n}
	}
	if n == 0 {
		return nil, nil
	}

	blockSize := (n + workers - 1) / workers
	parts := make([]Partition, 0, min(workers, n))
	for i := 0; i < workers; i++ {
		start := i * blockSize
		end := min(start+blockSize, n)
		if start >= end {
			break
		}
		parts = append(parts, Partition{Start: start, End: end})
	}
	return parts, nil
}
