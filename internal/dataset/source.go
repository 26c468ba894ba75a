//go:generate mockgen -source=source.go -destination=../orchestration/mocks/mock_source.go -package=mocks

// Package dataset supplies the integers summed by the benchmark. The
// persisted form is a text file with one decimal integer per line; it is
// generated once and reused as-is on later runs.
package dataset

import (
	"context"
	"math/rand/v2"
	"time"

	apperrors "github.com/agbru/parsum/internal/errors"
	"github.com/agbru/parsum/internal/logging"
)

const (
	// DefaultPath is the dataset file used when none is configured.
	DefaultPath = "datos.txt"
	// DefaultSize is the number of values generated for a new dataset.
	DefaultSize = 1_000_000
	// DefaultMaxValue is the upper bound of generated values; the lower bound is 1.
	DefaultMaxValue = 10_000
)

// Source yields the ordered sequence of integers for one benchmark run.
type Source interface {
	Load(ctx context.Context) ([]int32, error)
}

// FileSource loads a dataset file, generating it first if it does not exist.
type FileSource struct {
	Path     string
	Size     int
	MaxValue int
	// Seed makes generation reproducible; zero picks a time-based seed.
	Seed   uint64
	Logger logging.Logger
}

// Load generates the file at Path when absent, then parses it.
func (s FileSource) Load(ctx context.Context) ([]int32, error) {
	logger := s.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	if s.Size < 0 {
		return nil, apperrors.InvalidArgumentError{Name: "size", Value: s.Size}
	}

	maxValue := s.MaxValue
	if maxValue <= 0 {
		maxValue = DefaultMaxValue
	}
	seed := s.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	created, err := EnsureFile(ctx, s.Path, s.Size, maxValue, rand.New(rand.NewPCG(seed, seed>>1|1)))
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("dataset generated", logging.String("path", s.Path), logging.Int("size", s.Size))
	}

	data, err := ReadFile(ctx, s.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", logging.String("path", s.Path), logging.Int("size", len(data)))
	return data, nil
}

// MemorySource serves an in-memory dataset.
type MemorySource []int32

// Load returns the slice itself.
func (m MemorySource) Load(ctx context.Context) ([]int32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
