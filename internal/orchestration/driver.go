package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/parsum/internal/dataset"
	apperrors "github.com/agbru/parsum/internal/errors"
	"github.com/agbru/parsum/internal/logging"
	"github.com/agbru/parsum/internal/memory"
	"github.com/agbru/parsum/internal/metrics"
	"github.com/agbru/parsum/internal/reduce"
)

const tracerName = "github.com/agbru/parsum/internal/orchestration"

// ErrAlreadyRun is returned when Run is called on a driver that has left the Idle state.
var ErrAlreadyRun = errors.New("benchmark driver already ran")

// DefaultWorkerCounts is the worker-count sweep used when none is configured.
var DefaultWorkerCounts = []int{2, 4, 8}

// Config enumerates the tunables of a benchmark run.
type Config struct {
	// DatasetPath is the dataset file, generated if absent.
	DatasetPath string
	// DatasetSize is the number of values written when generating.
	DatasetSize int
	// WorkerCounts is the ordered sweep of pool sizes.
	WorkerCounts []int
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		DatasetPath:  dataset.DefaultPath,
		DatasetSize:  dataset.DefaultSize,
		WorkerCounts: append([]int(nil), DefaultWorkerCounts...),
	}
}

// Record is the outcome of one verified parallel trial.
type Record struct {
	Workers    int
	Elapsed    time.Duration
	Total      int64
	Speedup    float64
	Efficiency float64
}

// Report is everything a run produced. When the run fails partway, Records
// holds the trials verified before the failure and State is StateFailed.
type Report struct {
	DatasetSize       int
	// Baseline is true once the sequential sum has been measured.
	Baseline          bool
	SequentialTotal   int64
	SequentialElapsed time.Duration
	Records           []Record
	State             State
}

// Driver runs a single benchmark. It is not safe for concurrent use and
// runs at most once.
type Driver struct {
	cfg      Config
	source   dataset.Source
	reducer  reduce.Reducer
	logger   logging.Logger
	metrics  MetricsRecorder
	observer Observer
	tracer   trace.Tracer
	now      func() time.Time
	gcMode   memory.GCMode
	memStats *metrics.MemoryCollector

	state State
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithSource replaces the dataset source (default: a FileSource built from Config).
func WithSource(s dataset.Source) DriverOption {
	return func(d *Driver) { d.source = s }
}

// WithReducer replaces the parallel reducer.
func WithReducer(r reduce.Reducer) DriverOption {
	return func(d *Driver) { d.reducer = r }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) DriverOption {
	return func(d *Driver) { d.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) DriverOption {
	return func(d *Driver) { d.metrics = m }
}

// WithObserver sets the event observer.
func WithObserver(o Observer) DriverOption {
	return func(d *Driver) { d.observer = o }
}

// WithClock replaces time.Now for elapsed-time measurement.
func WithClock(now func() time.Time) DriverOption {
	return func(d *Driver) { d.now = now }
}

// WithGCMode sets how the collector is handled during timed sections.
func WithGCMode(mode memory.GCMode) DriverOption {
	return func(d *Driver) { d.gcMode = mode }
}

// NewDriver creates a driver in the Idle state.
func NewDriver(cfg Config, opts ...DriverOption) *Driver {
	d := &Driver{
		cfg:      cfg,
		logger:   logging.Nop(),
		metrics:  nopRecorder{},
		observer: NullObserver{},
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
		gcMode:   memory.GCModeOff,
		memStats: metrics.NewMemoryCollector(),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(d)
	}
	if len(d.cfg.WorkerCounts) == 0 {
		d.cfg.WorkerCounts = append([]int(nil), DefaultWorkerCounts...)
	}
	if d.source == nil {
		d.source = dataset.FileSource{Path: cfg.DatasetPath, Size: cfg.DatasetSize, Logger: d.logger}
	}
	if d.reducer == nil {
		d.reducer = reduce.NewParallelReducer(reduce.WithLogger(d.logger))
	}
	return d
}

// State returns the current driver state.
func (d *Driver) State() State { return d.state }

func (d *Driver) transition(next State) {
	d.logger.Debug("driver state", logging.String("from", d.state.String()), logging.String("to", next.String()))
	d.state = next
	d.observer.OnPhase(next)
}

// Run executes the benchmark: load, sequential baseline, parallel sweep.
// The sweep stops at the first reducer error or integrity mismatch; the
// returned report then contains the trials that passed before it.
func (d *Driver) Run(ctx context.Context) (report Report, err error) {
	if d.state != StateIdle {
		return Report{State: d.state}, ErrAlreadyRun
	}

	ctx, span := d.tracer.Start(ctx, "benchmark.run",
		trace.WithAttributes(attribute.IntSlice("worker_counts", d.cfg.WorkerCounts)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			d.transition(StateFailed)
		}
		report.State = d.state
		span.End()
	}()

	for _, w := range d.cfg.WorkerCounts {
		if w <= 0 {
			return report, apperrors.InvalidArgumentError{Name: "workers", Value: w}
		}
	}

	data, err := d.load(ctx)
	if err != nil {
		return report, err
	}
	report.DatasetSize = len(data)
	d.transition(StateDataReady)

	gc := memory.NewGCController(d.gcMode, len(data))
	if zl, ok := d.logger.(interface{ Zerolog() zerolog.Logger }); ok {
		gc.SetLogger(zl.Zerolog())
	}
	gc.Begin()
	defer func() {
		gc.End()
		if gc.Active() {
			st := gc.Stats()
			d.logger.Debug("gc restored",
				logging.String("mode", string(d.gcMode)),
				logging.Uint64("total_alloc_bytes", st.TotalAlloc),
				logging.Int("gc_cycles", int(st.NumGC)))
		}
	}()

	report.SequentialTotal, report.SequentialElapsed = d.sequential(ctx, data)
	report.Baseline = true
	d.metrics.ObserveSequential(report.SequentialElapsed)
	d.observer.OnSequential(report.SequentialTotal, report.SequentialElapsed)
	d.logger.Info("sequential sum",
		logging.Int64("total", report.SequentialTotal),
		logging.Duration("elapsed", report.SequentialElapsed))
	d.transition(StateSequentialDone)

	d.transition(StateParallelSweep)
	for _, workers := range d.cfg.WorkerCounts {
		rec, err := d.trial(ctx, data, workers, report.SequentialTotal, report.SequentialElapsed)
		if err != nil {
			return report, err
		}
		report.Records = append(report.Records, rec)
		d.observer.OnRecord(rec)
	}

	d.transition(StateReported)
	return report, nil
}

func (d *Driver) load(ctx context.Context) ([]int32, error) {
	ctx, span := d.tracer.Start(ctx, "dataset.load",
		trace.WithAttributes(attribute.String("path", d.cfg.DatasetPath)))
	defer span.End()

	before := d.memStats.Snapshot()
	data, err := d.source.Load(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	allocated := d.memStats.Snapshot().AllocatedSince(before)
	span.SetAttributes(attribute.Int("elements", len(data)))

	d.metrics.ObserveDataset(len(data), allocated)
	d.logger.Info("dataset ready",
		logging.Int("elements", len(data)),
		logging.Uint64("resident_bytes", metrics.DatasetBytes(len(data))),
		logging.Uint64("allocated_bytes", allocated))
	return data, nil
}

func (d *Driver) sequential(ctx context.Context, data []int32) (int64, time.Duration) {
	_, span := d.tracer.Start(ctx, "sum.sequential")
	defer span.End()

	start := d.now()
	total := reduce.SequentialSum(data)
	elapsed := d.now().Sub(start)

	span.SetAttributes(attribute.Int64("total", total))
	return total, elapsed
}

func (d *Driver) trial(ctx context.Context, data []int32, workers int, expected int64, seqElapsed time.Duration) (Record, error) {
	ctx, span := d.tracer.Start(ctx, "sum.parallel",
		trace.WithAttributes(attribute.Int("workers", workers)))
	defer span.End()

	start := d.now()
	total, err := d.reducer.Sum(ctx, data, workers)
	elapsed := d.now().Sub(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.Error("parallel trial failed", err, logging.Int("workers", workers))
		return Record{}, err
	}

	if total != expected {
		err := apperrors.IntegrityMismatchError{Workers: workers, Expected: expected, Got: total}
		span.RecordError(err)
		span.SetStatus(codes.Error, "integrity mismatch")
		d.metrics.ObserveMismatch(workers)
		d.logger.Error("parallel total disagrees with sequential total", err,
			logging.Int("workers", workers),
			logging.Int64("expected", expected),
			logging.Int64("got", total))
		return Record{}, err
	}

	speedup, efficiency := Speedup(seqElapsed, elapsed, workers)
	rec := Record{Workers: workers, Elapsed: elapsed, Total: total, Speedup: speedup, Efficiency: efficiency}
	d.metrics.ObserveTrial(workers, elapsed, speedup, efficiency)
	d.logger.Info("parallel trial",
		logging.Int("workers", workers),
		logging.Duration("elapsed", elapsed),
		logging.Float64("speedup", speedup),
		logging.Float64("efficiency", efficiency))
	return rec, nil
}

// Speedup returns sequential/parallel and speedup/workers. Durations are
// clamped to 1ns so that a trial faster than the clock resolution still
// yields finite, positive ratios.
func Speedup(sequential, parallel time.Duration, workers int) (speedup, efficiency float64) {
	sequential = max(sequential, time.Nanosecond)
	parallel = max(parallel, time.Nanosecond)
	speedup = float64(sequential) / float64(parallel)
	if workers > 0 {
		efficiency = speedup / float64(workers)
	}
	return speedup, efficiency
}

// String implements fmt.Stringer for logging.
func (r Record) String() string {
	return fmt.Sprintf("workers=%d elapsed=%s speedup=%.2f efficiency=%.2f", r.Workers, r.Elapsed, r.Speedup, r.Efficiency)
}
