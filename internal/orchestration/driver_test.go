package orchestration

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/agbru/parsum/internal/dataset"
	apperrors "github.com/agbru/parsum/internal/errors"
	"github.com/agbru/parsum/internal/orchestration/mocks"
)

// recordingObserver captures driver events in order.
type recordingObserver struct {
	phases     []State
	sequential []int64
	records    []Record
}

func (o *recordingObserver) OnPhase(s State) { o.phases = append(o.phases, s) }
func (o *recordingObserver) OnSequential(total int64, _ time.Duration) {
	o.sequential = append(o.sequential, total)
}
func (o *recordingObserver) OnRecord(r Record) { o.records = append(o.records, r) }

// fakeRecorder counts metric observations.
type fakeRecorder struct {
	datasets   int
	trials     []int
	mismatches []int
}

func (f *fakeRecorder) ObserveDataset(int, uint64) { f.datasets++ }
func (f *fakeRecorder) ObserveSequential(time.Duration) {}
func (f *fakeRecorder) ObserveMismatch(workers int) { f.mismatches = append(f.mismatches, workers) }
func (f *fakeRecorder) ObserveTrial(workers int, _ time.Duration, _, _ float64) {
	f.trials = append(f.trials, workers)
}

// steppedClock returns start, then start advanced by each step in turn.
func steppedClock(steps ...time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	i := -1
	return func() time.Time {
		if i >= 0 && i < len(steps) {
			now = now.Add(steps[i])
		}
		i++
		return now
	}
}

func TestDriver_Run_Success(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}
	rec := &fakeRecorder{}
	d := NewDriver(Config{WorkerCounts: []int{1, 2, 3, 8}},
		WithSource(dataset.MemorySource{5, 7, 3, 10, 2}),
		WithObserver(obs),
		WithMetrics(rec))

	report, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if report.State != StateReported || d.State() != StateReported {
		t.Errorf("expected state %s, got report=%s driver=%s", StateReported, report.State, d.State())
	}
	if !report.Baseline || report.DatasetSize != 5 || report.SequentialTotal != 27 {
		t.Errorf("unexpected baseline: size=%d total=%d", report.DatasetSize, report.SequentialTotal)
	}
	if len(report.Records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(report.Records))
	}
	for i, r := range report.Records {
		if r.Workers != []int{1, 2, 3, 8}[i] {
			t.Errorf("record %d: workers=%d, sweep order not preserved", i, r.Workers)
		}
		if r.Total != 27 {
			t.Errorf("record %d: total=%d, want 27", i, r.Total)
		}
		if !(r.Speedup > 0) || math.IsInf(r.Speedup, 0) || !(r.Efficiency > 0) || math.IsInf(r.Efficiency, 0) {
			t.Errorf("record %d: speedup=%v efficiency=%v must be positive and finite", i, r.Speedup, r.Efficiency)
		}
	}

	wantPhases := []State{StateDataReady, StateSequentialDone, StateParallelSweep, StateReported}
	if !reflect.DeepEqual(obs.phases, wantPhases) {
		t.Errorf("phases = %v, want %v", obs.phases, wantPhases)
	}
	if !reflect.DeepEqual(obs.sequential, []int64{27}) {
		t.Errorf("OnSequential calls = %v, want [27]", obs.sequential)
	}
	if len(obs.records) != 4 {
		t.Errorf("OnRecord calls = %d, want 4", len(obs.records))
	}
	if rec.datasets != 1 || !reflect.DeepEqual(rec.trials, []int{1, 2, 3, 8}) || len(rec.mismatches) != 0 {
		t.Errorf("unexpected metrics: %+v", rec)
	}
}

func TestDriver_Run_EmptyDataset(t *testing.T) {
	t.Parallel()
	d := NewDriver(Config{WorkerCounts: []int{2, 4}}, WithSource(dataset.MemorySource{}))

	report, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.SequentialTotal != 0 {
		t.Errorf("sequential total = %d, want 0", report.SequentialTotal)
	}
	for _, r := range report.Records {
		if r.Total != 0 {
			t.Errorf("workers=%d total=%d, want 0", r.Workers, r.Total)
		}
	}
}

func TestDriver_Run_SpeedupFromClock(t *testing.T) {
	t.Parallel()
	// Sequential takes 80ms, the 4-worker trial 20ms, the 8-worker trial 40ms.
	clock := steppedClock(80*time.Millisecond, 0, 20*time.Millisecond, 0, 40*time.Millisecond)
	d := NewDriver(Config{WorkerCounts: []int{4, 8}},
		WithSource(dataset.MemorySource{1, 2, 3, 4, 5, 6, 7, 8}),
		WithClock(clock))

	report, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.SequentialElapsed != 80*time.Millisecond {
		t.Errorf("sequential elapsed = %s, want 80ms", report.SequentialElapsed)
	}
	want := []Record{
		{Workers: 4, Elapsed: 20 * time.Millisecond, Total: 36, Speedup: 4, Efficiency: 1},
		{Workers: 8, Elapsed: 40 * time.Millisecond, Total: 36, Speedup: 2, Efficiency: 0.25},
	}
	if !reflect.DeepEqual(report.Records, want) {
		t.Errorf("records = %v, want %v", report.Records, want)
	}
}

// TestDriver_Run_Mismatch injects a reducer that under-counts by one and
// verifies the fail-fast path: a distinct integrity error, no retries, and
// no further trials.
func TestDriver_Run_Mismatch(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	reducer := mocks.NewMockReducer(ctrl)
	reducer.EXPECT().Sum(gomock.Any(), gomock.Any(), 2).Return(int64(9), nil).Times(1)

	obs := &recordingObserver{}
	rec := &fakeRecorder{}
	d := NewDriver(DefaultConfig(),
		WithSource(dataset.MemorySource{1, 2, 3, 4}),
		WithReducer(reducer),
		WithObserver(obs),
		WithMetrics(rec))

	report, err := d.Run(context.Background())

	var mismatch apperrors.IntegrityMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected IntegrityMismatchError, got %v", err)
	}
	if mismatch.Workers != 2 || mismatch.Expected != 10 || mismatch.Got != 9 {
		t.Errorf("unexpected mismatch details: %+v", mismatch)
	}
	if report.State != StateFailed || d.State() != StateFailed {
		t.Errorf("expected state %s, got %s", StateFailed, report.State)
	}
	if len(report.Records) != 0 || len(obs.records) != 0 {
		t.Errorf("no record may be emitted for a mismatched trial, got %v", report.Records)
	}
	if obs.phases[len(obs.phases)-1] != StateFailed {
		t.Errorf("last phase = %s, want %s", obs.phases[len(obs.phases)-1], StateFailed)
	}
	if !reflect.DeepEqual(rec.mismatches, []int{2}) {
		t.Errorf("mismatch metric = %v, want [2]", rec.mismatches)
	}
}

func TestDriver_Run_MismatchMidSweep(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	reducer := mocks.NewMockReducer(ctrl)
	gomock.InOrder(
		reducer.EXPECT().Sum(gomock.Any(), gomock.Any(), 2).Return(int64(10), nil),
		reducer.EXPECT().Sum(gomock.Any(), gomock.Any(), 4).Return(int64(11), nil),
	)

	d := NewDriver(Config{WorkerCounts: []int{2, 4, 8}},
		WithSource(dataset.MemorySource{1, 2, 3, 4}),
		WithReducer(reducer))

	report, err := d.Run(context.Background())
	var mismatch apperrors.IntegrityMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected IntegrityMismatchError, got %v", err)
	}
	if len(report.Records) != 1 || report.Records[0].Workers != 2 {
		t.Errorf("expected only the 2-worker record, got %v", report.Records)
	}
}

func TestDriver_Run_ReducerError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	reducer := mocks.NewMockReducer(ctrl)
	execErr := apperrors.ExecutionError{Workers: 2, Cause: errors.New("task panicked: interrupted")}
	reducer.EXPECT().Sum(gomock.Any(), gomock.Any(), 2).Return(int64(0), execErr)

	d := NewDriver(DefaultConfig(),
		WithSource(dataset.MemorySource{1, 2, 3}),
		WithReducer(reducer))

	report, err := d.Run(context.Background())
	var got apperrors.ExecutionError
	if !errors.As(err, &got) {
		t.Fatalf("expected ExecutionError, got %v", err)
	}
	if report.State != StateFailed {
		t.Errorf("expected state %s, got %s", StateFailed, report.State)
	}
}

func TestDriver_Run_InvalidWorkerCount(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	reducer := mocks.NewMockReducer(ctrl)

	d := NewDriver(Config{WorkerCounts: []int{2, 0, 8}},
		WithSource(source),
		WithReducer(reducer))

	_, err := d.Run(context.Background())
	var argErr apperrors.InvalidArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}
	if argErr.Value != 0 {
		t.Errorf("expected rejected value 0, got %d", argErr.Value)
	}
}

func TestDriver_Run_SourceError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	source := mocks.NewMockSource(ctrl)
	reducer := mocks.NewMockReducer(ctrl)
	parseErr := apperrors.ParseError{Path: "datos.txt", Line: 3, Text: "x", Cause: errors.New("invalid syntax")}
	source.EXPECT().Load(gomock.Any()).Return(nil, parseErr)

	d := NewDriver(DefaultConfig(), WithSource(source), WithReducer(reducer))

	report, err := d.Run(context.Background())
	var got apperrors.ParseError
	if !errors.As(err, &got) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if report.State != StateFailed {
		t.Errorf("expected state %s, got %s", StateFailed, report.State)
	}
	if report.Baseline {
		t.Error("no baseline may be reported when the dataset failed to load")
	}
}

func TestDriver_Run_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDriver(DefaultConfig(), WithSource(dataset.MemorySource{1, 2, 3}))
	_, err := d.Run(ctx)
	if !apperrors.IsContextError(err) {
		t.Fatalf("expected a context error, got %v", err)
	}
}

func TestDriver_Run_Twice(t *testing.T) {
	t.Parallel()
	d := NewDriver(Config{WorkerCounts: []int{2}}, WithSource(dataset.MemorySource{1}))
	if _, err := d.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if _, err := d.Run(context.Background()); !errors.Is(err, ErrAlreadyRun) {
		t.Errorf("second Run: expected ErrAlreadyRun, got %v", err)
	}
}

func TestNewDriver_DefaultWorkerCounts(t *testing.T) {
	t.Parallel()
	d := NewDriver(Config{}, WithSource(dataset.MemorySource{1, 2}))
	report, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var got []int
	for _, r := range report.Records {
		got = append(got, r.Workers)
	}
	if !reflect.DeepEqual(got, DefaultWorkerCounts) {
		t.Errorf("sweep = %v, want %v", got, DefaultWorkerCounts)
	}
}

func TestSpeedup(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		seq, par       time.Duration
		workers        int
		wantSpeedup    float64
		wantEfficiency float64
	}{
		{"linear", 80 * time.Millisecond, 20 * time.Millisecond, 4, 4, 1},
		{"slower than sequential", 10 * time.Millisecond, 20 * time.Millisecond, 2, 0.5, 0.25},
		{"zero parallel time", time.Microsecond, 0, 2, 1000, 500},
		{"both zero", 0, 0, 8, 1, 0.125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, e := Speedup(tt.seq, tt.par, tt.workers)
			if s != tt.wantSpeedup || e != tt.wantEfficiency {
				t.Errorf("Speedup(%s, %s, %d) = (%v, %v), want (%v, %v)",
					tt.seq, tt.par, tt.workers, s, e, tt.wantSpeedup, tt.wantEfficiency)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()
	if StateParallelSweep.String() != "parallel-sweep" {
		t.Errorf("unexpected name %q", StateParallelSweep.String())
	}
	if State(99).String() != "unknown" {
		t.Errorf("out-of-range state should be unknown")
	}
	if !StateFailed.Terminal() || StateSequentialDone.Terminal() {
		t.Error("Terminal() misclassifies states")
	}
}
