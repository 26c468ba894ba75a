package orchestration

import (
	"io"
	"time"
)

// Observer receives driver events as they happen, so that a front end can
// stream the report instead of waiting for the whole sweep.
type Observer interface {
	// OnPhase is called on every state transition.
	OnPhase(state State)
	// OnSequential is called once the baseline is known.
	OnSequential(total int64, elapsed time.Duration)
	// OnRecord is called after each verified parallel trial.
	OnRecord(record Record)
}

// NullObserver ignores all events.
type NullObserver struct{}

// OnPhase does nothing.
func (NullObserver) OnPhase(State) {}

// OnSequential does nothing.
func (NullObserver) OnSequential(int64, time.Duration) {}

// OnRecord does nothing.
func (NullObserver) OnRecord(Record) {}

// MetricsRecorder receives the measurements of a run. *metrics.Recorder
// implements it.
type MetricsRecorder interface {
	ObserveDataset(elements int, allocated uint64)
	ObserveSequential(d time.Duration)
	ObserveTrial(workers int, d time.Duration, speedup, efficiency float64)
	ObserveMismatch(workers int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveDataset(int, uint64) {}
func (nopRecorder) ObserveSequential(time.Duration) {}
func (nopRecorder) ObserveTrial(int, time.Duration, float64, float64) {}
func (nopRecorder) ObserveMismatch(int) {}

// ResultPresenter renders a finished (or aborted) report.
type ResultPresenter interface {
	// PresentReport writes the sequential section and the trial table. A
	// non-nil err is printed after the rows that completed.
	PresentReport(report Report, err error, out io.Writer)
}
