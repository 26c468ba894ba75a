package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/parsum/internal/format"
	"github.com/agbru/parsum/internal/orchestration"
)

// CLIObserver shows a spinner on out while the driver works: one while the
// dataset is generated or loaded, another during the parallel sweep.
type CLIObserver struct {
	mu      sync.Mutex
	spinner Spinner
	running bool
	total   int
	done    int
}

var _ orchestration.Observer = (*CLIObserver)(nil)

// NewCLIObserver creates an observer for a sweep of trials worker counts.
func NewCLIObserver(out io.Writer, trials int) *CLIObserver {
	return &CLIObserver{
		spinner: newSpinner(spinner.WithWriter(out)),
		total:   trials,
	}
}

// Start shows the loading spinner. Call it before Driver.Run.
func (o *CLIObserver) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.startLocked(" Preparing dataset...")
}

func (o *CLIObserver) startLocked(suffix string) {
	o.spinner.UpdateSuffix(suffix)
	if !o.running {
		o.spinner.Start()
		o.running = true
	}
}

func (o *CLIObserver) stopLocked() {
	if o.running {
		o.spinner.Stop()
		o.running = false
	}
}

// OnPhase switches the spinner on state changes.
func (o *CLIObserver) OnPhase(state orchestration.State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch {
	case state.Terminal():
		o.stopLocked()
	case state == orchestration.StateDataReady:
		o.startLocked(" Sequential sum...")
	case state == orchestration.StateParallelSweep:
		o.startLocked(o.sweepSuffix())
	}
}

// OnSequential updates the spinner with the baseline timing.
func (o *CLIObserver) OnSequential(_ int64, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.spinner.UpdateSuffix(fmt.Sprintf(" Sequential sum done in %s", format.FormatExecutionDuration(elapsed)))
}

// OnRecord advances the sweep counter.
func (o *CLIObserver) OnRecord(orchestration.Record) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.done++
	o.spinner.UpdateSuffix(o.sweepSuffix())
}

func (o *CLIObserver) sweepSuffix() string {
	return fmt.Sprintf(" Parallel sweep %d/%d", o.done, o.total)
}
