package cli

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"

	apperrors "github.com/agbru/parsum/internal/errors"
	"github.com/agbru/parsum/internal/format"
	"github.com/agbru/parsum/internal/orchestration"
	"github.com/agbru/parsum/internal/sysmon"
	"github.com/agbru/parsum/internal/ui"
)

// CLIResultPresenter implements orchestration.ResultPresenter for the
// terminal. In quiet mode only the trial table is written.
type CLIResultPresenter struct {
	Quiet bool
}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentReport writes the sequential section, the trial table, and err if
// the run failed.
func (p CLIResultPresenter) PresentReport(report orchestration.Report, err error, out io.Writer) {
	if report.Baseline {
		if !p.Quiet {
			DisplaySequential(report, out)
			fmt.Fprintf(out, "\n%s\n", ui.Heading("Parallel"))
		}
		DisplayTrialTable(report.Records, out)
	}
	if err != nil {
		DisplayError(err, out)
	}
}

// DisplaySequential writes the baseline total and time.
func DisplaySequential(report orchestration.Report, out io.Writer) {
	fmt.Fprintf(out, "%s\n", ui.Heading("Sequential"))
	fmt.Fprintf(out, "  Elements: %s%s%s\n", ui.ColorCyan(), format.FormatCount(int64(report.DatasetSize)), ui.ColorReset())
	fmt.Fprintf(out, "  Total:    %s%d%s\n", ui.ColorGreen(), report.SequentialTotal, ui.ColorReset())
	fmt.Fprintf(out, "  Time:     %s%s s%s\n", ui.ColorYellow(), format.FormatSeconds(report.SequentialElapsed), ui.ColorReset())
}

// DisplayTrialTable writes one row per verified trial. Colors are left out
// because escape codes break tabwriter's width computation.
func DisplayTrialTable(records []orchestration.Record, out io.Writer) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Workers\tTime (s)\tSpeedup\tEfficiency\t")
	for _, r := range records {
		fmt.Fprintln(w, FormatTrialRow(r))
	}
	w.Flush()
}

// FormatTrialRow renders a record as a tab-separated table row.
func FormatTrialRow(r orchestration.Record) string {
	return strings.Join([]string{
		strconv.Itoa(r.Workers),
		format.FormatSeconds(r.Elapsed),
		format.FormatRatio(r.Speedup),
		format.FormatRatio(r.Efficiency),
	}, "\t") + "\t"
}

// DisplayError explains why the run stopped.
func DisplayError(err error, out io.Writer) {
	var mismatch apperrors.IntegrityMismatchError
	switch {
	case errors.As(err, &mismatch):
		fmt.Fprintf(out, "\n%sIntegrity error:%s %v\nRemaining trials were skipped.\n",
			ui.ColorRed(), ui.ColorReset(), mismatch)
	case apperrors.IsContextError(err):
		fmt.Fprintf(out, "\n%sCanceled:%s %v\n", ui.ColorYellow(), ui.ColorReset(), err)
	default:
		fmt.Fprintf(out, "\n%sError:%s %v\n", ui.ColorRed(), ui.ColorReset(), err)
	}
}

// DisplayHost writes the execution header: host, runtime and sweep.
func DisplayHost(h sysmon.Host, datasetPath string, workers []int, out io.Writer) {
	fmt.Fprintf(out, "%s\n", ui.Heading("Environment"))
	model := h.ModelName
	if model == "" {
		model = "unknown CPU"
	}
	fmt.Fprintf(out, "  Host:     %s/%s, %s%s%s\n", h.OS, h.Arch, ui.ColorCyan(), model, ui.ColorReset())
	fmt.Fprintf(out, "  CPUs:     %s%d%s logical, GOMAXPROCS=%d, %s\n",
		ui.ColorCyan(), h.NumCPU, ui.ColorReset(), h.GOMAXPROCS, runtime.Version())
	if len(h.Features) > 0 {
		fmt.Fprintf(out, "  Features: %s\n", strings.Join(h.Features, " "))
	}
	if h.Stats.TotalMem > 0 {
		fmt.Fprintf(out, "  Memory:   %s total, %.1f%% used, CPU %.1f%%\n",
			format.FormatBytes(h.Stats.TotalMem), h.Stats.MemPercent, h.Stats.CPUPercent)
	}
	counts := make([]string, len(workers))
	for i, w := range workers {
		counts[i] = strconv.Itoa(w)
	}
	fmt.Fprintf(out, "  Dataset:  %s\n", datasetPath)
	fmt.Fprintf(out, "  Workers:  %s\n\n", strings.Join(counts, ", "))
}
