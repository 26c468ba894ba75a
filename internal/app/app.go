package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/parsum/internal/cli"
	"github.com/agbru/parsum/internal/config"
	"github.com/agbru/parsum/internal/dataset"
	apperrors "github.com/agbru/parsum/internal/errors"
	"github.com/agbru/parsum/internal/logging"
	"github.com/agbru/parsum/internal/metrics"
	"github.com/agbru/parsum/internal/orchestration"
	"github.com/agbru/parsum/internal/reduce"
	"github.com/agbru/parsum/internal/sysmon"
	"github.com/agbru/parsum/internal/ui"
)

// Application represents the parsum application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	// source overrides the configured dataset file; used by tests.
	source dataset.Source
	// reducer overrides the parallel reducer; used by tests.
	reducer reduce.Reducer
	// describeHost is sysmon.Describe unless replaced.
	describeHost func() sysmon.Host
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSource replaces the dataset file with another source.
func WithSource(s dataset.Source) AppOption {
	return func(a *Application) { a.source = s }
}

// WithReducer replaces the parallel reducer.
func WithReducer(r reduce.Reducer) AppOption {
	return func(a *Application) { a.reducer = r }
}

// WithHostDescriber replaces the host description printed in the header.
func WithHostDescriber(fn func() sysmon.Host) AppOption {
	return func(a *Application) { a.describeHost = fn }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, describeHost: sysmon.Describe}
	for _, opt := range opts {
		opt(app)
	}

	programName := "parsum"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the benchmark and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.Theme, a.Config.NoColor)
	base := a.newLogger()
	logger := base.Component("app")

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if !a.Config.Quiet {
		cli.DisplayHost(a.describeHost(), a.Config.DatasetPath, a.Config.WorkerCounts, out)
	}

	recorder := metrics.NewRecorder()
	opts := []orchestration.DriverOption{
		orchestration.WithLogger(base.Component("driver")),
		orchestration.WithMetrics(recorder),
		orchestration.WithGCMode(a.Config.GC()),
	}
	if a.source != nil {
		opts = append(opts, orchestration.WithSource(a.source))
	} else {
		opts = append(opts, orchestration.WithSource(dataset.FileSource{
			Path:     a.Config.DatasetPath,
			Size:     a.Config.DatasetSize,
			MaxValue: a.Config.MaxValue,
			Seed:     a.Config.Seed,
			Logger:   base.Component("dataset"),
		}))
	}
	if a.reducer != nil {
		opts = append(opts, orchestration.WithReducer(a.reducer))
	} else {
		opts = append(opts, orchestration.WithReducer(reduce.NewParallelReducer(reduce.WithLogger(base.Component("reducer")))))
	}

	var observer *cli.CLIObserver
	if !a.Config.Quiet {
		observer = cli.NewCLIObserver(a.ErrWriter, len(a.Config.WorkerCounts))
		opts = append(opts, orchestration.WithObserver(observer))
	}

	driver := orchestration.NewDriver(a.Config.DriverConfig(), opts...)
	if observer != nil {
		observer.Start()
	}
	report, err := driver.Run(ctx)

	var presenter orchestration.ResultPresenter = cli.CLIResultPresenter{Quiet: a.Config.Quiet}
	presenter.PresentReport(report, err, out)

	if a.Config.MetricsFile != "" {
		if werr := recorder.WriteTextfile(a.Config.MetricsFile); werr != nil {
			logger.Error("failed to write metrics file", werr, logging.String("path", a.Config.MetricsFile))
			if err == nil {
				err = werr
			}
		}
	}

	if err != nil {
		logger.Error("benchmark failed", err, logging.String("state", report.State.String()))
		fmt.Fprintf(a.ErrWriter, "parsum: %v\n", err)
	}
	return apperrors.ExitCodeFor(err)
}

// newLogger builds the console logger on ErrWriter. Info events are shown
// only with --verbose so they do not interleave with the report.
func (a *Application) newLogger() *logging.ZerologAdapter {
	level := zerolog.WarnLevel
	switch {
	case a.Config.Verbose:
		level = zerolog.DebugLevel
	case a.Config.Quiet:
		level = zerolog.ErrorLevel
	}
	noColor := ui.GetCurrentTheme().Name == ui.NoColorTheme.Name
	return logging.NewConsoleLogger(a.ErrWriter, level, noColor)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
