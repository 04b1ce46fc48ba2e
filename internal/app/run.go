package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/briandowns/spinner"

	"github.com/agbru/fuzzfleet/internal/benchmark"
	apperrors "github.com/agbru/fuzzfleet/internal/errors"
	"github.com/agbru/fuzzfleet/internal/logging"
	"github.com/agbru/fuzzfleet/internal/metrics"
	"github.com/agbru/fuzzfleet/internal/orchestration"
	"github.com/agbru/fuzzfleet/internal/render"
	"github.com/agbru/fuzzfleet/internal/server"
	"github.com/agbru/fuzzfleet/internal/tracing"
	"github.com/agbru/fuzzfleet/internal/tui"
)

// runFleet executes the benchmark run end to end: load and validate the
// definition, set up presentation and observability, then drive the rounds
// to completion or interruption. Definition problems surface before any
// worker is spawned. The deferred registry finalizer guarantees no worker
// survives this function, whichever way it returns.
func (a *Application) runFleet(ctx context.Context, out io.Writer) int {
	def, err := benchmark.Load(a.Config.Definition)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	if err := def.ValidateForRun(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	log := logging.NewLogger(a.ErrWriter, "fuzzfleet")

	// The live dashboard owns the whole terminal; component log lines
	// would tear it, so they are discarded while it runs.
	dashboard := a.dashboardMode(out)
	runLog := log
	if dashboard {
		runLog = logging.NewLogger(io.Discard, "fuzzfleet")
	}

	if a.Config.TraceFile != "" {
		if err := tracing.Init("fuzzfleet", Version, a.Config.TraceFile); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		defer func() {
			if err := tracing.Shutdown(context.Background()); err != nil {
				log.Warn("trace export shutdown failed", logging.Err(err))
			}
		}()
	}

	// The first interrupt cancels the run; the deferred TerminateAll then
	// signals every worker group still tracked.
	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	registry := orchestration.NewRegistry(runLog)
	defer registry.TerminateAll()

	var (
		sink   render.Sink
		spin   render.Spinner
		bridge *tui.Bridge
	)
	if dashboard {
		bridge = tui.NewBridge()
		sink, spin = bridge, bridge
	} else {
		sink, spin = a.presentation(out)
	}

	if a.Config.MetricsAddr != "" {
		m := server.NewMetrics()
		sink = render.MultiSink(sink, server.NewSnapshotSink(m))
		srv := server.New(a.Config.MetricsAddr, m, runLog)
		go func() {
			if err := srv.Start(ctx); err != nil {
				runLog.Error("metrics server failed", err)
			}
		}()
	}

	sup := orchestration.NewSupervisor(orchestration.SupervisorConfig{
		Definition: def,
		Host:       def.EffectiveHost(a.Config.Host),
		Fetcher:    metrics.NewFetcher(metrics.DefaultTimeout),
		Registry:   registry,
		Sink:       sink,
		Log:        runLog,
		Grace:      a.Config.Grace,
	})
	sched := orchestration.NewScheduler(orchestration.SchedulerConfig{
		Definition: def,
		Supervisor: sup,
		RunsDir:    a.Config.RunsDir,
		Log:        runLog,
		Spinner:    spin,
	})

	var runErr error
	if dashboard {
		runErr = a.runDashboard(ctx, sched, bridge, def, log)
	} else {
		runErr = sched.Run(ctx)
	}

	mem := metrics.NewMemoryCollector().Snapshot()
	log.Debug("orchestrator memory at shutdown",
		logging.Uint64("heap_alloc", mem.HeapAlloc),
		logging.Uint64("sys", mem.Sys),
		logging.Uint64("num_gc", uint64(mem.NumGC)))

	if runErr != nil {
		if apperrors.IsContextError(runErr) {
			log.Warn("run interrupted, terminating fleet")
		} else {
			log.Error("run failed", runErr)
		}
	}
	return apperrors.ExitCodeFor(runErr)
}

// dashboardMode reports whether the live dashboard can own this output.
// It needs a real interactive terminal, and -plain wins when both are set.
func (a *Application) dashboardMode(out io.Writer) bool {
	if !a.Config.Dashboard || a.Config.Plain {
		return false
	}
	f, ok := out.(*os.File)
	return ok && render.Interactive(f)
}

// runDashboard drives the scheduler behind the live dashboard. The
// scheduler runs in the background and reports through the bridge; the
// dashboard holds the terminal until the operator quits, which cancels the
// run context, or until an external signal stops both.
func (a *Application) runDashboard(ctx context.Context, sched *orchestration.Scheduler, bridge *tui.Bridge, def *benchmark.Definition, log logging.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		err := sched.Run(ctx)
		bridge.Done(err)
		errCh <- err
	}()

	if err := tui.Run(ctx, cancel, bridge, def.Name, def.Rounds, Version); err != nil {
		log.Error("dashboard failed", err)
		cancel()
	}
	return <-errCh
}

// presentation selects the status sink and pause spinner for this output.
// Only an interactive terminal gets the in-place block and the spinner;
// pipes and forced-plain runs get append-only lines and silence.
func (a *Application) presentation(out io.Writer) (render.Sink, render.Spinner) {
	f, isFile := out.(*os.File)
	if !isFile {
		return render.NewPlainSink(out), render.NullSpinner{}
	}
	sink := render.SelectSink(f, a.Config.Plain)
	if a.Config.Plain || !render.Interactive(f) {
		return sink, render.NullSpinner{}
	}
	// The spinner writes to stderr so it never corrupts the status block.
	return sink, render.NewSpinner(spinner.WithWriter(os.Stderr))
}
