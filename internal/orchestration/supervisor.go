package orchestration

import (
	"context"
	"errors"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/fuzzfleet/internal/benchmark"
	apperrors "github.com/agbru/fuzzfleet/internal/errors"
	"github.com/agbru/fuzzfleet/internal/format"
	"github.com/agbru/fuzzfleet/internal/logging"
	"github.com/agbru/fuzzfleet/internal/metrics"
	"github.com/agbru/fuzzfleet/internal/render"
	"github.com/agbru/fuzzfleet/internal/sysmon"
)

// DefaultGrace is how long a signaled worker gets to exit on its own before
// its process group is force-killed at the end of a round.
const DefaultGrace = 10 * time.Second

// record is the supervisor's mutable state for one spawned worker. It is
// owned exclusively by the poll loop for the duration of one round and is
// never reused across rounds.
type record struct {
	inst       benchmark.Instance
	cmd        *exec.Cmd
	waitCh     chan error
	tracker    *format.RateTracker
	state      render.State
	count      int64
	known      bool
	exitCode   int
	killed     bool
	spawnedAt  time.Time
	finishedAt time.Time
}

// terminal reports whether the record left the active set. A terminal
// record is never polled again.
func (r *record) terminal() bool {
	return r.state == render.StateSignaled || r.state == render.StateExited
}

// observe folds a fetched counter value into the record.
func (r *record) observe(count int64, at time.Time) {
	r.count = count
	r.known = true
	if r.state == render.StateStarting {
		r.state = render.StateRunning
	}
	r.tracker.Observe(count, at)
}

// InstanceOutcome is one instance's terminal status for a round.
type InstanceOutcome struct {
	Name string `json:"name"`
	// Outcome is "target-reached" when the executions target triggered
	// termination, "killed" when the worker ignored the termination request,
	// and "exited" when the worker left on its own.
	Outcome         string  `json:"outcome"`
	Executions      int64   `json:"executions"`
	ExitCode        int     `json:"exit_code"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// RoundResult aggregates one finished round.
type RoundResult struct {
	Round      int               `json:"round"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Outcomes   []InstanceOutcome `json:"instances"`
}

// SupervisorConfig wires a Supervisor.
type SupervisorConfig struct {
	Definition *benchmark.Definition
	// Host is the effective host workers are polled on.
	Host     string
	Fetcher  *metrics.Fetcher
	Registry *Registry
	Sink     render.Sink
	Log      logging.Logger
	// Grace bounds the wait for a signaled worker before its group is
	// force-killed; zero selects DefaultGrace.
	Grace time.Duration
}

// Supervisor owns the monitoring loop for one round at a time: it spawns
// the fleet, polls liveness and progress in a fixed order, signals process
// groups that reach the target, and reaps stragglers when the round drains.
type Supervisor struct {
	def      *benchmark.Definition
	host     string
	fetcher  *metrics.Fetcher
	registry *Registry
	sink     render.Sink
	log      logging.Logger
	grace    time.Duration
}

// NewSupervisor creates a Supervisor from its wiring.
func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	grace := cfg.Grace
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Supervisor{
		def:      cfg.Definition,
		host:     cfg.Host,
		fetcher:  cfg.Fetcher,
		registry: cfg.Registry,
		sink:     cfg.Sink,
		log:      cfg.Log,
		grace:    grace,
	}
}

// RunRound spawns every materialized instance and monitors the fleet until
// each worker reached its target or exited, then reaps signaled stragglers.
// configs maps instance names to materialized config paths; instances
// absent from the map were skipped at materialization time.
//
// Per-instance failures never abort the round. Zero started instances is a
// configuration error for the whole invocation. A canceled context aborts
// immediately; whatever is still alive stays tracked in the registry for
// the caller's finalizer to signal.
//
// Parameters:
//   - ctx: Context canceling the round.
//   - round: The 1-based round number, for logs and rendering.
//   - roundDir: Working directory for the round's workers.
//   - configs: Materialized config path per instance name.
//
// Returns:
//   - *RoundResult: Terminal status per spawned instance.
//   - error: Cancellation or the zero-started configuration error.
func (s *Supervisor) RunRound(ctx context.Context, round int, roundDir string, configs map[string]string) (*RoundResult, error) {
	startedAt := time.Now()
	records := s.spawn(roundDir, configs)
	if len(records) == 0 {
		return nil, apperrors.NewConfigError("round %d: no instances could be started", round)
	}

	if err := s.monitor(ctx, round, records); err != nil {
		return nil, err
	}
	if err := s.reap(ctx, records); err != nil {
		return nil, err
	}

	result := &RoundResult{
		Round:      round,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Outcomes:   make([]InstanceOutcome, 0, len(records)),
	}
	for _, rec := range records {
		result.Outcomes = append(result.Outcomes, rec.outcome())
	}
	return result, nil
}

// spawn starts one worker per materialized instance, each in its own
// process group with the config path as its sole argument. Spawn failures
// are warned and skipped; the round proceeds with whatever started.
func (s *Supervisor) spawn(roundDir string, configs map[string]string) []*record {
	binary := s.def.ResolvePath(s.def.Binary)
	records := make([]*record, 0, len(s.def.Instances))

	for _, inst := range s.def.Instances {
		cfgPath, ok := configs[inst.Name]
		if !ok {
			continue
		}

		// Stdout and Stderr stay nil: worker output goes to the null device,
		// only the metrics endpoint matters here.
		cmd := exec.Command(binary, cfgPath)
		cmd.Dir = roundDir
		configureWorkerProcess(cmd)

		if err := cmd.Start(); err != nil {
			s.log.Error("failed to start instance", err,
				logging.String("instance", inst.Name))
			continue
		}

		waitCh := make(chan error, 1)
		go func(c *exec.Cmd) { waitCh <- c.Wait() }(cmd)

		s.registry.Track(inst.Name, cmd)
		s.log.Info("started instance",
			logging.String("instance", inst.Name),
			logging.Int("pid", cmd.Process.Pid),
			logging.Int("prometheus_port", inst.PrometheusPort))

		records = append(records, &record{
			inst:      inst,
			cmd:       cmd,
			waitCh:    waitCh,
			tracker:   &format.RateTracker{},
			state:     render.StateStarting,
			spawnedAt: time.Now(),
		})
	}
	return records
}

// monitor drives the poll loop until the active set drains: poll, render,
// sleep the poll interval, repeat. Cancellation is observed both mid-sleep
// and before each poll.
func (s *Supervisor) monitor(ctx context.Context, round int, records []*record) error {
	interval := s.def.PollEvery()
	startedAt := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		active := s.pollOnce(ctx, records)
		s.sink.Render(s.snapshot(round, records, time.Since(startedAt)))
		if active == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// pollOnce advances every active record once, in instance-name order:
// liveness first without blocking, then a metrics fetch only while the
// worker is alive. Reaching the target signals the instance's whole process
// group and marks the record terminal in the same step, so it is never
// polled again. Returns the number of records still active.
func (s *Supervisor) pollOnce(ctx context.Context, records []*record) int {
	active := 0
	for _, rec := range records {
		if rec.terminal() {
			continue
		}

		select {
		case waitErr := <-rec.waitCh:
			rec.state = render.StateExited
			rec.exitCode = exitCode(rec.cmd, waitErr)
			rec.finishedAt = time.Now()
			s.registry.Forget(rec.inst.Name)
			s.log.Info("instance exited",
				logging.String("instance", rec.inst.Name),
				logging.Int("exit_code", rec.exitCode),
				logging.Int64("executions", rec.count))
			continue
		default:
		}

		if count, ok := s.fetcher.Executions(ctx, s.host, rec.inst.PrometheusPort); ok {
			rec.observe(count, time.Now())
		}

		if target := s.def.TargetExecutions; target > 0 && rec.known && rec.count >= target {
			signalWorkerGroup(rec.cmd)
			rec.state = render.StateSignaled
			rec.finishedAt = time.Now()
			s.log.Info("target reached, signaled instance group",
				logging.String("instance", rec.inst.Name),
				logging.Int64("executions", rec.count),
				logging.Int64("target", target))
			continue
		}
		active++
	}
	return active
}

// snapshot assembles the render view of the whole fleet, terminal records
// included, so the status block keeps one row per spawned instance for the
// entire round.
func (s *Supervisor) snapshot(round int, records []*record, elapsed time.Duration) render.Snapshot {
	snap := render.Snapshot{
		Benchmark: s.def.Name,
		Round:     round,
		Rounds:    s.def.Rounds,
		Elapsed:   elapsed,
		Host:      sysmon.Sample(),
		Instances: make([]render.InstanceStatus, 0, len(records)),
	}
	for _, rec := range records {
		snap.Instances = append(snap.Instances, render.InstanceStatus{
			Name:     rec.inst.Name,
			State:    rec.state,
			Count:    rec.count,
			Known:    rec.known,
			Target:   s.def.TargetExecutions,
			Rate:     rec.tracker.Rate(),
			ETA:      rec.tracker.ETA(s.def.TargetExecutions),
			ExitCode: rec.exitCode,
		})
	}
	return snap
}

// reap waits for every signaled worker to leave. Each gets the grace period
// to exit voluntarily, then its whole group is force-killed. Stragglers are
// reaped concurrently so one stuck worker does not serialize the round's
// end.
func (s *Supervisor) reap(ctx context.Context, records []*record) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, rec := range records {
		if rec.state != render.StateSignaled {
			continue
		}
		g.Go(func() error {
			timer := time.NewTimer(s.grace)
			defer timer.Stop()

			select {
			case <-rec.waitCh:
			case <-timer.C:
				killWorkerGroup(rec.cmd)
				rec.killed = true
				s.log.Warn("instance ignored termination, killed process group",
					logging.String("instance", rec.inst.Name))
				select {
				case <-rec.waitCh:
				case <-ctx.Done():
					return ctx.Err()
				}
			case <-ctx.Done():
				return ctx.Err()
			}

			s.registry.Forget(rec.inst.Name)
			return nil
		})
	}
	return g.Wait()
}

// outcome folds a drained record into its reportable terminal status.
func (r *record) outcome() InstanceOutcome {
	oc := InstanceOutcome{
		Name:            r.inst.Name,
		Executions:      r.count,
		ExitCode:        r.exitCode,
		DurationSeconds: r.finishedAt.Sub(r.spawnedAt).Seconds(),
	}
	switch {
	case r.killed:
		oc.Outcome = "killed"
	case r.state == render.StateSignaled:
		oc.Outcome = "target-reached"
	default:
		oc.Outcome = "exited"
	}
	return oc
}

// exitCode extracts the worker's exit code after Wait returned. A worker
// terminated by a signal reports -1.
func exitCode(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	var ee *exec.ExitError
	if errors.As(waitErr, &ee) {
		return ee.ExitCode()
	}
	if waitErr != nil {
		return -1
	}
	return 0
}
