package orchestration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/fuzzfleet/internal/benchmark"
	apperrors "github.com/agbru/fuzzfleet/internal/errors"
	"github.com/agbru/fuzzfleet/internal/format"
	"github.com/agbru/fuzzfleet/internal/logging"
	"github.com/agbru/fuzzfleet/internal/render"
)

// runTimestampLayout names run directories with a UTC timestamp at second
// resolution.
const runTimestampLayout = "20060102-150405"

// SchedulerConfig wires a Scheduler.
type SchedulerConfig struct {
	Definition *benchmark.Definition
	Supervisor *Supervisor
	// RunsDir is the parent of dated run directories.
	RunsDir string
	Log     logging.Logger
	// Spinner animates the inter-round pause; nil selects NullSpinner.
	Spinner render.Spinner
}

// Scheduler drives the configured rounds strictly sequentially: materialize
// the fleet's configs into a fresh round directory, run the round until its
// active set drains, persist the round summary, pause, repeat. Round r+1
// never starts while any round-r process remains un-terminal.
type Scheduler struct {
	def     *benchmark.Definition
	sup     *Supervisor
	runsDir string
	log     logging.Logger
	spin    render.Spinner
	tracer  trace.Tracer
}

// NewScheduler creates a Scheduler from its wiring.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	spin := cfg.Spinner
	if spin == nil {
		spin = render.NullSpinner{}
	}
	return &Scheduler{
		def:     cfg.Definition,
		sup:     cfg.Supervisor,
		runsDir: cfg.RunsDir,
		log:     cfg.Log,
		spin:    spin,
		tracer:  otel.Tracer("fuzzfleet/orchestration"),
	}
}

// Run creates the dated run directory and executes every configured round.
// It returns the context error unchanged when interrupted so the caller can
// map it to the interrupt exit code.
func (s *Scheduler) Run(ctx context.Context) error {
	runDir := filepath.Join(s.runsDir,
		fmt.Sprintf("%s-%s", s.def.Name, time.Now().UTC().Format(runTimestampLayout)))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return apperrors.WrapError(err, "create run directory %s", runDir)
	}

	s.log.Info("run starting",
		logging.String("benchmark", s.def.Name),
		logging.String("run_dir", runDir),
		logging.Int("rounds", s.def.Rounds),
		logging.Int("instances", len(s.def.Instances)),
		logging.Int64("target_executions", s.def.TargetExecutions))

	for round := 1; round <= s.def.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runRound(ctx, round, runDir); err != nil {
			return err
		}
		if round < s.def.Rounds {
			if err := s.pause(ctx, round+1); err != nil {
				return err
			}
		}
	}

	s.log.Info("run complete", logging.String("run_dir", runDir))
	return nil
}

// runRound prepares one round directory, delegates to the supervisor, and
// persists the summary. Each round carries its own trace span.
func (s *Scheduler) runRound(ctx context.Context, round int, runDir string) error {
	ctx, span := s.tracer.Start(ctx, "round", trace.WithAttributes(
		attribute.String("benchmark", s.def.Name),
		attribute.Int("round", round),
	))
	defer span.End()

	roundDir := filepath.Join(runDir, fmt.Sprintf("round-%02d", round))
	if err := os.MkdirAll(roundDir, 0o755); err != nil {
		return apperrors.WrapError(err, "create round directory %s", roundDir)
	}

	configs := s.materialize(roundDir)
	s.log.Info("round starting",
		logging.Int("round", round),
		logging.Int("instances", len(configs)))

	result, err := s.sup.RunRound(ctx, round, roundDir, configs)
	if err != nil {
		return err
	}
	if err := writeSummary(roundDir, s.def.Name, result); err != nil {
		s.log.Error("failed to write round summary", err,
			logging.Int("round", round))
	}

	s.log.Info("round complete",
		logging.Int("round", round),
		logging.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))
	return nil
}

// materialize writes one worker config per instance into the round
// directory. A missing or unreadable base config skips that instance with a
// warning; the rest of the fleet proceeds.
func (s *Scheduler) materialize(roundDir string) map[string]string {
	configs := make(map[string]string, len(s.def.Instances))
	for _, inst := range s.def.Instances {
		path, err := benchmark.Materialize(s.def.ResolvePath(inst.Config), inst, roundDir)
		if err != nil {
			s.log.Warn("skipping instance, base config unavailable",
				logging.String("instance", inst.Name),
				logging.Err(err))
			continue
		}
		configs[inst.Name] = path
	}
	return configs
}

// pause sleeps the configured inter-round pause with a live countdown,
// returning early when canceled.
func (s *Scheduler) pause(ctx context.Context, nextRound int) error {
	d := s.def.Pause()
	if d <= 0 {
		return nil
	}
	s.log.Info("pausing before next round",
		logging.Duration("pause", d),
		logging.Int("next_round", nextRound))

	deadline := time.Now().Add(d)
	s.spin.Start()
	defer s.spin.Stop()

	timer := time.NewTimer(d)
	defer timer.Stop()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		s.spin.UpdateSuffix(fmt.Sprintf(" round %d in %s",
			nextRound, format.FormatElapsed(time.Until(deadline))))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case <-ticker.C:
		}
	}
}

// writeSummary persists the round's outcome next to its materialized
// configs.
func writeSummary(roundDir, bench string, result *RoundResult) error {
	summary := struct {
		Benchmark string `json:"benchmark"`
		*RoundResult
	}{Benchmark: bench, RoundResult: result}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(roundDir, "summary.json"), append(data, '\n'), 0o644)
}
