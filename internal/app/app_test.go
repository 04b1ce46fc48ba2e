package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agbru/fuzzfleet/internal/config"
	apperrors "github.com/agbru/fuzzfleet/internal/errors"
	"github.com/agbru/fuzzfleet/internal/render"
)

// writeDefinitionFile writes a benchmark definition and its base config
// into dir and returns the definition path.
func writeDefinitionFile(t *testing.T, dir, body string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("project: demo\n"), 0o644); err != nil {
		t.Fatalf("write base config: %v", err)
	}
	path := filepath.Join(dir, "bench.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write definition: %v", err)
	}
	return path
}

const validDefinition = `name: sim
binary: fuzzer
target_executions: 0
poll_interval: 0.05
rounds: 1
instances:
  - config: base.yaml
    cores: 1
    broker_port: 7777
    prometheus_port: 65003
  - config: base.yaml
    cores: 2
    broker_port: 7778
    prometheus_port: 65004
`

func TestNew(t *testing.T) {
	t.Run("parses run command", func(t *testing.T) {
		a, err := New([]string{"fuzzfleet", "run", "-def", "bench.yaml", "-plain"}, io.Discard)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if a.Config.Command != config.CommandRun || a.Config.Definition != "bench.yaml" || !a.Config.Plain {
			t.Errorf("config = %+v", a.Config)
		}
	})

	t.Run("help is recognizable", func(t *testing.T) {
		_, err := New([]string{"fuzzfleet", "--help"}, io.Discard)
		if !IsHelpError(err) {
			t.Errorf("err = %v, want help error", err)
		}
	})

	t.Run("usage errors are not help errors", func(t *testing.T) {
		_, err := New([]string{"fuzzfleet", "frobnicate"}, io.Discard)
		if err == nil || IsHelpError(err) {
			t.Errorf("err = %v, want non-help usage error", err)
		}
	})
}

func TestRunVersion(t *testing.T) {
	a, err := New([]string{"fuzzfleet", "version"}, io.Discard)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run = %d, want 0", code)
	}
	if !strings.Contains(out.String(), "fuzzfleet") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestRunCompletion(t *testing.T) {
	t.Run("writes the script to stdout", func(t *testing.T) {
		a, err := New([]string{"fuzzfleet", "completion", "bash"}, io.Discard)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		var out bytes.Buffer
		if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
			t.Fatalf("Run = %d, want 0", code)
		}
		if !strings.Contains(out.String(), "complete -F _fuzzfleet_completions fuzzfleet") {
			t.Errorf("completion output = %q", out.String())
		}
	})

	t.Run("unknown shell is a usage error", func(t *testing.T) {
		var errOut bytes.Buffer
		a, err := New([]string{"fuzzfleet", "completion", "tcsh"}, &errOut)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		if code := a.Run(context.Background(), io.Discard); code != apperrors.ExitErrorUsage {
			t.Fatalf("Run = %d, want %d", code, apperrors.ExitErrorUsage)
		}
		if !strings.Contains(errOut.String(), "unsupported shell") {
			t.Errorf("stderr = %q", errOut.String())
		}
	})
}

func TestRunTargetsStdout(t *testing.T) {
	dir := t.TempDir()
	defPath := writeDefinitionFile(t, dir, validDefinition)

	a, err := New([]string{"fuzzfleet", "targets", "-def", defPath, "-host", "fuzzbox.lan"}, io.Discard)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run = %d, want 0", code)
	}

	var groups []struct {
		Targets []string          `json:"targets"`
		Labels  map[string]string `json:"labels"`
	}
	if err := json.Unmarshal(out.Bytes(), &groups); err != nil {
		t.Fatalf("decode targets: %v\noutput: %s", err, out.String())
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Targets[0] != "fuzzbox.lan:65003" {
		t.Errorf("first target = %q, want fuzzbox.lan:65003", groups[0].Targets[0])
	}
	if groups[0].Labels["job"] != "sim-01" {
		t.Errorf("first job label = %q, want sim-01", groups[0].Labels["job"])
	}
}

func TestRunTargetsOutFile(t *testing.T) {
	dir := t.TempDir()
	defPath := writeDefinitionFile(t, dir, validDefinition)
	outPath := filepath.Join(dir, "targets.json")

	a, err := New([]string{"fuzzfleet", "targets", "-def", defPath, "-out", outPath}, io.Discard)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run = %d, want 0", code)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read targets file: %v", err)
	}
	if !json.Valid(data) {
		t.Error("targets file is not valid JSON")
	}
	if !strings.Contains(out.String(), outPath) {
		t.Errorf("confirmation output = %q, want mention of %s", out.String(), outPath)
	}
}

func TestRunTargetsMissingDefinition(t *testing.T) {
	a, err := New([]string{"fuzzfleet", "targets", "-def", "/does/not/exist.yaml"}, io.Discard)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var errOut bytes.Buffer
	a.ErrWriter = &errOut
	if code := a.Run(context.Background(), io.Discard); code != apperrors.ExitErrorConfig {
		t.Fatalf("Run = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if errOut.Len() == 0 {
		t.Error("an error message should be written")
	}
}

func TestRunFleetInvalidDefinition(t *testing.T) {
	dir := t.TempDir()
	// Two instances claim the same prometheus port.
	defPath := writeDefinitionFile(t, dir, `name: sim
binary: fuzzer
poll_interval: 1
rounds: 1
instances:
  - config: base.yaml
    cores: 1
    broker_port: 7777
    prometheus_port: 9400
  - config: base.yaml
    cores: 1
    broker_port: 9400
    prometheus_port: 9401
`)

	a, err := New([]string{"fuzzfleet", "run", "-def", defPath}, io.Discard)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.ErrWriter = io.Discard

	if code := a.Run(context.Background(), io.Discard); code != apperrors.ExitErrorConfig {
		t.Fatalf("Run = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestRunFleetMissingBinary(t *testing.T) {
	dir := t.TempDir()
	defPath := writeDefinitionFile(t, dir, validDefinition)

	a, err := New([]string{"fuzzfleet", "run", "-def", defPath}, io.Discard)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.ErrWriter = io.Discard

	// The binary named in the definition does not exist, so the run must
	// fail before anything is spawned.
	if code := a.Run(context.Background(), io.Discard); code != apperrors.ExitErrorConfig {
		t.Fatalf("Run = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestPresentation(t *testing.T) {
	t.Run("non-file output gets plain sink", func(t *testing.T) {
		a := &Application{Config: config.AppConfig{}, ErrWriter: io.Discard}
		sink, spin := a.presentation(&bytes.Buffer{})
		if _, ok := sink.(*render.PlainSink); !ok {
			t.Errorf("sink = %T, want *render.PlainSink", sink)
		}
		if _, ok := spin.(render.NullSpinner); !ok {
			t.Errorf("spinner = %T, want render.NullSpinner", spin)
		}
	})

	t.Run("forced plain on a file gets plain sink", func(t *testing.T) {
		f, err := os.CreateTemp(t.TempDir(), "out")
		if err != nil {
			t.Fatalf("temp file: %v", err)
		}
		defer f.Close()

		a := &Application{Config: config.AppConfig{Plain: true}, ErrWriter: io.Discard}
		sink, spin := a.presentation(f)
		if _, ok := sink.(*render.PlainSink); !ok {
			t.Errorf("sink = %T, want *render.PlainSink", sink)
		}
		if _, ok := spin.(render.NullSpinner); !ok {
			t.Errorf("spinner = %T, want render.NullSpinner", spin)
		}
	})
}

func TestDashboardMode(t *testing.T) {
	t.Run("off unless requested", func(t *testing.T) {
		a := &Application{Config: config.AppConfig{}, ErrWriter: io.Discard}
		if a.dashboardMode(os.Stdout) {
			t.Error("dashboard should be off by default")
		}
	})

	t.Run("plain wins over dashboard", func(t *testing.T) {
		a := &Application{Config: config.AppConfig{Dashboard: true, Plain: true}, ErrWriter: io.Discard}
		if a.dashboardMode(os.Stdout) {
			t.Error("plain must disable the dashboard")
		}
	})

	t.Run("non-file output cannot host the dashboard", func(t *testing.T) {
		a := &Application{Config: config.AppConfig{Dashboard: true}, ErrWriter: io.Discard}
		if a.dashboardMode(&bytes.Buffer{}) {
			t.Error("a buffer is not a terminal")
		}
	})

	t.Run("non-terminal file cannot host the dashboard", func(t *testing.T) {
		f, err := os.CreateTemp(t.TempDir(), "out")
		if err != nil {
			t.Fatalf("temp file: %v", err)
		}
		defer f.Close()

		a := &Application{Config: config.AppConfig{Dashboard: true}, ErrWriter: io.Discard}
		if a.dashboardMode(f) {
			t.Error("a regular file is not a terminal")
		}
	})
}
