package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestFieldHelpers tests the Field constructor functions.
func TestFieldHelpers(t *testing.T) {
	t.Run("String creates field with key and string value", func(t *testing.T) {
		f := String("instance", "maze-01")
		if f.Key != "instance" {
			t.Errorf("String().Key = %q, want %q", f.Key, "instance")
		}
		if f.Value != "maze-01" {
			t.Errorf("String().Value = %q, want %q", f.Value, "maze-01")
		}
	})

	t.Run("Int creates field with key and int value", func(t *testing.T) {
		f := Int("round", 3)
		if f.Key != "round" {
			t.Errorf("Int().Key = %q, want %q", f.Key, "round")
		}
		if f.Value != 3 {
			t.Errorf("Int().Value = %v, want %v", f.Value, 3)
		}
	})

	t.Run("Int64 creates field with key and int64 value", func(t *testing.T) {
		f := Int64("executions", 9_223_372_036_854)
		if f.Key != "executions" {
			t.Errorf("Int64().Key = %q, want %q", f.Key, "executions")
		}
		if f.Value != int64(9_223_372_036_854) {
			t.Errorf("Int64().Value = %v, want %v", f.Value, int64(9_223_372_036_854))
		}
	})

	t.Run("Uint64 creates field with key and uint64 value", func(t *testing.T) {
		f := Uint64("count", 12345678901234567890)
		if f.Key != "count" {
			t.Errorf("Uint64().Key = %q, want %q", f.Key, "count")
		}
		if f.Value != uint64(12345678901234567890) {
			t.Errorf("Uint64().Value = %v, want %v", f.Value, uint64(12345678901234567890))
		}
	})

	t.Run("Float64 creates field with key and float64 value", func(t *testing.T) {
		f := Float64("rate", 1234.5)
		if f.Key != "rate" {
			t.Errorf("Float64().Key = %q, want %q", f.Key, "rate")
		}
		if f.Value != 1234.5 {
			t.Errorf("Float64().Value = %v, want %v", f.Value, 1234.5)
		}
	})

	t.Run("Duration creates field with key and duration value", func(t *testing.T) {
		f := Duration("elapsed", 5*time.Second)
		if f.Key != "elapsed" {
			t.Errorf("Duration().Key = %q, want %q", f.Key, "elapsed")
		}
		if f.Value != 5*time.Second {
			t.Errorf("Duration().Value = %v, want %v", f.Value, 5*time.Second)
		}
	})

	t.Run("Err creates field with error key", func(t *testing.T) {
		testErr := errors.New("test error")
		f := Err(testErr)
		if f.Key != "error" {
			t.Errorf("Err().Key = %q, want %q", f.Key, "error")
		}
		if f.Value != testErr {
			t.Errorf("Err().Value = %v, want %v", f.Value, testErr)
		}
	})

	t.Run("Err with nil error", func(t *testing.T) {
		f := Err(nil)
		if f.Key != "error" {
			t.Errorf("Err(nil).Key = %q, want %q", f.Key, "error")
		}
		if f.Value != nil {
			t.Errorf("Err(nil).Value = %v, want nil", f.Value)
		}
	})
}

// TestNewZerologAdapter tests the ZerologAdapter constructor.
func TestNewZerologAdapter(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	adapter := NewZerologAdapter(zl)

	if adapter == nil {
		t.Fatal("NewZerologAdapter returned nil")
	}

	adapter.Info("test message")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("NewZerologAdapter logger not working, output: %s", buf.String())
	}
}

// TestNewDefaultLogger tests the default logger constructor.
func TestNewDefaultLogger(t *testing.T) {
	logger := NewDefaultLogger()
	if logger == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}
}

// TestNewLogger tests the custom logger constructor.
func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "supervisor")

	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}

	logger.Info("worker started")
	output := buf.String()

	if !strings.Contains(output, "supervisor") {
		t.Errorf("NewLogger should include component field, got: %s", output)
	}
	if !strings.Contains(output, "worker started") {
		t.Errorf("NewLogger should include message, got: %s", output)
	}
}

// TestZerologAdapter_Info tests the Info method.
func TestZerologAdapter_Info(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		fields   []Field
		contains []string
	}{
		{
			name:     "no fields",
			msg:      "round complete",
			fields:   nil,
			contains: []string{"round complete", "info"},
		},
		{
			name:     "with string field",
			msg:      "worker spawned",
			fields:   []Field{String("instance", "maze-01")},
			contains: []string{"worker spawned", "maze-01"},
		},
		{
			name:     "with multiple fields",
			msg:      "target reached",
			fields:   []Field{String("instance", "maze-02"), Int64("executions", 10000000)},
			contains: []string{"target reached", "maze-02", "10000000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Info(tt.msg, tt.fields...)

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

// TestZerologAdapter_Warn tests the Warn method.
func TestZerologAdapter_Warn(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Warn("base config missing", String("instance", "maze-03"))

	output := buf.String()
	for _, want := range []string{"base config missing", "maze-03", "warn"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got: %s", want, output)
		}
	}
}

// TestZerologAdapter_Error tests the Error method.
func TestZerologAdapter_Error(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		err      error
		fields   []Field
		contains []string
	}{
		{
			name:     "with error",
			msg:      "metrics fetch failed",
			err:      errors.New("connection refused"),
			fields:   nil,
			contains: []string{"metrics fetch failed", "connection refused", "error"},
		},
		{
			name:     "with nil error",
			msg:      "worker exited",
			err:      nil,
			fields:   nil,
			contains: []string{"worker exited", "error"},
		},
		{
			name:     "with error and fields",
			msg:      "spawn failed",
			err:      errors.New("no such file"),
			fields:   []Field{String("instance", "maze-01"), Int("round", 2)},
			contains: []string{"spawn failed", "no such file", "maze-01", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Error(tt.msg, tt.err, tt.fields...)

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

// TestZerologAdapter_Debug tests the Debug method.
func TestZerologAdapter_Debug(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.DebugLevel)
	logger := NewZerologAdapter(zl)

	logger.Debug("poll tick", String("instance", "maze-01"))

	output := buf.String()
	if !strings.Contains(output, "poll tick") {
		t.Errorf("Debug output should contain message, got: %s", output)
	}
	if !strings.Contains(output, "debug") {
		t.Errorf("Debug output should contain level, got: %s", output)
	}
}

// TestZerologAdapter_Printf tests the Printf method.
func TestZerologAdapter_Printf(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Printf("round %d of %d", 2, 5)

	output := buf.String()
	if !strings.Contains(output, "round 2 of 5") {
		t.Errorf("Printf should format message, got: %s", output)
	}
}

// TestZerologAdapter_Println tests the Println method.
func TestZerologAdapter_Println(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Println("hello", "world")

	output := buf.String()
	if !strings.Contains(output, "hello") || !strings.Contains(output, "world") {
		t.Errorf("Println should include all arguments, got: %s", output)
	}
}

// TestZerologAdapter_applyFields tests field application with all supported types.
func TestZerologAdapter_applyFields(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		contains string
	}{
		{"string field", Field{Key: "str", Value: "hello"}, "hello"},
		{"int field", Field{Key: "num", Value: 42}, "42"},
		{"int64 field", Field{Key: "big", Value: int64(9223372036854775807)}, "9223372036854775807"},
		{"uint64 field", Field{Key: "huge", Value: uint64(18446744073709551615)}, "18446744073709551615"},
		{"float64 field", Field{Key: "pct", Value: 99.5}, "99.5"},
		{"duration field", Field{Key: "elapsed", Value: 1500 * time.Millisecond}, "1500"},
		{"error field", Field{Key: "err", Value: errors.New("oops")}, "oops"},
		{"bool field", Field{Key: "alive", Value: true}, "true"},
		{"interface field", Field{Key: "data", Value: struct{ X int }{X: 1}}, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Info("test", tt.field)

			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("applyFields should handle %s, output: %s", tt.name, output)
			}
		})
	}
}

// TestNewStdLoggerAdapter tests the StdLoggerAdapter constructor.
func TestNewStdLoggerAdapter(t *testing.T) {
	var buf bytes.Buffer
	stdLogger := log.New(&buf, "", 0)
	adapter := NewStdLoggerAdapter(stdLogger)

	if adapter == nil {
		t.Fatal("NewStdLoggerAdapter returned nil")
	}

	adapter.Info("test")
	if !strings.Contains(buf.String(), "test") {
		t.Errorf("StdLoggerAdapter not working, output: %s", buf.String())
	}
}

// TestStdLoggerAdapter_Levels tests the leveled StdLoggerAdapter methods.
func TestStdLoggerAdapter_Levels(t *testing.T) {
	tests := []struct {
		name     string
		logFn    func(Logger)
		contains []string
	}{
		{
			name:     "Info no fields",
			logFn:    func(l Logger) { l.Info("round started") },
			contains: []string{"[INFO]", "round started"},
		},
		{
			name:     "Info with fields",
			logFn:    func(l Logger) { l.Info("spawned", String("instance", "maze-01")) },
			contains: []string{"[INFO]", "spawned", "instance", "maze-01"},
		},
		{
			name:     "Warn with fields",
			logFn:    func(l Logger) { l.Warn("skipping instance", String("reason", "missing config")) },
			contains: []string{"[WARN]", "skipping instance", "missing config"},
		},
		{
			name:     "Error with error no fields",
			logFn:    func(l Logger) { l.Error("failed", errors.New("boom")) },
			contains: []string{"[ERROR]", "failed", "boom"},
		},
		{
			name:     "Error with error and fields",
			logFn:    func(l Logger) { l.Error("spawn failed", errors.New("enoent"), String("instance", "a")) },
			contains: []string{"[ERROR]", "spawn failed", "enoent", "instance", "a"},
		},
		{
			name:     "Error with nil error",
			logFn:    func(l Logger) { l.Error("gone", nil) },
			contains: []string{"[ERROR]", "gone"},
		},
		{
			name:     "Debug with fields",
			logFn:    func(l Logger) { l.Debug("poll", Int("cycle", 42)) },
			contains: []string{"[DEBUG]", "poll", "cycle", "42"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			adapter := NewStdLoggerAdapter(log.New(&buf, "", 0))

			tt.logFn(adapter)

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

// TestStdLoggerAdapter_Printf tests the StdLoggerAdapter Printf method.
func TestStdLoggerAdapter_Printf(t *testing.T) {
	var buf bytes.Buffer
	stdLogger := log.New(&buf, "", 0)
	adapter := NewStdLoggerAdapter(stdLogger)

	adapter.Printf("value is %d", 123)

	output := buf.String()
	if !strings.Contains(output, "value is 123") {
		t.Errorf("Printf should format string, got: %s", output)
	}
}

// TestStdLoggerAdapter_Println tests the StdLoggerAdapter Println method.
func TestStdLoggerAdapter_Println(t *testing.T) {
	var buf bytes.Buffer
	stdLogger := log.New(&buf, "", 0)
	adapter := NewStdLoggerAdapter(stdLogger)

	adapter.Println("a", "b", "c")

	output := buf.String()
	if !strings.Contains(output, "a") || !strings.Contains(output, "b") || !strings.Contains(output, "c") {
		t.Errorf("Println should include all args, got: %s", output)
	}
}

// TestLoggerInterface verifies both adapters implement the Logger interface.
func TestLoggerInterface(t *testing.T) {
	t.Run("ZerologAdapter implements Logger", func(t *testing.T) {
		var buf bytes.Buffer
		var _ Logger = NewLogger(&buf, "test")
	})

	t.Run("StdLoggerAdapter implements Logger", func(t *testing.T) {
		var buf bytes.Buffer
		stdLogger := log.New(&buf, "", 0)
		var _ Logger = NewStdLoggerAdapter(stdLogger)
	})
}
