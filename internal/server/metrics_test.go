package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agbru/fuzzfleet/internal/logging"
	"github.com/agbru/fuzzfleet/internal/render"
)

// exposition renders the registry through the exporter and returns the body.
func exposition(t *testing.T, m *Metrics) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, req)
	return rec.Body.String()
}

// TestNewMetrics tests the Metrics constructor.
func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
	if m.handler == nil {
		t.Error("Metrics.handler should be initialized")
	}

	// Private registries must allow repeated construction.
	if second := NewMetrics(); second == nil {
		t.Fatal("second NewMetrics returned nil")
	}
}

// TestMetrics_ActiveRequests tests the in-flight request gauge.
func TestMetrics_ActiveRequests(t *testing.T) {
	m := NewMetrics()

	m.IncrementActiveRequests()
	if body := exposition(t, m); !strings.Contains(body, "fuzzfleet_active_requests 1") {
		t.Error("exposition should report one active request")
	}

	m.DecrementActiveRequests()
	body := exposition(t, m)
	if !strings.Contains(body, "fuzzfleet_active_requests 0") {
		t.Error("exposition should report zero active requests")
	}
	// WritePrometheus itself does not pass through the middleware, so only
	// the explicit increments count.
	if !strings.Contains(body, "fuzzfleet_requests_total 1") {
		t.Error("exposition should report one total request")
	}
}

// TestMetrics_ObserveSnapshot tests mirroring a fleet poll into the registry.
func TestMetrics_ObserveSnapshot(t *testing.T) {
	m := NewMetrics()

	m.ObserveSnapshot(render.Snapshot{
		Round: 2,
		Instances: []render.InstanceStatus{
			{Name: "sim-01", State: render.StateRunning, Count: 1500, Known: true},
			{Name: "sim-02", State: render.StateStarting},
			{Name: "sim-03", State: render.StateSignaled, Count: 800, Known: true},
			{Name: "sim-04", State: render.StateExited, ExitCode: 1},
		},
	})

	body := exposition(t, m)
	tests := []struct {
		name string
		want string
	}{
		{"poll counter", "fuzzfleet_fleet_polls_total 1"},
		{"round gauge", "fuzzfleet_fleet_round 2"},
		{"active instances", "fuzzfleet_fleet_active_instances 2"},
		{"running instance executions", `fuzzfleet_fleet_executions{instance="sim-01"} 1500`},
		{"signaled instance executions", `fuzzfleet_fleet_executions{instance="sim-03"} 800`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(body, tt.want) {
				t.Errorf("exposition missing %q", tt.want)
			}
		})
	}

	t.Run("unknown counts leave no series", func(t *testing.T) {
		if strings.Contains(body, `instance="sim-02"`) {
			t.Error("instance without an observed count should have no series")
		}
	})
}

// TestMetrics_WritePrometheus tests the Prometheus exposition endpoint.
func TestMetrics_WritePrometheus(t *testing.T) {
	m := NewMetrics()
	body := exposition(t, m)

	t.Run("Contains fleet metrics", func(t *testing.T) {
		if !strings.Contains(body, "fuzzfleet_fleet_polls_total") {
			t.Error("metrics output should contain fuzzfleet_fleet_polls_total")
		}
	})

	t.Run("Contains request metrics", func(t *testing.T) {
		if !strings.Contains(body, "fuzzfleet_requests_total") {
			t.Error("metrics output should contain fuzzfleet_requests_total")
		}
	})

	t.Run("Contains Go runtime metrics", func(t *testing.T) {
		if !strings.Contains(body, "go_") {
			t.Error("metrics output should contain Go runtime metrics")
		}
	})
}

// TestSnapshotSink verifies the render.Sink adapter feeds the registry.
func TestSnapshotSink(t *testing.T) {
	m := NewMetrics()
	var sink render.Sink = NewSnapshotSink(m)

	sink.Render(render.Snapshot{Round: 1})
	sink.Render(render.Snapshot{Round: 1})

	if body := exposition(t, m); !strings.Contains(body, "fuzzfleet_fleet_polls_total 2") {
		t.Error("two renders should count two polls")
	}
}

// testLogger is a minimal logger for testing that implements logging.Logger.
type testLogger struct{}

func newTestLogger() *testLogger                                  { return &testLogger{} }
func (l *testLogger) Info(_ string, _ ...logging.Field)           {}
func (l *testLogger) Warn(_ string, _ ...logging.Field)           {}
func (l *testLogger) Error(_ string, _ error, _ ...logging.Field) {}
func (l *testLogger) Debug(_ string, _ ...logging.Field)          {}
func (l *testLogger) Printf(_ string, _ ...any)                   {}
func (l *testLogger) Println(_ ...any)                            {}
