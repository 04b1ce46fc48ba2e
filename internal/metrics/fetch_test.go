package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"
)

// serveExposition starts a test server answering /metrics with body and
// returns the host and port the fetcher should scrape.
func serveExposition(t *testing.T, status int, body string) (string, int) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/metrics" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return hostPort(t, srv.URL)
}

func hostPort(t *testing.T, rawURL string) (string, int) {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse test server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse test server port: %v", err)
	}
	return u.Hostname(), port
}

func TestFetcherExecutions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		wantCount int64
		wantOK    bool
	}{
		{
			name:   "typed counter with several clients",
			status: http.StatusOK,
			body: `# HELP executions Total executions.
# TYPE executions counter
executions{client="fuzzer-0"} 4100200
executions{client="fuzzer-1"} 4200100
executions{client="global"} 8300300.75
`,
			wantCount: 8300300,
			wantOK:    true,
		},
		{
			name:      "untyped exposition",
			status:    http.StatusOK,
			body:      "executions{client=\"global\"} 42\n",
			wantCount: 42,
			wantOK:    true,
		},
		{
			name:   "extra labels around the client label",
			status: http.StatusOK,
			body:      "executions{instance=\"maze-01\",client=\"global\",job=\"fuzz\"} 7\n",
			wantCount: 7,
			wantOK:    true,
		},
		{
			name:   "family present but no global client",
			status: http.StatusOK,
			body: `# TYPE executions counter
executions{client="fuzzer-0"} 100
`,
			wantOK: false,
		},
		{
			name:   "family absent",
			status: http.StatusOK,
			body: `# TYPE crashes counter
crashes{client="global"} 3
`,
			wantOK: false,
		},
		{
			name:   "empty body",
			status: http.StatusOK,
			body:   "",
			wantOK: false,
		},
		{
			name:   "unparseable body",
			status: http.StatusOK,
			body:   "<html>this is not an exposition</html>",
			wantOK: false,
		},
		{
			name:   "non-finite sample",
			status: http.StatusOK,
			body:   "executions{client=\"global\"} NaN\n",
			wantOK: false,
		},
		{
			name:   "server error status",
			status: http.StatusInternalServerError,
			body:   "executions{client=\"global\"} 42\n",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			host, port := serveExposition(t, tt.status, tt.body)
			f := NewFetcher(0)

			count, ok := f.Executions(context.Background(), host, port)
			if ok != tt.wantOK {
				t.Fatalf("Executions ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && count != tt.wantCount {
				t.Errorf("Executions count = %d, want %d", count, tt.wantCount)
			}
		})
	}
}

func TestFetcherExecutionsConnectionRefused(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	host, port := hostPort(t, srv.URL)
	srv.Close()

	f := NewFetcher(0)
	if _, ok := f.Executions(context.Background(), host, port); ok {
		t.Error("Executions reported a sample from a closed endpoint")
	}
}

func TestFetcherExecutionsTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	host, port := hostPort(t, srv.URL)

	f := NewFetcher(50 * time.Millisecond)
	start := time.Now()
	if _, ok := f.Executions(context.Background(), host, port); ok {
		t.Error("Executions reported a sample from a stalled endpoint")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Executions took %v, timeout did not apply", elapsed)
	}
}

func TestFetcherExecutionsCanceledContext(t *testing.T) {
	t.Parallel()
	host, port := serveExposition(t, http.StatusOK, "executions{client=\"global\"} 42\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(0)
	if _, ok := f.Executions(ctx, host, port); ok {
		t.Error("Executions reported a sample despite a canceled context")
	}
}
