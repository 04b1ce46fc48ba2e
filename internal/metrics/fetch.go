package metrics

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// DefaultTimeout bounds a single scrape of a worker's metrics endpoint.
const DefaultTimeout = 2 * time.Second

const (
	executionsFamily = "executions"
	clientLabelName  = "client"
	clientLabelValue = "global"
)

// Fetcher scrapes the aggregate executions counter from a worker's
// Prometheus endpoint. It is safe for use from a single polling goroutine;
// the zero value is not usable, construct it with NewFetcher.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher whose scrapes are bounded by timeout.
// A non-positive timeout selects DefaultTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Executions fetches executions{client="global"} from one worker instance.
//
// Every failure mode collapses to unavailable: connection refused, timeout,
// a non-200 response, an unparseable body, a missing series, or a
// non-finite sample. The caller decides what an unavailable reading means;
// this method never terminates the poll loop.
//
// Parameters:
//   - ctx: Context bounding the request, in addition to the client timeout.
//   - host: Host the worker listens on.
//   - port: The instance's prometheus_port.
//
// Returns:
//   - int64: The counter value truncated to an integer.
//   - bool: True when a usable sample was found.
func (f *Fetcher) Executions(ctx context.Context, host string, port int) (int64, bool) {
	url := fmt.Sprintf("http://%s/metrics", net.JoinHostPort(host, strconv.Itoa(port)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, false
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, false
	}

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return 0, false
	}
	family, ok := families[executionsFamily]
	if !ok {
		return 0, false
	}
	for _, m := range family.GetMetric() {
		if !isGlobalClient(m) {
			continue
		}
		v, ok := sampleValue(m)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}

// isGlobalClient reports whether the sample carries the aggregate
// client="global" label.
func isGlobalClient(m *dto.Metric) bool {
	for _, l := range m.GetLabel() {
		if l.GetName() == clientLabelName && l.GetValue() == clientLabelValue {
			return true
		}
	}
	return false
}

// sampleValue extracts the numeric sample regardless of how the worker
// typed the family. Workers expose executions as a counter, but untyped
// and gauge expositions are accepted too.
func sampleValue(m *dto.Metric) (float64, bool) {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue(), true
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue(), true
	case m.GetUntyped() != nil:
		return m.GetUntyped().GetValue(), true
	}
	return 0, false
}
