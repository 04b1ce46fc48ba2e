// Package promsd generates Prometheus file_sd target descriptors for a
// benchmark's worker fleet, so an external Prometheus can scrape every
// instance the orchestrator is about to run.
package promsd

import (
	"encoding/json"
	"net"
	"strconv"

	"github.com/agbru/fuzzfleet/internal/benchmark"
	apperrors "github.com/agbru/fuzzfleet/internal/errors"
)

// TargetGroup is one file_sd entry: the scrape addresses and the labels
// attached to every series they produce.
type TargetGroup struct {
	Targets []string          `json:"targets"`
	Labels  map[string]string `json:"labels"`
}

// Groups builds one target group per instance, addressed at the instance's
// prometheus_port on the effective host. Instances keep the definition's
// order, so regenerating the descriptor for an unchanged benchmark is
// byte-stable.
func Groups(def *benchmark.Definition, hostOverride string) []TargetGroup {
	host := def.EffectiveHost(hostOverride)
	groups := make([]TargetGroup, 0, len(def.Instances))
	for _, inst := range def.Instances {
		groups = append(groups, TargetGroup{
			Targets: []string{net.JoinHostPort(host, strconv.Itoa(inst.PrometheusPort))},
			Labels: map[string]string{
				"job":       inst.Name,
				"benchmark": def.Name,
			},
		})
	}
	return groups
}

// Descriptor renders the full file_sd document for a benchmark definition.
//
// Parameters:
//   - def: The loaded benchmark definition.
//   - hostOverride: Optional host replacing the definition's host.
//
// Returns:
//   - []byte: Indented JSON, newline-terminated.
//   - error: Any encoding failure.
func Descriptor(def *benchmark.Definition, hostOverride string) ([]byte, error) {
	out, err := json.MarshalIndent(Groups(def, hostOverride), "", "  ")
	if err != nil {
		return nil, apperrors.WrapError(err, "encode monitoring targets for %s", def.Name)
	}
	return append(out, '\n'), nil
}
