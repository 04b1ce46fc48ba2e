// Package benchmark defines the benchmark document driving a run: the fleet
// of worker instances, their ports and core assignments, the executions
// target, and the round schedule. It also materializes per-instance worker
// configurations from a base template.
package benchmark

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/fuzzfleet/internal/errors"
)

// Defaults applied to absent optional fields of a benchmark definition.
const (
	DefaultHost               = "127.0.0.1"
	DefaultPollInterval       = 5.0   // seconds
	DefaultRounds             = 1
	DefaultPauseBetweenRounds = 300.0 // seconds
)

// Instance describes one fuzzing worker of the fleet: the base config it is
// materialized from and the resources the orchestrator assigns to it.
type Instance struct {
	// Name identifies the instance. Optional; defaults to "<benchmark>-NN".
	Name string `yaml:"name"`
	// Config is the path to the base worker configuration, relative to the
	// definition file.
	Config string `yaml:"config"`
	// Cores is the core assignment written into the worker configuration.
	// It is an opaque scalar (a range string like "0-3" or a count).
	Cores any `yaml:"cores"`
	// BrokerPort is the fuzzer broker port written into the configuration.
	BrokerPort int `yaml:"broker_port"`
	// PrometheusPort is the port the worker serves its metrics on.
	PrometheusPort int `yaml:"prometheus_port"`
}

// Definition is a parsed benchmark document.
type Definition struct {
	// Name identifies the benchmark; it becomes the job label of the
	// monitoring targets and the run directory prefix.
	Name string `yaml:"name"`
	// Binary is the worker executable path, relative to the definition file.
	Binary string `yaml:"binary"`
	// Host is where the workers serve metrics. Defaults to DefaultHost.
	Host string `yaml:"host"`
	// TargetExecutions is the per-instance executions threshold. Zero means
	// no threshold: workers run until they exit on their own.
	TargetExecutions int64 `yaml:"target_executions"`
	// PollInterval is the seconds between poll cycles.
	PollInterval float64 `yaml:"poll_interval"`
	// Rounds is how many times the benchmark is repeated.
	Rounds int `yaml:"rounds"`
	// PauseBetweenRounds is the seconds to wait between consecutive rounds.
	PauseBetweenRounds float64 `yaml:"pause_between_rounds"`
	// Instances is the worker fleet. Ordered by name after loading.
	Instances []Instance `yaml:"instances"`

	dir string
}

// Load reads, parses, and normalizes a benchmark definition. Optional fields
// receive their defaults, unnamed instances are named positionally, and the
// instance list is sorted by name so every later traversal is deterministic.
//
// Parameters:
//   - path: The definition file path.
//
// Returns:
//   - *Definition: The normalized definition.
//   - error: A ConfigError if the file cannot be read or parsed, or a
//     ValidationError if the document is structurally invalid.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError("read benchmark definition: %v", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, apperrors.NewConfigError("parse benchmark definition %s: %v", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, apperrors.NewConfigError("resolve benchmark definition path: %v", err)
	}
	def.dir = filepath.Dir(abs)

	def.applyDefaults()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// applyDefaults fills absent optional fields and assigns positional names to
// unnamed instances, then fixes the instance order.
func (d *Definition) applyDefaults() {
	if d.Host == "" {
		d.Host = DefaultHost
	}
	if d.PollInterval == 0 {
		d.PollInterval = DefaultPollInterval
	}
	if d.Rounds == 0 {
		d.Rounds = DefaultRounds
	}
	if d.PauseBetweenRounds == 0 {
		d.PauseBetweenRounds = DefaultPauseBetweenRounds
	}
	for i := range d.Instances {
		if d.Instances[i].Name == "" {
			d.Instances[i].Name = fmt.Sprintf("%s-%02d", d.Name, i+1)
		}
	}
	sort.Slice(d.Instances, func(i, j int) bool {
		return d.Instances[i].Name < d.Instances[j].Name
	})
}

// Validate checks the structural invariants of the definition. It does not
// touch the filesystem; existence of the binary and base configs is checked
// at run time.
//
// Returns:
//   - error: A ValidationError naming the first offending field, or nil.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return apperrors.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if d.PollInterval <= 0 {
		return apperrors.ValidationError{Field: "poll_interval", Message: "must be greater than zero"}
	}
	if d.Rounds < 1 {
		return apperrors.ValidationError{Field: "rounds", Message: "must be at least 1"}
	}
	if d.PauseBetweenRounds < 0 {
		return apperrors.ValidationError{Field: "pause_between_rounds", Message: "must not be negative"}
	}
	if d.TargetExecutions < 0 {
		return apperrors.ValidationError{Field: "target_executions", Message: "must not be negative"}
	}
	if len(d.Instances) == 0 {
		return apperrors.ValidationError{Field: "instances", Message: "must not be empty"}
	}

	names := make(map[string]bool, len(d.Instances))
	ports := make(map[int]string, 2*len(d.Instances))
	for _, inst := range d.Instances {
		if names[inst.Name] {
			return apperrors.ValidationError{Field: "instances", Message: fmt.Sprintf("duplicate instance name %q", inst.Name)}
		}
		names[inst.Name] = true

		if inst.Config == "" {
			return apperrors.ValidationError{Field: "config", Message: fmt.Sprintf("instance %q has no base config", inst.Name)}
		}
		if inst.Cores == nil {
			return apperrors.ValidationError{Field: "cores", Message: fmt.Sprintf("instance %q has no core assignment", inst.Name)}
		}
		if err := claimPort(ports, "broker_port", inst.BrokerPort, inst.Name); err != nil {
			return err
		}
		if err := claimPort(ports, "prometheus_port", inst.PrometheusPort, inst.Name); err != nil {
			return err
		}
	}
	return nil
}

// claimPort records a port for an instance, rejecting out-of-range values and
// collisions with ports already claimed by the fleet.
func claimPort(ports map[int]string, field string, port int, instance string) error {
	if port < 1 || port > 65535 {
		return apperrors.ValidationError{Field: field, Message: fmt.Sprintf("instance %q: port %d out of range", instance, port)}
	}
	if other, taken := ports[port]; taken {
		return apperrors.ValidationError{Field: field, Message: fmt.Sprintf("port %d already used by %s", port, other)}
	}
	ports[port] = instance
	return nil
}

// ValidateForRun performs the additional checks a run needs before any
// process may be started: the worker binary must exist.
//
// Returns:
//   - error: A ConfigError when the binary is missing, or nil.
func (d *Definition) ValidateForRun() error {
	bin := d.Binary
	if bin == "" {
		return apperrors.NewConfigError("benchmark %q: no worker binary configured", d.Name)
	}
	resolved := d.ResolvePath(bin)
	info, err := os.Stat(resolved)
	if err != nil {
		return apperrors.NewConfigError("worker binary %q does not exist", resolved)
	}
	if info.IsDir() {
		return apperrors.NewConfigError("worker binary %q is a directory", resolved)
	}
	return nil
}

// ResolvePath resolves a path from the definition document against the
// directory containing the definition file. Absolute paths pass through.
func (d *Definition) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.dir, p)
}

// EffectiveHost returns the host workers are polled and scraped on,
// preferring the command-line override over the document value.
func (d *Definition) EffectiveHost(override string) string {
	if override != "" {
		return override
	}
	return d.Host
}

// PollEvery returns the poll interval as a duration.
func (d *Definition) PollEvery() time.Duration {
	return time.Duration(d.PollInterval * float64(time.Second))
}

// Pause returns the inter-round pause as a duration.
func (d *Definition) Pause() time.Duration {
	return time.Duration(d.PauseBetweenRounds * float64(time.Second))
}
