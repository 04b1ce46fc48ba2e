package render

import (
	"time"

	"github.com/agbru/fuzzfleet/internal/sysmon"
)

// State is an instance's lifecycle position within a round.
type State int

const (
	// StateStarting means the worker was spawned but has not served a
	// metrics sample yet.
	StateStarting State = iota
	// StateRunning means executions are being observed.
	StateRunning
	// StateSignaled means the target was reached and the instance's process
	// group was asked to terminate.
	StateSignaled
	// StateExited means the worker left on its own before reaching the
	// target.
	StateExited
)

// String returns the lowercase state name used in logs and plain output.
func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateSignaled:
		return "signaled"
	case StateExited:
		return "exited"
	}
	return "unknown"
}

// InstanceStatus is one instance's row in a poll snapshot.
type InstanceStatus struct {
	Name  string
	State State
	// Count is the last observed executions value; meaningful only when
	// Known is true.
	Count int64
	Known bool
	// Target is the executions count that terminates the instance,
	// 0 when the benchmark is unbounded.
	Target int64
	// Rate is the observed executions per second since spawn.
	Rate float64
	// ETA estimates time until target at the current rate, 0 when unknown.
	ETA time.Duration
	// ExitCode is meaningful only when State is StateExited.
	ExitCode int
}

// Snapshot is everything a sink needs to draw one poll of the fleet.
// Instances are sorted by name so output is stable run-to-run.
type Snapshot struct {
	Benchmark string
	Round     int
	Rounds    int
	Elapsed   time.Duration
	Host      sysmon.Stats
	Instances []InstanceStatus
}
