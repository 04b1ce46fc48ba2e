package orchestration

import (
	"os/exec"
	"sort"
	"sync"

	"github.com/agbru/fuzzfleet/internal/logging"
)

// Registry tracks every live worker process group of the round in progress.
// The supervisor is the only writer; the shutdown path reads it concurrently
// when an interrupt unwinds the run, which is why access is mutex-guarded
// even though polling itself is single-threaded.
//
// The set may briefly over-track a worker that already exited on its own;
// signaling a dead group is a no-op. It must never under-track a live one.
type Registry struct {
	mu    sync.Mutex
	log   logging.Logger
	procs map[string]*exec.Cmd
}

// NewRegistry creates an empty registry.
func NewRegistry(log logging.Logger) *Registry {
	return &Registry{log: log, procs: make(map[string]*exec.Cmd)}
}

// Track records a spawned worker under its instance name.
func (r *Registry) Track(name string, cmd *exec.Cmd) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.procs[name] = cmd
}

// Forget drops an instance whose process has been reaped.
func (r *Registry) Forget(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.procs, name)
}

// Len returns the number of tracked instances.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.procs)
}

// TerminateAll signals every tracked process group, logs each one, and
// clears the set. All unwind paths converge here so no worker survives the
// orchestrator: the interrupt finalizer calls it mid-run, and a normal run
// calls it once more after the last round as a final sweep, where it is a
// no-op because the rounds reaped their workers already.
func (r *Registry) TerminateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.procs))
	for name := range r.procs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		signalWorkerGroup(r.procs[name])
		r.log.Info("signaled instance group", logging.String("instance", name))
	}
	r.procs = make(map[string]*exec.Cmd)
}
