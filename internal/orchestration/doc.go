// Package orchestration runs benchmark rounds: it spawns the worker fleet,
// polls liveness and progress, terminates process groups that reach the
// executions target, and guarantees no worker survives the orchestrator.
// It decouples business logic from presentation via the render.Sink
// interface.
package orchestration
