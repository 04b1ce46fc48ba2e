package tui

import (
	"time"

	"github.com/agbru/fuzzfleet/internal/render"
)

// SnapshotMsg carries one supervisor poll snapshot into the dashboard.
type SnapshotMsg struct {
	Snapshot render.Snapshot
}

// PauseMsg reports the inter-round pause state. Text carries the live
// countdown while Active is true.
type PauseMsg struct {
	Active bool
	Text   string
}

// RunDoneMsg signals that the scheduler finished, normally or not. The
// dashboard stays open for review until the user quits.
type RunDoneMsg struct {
	Err error
}

// TickMsg drives the elapsed timer and host stat sampling between polls.
type TickMsg time.Time

// SysStatsMsg carries a host CPU/memory sample taken outside a poll.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// ContextCancelledMsg reports that the parent context was cancelled, for
// example by an externally delivered SIGTERM.
type ContextCancelledMsg struct {
	Err error
}
