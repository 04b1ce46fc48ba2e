package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/fuzzfleet/internal/render"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
// Messages sent before the program is attached are dropped; the first
// snapshot after attach repopulates the whole view.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Bridge connects the orchestration side to the dashboard. It satisfies
// the render.Sink and render.Spinner seams, so the supervisor's poll
// snapshots and the scheduler's pause countdown both surface as bubbletea
// messages without either knowing a TUI exists.
type Bridge struct {
	ref *programRef
}

// Interface compliance.
var (
	_ render.Sink    = (*Bridge)(nil)
	_ render.Spinner = (*Bridge)(nil)
)

// NewBridge creates a bridge not yet attached to a program.
func NewBridge() *Bridge {
	return &Bridge{ref: &programRef{}}
}

// attach binds the bridge to a running program.
func (b *Bridge) attach(p *tea.Program) {
	b.ref.SetProgram(p)
}

// Render forwards one poll snapshot to the dashboard.
func (b *Bridge) Render(snap render.Snapshot) {
	b.ref.Send(SnapshotMsg{Snapshot: snap})
}

// Start marks the inter-round pause active.
func (b *Bridge) Start() {
	b.ref.Send(PauseMsg{Active: true})
}

// Stop clears the inter-round pause.
func (b *Bridge) Stop() {
	b.ref.Send(PauseMsg{Active: false})
}

// UpdateSuffix carries the live pause countdown text.
func (b *Bridge) UpdateSuffix(suffix string) {
	b.ref.Send(PauseMsg{Active: true, Text: suffix})
}

// Done reports the scheduler's terminal result to the dashboard.
func (b *Bridge) Done(err error) {
	b.ref.Send(RunDoneMsg{Err: err})
}
