package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) (Model, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m := NewModel(ctx, cancel, "maze", 3, "dev")
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return sized.(Model), ctx
}

func keyMsg(s string) tea.KeyMsg {
	if s == "ctrl+c" {
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_SnapshotUpdatesView(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(SnapshotMsg{Snapshot: boundedSnapshot(250, 400)})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "maze-01") {
		t.Error("expected view to list instance maze-01")
	}
	if !strings.Contains(view, "round 1/3") {
		t.Error("expected header to show the round counter")
	}
	if !strings.Contains(view, "RUNNING") {
		t.Error("expected footer to show the running status")
	}
}

func TestModel_QuitCancelsContext(t *testing.T) {
	m, ctx := newTestModel(t)

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit to return a command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("expected tea.Quit, got %#v", msg)
	}

	select {
	case <-ctx.Done():
	default:
		t.Error("expected quit to cancel the run context")
	}
}

func TestModel_CtrlCBehavesLikeQuit(t *testing.T) {
	m, ctx := newTestModel(t)

	_, cmd := m.Update(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("expected ctrl+c to return a command")
	}

	select {
	case <-ctx.Done():
	default:
		t.Error("expected ctrl+c to cancel the run context")
	}
}

func TestModel_PauseFreezesSnapshots(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(SnapshotMsg{Snapshot: boundedSnapshot(100)})
	m = updated.(Model)

	updated, _ = m.Update(keyMsg("p"))
	m = updated.(Model)
	if !m.paused {
		t.Fatal("expected pause key to freeze the view")
	}

	updated, _ = m.Update(SnapshotMsg{Snapshot: boundedSnapshot(900)})
	m = updated.(Model)
	if m.chart.totalExecs != 100 {
		t.Errorf("expected frozen view to keep 100 execs, got %d", m.chart.totalExecs)
	}

	updated, _ = m.Update(keyMsg("p"))
	m = updated.(Model)
	updated, _ = m.Update(SnapshotMsg{Snapshot: boundedSnapshot(900)})
	m = updated.(Model)
	if m.chart.totalExecs != 900 {
		t.Errorf("expected resumed view to show 900 execs, got %d", m.chart.totalExecs)
	}
}

func TestModel_RunDone(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(RunDoneMsg{})
	m = updated.(Model)

	if !m.done {
		t.Error("expected model to be done")
	}
	if !strings.Contains(m.View(), "DONE") {
		t.Error("expected footer to show DONE")
	}
}

func TestModel_RunDoneWithError(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(RunDoneMsg{Err: errors.New("no instances started")})
	m = updated.(Model)

	if !strings.Contains(m.View(), "FAILED") {
		t.Error("expected footer to show FAILED")
	}
}

func TestModel_RunDoneCanceledIsNotFailure(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(RunDoneMsg{Err: context.Canceled})
	m = updated.(Model)

	if strings.Contains(m.View(), "FAILED") {
		t.Error("expected a canceled run not to render as FAILED")
	}
}

func TestModel_ContextCancelledQuits(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(ContextCancelledMsg{Err: context.Canceled})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("expected tea.Quit, got %#v", msg)
	}
}

func TestModel_PauseMsgShowsCountdown(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(PauseMsg{Active: true, Text: "next round in 42s"})
	m = updated.(Model)

	if !strings.Contains(m.View(), "next round in 42s") {
		t.Error("expected footer to show the pause countdown")
	}

	updated, _ = m.Update(PauseMsg{Active: false})
	m = updated.(Model)
	if strings.Contains(m.View(), "next round in 42s") {
		t.Error("expected countdown to clear when the pause ends")
	}
}

func TestModel_ViewBeforeFirstResize(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewModel(ctx, cancel, "maze", 1, "dev")

	if m.View() != "Initializing..." {
		t.Errorf("expected init placeholder, got %q", m.View())
	}
}

func TestModel_ScrollKeysReachFleet(t *testing.T) {
	m, _ := newTestModel(t)

	rows := boundedSnapshot(1, 2).Instances
	m.fleet.SetInstances(rows)
	m.fleet.SetSize(100, 4) // one visible row, forces scrolling

	updated, _ := m.Update(keyMsg("j"))
	m = updated.(Model)
	if m.fleet.offset != 1 {
		t.Errorf("expected offset 1 after scroll down, got %d", m.fleet.offset)
	}

	updated, _ = m.Update(keyMsg("k"))
	m = updated.(Model)
	if m.fleet.offset != 0 {
		t.Errorf("expected offset 0 after scroll up, got %d", m.fleet.offset)
	}
}

func TestLayoutManager_Heights(t *testing.T) {
	l := LayoutManager{width: 100, height: 30}

	if l.bodyHeight() != 28 {
		t.Errorf("expected body height 28, got %d", l.bodyHeight())
	}
	if l.fleetHeight()+l.chartHeight() != l.bodyHeight() {
		t.Error("expected the panels to fill the body exactly")
	}
}

func TestLayoutManager_MinimumBody(t *testing.T) {
	l := LayoutManager{width: 100, height: 3}

	if l.bodyHeight() < minBodyHeight {
		t.Errorf("expected body height to be clamped to %d, got %d", minBodyHeight, l.bodyHeight())
	}
}
