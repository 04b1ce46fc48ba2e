package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/fuzzfleet/internal/errors"
	"github.com/agbru/fuzzfleet/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	headerHeight            = 1
	footerHeight            = 1
	minBodyHeight           = 4
	FleetPanelHeightPercent = 55
)

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// bodyHeight returns the available height for the main body panels.
func (l LayoutManager) bodyHeight() int {
	h := l.height - headerHeight - footerHeight
	if h < minBodyHeight {
		h = minBodyHeight
	}
	return h
}

// fleetHeight returns the height allocated to the instance table.
func (l LayoutManager) fleetHeight() int {
	h := l.bodyHeight() * FleetPanelHeightPercent / 100
	if h < minBodyHeight/2 {
		h = minBodyHeight / 2
	}
	return h
}

// chartHeight returns the height allocated to the aggregate chart.
func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.fleetHeight()
}

// Model is the root bubbletea model for the fleet dashboard.
type Model struct {
	header HeaderModel
	fleet  FleetModel
	chart  ChartModel
	footer FooterModel

	keymap KeyMap

	LayoutManager

	parentCtx context.Context
	cancel    context.CancelFunc
	paused    bool
	done      bool
	runErr    error
}

// NewModel creates the dashboard model. cancel is invoked when the user
// quits, which unwinds the scheduler through its context.
func NewModel(parentCtx context.Context, cancel context.CancelFunc, benchmark string, rounds int, version string) Model {
	keymap := DefaultKeyMap()
	return Model{
		header:    NewHeaderModel(benchmark, rounds, version),
		fleet:     NewFleetModel(keymap),
		chart:     NewChartModel(),
		footer:    NewFooterModel(keymap),
		keymap:    keymap,
		parentCtx: parentCtx,
		cancel:    cancel,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		watchContextCmd(m.parentCtx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case SnapshotMsg:
		if !m.paused {
			m.header.SetRound(msg.Snapshot.Round)
			m.header.SetHostStats(msg.Snapshot.Host.CPUPercent, msg.Snapshot.Host.MemPercent)
			m.fleet.SetInstances(msg.Snapshot.Instances)
			m.chart.AddSnapshot(msg.Snapshot)
		}
		return m, nil

	case PauseMsg:
		text := msg.Text
		if msg.Active && text == "" {
			text = "pausing between rounds"
		}
		m.footer.SetPause(msg.Active, text)
		return m, nil

	case RunDoneMsg:
		m.done = true
		m.runErr = msg.Err
		m.header.SetDone()
		m.chart.SetDone(time.Since(m.header.startTime))
		m.footer.SetPause(false, "")
		m.footer.SetDone(msg.Err != nil && !apperrors.IsContextError(msg.Err))
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case SysStatsMsg:
		m.header.SetHostStats(msg.CPUPercent, msg.MemPercent)
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
		return m, nil

	case ContextCancelledMsg:
		m.done = true
		m.header.SetDone()
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.fleet.Update(msg)
		return m, nil
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.fleet.View(),
		m.chart.View(),
		m.footer.View(),
	)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.fleet.SetSize(m.width, m.fleetHeight())
	m.chart.SetSize(m.width, m.chartHeight())
}

// Run starts the dashboard program and blocks until the user quits or the
// parent context is cancelled. The bridge is attached before the program
// processes its first message, so no poll snapshot is lost once the
// supervisor starts. Whatever way the program exits, the run context is
// cancelled so an in-flight scheduler unwinds.
func Run(ctx context.Context, cancel context.CancelFunc, bridge *Bridge, benchmark string, rounds int, version string) error {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, cancel, benchmark, rounds, version)

	p := tea.NewProgram(model, tea.WithAltScreen())
	bridge.attach(p)

	_, err := p.Run()
	cancel()
	return err
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleSysStatsCmd reads host CPU and memory stats so the header and chart
// stay live between polls and during inter-round pauses.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
