package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fuzzfleet/internal/format"
	"github.com/agbru/fuzzfleet/internal/render"
)

// FleetModel renders the per-instance table: one row per worker with its
// state, executions, target progress, rate, and ETA. Rows keep the
// snapshot's name order so the table is stable run-to-run.
type FleetModel struct {
	instances []render.InstanceStatus
	keymap    KeyMap
	offset    int
	width     int
	height    int
}

// NewFleetModel creates an empty fleet table.
func NewFleetModel(keymap KeyMap) FleetModel {
	return FleetModel{keymap: keymap}
}

// SetSize updates dimensions.
func (f *FleetModel) SetSize(w, h int) {
	f.width = w
	f.height = h
	f.clampOffset()
}

// SetInstances replaces the table rows with the latest poll's statuses.
func (f *FleetModel) SetInstances(instances []render.InstanceStatus) {
	f.instances = instances
	f.clampOffset()
}

// visibleRows returns how many instance rows fit inside the panel after
// the border and the column header.
func (f FleetModel) visibleRows() int {
	rows := f.height - 3
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (f *FleetModel) clampOffset() {
	maxOffset := len(f.instances) - f.visibleRows()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if f.offset > maxOffset {
		f.offset = maxOffset
	}
	if f.offset < 0 {
		f.offset = 0
	}
}

// Update handles scroll keys.
func (f *FleetModel) Update(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, f.keymap.Up):
		f.offset--
	case key.Matches(msg, f.keymap.Down):
		f.offset++
	case key.Matches(msg, f.keymap.PageUp):
		f.offset -= f.visibleRows()
	case key.Matches(msg, f.keymap.PageDown):
		f.offset += f.visibleRows()
	}
	f.clampOffset()
}

// stateStyle returns the style for an instance's state cell.
func stateStyle(s render.State) lipgloss.Style {
	switch s {
	case render.StateStarting:
		return stateStartingStyle
	case render.StateRunning:
		return stateRunningStyle
	case render.StateSignaled:
		return stateSignaledStyle
	case render.StateExited:
		return stateExitedStyle
	}
	return dimStyle
}

// View renders the fleet table panel.
func (f FleetModel) View() string {
	var b strings.Builder

	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf(
		" %-14s %-10s %14s %14s %-22s %9s %8s",
		"INSTANCE", "STATE", "EXECS", "TARGET", "PROGRESS", "RATE", "ETA")))

	rows := f.visibleRows()
	end := f.offset + rows
	if end > len(f.instances) {
		end = len(f.instances)
	}

	for _, ins := range f.instances[f.offset:end] {
		b.WriteString("\n")
		b.WriteString(f.renderRow(ins))
	}

	if len(f.instances) > rows {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf(
			" %d-%d of %d", f.offset+1, end, len(f.instances))))
	}

	return panelStyle.
		Width(f.width - 2).
		Height(f.height - 2).
		Render(b.String())
}

func (f FleetModel) renderRow(ins render.InstanceStatus) string {
	name := instanceNameStyle.Render(fmt.Sprintf(" %-14s", ins.Name))
	state := stateStyle(ins.State).Render(fmt.Sprintf("%-10s", ins.State))

	var execs, target, bar, rate, eta string
	switch {
	case ins.State == render.StateExited:
		execs = fmt.Sprintf("%14s", "-")
		target = fmt.Sprintf("%14s", "-")
		bar = dimStyle.Render(fmt.Sprintf("%-22s", fmt.Sprintf("exit code %d", ins.ExitCode)))
		rate = fmt.Sprintf("%9s", "-")
		eta = fmt.Sprintf("%8s", "-")

	case !ins.Known:
		execs = dimStyle.Render(fmt.Sprintf("%14s", "connecting..."))
		target = fmt.Sprintf("%14s", targetCell(ins.Target))
		bar = dimStyle.Render(fmt.Sprintf("%-22s", ""))
		rate = fmt.Sprintf("%9s", "-")
		eta = fmt.Sprintf("%8s", "-")

	default:
		execs = valueStyle.Render(fmt.Sprintf("%14s", format.FormatCount(ins.Count)))
		target = fmt.Sprintf("%14s", targetCell(ins.Target))
		bar = renderProgressCell(ins)
		rate = fmt.Sprintf("%9s", format.FormatRate(ins.Rate))
		eta = fmt.Sprintf("%8s", format.FormatETA(ins.ETA))
	}

	return name + " " + state + " " + execs + " " + target + " " + bar + " " + rate + " " + eta
}

// targetCell formats the target column; an unbounded instance shows a dash.
func targetCell(target int64) string {
	if target <= 0 {
		return "-"
	}
	return format.FormatCount(target)
}

// renderProgressCell renders the 22-column progress cell: a bar plus the
// percentage, or a dash when the benchmark is unbounded.
func renderProgressCell(ins render.InstanceStatus) string {
	if ins.Target <= 0 {
		return dimStyle.Render(fmt.Sprintf("%-22s", "-"))
	}
	progress := float64(ins.Count) / float64(ins.Target)
	if progress > 1 {
		progress = 1
	}
	cell := fmt.Sprintf("%s %5.1f%%", format.ProgressBar(progress, 14), progress*100)
	return stateStyle(ins.State).Render(fmt.Sprintf("%-22s", cell))
}
