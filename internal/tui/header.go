package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fuzzfleet/internal/format"
)

// HeaderModel renders the top bar: benchmark name, round progress, elapsed
// time, and host load.
type HeaderModel struct {
	benchmark string
	version   string
	round     int
	rounds    int
	cpu       float64
	mem       float64
	startTime time.Time
	endTime   time.Time
	width     int
}

// NewHeaderModel creates a new header for the given benchmark.
func NewHeaderModel(benchmark string, rounds int, version string) HeaderModel {
	return HeaderModel{
		benchmark: benchmark,
		rounds:    rounds,
		version:   version,
		startTime: time.Now(),
	}
}

// SetRound updates the round counter.
func (h *HeaderModel) SetRound(round int) {
	h.round = round
}

// SetHostStats updates the host CPU and memory readings.
func (h *HeaderModel) SetHostStats(cpu, mem float64) {
	h.cpu = cpu
	h.mem = mem
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "fuzzfleet"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	title := titleStyle.Render(titleText)

	pipe := hostStyle.Render(" | ")

	bench := valueStyle.Render(h.benchmark)
	round := elapsedStyle.Render(fmt.Sprintf("round %d/%d", h.round, h.rounds))

	var duration time.Duration
	if !h.endTime.IsZero() {
		duration = h.endTime.Sub(h.startTime)
	} else {
		duration = time.Since(h.startTime)
	}
	elapsed := elapsedStyle.Render("elapsed " + format.FormatElapsed(duration))

	host := hostStyle.Render(fmt.Sprintf("cpu %.0f%% mem %.0f%%", h.cpu, h.mem))

	leftPart := title + pipe + bench + pipe + round + pipe + elapsed
	rightPart := host

	innerWidth := h.width - 2
	if innerWidth < 0 {
		innerWidth = 0
	}

	gap := innerWidth - lipgloss.Width(leftPart) - lipgloss.Width(rightPart)
	if gap < 0 {
		gap = 0
	}

	row := leftPart + spaces(gap) + rightPart

	return headerStyle.Width(h.width).Render(row)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
