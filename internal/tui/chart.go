package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/fuzzfleet/internal/format"
	"github.com/agbru/fuzzfleet/internal/render"
)

// sparklineWidth is subtracted from the panel width to leave room for the
// series label and the current-value suffix.
const sparklineWidth = 17

// minSparklineHeight is the panel height below which the sparkline rows
// are hidden and only the progress summary remains.
const minSparklineHeight = 10

// ChartModel renders the fleet aggregate panel: a progress bar toward the
// summed target, the combined execution rate, and rolling sparklines for
// rate and host load.
type ChartModel struct {
	totalExecs    int64
	fleetProgress float64
	fleetRate     float64
	eta           time.Duration
	bounded       bool

	rateHistory *RingBuffer
	cpuHistory  *RingBuffer
	memHistory  *RingBuffer

	done   bool
	doneIn time.Duration
	width  int
	height int
}

// NewChartModel creates an empty chart panel.
func NewChartModel() ChartModel {
	return ChartModel{
		rateHistory: NewRingBuffer(1),
		cpuHistory:  NewRingBuffer(1),
		memHistory:  NewRingBuffer(1),
	}
}

// SetSize updates dimensions and resizes the sample buffers to the new
// sparkline width.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	samples := w - sparklineWidth
	if samples < 1 {
		samples = 1
	}
	c.rateHistory.Resize(samples)
	c.cpuHistory.Resize(samples)
	c.memHistory.Resize(samples)
}

// AddSnapshot folds one poll snapshot into the aggregate series.
func (c *ChartModel) AddSnapshot(snap render.Snapshot) {
	var totalExecs, sumCount, sumTarget int64
	var fleetRate float64

	for _, ins := range snap.Instances {
		if ins.Known {
			totalExecs += ins.Count
		}
		fleetRate += ins.Rate
		if ins.Target > 0 {
			sumTarget += ins.Target
			count := ins.Count
			if count > ins.Target {
				count = ins.Target
			}
			sumCount += count
		}
	}

	c.totalExecs = totalExecs
	c.fleetRate = fleetRate
	c.bounded = sumTarget > 0
	if c.bounded {
		c.fleetProgress = float64(sumCount) / float64(sumTarget)
		if remaining := sumTarget - sumCount; remaining > 0 && fleetRate > 0 {
			c.eta = time.Duration(float64(remaining) / fleetRate * float64(time.Second))
		} else {
			c.eta = 0
		}
	}

	c.rateHistory.Push(fleetRate)
	c.UpdateSysStats(snap.Host.CPUPercent, snap.Host.MemPercent)
}

// UpdateSysStats appends one host CPU/memory sample.
func (c *ChartModel) UpdateSysStats(cpuPercent, memPercent float64) {
	c.cpuHistory.Push(cpuPercent)
	c.memHistory.Push(memPercent)
}

// SetDone freezes the panel with the total round duration.
func (c *ChartModel) SetDone(elapsed time.Duration) {
	c.done = true
	c.doneIn = elapsed
}

// View renders the chart panel.
func (c ChartModel) View() string {
	var b strings.Builder

	b.WriteString(" ")
	b.WriteString(tableHeaderStyle.Render("FLEET"))

	if bar := c.renderProgressBar(); bar != "" {
		b.WriteString("\n")
		b.WriteString(bar)
	}

	b.WriteString("\n ")
	b.WriteString(dimStyle.Render("Total:"))
	b.WriteString(" ")
	b.WriteString(valueStyle.Render(format.FormatCount(c.totalExecs)))
	b.WriteString(dimStyle.Render(" execs at "))
	b.WriteString(valueStyle.Render(format.FormatRate(c.fleetRate)))
	if c.done {
		b.WriteString("  ")
		b.WriteString(statusDoneStyle.Render("done in " + format.FormatElapsed(c.doneIn)))
	}

	if c.height >= minSparklineHeight {
		b.WriteString("\n")
		b.WriteString(c.renderSparklines())
	}

	return panelStyle.
		Width(c.width - 2).
		Height(c.height - 2).
		Render(b.String())
}

// renderProgressBar renders the aggregate progress toward the summed
// target, or nothing when the panel is too narrow or the run is unbounded.
func (c ChartModel) renderProgressBar() string {
	barWidth := c.width - 30
	if barWidth < 10 {
		return ""
	}
	if !c.bounded {
		return dimStyle.Render(" unbounded run, workers exit on their own")
	}

	bar := format.ProgressBar(c.fleetProgress, barWidth)
	line := fmt.Sprintf(" %s %5.1f%%", bar, c.fleetProgress*100)
	if c.eta > 0 {
		line += dimStyle.Render("  ETA: " + format.FormatETA(c.eta))
	}
	return line
}

// renderSparklines renders the RATE, CPU, and MEM series rows.
func (c ChartModel) renderSparklines() string {
	var b strings.Builder

	rate := RenderSparkline(ScaleToPercent(c.rateHistory.Slice()))
	b.WriteString(fmt.Sprintf(" %s %s %s\n",
		dimStyle.Render("RATE"),
		rateSparklineStyle.Render(rate),
		valueStyle.Render(format.FormatRate(c.rateHistory.Last()))))

	cpu := RenderSparkline(c.cpuHistory.Slice())
	b.WriteString(fmt.Sprintf(" %s  %s %s\n",
		dimStyle.Render("CPU"),
		cpuSparklineStyle.Render(cpu),
		valueStyle.Render(fmt.Sprintf("%.0f%%", c.cpuHistory.Last()))))

	mem := RenderSparkline(c.memHistory.Slice())
	b.WriteString(fmt.Sprintf(" %s  %s %s",
		dimStyle.Render("MEM"),
		memSparklineStyle.Render(mem),
		valueStyle.Render(fmt.Sprintf("%.0f%%", c.memHistory.Last()))))

	return b.String()
}
