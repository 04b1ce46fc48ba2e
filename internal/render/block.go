package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/fuzzfleet/internal/format"
	"github.com/agbru/fuzzfleet/internal/ui"
)

const (
	// statusBarWidth is the character width of a row's progress bar.
	statusBarWidth = 24
)

// BlockSink redraws a fixed-height status block in place: a header line and
// one row per instance. On every Render it moves the cursor back to the top
// of the block, clears to the bottom of the screen, and rewrites all lines,
// so the dashboard stays pinned instead of scrolling.
//
// BlockSink assumes out is an ANSI-capable terminal; callers pick PlainSink
// when it is not. Not safe for concurrent use; the supervisor renders from
// its single poll goroutine.
type BlockSink struct {
	out    io.Writer
	styles ui.StatusStyles
	height int
}

// NewBlockSink creates a BlockSink drawing with the given styles.
func NewBlockSink(out io.Writer, styles ui.StatusStyles) *BlockSink {
	return &BlockSink{out: out, styles: styles}
}

// Render rewrites the status block with the new snapshot.
func (b *BlockSink) Render(snap Snapshot) {
	if b.height > 0 {
		fmt.Fprintf(b.out, "\033[%dA", b.height)
		fmt.Fprint(b.out, "\r\033[J")
	}

	lines := b.lines(snap)
	for _, line := range lines {
		fmt.Fprintln(b.out, line)
	}
	b.height = len(lines)
}

// lines builds the full block: header first, then one row per instance in
// snapshot order.
func (b *BlockSink) lines(snap Snapshot) []string {
	lines := make([]string, 0, len(snap.Instances)+1)
	lines = append(lines, headerLine(snap, b.styles))

	width := 0
	for _, is := range snap.Instances {
		if len(is.Name) > width {
			width = len(is.Name)
		}
	}
	for _, is := range snap.Instances {
		lines = append(lines, instanceLine(is, width, b.styles))
	}
	return lines
}

// headerLine summarizes the round and the host in one line.
func headerLine(snap Snapshot, st ui.StatusStyles) string {
	var sb strings.Builder
	sb.WriteString(st.Header.Render(snap.Benchmark))
	sb.WriteString(fmt.Sprintf("  round %d/%d  elapsed %s", snap.Round, snap.Rounds, format.FormatElapsed(snap.Elapsed)))

	host := snap.Host
	if host.CPUPercent > 0 || host.MemPercent > 0 {
		sb.WriteString(st.Dim.Render(fmt.Sprintf("  cpu %.0f%%  mem %.0f%%", host.CPUPercent, host.MemPercent)))
	}
	if host.NumCPU > 0 && host.Load1 > 0 {
		sb.WriteString(st.Dim.Render(fmt.Sprintf("  load %.1f/%d", host.Load1, host.NumCPU)))
	}
	return sb.String()
}

// instanceLine renders one instance row. The name column is padded to the
// fleet's widest name so rows line up.
func instanceLine(is InstanceStatus, width int, st ui.StatusStyles) string {
	name := st.Name.Render(fmt.Sprintf("%-*s", width, is.Name))

	switch is.State {
	case StateExited:
		style := st.Done
		if is.ExitCode != 0 {
			style = st.Failed
		}
		line := fmt.Sprintf("%s  %s", name, style.Render(fmt.Sprintf("exited code %d", is.ExitCode)))
		if is.Known {
			line += st.Dim.Render(fmt.Sprintf("  %s execs", format.FormatCount(is.Count)))
		}
		return line

	case StateSignaled:
		return fmt.Sprintf("%s  %s  %s execs", name, st.Done.Render("done"), format.FormatCount(is.Count))

	case StateRunning:
		if !is.Known {
			break
		}
		if is.Target <= 0 {
			return fmt.Sprintf("%s  %s  %s execs  %s",
				name, st.Running.Render("running"),
				format.FormatCount(is.Count), format.FormatRate(is.Rate))
		}
		pct := float64(is.Count) / float64(is.Target) * 100
		bar := format.ProgressBar(float64(is.Count)/float64(is.Target), statusBarWidth)
		eta := format.FormatETA(is.ETA)
		if is.ETA > 0 {
			eta = "eta " + eta
		}
		return fmt.Sprintf("%s  %s  %s / %s  %5.1f%%  %s  %s  %s",
			name, st.Running.Render("running"),
			format.FormatCount(is.Count), format.FormatCount(is.Target),
			pct, st.Dim.Render(bar), format.FormatRate(is.Rate), eta)
	}

	return fmt.Sprintf("%s  %s", name, st.Dim.Render("connecting..."))
}
