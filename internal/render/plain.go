package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/fuzzfleet/internal/format"
)

// PlainSink appends one compact line per poll instead of redrawing a block.
// It is the right sink for non-TTY output: CI logs, files, pipes.
type PlainSink struct {
	out io.Writer
}

// NewPlainSink creates a PlainSink writing to out.
func NewPlainSink(out io.Writer) *PlainSink {
	return &PlainSink{out: out}
}

// Render appends one line carrying every instance's state.
func (p *PlainSink) Render(snap Snapshot) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "round %d/%d elapsed %s", snap.Round, snap.Rounds, format.FormatElapsed(snap.Elapsed))
	for _, is := range snap.Instances {
		sb.WriteString(" | ")
		sb.WriteString(is.Name)
		sb.WriteByte(' ')
		sb.WriteString(plainStatus(is))
	}
	fmt.Fprintln(p.out, sb.String())
}

// plainStatus is the single-token status used in plain output.
func plainStatus(is InstanceStatus) string {
	switch is.State {
	case StateExited:
		return fmt.Sprintf("exit:%d", is.ExitCode)
	case StateSignaled:
		return fmt.Sprintf("done@%d", is.Count)
	case StateRunning:
		if !is.Known {
			break
		}
		if is.Target <= 0 {
			return fmt.Sprintf("%d", is.Count)
		}
		return fmt.Sprintf("%d/%d (%.1f%%)", is.Count, is.Target,
			float64(is.Count)/float64(is.Target)*100)
	}
	return "connecting"
}
