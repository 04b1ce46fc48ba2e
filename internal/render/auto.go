package render

import (
	"os"

	"golang.org/x/term"

	"github.com/agbru/fuzzfleet/internal/ui"
)

// Interactive reports whether out is attached to a terminal.
func Interactive(out *os.File) bool {
	return term.IsTerminal(int(out.Fd()))
}

// SelectSink picks the status sink for a run: the in-place block when out
// is an interactive terminal, the append-only plain sink otherwise or when
// the operator forces plain output.
func SelectSink(out *os.File, plain bool) Sink {
	if plain || !Interactive(out) {
		return NewPlainSink(out)
	}
	return NewBlockSink(out, ui.GetStatusStyles())
}
