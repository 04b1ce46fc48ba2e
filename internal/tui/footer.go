package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the bottom bar: run status on the left, key help on
// the right.
type FooterModel struct {
	help      help.Model
	keymap    KeyMap
	paused    bool
	pausing   bool
	pauseText string
	done      bool
	failed    bool
	width     int
}

// NewFooterModel creates the footer with the given key bindings.
func NewFooterModel(keymap KeyMap) FooterModel {
	return FooterModel{
		help:   help.New(),
		keymap: keymap,
	}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// SetPaused toggles the view-frozen indicator.
func (f *FooterModel) SetPaused(paused bool) {
	f.paused = paused
}

// SetPause shows or clears the inter-round pause countdown.
func (f *FooterModel) SetPause(active bool, text string) {
	f.pausing = active
	f.pauseText = text
}

// SetDone marks the run finished.
func (f *FooterModel) SetDone(failed bool) {
	f.done = true
	f.failed = failed
}

// status returns the left-hand status cell.
func (f FooterModel) status() string {
	switch {
	case f.failed:
		return statusErrorStyle.Render(" ● FAILED")
	case f.done:
		return statusDoneStyle.Render(" ● DONE, q to exit")
	case f.paused:
		return statusPausedStyle.Render(" ● VIEW FROZEN")
	case f.pausing:
		return statusPausedStyle.Render(" ● " + f.pauseText)
	}
	return stateRunningStyle.Render(" ● RUNNING")
}

// View renders the footer.
func (f FooterModel) View() string {
	status := f.status()
	keys := f.help.ShortHelpView(f.keymap.ShortHelp())

	gap := f.width - lipgloss.Width(status) - lipgloss.Width(keys) - 1
	if gap < 1 {
		gap = 1
	}

	return footerStyle.Width(f.width).Render(status + spaces(gap) + keys)
}
