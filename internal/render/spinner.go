package render

import (
	"time"

	"github.com/briandowns/spinner"
)

// spinnerRefreshRate defines the refresh frequency of the pause spinner.
const spinnerRefreshRate = 200 * time.Millisecond

// Spinner abstracts the terminal spinner shown during inter-round pauses.
// It defines the essential controls: starting, stopping, and updating the
// countdown message, which keeps the scheduler decoupled from the spinner
// implementation.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner wraps spinner.Spinner to implement the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Suffix = suffix
}

// NewSpinner constructs the pause spinner. It is a package variable so
// tests can substitute a recording fake.
var NewSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[14], spinnerRefreshRate, options...)
	return &realSpinner{s}
}

// NullSpinner is a no-op Spinner for plain and non-interactive runs.
type NullSpinner struct{}

// Start does nothing.
func (NullSpinner) Start() {}

// Stop does nothing.
func (NullSpinner) Stop() {}

// UpdateSuffix does nothing.
func (NullSpinner) UpdateSuffix(string) {}
