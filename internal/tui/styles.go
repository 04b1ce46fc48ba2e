package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/fuzzfleet/internal/ui"
)

// Style variables for the dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	elapsedStyle       lipgloss.Style
	hostStyle          lipgloss.Style
	tableHeaderStyle   lipgloss.Style
	instanceNameStyle  lipgloss.Style
	stateStartingStyle lipgloss.Style
	stateRunningStyle  lipgloss.Style
	stateSignaledStyle lipgloss.Style
	stateExitedStyle   lipgloss.Style
	dimStyle           lipgloss.Style
	valueStyle         lipgloss.Style
	footerStyle        lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	cpuSparklineStyle  lipgloss.Style
	memSparklineStyle  lipgloss.Style
	rateSparklineStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all dashboard styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Background(t.Bg).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Background(t.Bg).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	elapsedStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	hostStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	tableHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Dim)

	instanceNameStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Text)

	stateStartingStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	stateRunningStyle = lipgloss.NewStyle().
		Foreground(t.Info)

	stateSignaledStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	stateExitedStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	dimStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	valueStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	statusPausedStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	statusDoneStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	cpuSparklineStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	memSparklineStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	rateSparklineStyle = lipgloss.NewStyle().
		Foreground(t.Info)
}
