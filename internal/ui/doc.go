// Package ui provides theme and color support for the orchestrator's output.
// It defines color schemes and lipgloss styles for consistent styling across
// the live status block and plain CLI messages.
//
// This package is designed to be a shared dependency for packages that need
// color output, reducing coupling between business logic and presentation.
package ui
