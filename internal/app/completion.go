package app

import (
	"fmt"
	"io"

	"github.com/agbru/fuzzfleet/internal/cli"
	apperrors "github.com/agbru/fuzzfleet/internal/errors"
)

// runCompletion writes the completion script for the configured shell.
// An unknown shell is a usage error.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Shell); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorUsage
	}
	return apperrors.ExitSuccess
}
