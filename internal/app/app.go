package app

import (
	"context"
	"errors"
	"flag"
	"io"

	"github.com/rs/zerolog"

	"github.com/agbru/fuzzfleet/internal/config"
	apperrors "github.com/agbru/fuzzfleet/internal/errors"
	"github.com/agbru/fuzzfleet/internal/ui"
)

// Application represents one fuzzfleet invocation.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
}

// New creates an Application by parsing command-line arguments.
//
// Parameters:
//   - args: The full argument vector including the program name.
//   - errWriter: Destination for usage and flag error output.
//
// Returns:
//   - *Application: The configured application.
//   - error: flag.ErrHelp, a usage error, or a flag parse error.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "fuzzfleet"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	return &Application{Config: cfg, ErrWriter: errWriter}, nil
}

// Run executes the selected command and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	ui.InitTheme(a.Config.NoColor)

	switch a.Config.Command {
	case config.CommandVersion:
		PrintVersion(out)
		return apperrors.ExitSuccess
	case config.CommandTargets:
		return a.runTargets(out)
	case config.CommandCompletion:
		return a.runCompletion(out)
	default:
		return a.runFleet(ctx, out)
	}
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
