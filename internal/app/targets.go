package app

import (
	"fmt"
	"io"
	"os"

	"github.com/agbru/fuzzfleet/internal/benchmark"
	apperrors "github.com/agbru/fuzzfleet/internal/errors"
	"github.com/agbru/fuzzfleet/internal/promsd"
)

// runTargets emits the Prometheus file_sd descriptor for the fleet. The
// worker binary does not need to exist for this command, only the
// definition has to load and validate.
func (a *Application) runTargets(out io.Writer) int {
	def, err := benchmark.Load(a.Config.Definition)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	data, err := promsd.Descriptor(def, a.Config.Host)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	if a.Config.OutFile == "" {
		_, _ = out.Write(data)
		return apperrors.ExitSuccess
	}

	if err := os.WriteFile(a.Config.OutFile, data, 0o644); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	fmt.Fprintf(out, "wrote %d targets to %s\n", len(def.Instances), a.Config.OutFile)
	return apperrors.ExitSuccess
}
