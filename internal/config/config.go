package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"
)

// EnvPrefix is prepended to every environment variable the orchestrator
// reads for configuration overrides.
const EnvPrefix = "FUZZFLEET_"

// Command names accepted as the first argument.
const (
	CommandRun        = "run"
	CommandTargets    = "targets"
	CommandVersion    = "version"
	CommandCompletion = "completion"
)

// DefaultGrace bounds how long a signaled worker may take to exit before
// its process group is force-killed.
const DefaultGrace = 10 * time.Second

// ErrUsage marks command-line usage errors: a missing command, an unknown
// command, or a missing required flag. Callers map it to the usage exit
// code.
var ErrUsage = errors.New("usage error")

// AppConfig holds the parsed command-line configuration.
type AppConfig struct {
	// Command selects the operation: run, targets, completion, or version.
	Command string

	// Definition is the path to the benchmark definition YAML.
	Definition string
	// Host overrides the definition's host for polling and target files.
	Host string

	// Plain appends one status line per poll instead of redrawing a block.
	Plain bool
	// Dashboard replaces the status block with the full-screen live view.
	Dashboard bool
	// NoColor disables ANSI colors in terminal output.
	NoColor bool
	// Verbose enables debug-level logging.
	Verbose bool

	// MetricsAddr, when non-empty, exposes the orchestrator's own
	// /metrics and /healthz endpoints on this address.
	MetricsAddr string
	// TraceFile, when non-empty, enables span export to this file.
	TraceFile string
	// Grace is the voluntary-exit window granted to signaled workers.
	Grace time.Duration
	// RunsDir is the parent directory for dated run directories.
	RunsDir string

	// OutFile is where the targets command writes its JSON; empty means
	// stdout.
	OutFile string

	// Shell is the completion script target: bash, zsh, fish, or
	// powershell.
	Shell string
}

// ParseConfig parses the command line into an AppConfig. Flag values may be
// overridden by FUZZFLEET_* environment variables for any flag not set
// explicitly; the priority is CLI flags, then environment, then defaults.
//
// Parameters:
//   - programName: The binary name, used in usage output.
//   - args: The arguments after the program name.
//   - errWriter: Destination for usage and flag error output.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp when help was requested, an ErrUsage-wrapped
//     error for usage mistakes, or the flag package's parse error.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	if len(args) == 0 {
		printUsage(programName, errWriter)
		return AppConfig{}, fmt.Errorf("%w: missing command", ErrUsage)
	}

	switch args[0] {
	case CommandRun:
		return parseRun(programName, args[1:], errWriter)
	case CommandTargets:
		return parseTargets(programName, args[1:], errWriter)
	case CommandCompletion:
		return parseCompletion(programName, args[1:], errWriter)
	case CommandVersion, "-version", "--version":
		return AppConfig{Command: CommandVersion}, nil
	case "help", "-h", "-help", "--help":
		printUsage(programName, errWriter)
		return AppConfig{}, flag.ErrHelp
	default:
		printUsage(programName, errWriter)
		return AppConfig{}, fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

// parseRun parses flags for the run command.
func parseRun(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{Command: CommandRun}

	fs := flag.NewFlagSet(programName+" run", flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.StringVar(&cfg.Definition, "def", "", "path to the benchmark definition YAML (required)")
	fs.StringVar(&cfg.Host, "host", "", "override the definition's host for metric polling")
	fs.BoolVar(&cfg.Plain, "plain", false, "append one status line per poll instead of redrawing in place")
	fs.BoolVar(&cfg.Dashboard, "dashboard", false, "show the full-screen live dashboard instead of the status block")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "disable ANSI colors")
	fs.BoolVar(&cfg.Verbose, "v", false, "enable debug logging")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "expose the orchestrator's own metrics on this address (e.g. 127.0.0.1:9500)")
	fs.StringVar(&cfg.TraceFile, "trace-file", "", "write OpenTelemetry spans to this file")
	fs.DurationVar(&cfg.Grace, "grace", DefaultGrace, "voluntary-exit window for signaled workers before SIGKILL")
	fs.StringVar(&cfg.RunsDir, "runs-dir", "runs", "parent directory for dated run directories")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	applyEnvOverrides(&cfg, fs)

	if cfg.Definition == "" {
		fmt.Fprintf(errWriter, "%s run: -def is required\n\n", programName)
		fs.Usage()
		return AppConfig{}, fmt.Errorf("%w: -def is required", ErrUsage)
	}
	return cfg, nil
}

// parseTargets parses flags for the targets command.
func parseTargets(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{Command: CommandTargets}

	fs := flag.NewFlagSet(programName+" targets", flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.StringVar(&cfg.Definition, "def", "", "path to the benchmark definition YAML (required)")
	fs.StringVar(&cfg.Host, "host", "", "override the definition's host in the generated targets")
	fs.StringVar(&cfg.OutFile, "out", "", "write the file_sd JSON here instead of stdout")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	applyEnvOverrides(&cfg, fs)

	if cfg.Definition == "" {
		fmt.Fprintf(errWriter, "%s targets: -def is required\n\n", programName)
		fs.Usage()
		return AppConfig{}, fmt.Errorf("%w: -def is required", ErrUsage)
	}
	return cfg, nil
}

// parseCompletion parses the completion command: the shell name is the
// single positional argument. The generator validates the shell itself so
// its error message can list the accepted values.
func parseCompletion(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{Command: CommandCompletion}

	fs := flag.NewFlagSet(programName+" completion", flag.ContinueOnError)
	fs.SetOutput(errWriter)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(errWriter, "%s completion: exactly one shell argument is required (bash, zsh, fish, powershell)\n", programName)
		return AppConfig{}, fmt.Errorf("%w: completion requires a shell argument", ErrUsage)
	}
	cfg.Shell = fs.Arg(0)
	return cfg, nil
}

// printUsage writes the top-level command summary.
func printUsage(programName string, w io.Writer) {
	fmt.Fprintf(w, `Usage: %s <command> [flags]

Commands:
  run         drive a fuzzing fleet through timed benchmark rounds
  targets     emit Prometheus file_sd targets for the fleet
  completion  generate a shell completion script
  version     print version information

Run '%s <command> -h' for command flags.
`, programName, programName)
}
