// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strings"
	"time"
)

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// flagDefined reports whether any of the named flags exist in the flag set.
// Each command defines its own flags, so overrides for flags a command does
// not carry are skipped.
func flagDefined(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if fs.Lookup(name) != nil {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the FUZZFLEET_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// String overrides
	{"DEF", []string{"def"}, func(c *AppConfig, v string) {
		c.Definition = v
	}},
	{"HOST", []string{"host"}, func(c *AppConfig, v string) {
		c.Host = v
	}},
	{"RUNS_DIR", []string{"runs-dir"}, func(c *AppConfig, v string) {
		c.RunsDir = v
	}},
	{"METRICS_ADDR", []string{"metrics-addr"}, func(c *AppConfig, v string) {
		c.MetricsAddr = v
	}},
	{"TRACE_FILE", []string{"trace-file"}, func(c *AppConfig, v string) {
		c.TraceFile = v
	}},
	{"OUT", []string{"out"}, func(c *AppConfig, v string) {
		c.OutFile = v
	}},

	// Duration overrides
	{"GRACE", []string{"grace"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Grace = parsed
		}
	}},

	// Boolean overrides
	{"PLAIN", []string{"plain"}, func(c *AppConfig, v string) {
		c.Plain = parseBoolEnv(v, c.Plain)
	}},
	{"DASHBOARD", []string{"dashboard"}, func(c *AppConfig, v string) {
		c.Dashboard = parseBoolEnv(v, c.Dashboard)
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) {
		c.NoColor = parseBoolEnv(v, c.NoColor)
	}},
	{"VERBOSE", []string{"v", "verbose"}, func(c *AppConfig, v string) {
		c.Verbose = parseBoolEnv(v, c.Verbose)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables (all prefixed with FUZZFLEET_):
//   - DEF, HOST, RUNS_DIR, METRICS_ADDR, TRACE_FILE, OUT, GRACE, PLAIN,
//     DASHBOARD, NO_COLOR, VERBOSE
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if !flagDefined(fs, o.flags...) {
			continue
		}
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
