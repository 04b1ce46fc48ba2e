// Package cli generates shell completion scripts for the fuzzfleet
// command surface.
package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a single flag of a subcommand for shell
// completion generation.
type FlagCompletion struct {
	Name      string   // flag name without the leading "-" (e.g. "def")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g. "file", "duration")
	IsFile    bool     // true if the flag takes a file path
}

// CommandCompletion describes one subcommand and its flags.
type CommandCompletion struct {
	Name  string
	Help  string
	Args  []string // completion values for a positional argument, if any
	Flags []FlagCompletion
}

// commandRegistry is the central list of subcommands for completion
// generation. All shell completion functions generate from this registry,
// so adding a flag only requires appending to the matching command entry.
// It must stay in sync with the flag sets in internal/config.
var commandRegistry = []CommandCompletion{
	{
		Name: "run",
		Help: "drive a fuzzing fleet through timed benchmark rounds",
		Flags: []FlagCompletion{
			{Name: "def", Help: "path to the benchmark definition YAML", IsFile: true, ValueName: "file"},
			{Name: "host", Help: "override the definition's host for metric polling", ValueName: "host"},
			{Name: "plain", Help: "append one status line per poll"},
			{Name: "dashboard", Help: "show the full-screen live dashboard"},
			{Name: "no-color", Help: "disable ANSI colors"},
			{Name: "v", Help: "enable debug logging"},
			{Name: "verbose", Help: "enable debug logging"},
			{Name: "metrics-addr", Help: "expose orchestrator metrics on this address", ValueName: "address"},
			{Name: "trace-file", Help: "write OpenTelemetry spans to this file", IsFile: true, ValueName: "file"},
			{Name: "grace", Help: "voluntary-exit window before SIGKILL", Values: []string{"5s", "10s", "30s", "1m"}, ValueName: "duration"},
			{Name: "runs-dir", Help: "parent directory for run directories", IsFile: true, ValueName: "dir"},
		},
	},
	{
		Name: "targets",
		Help: "emit Prometheus file_sd targets for the fleet",
		Flags: []FlagCompletion{
			{Name: "def", Help: "path to the benchmark definition YAML", IsFile: true, ValueName: "file"},
			{Name: "host", Help: "override the definition's host in the generated targets", ValueName: "host"},
			{Name: "out", Help: "write the file_sd JSON here instead of stdout", IsFile: true, ValueName: "file"},
		},
	},
	{
		Name: "completion",
		Help: "generate a shell completion script",
		Args: []string{"bash", "zsh", "fish", "powershell"},
	},
	{
		Name: "version",
		Help: "print version information",
	},
	{
		Name: "help",
		Help: "show usage",
	},
}

// GenerateCompletion generates a shell completion script for the specified
// shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out)
	case "zsh":
		return generateZshCompletion(out)
	case "fish":
		return generateFishCompletion(out)
	case "powershell", "ps":
		return generatePowerShellCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
}

// commandNames returns the registry's command names in order.
func commandNames() []string {
	names := make([]string, len(commandRegistry))
	for i, c := range commandRegistry {
		names[i] = c.Name
	}
	return names
}

// flagSpellings returns both accepted spellings of a flag: Go's flag
// package treats -name and --name identically.
func flagSpellings(f FlagCompletion) []string {
	return []string{"-" + f.Name, "--" + f.Name}
}

// generateBashCompletion generates a Bash completion script.
func generateBashCompletion(out io.Writer) error {
	var cases strings.Builder

	for _, cmd := range commandRegistry {
		if len(cmd.Flags) == 0 && len(cmd.Args) == 0 {
			continue
		}

		cases.WriteString("        ")
		cases.WriteString(cmd.Name)
		cases.WriteString(")\n")

		if len(cmd.Args) > 0 {
			fmt.Fprintf(&cases, "            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(cmd.Args, " "))
			cases.WriteString("            ;;\n")
			continue
		}

		// Value completion keyed on the previous word.
		var filePatterns []string
		var valueCases strings.Builder
		var opts []string
		for _, f := range cmd.Flags {
			opts = append(opts, "-"+f.Name)
			if f.IsFile {
				filePatterns = append(filePatterns, flagSpellings(f)...)
				continue
			}
			if len(f.Values) > 0 {
				fmt.Fprintf(&valueCases, "                %s)\n                    COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n                    return 0\n                    ;;\n",
					strings.Join(flagSpellings(f), "|"), strings.Join(f.Values, " "))
			}
		}

		cases.WriteString("            case \"${prev}\" in\n")
		if len(filePatterns) > 0 {
			fmt.Fprintf(&cases, "                %s)\n                    COMPREPLY=( $(compgen -f -- \"${cur}\") )\n                    return 0\n                    ;;\n",
				strings.Join(filePatterns, "|"))
		}
		cases.WriteString(valueCases.String())
		cases.WriteString("            esac\n")
		fmt.Fprintf(&cases, "            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n", strings.Join(opts, " "))
		cases.WriteString("            ;;\n")
	}

	script := fmt.Sprintf(`# Bash completion script for fuzzfleet
# Add this to your ~/.bashrc or ~/.bash_completion

_fuzzfleet_completions() {
    local cur prev cmd
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    cmd="${COMP_WORDS[1]}"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
        return 0
    fi

    case "${cmd}" in
%s    esac

    return 0
}

complete -F _fuzzfleet_completions fuzzfleet
`, strings.Join(commandNames(), " "), cases.String())

	_, err := fmt.Fprint(out, script)
	if err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

// generateZshCompletion generates a Zsh completion script.
func generateZshCompletion(out io.Writer) error {
	var commands []string
	for _, c := range commandRegistry {
		commands = append(commands, fmt.Sprintf("        '%s:%s'", c.Name, c.Help))
	}

	var cmdCases strings.Builder
	for _, cmd := range commandRegistry {
		if len(cmd.Flags) == 0 && len(cmd.Args) == 0 {
			continue
		}

		fmt.Fprintf(&cmdCases, "                %s)\n", cmd.Name)
		if len(cmd.Args) > 0 {
			fmt.Fprintf(&cmdCases, "                    _values 'shell' %s\n", strings.Join(cmd.Args, " "))
		} else {
			cmdCases.WriteString("                    _arguments \\\n")
			for i, f := range cmd.Flags {
				sep := " \\"
				if i == len(cmd.Flags)-1 {
					sep = ""
				}
				fmt.Fprintf(&cmdCases, "                        %s%s\n", zshArgEntry(f), sep)
			}
		}
		cmdCases.WriteString("                    ;;\n")
	}

	script := fmt.Sprintf(`#compdef fuzzfleet

# Zsh completion script for fuzzfleet
# Add this to your ~/.zshrc or place in $fpath

_fuzzfleet() {
    local -a commands
    commands=(
%s
    )

    _arguments -C \
        '1:command:->command' \
        '*::arg:->args'

    case $state in
        command)
            _describe 'command' commands
            ;;
        args)
            case $words[1] in
%s            esac
            ;;
    esac
}

_fuzzfleet "$@"
`, strings.Join(commands, "\n"), cmdCases.String())

	_, err := fmt.Fprint(out, script)
	if err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	if f.IsFile {
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	} else if len(f.Values) > 0 {
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	} else if f.ValueName != "" {
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	return fmt.Sprintf("'-%s[%s]%s'", f.Name, f.Help, valueSuffix)
}

// generateFishCompletion generates a Fish completion script.
func generateFishCompletion(out io.Writer) error {
	var lines []string

	lines = append(lines, "# Fish completion script for fuzzfleet")
	lines = append(lines, "# Add this to ~/.config/fish/completions/fuzzfleet.fish")
	lines = append(lines, "")
	lines = append(lines, "# Disable file completion by default")
	lines = append(lines, "complete -c fuzzfleet -f")
	lines = append(lines, "")

	lines = append(lines, "# Commands")
	for _, cmd := range commandRegistry {
		lines = append(lines, fmt.Sprintf(
			"complete -c fuzzfleet -n '__fish_use_subcommand' -a %s -d '%s'", cmd.Name, cmd.Help))
	}

	for _, cmd := range commandRegistry {
		if len(cmd.Flags) == 0 && len(cmd.Args) == 0 {
			continue
		}
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("# %s", cmd.Name))
		condition := fmt.Sprintf("__fish_seen_subcommand_from %s", cmd.Name)

		if len(cmd.Args) > 0 {
			lines = append(lines, fmt.Sprintf(
				"complete -c fuzzfleet -n '%s' -xa '%s'", condition, strings.Join(cmd.Args, " ")))
			continue
		}
		for _, f := range cmd.Flags {
			lines = append(lines, fishCompleteLine(condition, f))
		}
	}
	lines = append(lines, "")

	script := strings.Join(lines, "\n")

	_, err := fmt.Fprint(out, script)
	if err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(condition string, f FlagCompletion) string {
	var parts []string
	parts = append(parts, "complete -c fuzzfleet")
	parts = append(parts, fmt.Sprintf("-n '%s'", condition))
	parts = append(parts, fmt.Sprintf("-o %s", f.Name))
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	if f.IsFile {
		parts = append(parts, "-rF")
	} else if len(f.Values) > 0 {
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	} else if f.ValueName != "" {
		// Takes a value but no suggestions
		parts = append(parts, "-x")
	}

	return strings.Join(parts, " ")
}

// generatePowerShellCompletion generates a PowerShell completion script.
func generatePowerShellCompletion(out io.Writer) error {
	var cmdEntries []string
	for _, c := range commandRegistry {
		cmdEntries = append(cmdEntries, fmt.Sprintf(
			"        @{Name = '%s'; Description = '%s' }", c.Name, c.Help))
	}

	var switchEntries []string
	for _, cmd := range commandRegistry {
		if len(cmd.Flags) == 0 && len(cmd.Args) == 0 {
			continue
		}

		var opts []string
		if len(cmd.Args) > 0 {
			for _, a := range cmd.Args {
				opts = append(opts, fmt.Sprintf("'%s'", a))
			}
		} else {
			for _, f := range cmd.Flags {
				opts = append(opts, fmt.Sprintf("'-%s'", f.Name))
			}
		}

		switchEntries = append(switchEntries, fmt.Sprintf(`        '%s' {
            @(%s) | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
            }
            return
        }`, cmd.Name, strings.Join(opts, ", ")))
	}

	script := fmt.Sprintf(`# PowerShell completion script for fuzzfleet
# Add this to your $PROFILE

Register-ArgumentCompleter -CommandName 'fuzzfleet' -Native -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $commands = @(
%s
    )

    $elements = $commandAst.CommandElements
    $command = if ($elements.Count -gt 1) { $elements[1].ToString() } else { '' }

    # Still typing the command itself: offer command names.
    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete -eq $command)) {
        $commands | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterValue', $_.Description)
        }
        return
    }

    switch ($command) {
%s
    }
}
`, strings.Join(cmdEntries, "\n"), strings.Join(switchEntries, "\n"))

	_, err := fmt.Fprint(out, script)
	return err
}
