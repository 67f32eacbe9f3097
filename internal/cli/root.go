// Package cli implements the cobra-based CLI commands for gconda.
//
// Each subcommand (check, install, doctor, setup, run, list, remove, export)
// is defined in its own file within this package. This file defines the root
// command that serves as the parent for all subcommands and handles global
// flags and error-to-exit-code translation.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phatvucoder/gconda/internal/logging"
	"github.com/phatvucoder/gconda/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// When false (default), output uses human-readable text format.
	jsonOutput bool

	// verbosity is the -v count controlling log level (0 warn, 1 info,
	// 2 debug, 3+ trace).
	verbosity int
)

// Version, Commit and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// The root command itself performs no action — actual functionality is
// provided by the subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gconda",
		Short: "Conda bootstrapper for hosted notebook environments",
		Long: `gconda installs a minimal conda distribution inside hosted notebook
environments (Google Colab, Kaggle) or any Linux host, creates isolated
Python environments, switches the default interpreter to one of them, and
proxies command execution into an environment.

All package and environment semantics are delegated to conda itself;
gconda only orchestrates the external tooling.`,

		// Errors are formatted by Execute (text or JSON based on --json),
		// so cobra's automatic printing is disabled.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// The logger must be configured before any subcommand runs.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbosity)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewInstallCommand())
	rootCmd.AddCommand(NewDoctorCommand())
	rootCmd.AddCommand(NewSetupCommand())
	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewExportCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them into
// OS exit codes. CLIError values carry their own exit codes; other errors
// default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		if cliErr, ok := err.(*model.CLIError); ok {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag. Errors always go to
// stderr — stdout is reserved for successful command output.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode JSON output", err)
	}
	fmt.Println(string(data))
	return nil
}

// firstNonEmpty returns the first non-empty string, which implements the
// flag > config file > built-in default precedence.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
