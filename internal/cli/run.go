// Package cli — run.go implements the "gconda run" command.
//
// run proxies a command into the conda environment: a command already on
// PATH is executed directly, otherwise it is resolved inside the target
// environment's bin directory. Commands installed by pip into an
// environment (gdown, huggingface-cli, ...) are often missing from the
// notebook PATH; this is the fallback that finds them.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phatvucoder/gconda/internal/conda"
	"github.com/phatvucoder/gconda/internal/logging"
	"github.com/phatvucoder/gconda/internal/model"
)

// runCmdFlags holds the flag values for the run command.
type runCmdFlags struct {
	name string // --name: target environment (default: CONDA_DEFAULT_ENV)
}

// NewRunCommand creates the "run" cobra command.
func NewRunCommand() *cobra.Command {
	flags := &runCmdFlags{}

	cmd := &cobra.Command{
		Use:   "run <command> [args...]",
		Short: "Run a command, resolving it inside a conda environment if needed",
		Long: `Run a command with its arguments. If the command is found on PATH it is
executed directly; otherwise gconda looks for it in the bin directory of
the target conda environment (--name, or the active environment from
CONDA_DEFAULT_ENV).

The child process is attached to this terminal's stdin/stdout/stderr and
its exit code is propagated.

Examples:
  gconda run gdown --version
  gconda run --name ml-env jupyter lab`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args[0], args[1:], flags)
		},
	}

	// Flags after the command name belong to the child process.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&flags.name, "name", "", "Environment to resolve the command in (default: active environment)")

	return cmd
}

// runRun resolves and executes the requested command.
func runRun(ctx context.Context, cmdName string, args []string, flags *runCmdFlags) error {
	log := logging.GetLogger("run")

	if path, err := exec.LookPath(cmdName); err == nil {
		log.Debug().Str("path", path).Msg("command found on PATH")
		return execAttached(ctx, path, args)
	}

	// Not on PATH, so resolve inside the target environment's bin directory.
	mgr := newManager()
	baseDir, err := mgr.BaseDir(ctx)
	if err != nil {
		return err
	}

	envName := flags.name
	if envName == "" {
		envName = mgr.CurrentEnv()
	}
	if envName == "" {
		return model.NewCLIError(model.ExitEnvNotFound,
			"cannot determine the target environment: CONDA_DEFAULT_ENV is not set and --name was not given")
	}

	envBin := conda.EnvBinDir(baseDir, envName)
	cmdPath := filepath.Join(envBin, cmdName)
	if _, err := os.Stat(cmdPath); err != nil {
		return model.NewCLIError(model.ExitCommandNotFound,
			fmt.Sprintf("command %q not found on PATH or in environment %q (%s)", cmdName, envName, envBin))
	}

	log.Debug().Str("path", cmdPath).Str("env", envName).Msg("command found in environment")
	return execAttached(ctx, cmdPath, args)
}

// execAttached runs the command attached to this process's stdio and
// mirrors the child's exit code through a CLIError.
func execAttached(ctx context.Context, path string, args []string) error {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			// The child already wrote its own diagnostics to stderr.
			return model.NewCLIError(model.ExitCode(exitErr.ExitCode()),
				fmt.Sprintf("%s exited with status %d", filepath.Base(path), exitErr.ExitCode()))
		}
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to run %s", path), err)
	}
	return nil
}
