// Package cli — remove.go implements the "gconda remove" command.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phatvucoder/gconda/internal/model"
)

// NewRemoveCommand creates the "remove" cobra command.
func NewRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <env-name>",
		Short: "Remove a conda environment",
		Long: `Delete the named conda environment and everything installed in it.

Examples:
  gconda remove ml-env`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, args[0])
		},
	}
}

// runRemove deletes the named environment after validating it exists.
func runRemove(cmd *cobra.Command, envName string) error {
	ctx := cmd.Context()

	if err := model.ValidateEnvName(envName); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid environment name", err)
	}
	if envName == "base" {
		return model.NewCLIError(model.ExitGeneralError, "the base environment cannot be removed")
	}

	mgr := newManager()
	exists, err := mgr.EnvExists(ctx, envName)
	if err != nil {
		return err
	}
	if !exists {
		return model.NewCLIError(model.ExitEnvNotFound,
			fmt.Sprintf("environment %q does not exist", envName))
	}

	if err := mgr.RemoveEnv(ctx, envName); err != nil {
		return err
	}
	fmt.Printf("Environment %q removed\n", envName)
	return nil
}
