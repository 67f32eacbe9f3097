// Package cli — doctor.go implements the "gconda doctor" command.
//
// doctor repairs a conda installation that is present on PATH but no
// longer functions (typically the "ModuleNotFoundError: No module named
// 'conda'" breakage after a runtime image update): the broken entrypoint
// is removed and the distribution reinstalled.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phatvucoder/gconda/internal/model"
)

// NewDoctorCommand creates the "doctor" cobra command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose and repair a broken conda installation",
		Long: `Check that the conda binary on PATH actually works. A missing conda is
installed; a present but non-functioning conda is removed and reinstalled.

Examples:
  gconda doctor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd)
		},
	}
}

// runDoctor is the repair sequence: probe, remove the broken entrypoint,
// reinstall, re-verify.
func runDoctor(cmd *cobra.Command) error {
	ctx := cmd.Context()
	mgr := newManager()

	condaPath, ok := mgr.Installed()
	if !ok {
		fmt.Println("conda not found; installing...")
		_, err := runInstall(ctx, &installFlags{})
		return err
	}

	fmt.Printf("conda found at %s\n", condaPath)
	if version, err := mgr.Version(ctx); err == nil {
		fmt.Printf("conda is working properly (%s)\n", version)
		return nil
	}

	fmt.Println("conda is not functioning; removing the broken entrypoint and reinstalling...")
	if err := newLinker().Remove(ctx, condaPath); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to remove broken conda at %s", condaPath), err)
	}

	prefix, err := runInstall(ctx, &installFlags{force: true})
	if err != nil {
		return err
	}

	// Re-verify through the fresh prefix, not PATH: the reinstall may
	// have landed in a directory the current PATH does not cover.
	version, err := newManagerAt(prefix).Version(ctx)
	if err != nil {
		return model.WrapCLIError(model.ExitInstallerFailed,
			"conda still does not respond after reinstall", err)
	}
	fmt.Printf("conda repaired successfully (%s)\n", version)
	return nil
}
