// Package cli — export.go implements the "gconda export" command.
//
// export captures an environment as a shareable environment.yml: the raw
// `conda env export` output is parsed and normalized (the machine-specific
// prefix line is dropped) before being written.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phatvucoder/gconda/internal/envfile"
	"github.com/phatvucoder/gconda/internal/model"
)

// exportFlags holds the flag values for the export command.
type exportFlags struct {
	name   string // --name: environment to export (default: active)
	output string // --output: destination file (default: stdout)
}

// NewExportCommand creates the "export" cobra command.
func NewExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a conda environment as environment.yml",
		Long: `Export the package list of a conda environment in environment.yml format,
with the machine-specific prefix removed so the file is shareable. The
result goes to stdout unless --output is given.

Examples:
  gconda export --name ml-env
  gconda export --name ml-env --output environment.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "Environment to export (default: active environment)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

// runExport exports and normalizes the environment definition.
func runExport(cmd *cobra.Command, flags *exportFlags) error {
	ctx := cmd.Context()
	mgr := newManager()

	envName := flags.name
	if envName == "" {
		envName = mgr.CurrentEnv()
	}
	if envName == "" {
		return model.NewCLIError(model.ExitEnvNotFound,
			"cannot determine the environment to export: CONDA_DEFAULT_ENV is not set and --name was not given")
	}
	if err := model.ValidateEnvName(envName); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid environment name", err)
	}

	exported, err := mgr.ExportEnv(ctx, envName)
	if err != nil {
		return err
	}

	ef, err := envfile.Parse([]byte(exported))
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to parse conda env export output", err)
	}
	ef.Normalize(envName)

	if flags.output == "" {
		data, err := ef.Marshal()
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to encode environment file", err)
		}
		fmt.Print(string(data))
		return nil
	}

	if err := ef.Write(flags.output); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to write environment file", err)
	}
	fmt.Printf("Environment %q exported to %s\n", envName, flags.output)
	return nil
}
