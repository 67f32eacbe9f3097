// Package cli — list.go implements the "gconda list" command.
package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phatvucoder/gconda/internal/model"
)

// NewListCommand creates the "list" cobra command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List conda environments",
		Long: `List all environments known to the conda installation. The active
environment (per CONDA_DEFAULT_ENV) is marked with an asterisk.

Examples:
  gconda list
  gconda list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			envs, err := newManager().ListEnvs(cmd.Context())
			if err != nil {
				return err
			}

			if IsJSONOutput() {
				return printJSON(envs)
			}
			fmt.Print(formatEnvTable(envs))
			return nil
		},
	}
}

// formatEnvTable renders environments as an aligned text table.
func formatEnvTable(envs []model.EnvInfo) string {
	if len(envs) == 0 {
		return "No conda environments found.\n"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPATH\tACTIVE")
	for _, env := range envs {
		marker := ""
		if env.Active {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", env.Name, env.Path, marker)
	}
	w.Flush()
	return b.String()
}
