// Package cli — check.go implements the "gconda check" command.
//
// check reports whether conda and python are present on the host, with
// their versions, and classifies the runtime platform. It exits with
// ExitCondaNotFound when conda is absent so notebook cells can gate an
// install step on the result.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phatvucoder/gconda/internal/model"
)

// NewCheckCommand creates the "check" cobra command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check whether conda and python are installed",
		Long: `Check whether the conda and python binaries are available on PATH and
report their versions, along with the detected runtime platform.

Exit codes:
  0  conda is installed
  2  conda is not installed

Examples:
  gconda check
  gconda check --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd)
		},
	}
}

// runCheck gathers the presence report and renders it.
func runCheck(cmd *cobra.Command) error {
	ctx := cmd.Context()
	mgr := newManager()
	det := newDetector()

	report := model.CheckReport{
		Platform: det.Runtime(),
		Conda:    mgr.Status(ctx),
		Python:   det.PythonStatus(ctx),
	}

	if IsJSONOutput() {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		fmt.Print(formatCheckReport(report))
	}

	if !report.Conda.Installed {
		return model.NewCLIError(model.ExitCondaNotFound, "conda is not installed (run `gconda install`)")
	}
	return nil
}

// formatCheckReport renders the presence report as human-readable text.
func formatCheckReport(report model.CheckReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Platform: %s\n", report.Platform)
	b.WriteString(formatToolLine("Conda", report.Conda))
	b.WriteString(formatToolLine("Python", report.Python))

	return b.String()
}

// formatToolLine renders a single tool status line.
func formatToolLine(tool string, status model.ToolStatus) string {
	if !status.Installed {
		return fmt.Sprintf("%s: not installed\n", tool)
	}
	if status.Version == "" {
		return fmt.Sprintf("%s: installed at %s (version unavailable)\n", tool, status.Path)
	}
	return fmt.Sprintf("%s: installed (%s) at %s\n", tool, status.Version, status.Path)
}
