// Package cli — install.go implements the "gconda install" command.
//
// install downloads and runs the conda distribution installer script.
// The operation is idempotent: when conda is already present it reports
// and does nothing (unless --force is given).
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phatvucoder/gconda/internal/installer"
	"github.com/phatvucoder/gconda/internal/model"
)

// installFlags holds the flag values for the install command.
type installFlags struct {
	url    string // --url: installer script URL
	prefix string // --prefix: install prefix directory
	sha256 string // --sha256: installer checksum pin
	force  bool   // --force: install even when conda is already present
}

// NewInstallCommand creates the "install" cobra command.
func NewInstallCommand() *cobra.Command {
	flags := &installFlags{}

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install a minimal conda distribution",
		Long: `Download the conda distribution installer script (Miniforge by default)
and run it in batch mode. When conda is already installed the command
reports and exits successfully.

The install prefix defaults by platform: /usr/local on Google Colab (so
the running kernel picks up the new interpreter) and /opt/conda elsewhere.

Note: on Colab the installation may restart the kernel; rerun subsequent
commands after the restart.

Examples:
  gconda install
  gconda install --prefix /opt/conda
  gconda install --url https://example.com/Miniforge3-Linux-x86_64.sh --sha256 <hex>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runInstall(cmd.Context(), flags)
			return err
		},
	}

	cmd.Flags().StringVar(&flags.url, "url", "", "Installer script URL (default: latest Miniforge)")
	cmd.Flags().StringVar(&flags.prefix, "prefix", "", "Install prefix (default: by platform)")
	cmd.Flags().StringVar(&flags.sha256, "sha256", "", "Hex SHA-256 checksum pin for the installer script")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Run the installer even if conda is already installed")

	return cmd
}

// runInstall is the orchestration for the install command. It is also
// called by doctor and setup when conda is missing. The returned prefix
// is the installation root (<prefix>/bin/conda), which a fresh install
// does not have on PATH yet; callers bind follow-up managers to it.
func runInstall(ctx context.Context, flags *installFlags) (string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to load configuration", err)
	}

	mgr := newManager()
	if path, ok := mgr.Installed(); ok && !flags.force {
		fmt.Printf("conda is already installed at %s; nothing to do\n", path)
		return filepath.Dir(filepath.Dir(path)), nil
	}

	runtimePlatform := newDetector().Runtime()

	url := firstNonEmpty(flags.url, cfg.InstallerURL, installer.DefaultURL())
	prefix := firstNonEmpty(flags.prefix, cfg.InstallPrefix, installer.DefaultPrefix(runtimePlatform))
	sha256Pin := firstNonEmpty(flags.sha256, cfg.InstallerSHA256)

	fmt.Printf("Installing conda distribution to %s (platform: %s)...\n", prefix, runtimePlatform)
	if runtimePlatform == model.PlatformColab {
		fmt.Println("Note: the Colab kernel may restart during installation; rerun your command afterwards.")
	}

	if err := newInstaller(url, prefix, sha256Pin).Install(ctx); err != nil {
		return "", err
	}

	fmt.Println("conda installation complete")
	return prefix, nil
}
