// Package cli — setup.go implements the "gconda setup" command.
//
// setup is the primary operation: it ensures conda is present, creates a
// named environment with the requested python version, and switches the
// default interpreter links to point into the new environment.
//
// Orchestration steps:
//  1. Ensure conda is installed (auto-install when missing)
//  2. Create the environment (from flags/config, or an environment.yml)
//  3. Resolve the conda base directory
//  4. Repoint the python/python3/pip links at the environment's bin
//  5. Verify the switched interpreter runs
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phatvucoder/gconda/internal/conda"
	"github.com/phatvucoder/gconda/internal/config"
	"github.com/phatvucoder/gconda/internal/envfile"
	"github.com/phatvucoder/gconda/internal/model"
)

// setupFlags holds the flag values for the setup command.
type setupFlags struct {
	python     string // --python: python version for the new environment
	name       string // --name: environment name
	file       string // --file: create from an environment.yml instead
	skipRelink bool   // --skip-relink: create the environment only
}

// NewSetupCommand creates the "setup" cobra command.
func NewSetupCommand() *cobra.Command {
	flags := &setupFlags{}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create a conda environment and switch the default interpreter to it",
		Long: `Create a new conda environment with the requested Python version (plus
ipython, so it works as a notebook kernel) and repoint the python/python3/pip
links at it, switching the default interpreter.

If conda is not installed it is installed first; on Colab that step may
restart the kernel, in which case setup must be rerun.

Defaults (python 3.10, environment "gconda") can be changed per invocation
with flags or persistently in gconda.jsonc.

Examples:
  gconda setup
  gconda setup --python 3.11 --name ml-env
  gconda setup --file environment.yml
  gconda setup --skip-relink`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.python, "python", "", "Python version for the environment (default: 3.10)")
	cmd.Flags().StringVar(&flags.name, "name", "", `Environment name (default: "gconda")`)
	cmd.Flags().StringVar(&flags.file, "file", "", "Create the environment from an environment.yml file")
	cmd.Flags().BoolVar(&flags.skipRelink, "skip-relink", false, "Create the environment without switching the interpreter links")

	return cmd
}

// runSetup is the main orchestration function for the setup command.
func runSetup(cmd *cobra.Command, flags *setupFlags) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to load configuration", err)
	}

	mgr := newManager()
	if _, ok := mgr.Installed(); !ok {
		fmt.Println("conda is not installed; installing it first")
		fmt.Println("Note: if the kernel restarts during installation, run setup again afterwards.")
		prefix, err := runInstall(ctx, &installFlags{})
		if err != nil {
			return err
		}
		// The fresh prefix is not on PATH in this process; bind the
		// remaining conda operations to it directly.
		mgr = newManagerAt(prefix)
	}

	var envName string
	if flags.file != "" {
		envName, err = setupFromFile(cmd, mgr, flags)
	} else {
		envName, err = setupFromFlags(cmd, mgr, cfg, flags)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Environment %q created successfully\n", envName)

	if flags.skipRelink {
		return nil
	}

	baseDir, err := mgr.BaseDir(ctx)
	if err != nil {
		return err
	}

	pythonPath, err := newDetector().FindPython()
	if err != nil {
		return model.WrapCLIError(model.ExitLinkFailed, "python executable not found in PATH", err)
	}

	envBin := conda.EnvBinDir(baseDir, envName)
	fmt.Printf("Switching interpreter links to %s...\n", envBin)

	linker := newLinker()
	if err := linker.Switch(ctx, pythonPath, envBin); err != nil {
		return err
	}
	if err := linker.Verify(ctx); err != nil {
		return err
	}

	fmt.Printf("Python environment switched to %q\n", envName)
	return nil
}

// setupFromFlags creates the environment from the flag/config values and
// returns its name.
func setupFromFlags(cmd *cobra.Command, mgr condaManager, cfg *config.Config, flags *setupFlags) (string, error) {
	ctx := cmd.Context()

	pythonVersion := firstNonEmpty(flags.python, cfg.PythonVersion)
	envName := firstNonEmpty(flags.name, cfg.EnvName)

	if err := model.ValidatePythonVersion(pythonVersion); err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "invalid --python value", err)
	}
	if err := model.ValidateEnvName(envName); err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "invalid environment name", err)
	}

	exists, err := mgr.EnvExists(ctx, envName)
	if err != nil {
		return "", err
	}
	if exists {
		return "", model.NewCLIError(model.ExitEnvCreateFailed,
			fmt.Sprintf("environment %q already exists (remove it with `gconda remove %s` first)", envName, envName))
	}

	fmt.Printf("Creating environment %q with Python %s...\n", envName, pythonVersion)
	if err := mgr.CreateEnv(ctx, envName, pythonVersion, cfg.Channels, cfg.ExtraPackages); err != nil {
		return "", err
	}
	return envName, nil
}

// setupFromFile creates the environment from an environment.yml and
// returns the name declared in the file.
func setupFromFile(cmd *cobra.Command, mgr condaManager, flags *setupFlags) (string, error) {
	ctx := cmd.Context()

	if flags.name != "" {
		return "", model.NewCLIError(model.ExitGeneralError,
			"--name cannot be combined with --file; set the name field in the environment file")
	}

	ef, err := envfile.Load(flags.file)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "invalid environment file", err)
	}
	if ef.Name == "" {
		return "", model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("environment file %s has no name field", flags.file))
	}

	exists, err := mgr.EnvExists(ctx, ef.Name)
	if err != nil {
		return "", err
	}
	if exists {
		return "", model.NewCLIError(model.ExitEnvCreateFailed,
			fmt.Sprintf("environment %q already exists (remove it with `gconda remove %s` first)", ef.Name, ef.Name))
	}

	fmt.Printf("Creating environment %q from %s...\n", ef.Name, flags.file)
	if err := mgr.CreateEnvFromFile(ctx, flags.file); err != nil {
		return "", err
	}
	return ef.Name, nil
}
