// Package conda provides conda environment operations by invoking the
// conda CLI.
//
// This package wraps conda commands (via os/exec) to check the installation,
// create, remove, list and export environments. It is the integration layer
// between gconda and the external conda tooling — all dependency resolution
// and package installation semantics stay on conda's side.
//
// Design decisions:
//   - We shell out to `conda` rather than reimplementing any environment
//     logic; gconda is orchestration only.
//   - Machine-readable sub-invocations use conda's --json flag and are parsed
//     with encoding/json (conda emits strict JSON, no comment stripping
//     needed).
//   - The exec seam (run, lookPath, stat) is injectable so tests can fake
//     the external process without a conda installation.
//   - The conda binary is resolved through PATH first and through the
//     well-known install prefixes second, since a fresh install is not on
//     PATH until the shell is reconfigured.
package conda

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/phatvucoder/gconda/internal/logging"
	"github.com/phatvucoder/gconda/internal/model"
	"github.com/rs/zerolog"
)

// runFunc executes an external command and returns its stdout.
// Implementations must include stderr in the returned error on failure.
type runFunc func(ctx context.Context, name string, args ...string) (string, error)

// defaultCondaPaths are checked, in order, when conda is not on PATH.
// A fresh install to /opt/conda leaves the binary off PATH until the
// shell is reconfigured, so the Manager must find it by prefix too.
var defaultCondaPaths = []string{
	"/opt/conda/bin/conda",
	"/usr/local/bin/conda",
}

// Manager provides conda operations by invoking the conda CLI.
//
// The zero value is not usable; create instances with NewManager or
// NewManagerAt. The run/lookPath/stat fields default to real process and
// filesystem calls and are only replaced in tests.
type Manager struct {
	log      zerolog.Logger
	run      runFunc
	lookPath func(file string) (string, error)
	stat     func(name string) (os.FileInfo, error)
	getenv   func(key string) string

	// condaPath pins the conda binary to an explicit location. When set,
	// PATH lookup and prefix probing are skipped entirely. Used right
	// after an install, before the prefix is on PATH.
	condaPath string
}

// NewManager creates a conda Manager backed by real process execution.
// The conda binary is resolved through PATH first, then through the
// well-known install prefixes.
func NewManager() *Manager {
	return &Manager{
		log:      logging.GetLogger("conda"),
		run:      runCommand,
		lookPath: exec.LookPath,
		stat:     os.Stat,
		getenv:   os.Getenv,
	}
}

// NewManagerAt creates a Manager bound to the conda binary under the
// given install prefix (<prefix>/bin/conda). Callers that just installed
// conda use this so operations work before the prefix is on PATH.
func NewManagerAt(prefix string) *Manager {
	m := NewManager()
	m.condaPath = filepath.Join(prefix, "bin", "conda")
	return m
}

// Installed reports whether a conda binary can be resolved, returning
// its path when found. Resolution order: the pinned binary (NewManagerAt),
// then PATH, then the default install prefixes.
func (m *Manager) Installed() (string, bool) {
	if m.condaPath != "" {
		if _, err := m.stat(m.condaPath); err == nil {
			return m.condaPath, true
		}
		return "", false
	}

	if path, err := m.lookPath("conda"); err == nil {
		return path, true
	}
	for _, path := range defaultCondaPaths {
		if _, err := m.stat(path); err == nil {
			m.log.Debug().Str("path", path).Msg("conda found under a default prefix")
			return path, true
		}
	}
	return "", false
}

// Status returns the presence and version of the conda binary.
// A conda that is present but cannot report its version still counts as
// installed; the version field is left empty in that case.
func (m *Manager) Status(ctx context.Context) model.ToolStatus {
	path, ok := m.Installed()
	if !ok {
		return model.ToolStatus{Installed: false}
	}

	version, err := m.Version(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("conda is installed, but the version could not be retrieved")
		return model.ToolStatus{Installed: true, Path: path}
	}
	return model.ToolStatus{Installed: true, Path: path, Version: version}
}

// Version returns the trimmed output of `conda --version`
// (e.g. "conda 24.11.3").
func (m *Manager) Version(ctx context.Context) (string, error) {
	bin, err := m.binary()
	if err != nil {
		return "", err
	}
	out, err := m.run(ctx, bin, "--version")
	if err != nil {
		return "", fmt.Errorf("conda --version failed: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// BaseDir returns the conda base (root) prefix via `conda info --base`.
func (m *Manager) BaseDir(ctx context.Context) (string, error) {
	bin, err := m.binary()
	if err != nil {
		return "", err
	}
	out, err := m.run(ctx, bin, "info", "--base")
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "unable to determine conda base directory", err)
	}
	return strings.TrimSpace(out), nil
}

// Info holds the subset of `conda info --json` output gconda consumes.
type Info struct {
	// CondaVersion is the installed conda version (e.g. "24.11.3").
	CondaVersion string `json:"conda_version"`

	// Envs lists the absolute prefix directories of all environments,
	// including the base prefix.
	Envs []string `json:"envs"`

	// RootPrefix is the base installation directory.
	RootPrefix string `json:"root_prefix"`
}

// Info runs `conda info --json` and parses the result.
func (m *Manager) Info(ctx context.Context) (*Info, error) {
	bin, err := m.binary()
	if err != nil {
		return nil, err
	}
	out, err := m.run(ctx, bin, "info", "--json")
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "conda info failed", err)
	}

	var info Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to parse conda info output", err)
	}
	return &info, nil
}

// ListEnvs returns all conda environments known to the installation.
// The base prefix is reported under the name "base"; the environment
// matching CONDA_DEFAULT_ENV is marked active.
func (m *Manager) ListEnvs(ctx context.Context) ([]model.EnvInfo, error) {
	info, err := m.Info(ctx)
	if err != nil {
		return nil, err
	}

	current := m.CurrentEnv()
	envs := make([]model.EnvInfo, 0, len(info.Envs))
	for _, path := range info.Envs {
		name := filepath.Base(path)
		if path == info.RootPrefix {
			name = "base"
		}
		envs = append(envs, model.EnvInfo{
			Name:   name,
			Path:   path,
			Active: current != "" && name == current,
		})
	}
	return envs, nil
}

// EnvExists reports whether an environment with the given name exists.
func (m *Manager) EnvExists(ctx context.Context, name string) (bool, error) {
	envs, err := m.ListEnvs(ctx)
	if err != nil {
		return false, err
	}
	for _, env := range envs {
		if env.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateEnv creates a new environment with the requested python version.
// ipython is always included so the environment is usable as a notebook
// kernel; extraPackages and channels come from the tool configuration.
func (m *Manager) CreateEnv(ctx context.Context, name, pythonVersion string, channels, extraPackages []string) error {
	bin, err := m.binary()
	if err != nil {
		return err
	}

	args := []string{"create", "-n", name, "python=" + pythonVersion, "ipython"}
	args = append(args, extraPackages...)
	for _, channel := range channels {
		args = append(args, "-c", channel)
	}
	args = append(args, "-y")

	m.log.Info().Str("env", name).Str("python", pythonVersion).Msg("creating conda environment")
	if _, err := m.run(ctx, bin, args...); err != nil {
		return model.WrapCLIError(model.ExitEnvCreateFailed,
			fmt.Sprintf("failed to create conda environment %q", name), err)
	}
	return nil
}

// CreateEnvFromFile creates an environment from an environment.yml file
// via `conda env create -f <file>`. The environment name comes from the
// file's `name` field.
func (m *Manager) CreateEnvFromFile(ctx context.Context, path string) error {
	bin, err := m.binary()
	if err != nil {
		return err
	}

	m.log.Info().Str("file", path).Msg("creating conda environment from file")
	if _, err := m.run(ctx, bin, "env", "create", "-f", path); err != nil {
		return model.WrapCLIError(model.ExitEnvCreateFailed,
			fmt.Sprintf("failed to create conda environment from %s", path), err)
	}
	return nil
}

// RemoveEnv deletes the named environment via `conda env remove`.
func (m *Manager) RemoveEnv(ctx context.Context, name string) error {
	bin, err := m.binary()
	if err != nil {
		return err
	}

	m.log.Info().Str("env", name).Msg("removing conda environment")
	if _, err := m.run(ctx, bin, "env", "remove", "-n", name, "-y"); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to remove conda environment %q", name), err)
	}
	return nil
}

// ExportEnv returns the raw YAML produced by `conda env export -n <name>`.
// Callers normalize the output via the envfile package before writing it.
func (m *Manager) ExportEnv(ctx context.Context, name string) (string, error) {
	bin, err := m.binary()
	if err != nil {
		return "", err
	}
	out, err := m.run(ctx, bin, "env", "export", "-n", name)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to export conda environment %q", name), err)
	}
	return out, nil
}

// CurrentEnv returns the active environment name from CONDA_DEFAULT_ENV,
// or the empty string when no environment is activated.
func (m *Manager) CurrentEnv() string {
	return m.getenv("CONDA_DEFAULT_ENV")
}

// EnvBinDir returns the bin directory of a named environment under the
// given conda base directory.
func EnvBinDir(baseDir, envName string) string {
	return filepath.Join(baseDir, "envs", envName, "bin")
}

// binary resolves the conda binary to invoke, returning a CLIError with
// ExitCondaNotFound when none can be found, so commands fail with a
// stable exit code before attempting a subprocess.
func (m *Manager) binary() (string, error) {
	path, ok := m.Installed()
	if !ok {
		return "", model.NewCLIError(model.ExitCondaNotFound, "conda is not installed")
	}
	return path, nil
}

// runCommand executes an external command, capturing stdout and stderr
// separately. On success it returns stdout. On failure the error includes
// the trimmed stderr output for diagnostics.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, stderrStr)
		}
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}

	return stdout.String(), nil
}
