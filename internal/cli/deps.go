// Package cli — deps.go defines the construction seams between the
// command orchestrations and the packages that do the work.
//
// The commands consume narrow interfaces and obtain implementations
// through package-level factory variables. Production wiring points at
// the real constructors; tests swap the factories for fakes so the
// orchestration flows (install idempotency, setup auto-install, doctor
// repair) can be exercised without subprocesses or network access.
package cli

import (
	"context"

	"github.com/phatvucoder/gconda/internal/conda"
	"github.com/phatvucoder/gconda/internal/config"
	"github.com/phatvucoder/gconda/internal/installer"
	"github.com/phatvucoder/gconda/internal/links"
	"github.com/phatvucoder/gconda/internal/model"
	"github.com/phatvucoder/gconda/internal/platform"
)

// condaManager is the subset of conda.Manager the commands use.
type condaManager interface {
	Installed() (string, bool)
	Status(ctx context.Context) model.ToolStatus
	Version(ctx context.Context) (string, error)
	BaseDir(ctx context.Context) (string, error)
	ListEnvs(ctx context.Context) ([]model.EnvInfo, error)
	EnvExists(ctx context.Context, name string) (bool, error)
	CreateEnv(ctx context.Context, name, pythonVersion string, channels, extraPackages []string) error
	CreateEnvFromFile(ctx context.Context, path string) error
	RemoveEnv(ctx context.Context, name string) error
	ExportEnv(ctx context.Context, name string) (string, error)
	CurrentEnv() string
}

// condaInstaller installs the conda distribution.
type condaInstaller interface {
	Install(ctx context.Context) error
}

// interpreterLinker manages the python/pip symlinks.
type interpreterLinker interface {
	Switch(ctx context.Context, pythonPath, envBin string) error
	Verify(ctx context.Context) error
	Remove(ctx context.Context, path string) error
}

// runtimeDetector classifies the host and probes for python.
type runtimeDetector interface {
	Runtime() model.Platform
	PythonStatus(ctx context.Context) model.ToolStatus
	FindPython() (string, error)
}

// Factory seams. Tests replace these; production code never does.
var (
	newManager = func() condaManager { return conda.NewManager() }

	newManagerAt = func(prefix string) condaManager { return conda.NewManagerAt(prefix) }

	newInstaller = func(url, prefix, sha256Pin string) condaInstaller {
		return installer.New(url, prefix, sha256Pin)
	}

	newLinker = func() interpreterLinker { return links.NewLinker() }

	newDetector = func() runtimeDetector { return platform.NewDetector() }

	loadConfig = config.LoadDefault
)
