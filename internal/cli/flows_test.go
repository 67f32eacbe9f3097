package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phatvucoder/gconda/internal/config"
	"github.com/phatvucoder/gconda/internal/model"
)

// fakeManager implements condaManager for orchestration tests.
type fakeManager struct {
	path       string // empty means not installed
	version    string
	versionErr error
	baseDir    string
	currentEnv string
	envs       []model.EnvInfo

	createCalls     []string
	createFileCalls []string
	removeCalls     []string
}

func (f *fakeManager) Installed() (string, bool) {
	if f.path == "" {
		return "", false
	}
	return f.path, true
}

func (f *fakeManager) Status(context.Context) model.ToolStatus {
	path, ok := f.Installed()
	return model.ToolStatus{Installed: ok, Path: path, Version: f.version}
}

func (f *fakeManager) Version(context.Context) (string, error) {
	if f.versionErr != nil {
		return "", f.versionErr
	}
	return f.version, nil
}

func (f *fakeManager) BaseDir(context.Context) (string, error) { return f.baseDir, nil }

func (f *fakeManager) ListEnvs(context.Context) ([]model.EnvInfo, error) { return f.envs, nil }

func (f *fakeManager) EnvExists(_ context.Context, name string) (bool, error) {
	for _, env := range f.envs {
		if env.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeManager) CreateEnv(_ context.Context, name, pythonVersion string, _, _ []string) error {
	f.createCalls = append(f.createCalls, name+" python="+pythonVersion)
	return nil
}

func (f *fakeManager) CreateEnvFromFile(_ context.Context, path string) error {
	f.createFileCalls = append(f.createFileCalls, path)
	return nil
}

func (f *fakeManager) RemoveEnv(_ context.Context, name string) error {
	f.removeCalls = append(f.removeCalls, name)
	return nil
}

func (f *fakeManager) ExportEnv(context.Context, string) (string, error) { return "", nil }

func (f *fakeManager) CurrentEnv() string { return f.currentEnv }

// fakeInstaller counts Install invocations.
type fakeInstaller struct {
	installs int
	err      error
}

func (f *fakeInstaller) Install(context.Context) error {
	f.installs++
	return f.err
}

type switchCall struct{ pythonPath, envBin string }

// fakeLinker records link operations.
type fakeLinker struct {
	switchCalls []switchCall
	verifies    int
	removeCalls []string
}

func (f *fakeLinker) Switch(_ context.Context, pythonPath, envBin string) error {
	f.switchCalls = append(f.switchCalls, switchCall{pythonPath, envBin})
	return nil
}

func (f *fakeLinker) Verify(context.Context) error {
	f.verifies++
	return nil
}

func (f *fakeLinker) Remove(_ context.Context, path string) error {
	f.removeCalls = append(f.removeCalls, path)
	return nil
}

// fakeDetector reports a fixed platform and python location.
type fakeDetector struct {
	platform model.Platform
	python   string
}

func (f *fakeDetector) Runtime() model.Platform { return f.platform }

func (f *fakeDetector) PythonStatus(context.Context) model.ToolStatus {
	return model.ToolStatus{Installed: f.python != "", Path: f.python, Version: "Python 3.10.12"}
}

func (f *fakeDetector) FindPython() (string, error) {
	if f.python == "" {
		return "", errors.New("python not found")
	}
	return f.python, nil
}

// stubDeps saves the construction seams, restores them when the test
// ends, and points configuration loading at the built-in defaults.
func stubDeps(t *testing.T) {
	t.Helper()
	savedManager, savedManagerAt := newManager, newManagerAt
	savedInstaller, savedLinker := newInstaller, newLinker
	savedDetector, savedConfig := newDetector, loadConfig
	t.Cleanup(func() {
		newManager, newManagerAt = savedManager, savedManagerAt
		newInstaller, newLinker = savedInstaller, savedLinker
		newDetector, loadConfig = savedDetector, savedConfig
	})
	loadConfig = func() (*config.Config, error) { return config.Default(), nil }
	newDetector = func() runtimeDetector {
		return &fakeDetector{platform: model.PlatformGeneric, python: "/usr/bin/python"}
	}
}

func TestRunInstall(t *testing.T) {
	t.Run("skips when conda is already installed", func(t *testing.T) {
		stubDeps(t)
		inst := &fakeInstaller{}
		newManager = func() condaManager {
			return &fakeManager{path: "/usr/local/bin/conda", version: "conda 24.11.3"}
		}
		newInstaller = func(string, string, string) condaInstaller { return inst }

		prefix, err := runInstall(context.Background(), &installFlags{})
		require.NoError(t, err)
		assert.Equal(t, "/usr/local", prefix)
		assert.Zero(t, inst.installs)
	})

	t.Run("installs to the platform default prefix when missing", func(t *testing.T) {
		stubDeps(t)
		inst := &fakeInstaller{}
		var gotPrefix string
		newManager = func() condaManager { return &fakeManager{} }
		newInstaller = func(_, prefix, _ string) condaInstaller {
			gotPrefix = prefix
			return inst
		}

		prefix, err := runInstall(context.Background(), &installFlags{})
		require.NoError(t, err)
		assert.Equal(t, 1, inst.installs)
		assert.Equal(t, "/opt/conda", prefix)
		assert.Equal(t, "/opt/conda", gotPrefix)
	})

	t.Run("force reinstalls over an existing conda", func(t *testing.T) {
		stubDeps(t)
		inst := &fakeInstaller{}
		newManager = func() condaManager { return &fakeManager{path: "/usr/local/bin/conda"} }
		newInstaller = func(string, string, string) condaInstaller { return inst }

		_, err := runInstall(context.Background(), &installFlags{force: true})
		require.NoError(t, err)
		assert.Equal(t, 1, inst.installs)
	})
}

func TestRunSetup(t *testing.T) {
	t.Run("auto-installs conda and binds to the fresh prefix", func(t *testing.T) {
		stubDeps(t)
		inst := &fakeInstaller{}
		missing := &fakeManager{}
		installed := &fakeManager{path: "/opt/conda/bin/conda", version: "conda 24.11.3", baseDir: "/opt/conda"}
		linker := &fakeLinker{}
		var boundPrefix string

		newManager = func() condaManager { return missing }
		newManagerAt = func(prefix string) condaManager {
			boundPrefix = prefix
			return installed
		}
		newInstaller = func(string, string, string) condaInstaller { return inst }
		newLinker = func() interpreterLinker { return linker }

		cmd := NewSetupCommand()
		cmd.SetContext(context.Background())
		err := runSetup(cmd, &setupFlags{})
		require.NoError(t, err)

		assert.Equal(t, 1, inst.installs)
		assert.Equal(t, "/opt/conda", boundPrefix)

		// Every conda operation after the install must go through the
		// prefix-bound manager; the PATH-resolved one came up empty.
		assert.Empty(t, missing.createCalls)
		require.Equal(t, []string{"gconda python=3.10"}, installed.createCalls)
		require.Len(t, linker.switchCalls, 1)
		assert.Equal(t, "/usr/bin/python", linker.switchCalls[0].pythonPath)
		assert.Equal(t, "/opt/conda/envs/gconda/bin", linker.switchCalls[0].envBin)
		assert.Equal(t, 1, linker.verifies)
	})

	t.Run("rejects an existing environment", func(t *testing.T) {
		stubDeps(t)
		mgr := &fakeManager{
			path: "/usr/local/bin/conda",
			envs: []model.EnvInfo{{Name: "gconda", Path: "/opt/conda/envs/gconda"}},
		}
		newManager = func() condaManager { return mgr }

		cmd := NewSetupCommand()
		cmd.SetContext(context.Background())
		err := runSetup(cmd, &setupFlags{})

		var cliErr *model.CLIError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, model.ExitEnvCreateFailed, cliErr.Code)
		assert.Empty(t, mgr.createCalls)
	})

	t.Run("skip-relink stops after environment creation", func(t *testing.T) {
		stubDeps(t)
		mgr := &fakeManager{path: "/usr/local/bin/conda", baseDir: "/usr/local"}
		linker := &fakeLinker{}
		newManager = func() condaManager { return mgr }
		newLinker = func() interpreterLinker { return linker }

		cmd := NewSetupCommand()
		cmd.SetContext(context.Background())
		err := runSetup(cmd, &setupFlags{skipRelink: true})
		require.NoError(t, err)

		require.Equal(t, []string{"gconda python=3.10"}, mgr.createCalls)
		assert.Empty(t, linker.switchCalls)
	})
}

func TestRunDoctor(t *testing.T) {
	t.Run("healthy installation is left alone", func(t *testing.T) {
		stubDeps(t)
		inst := &fakeInstaller{}
		linker := &fakeLinker{}
		newManager = func() condaManager {
			return &fakeManager{path: "/usr/local/bin/conda", version: "conda 24.11.3"}
		}
		newInstaller = func(string, string, string) condaInstaller { return inst }
		newLinker = func() interpreterLinker { return linker }

		cmd := NewDoctorCommand()
		cmd.SetContext(context.Background())
		require.NoError(t, runDoctor(cmd))
		assert.Zero(t, inst.installs)
		assert.Empty(t, linker.removeCalls)
	})

	t.Run("missing conda is installed", func(t *testing.T) {
		stubDeps(t)
		inst := &fakeInstaller{}
		newManager = func() condaManager { return &fakeManager{} }
		newInstaller = func(string, string, string) condaInstaller { return inst }

		cmd := NewDoctorCommand()
		cmd.SetContext(context.Background())
		require.NoError(t, runDoctor(cmd))
		assert.Equal(t, 1, inst.installs)
	})

	t.Run("broken conda is removed, reinstalled and re-verified", func(t *testing.T) {
		stubDeps(t)
		inst := &fakeInstaller{}
		linker := &fakeLinker{}
		broken := &fakeManager{path: "/usr/local/bin/conda", versionErr: errors.New("ModuleNotFoundError: No module named 'conda'")}
		repaired := &fakeManager{path: "/opt/conda/bin/conda", version: "conda 24.11.3"}
		var boundPrefix string

		newManager = func() condaManager { return broken }
		newManagerAt = func(prefix string) condaManager {
			boundPrefix = prefix
			return repaired
		}
		newInstaller = func(string, string, string) condaInstaller { return inst }
		newLinker = func() interpreterLinker { return linker }

		cmd := NewDoctorCommand()
		cmd.SetContext(context.Background())
		require.NoError(t, runDoctor(cmd))

		assert.Equal(t, []string{"/usr/local/bin/conda"}, linker.removeCalls)
		assert.Equal(t, 1, inst.installs)
		// The re-verify runs against the reinstall prefix, not PATH.
		assert.Equal(t, "/opt/conda", boundPrefix)
	})

	t.Run("unrepairable conda maps to installer exit code", func(t *testing.T) {
		stubDeps(t)
		stillBroken := errors.New("ModuleNotFoundError: No module named 'conda'")
		newManager = func() condaManager {
			return &fakeManager{path: "/usr/local/bin/conda", versionErr: stillBroken}
		}
		newManagerAt = func(string) condaManager {
			return &fakeManager{path: "/opt/conda/bin/conda", versionErr: stillBroken}
		}
		newInstaller = func(string, string, string) condaInstaller { return &fakeInstaller{} }
		newLinker = func() interpreterLinker { return &fakeLinker{} }

		cmd := NewDoctorCommand()
		cmd.SetContext(context.Background())
		err := runDoctor(cmd)

		var cliErr *model.CLIError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, model.ExitInstallerFailed, cliErr.Code)
	})
}
