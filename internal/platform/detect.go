// Package platform detects the hosted notebook runtime gconda runs in and
// locates the host python interpreter.
//
// Detection is a sequence of ordered probes over environment variables and
// well-known filesystem paths, returning the first runtime that matches.
// Colab and Kaggle both set stable marker variables in their kernels; the
// filesystem probes are fallbacks for older images where the variables are
// absent.
package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/phatvucoder/gconda/internal/logging"
	"github.com/phatvucoder/gconda/internal/model"
	"github.com/rs/zerolog"
)

// colabEnvMarkers are environment variables set inside Google Colab kernels.
var colabEnvMarkers = []string{"COLAB_RELEASE_TAG", "COLAB_BACKEND_VERSION", "COLAB_GPU"}

// kaggleEnvMarkers are environment variables set inside Kaggle kernels.
var kaggleEnvMarkers = []string{"KAGGLE_KERNEL_RUN_TYPE", "KAGGLE_URL_BASE"}

// kagglePathMarker exists on all Kaggle notebook images.
const kagglePathMarker = "/kaggle/working"

// Detector inspects the host to classify the runtime and find python.
//
// The probe seams (getenv, stat, lookPath, run) default to the real host
// and are only replaced in tests.
type Detector struct {
	log      zerolog.Logger
	getenv   func(key string) string
	stat     func(name string) (os.FileInfo, error)
	lookPath func(file string) (string, error)
	run      func(ctx context.Context, name string, args ...string) (string, error)
}

// NewDetector creates a Detector backed by the real host environment.
func NewDetector() *Detector {
	return &Detector{
		log:      logging.GetLogger("platform"),
		getenv:   os.Getenv,
		stat:     os.Stat,
		lookPath: exec.LookPath,
		run:      runCombined,
	}
}

// Runtime classifies the current host as Colab, Kaggle or generic.
// Environment variable markers are checked before filesystem markers
// because they are cheaper and present on current images.
func (d *Detector) Runtime() model.Platform {
	for _, key := range colabEnvMarkers {
		if d.getenv(key) != "" {
			d.log.Debug().Str("marker", key).Msg("detected Google Colab")
			return model.PlatformColab
		}
	}

	for _, key := range kaggleEnvMarkers {
		if d.getenv(key) != "" {
			d.log.Debug().Str("marker", key).Msg("detected Kaggle")
			return model.PlatformKaggle
		}
	}
	if info, err := d.stat(kagglePathMarker); err == nil && info.IsDir() {
		d.log.Debug().Str("marker", kagglePathMarker).Msg("detected Kaggle")
		return model.PlatformKaggle
	}

	return model.PlatformGeneric
}

// FindPython returns the path of the host python interpreter, preferring
// `python` and falling back to `python3`.
func (d *Detector) FindPython() (string, error) {
	for _, name := range []string{"python", "python3"} {
		if path, err := d.lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("python executable not found in PATH")
}

// PythonStatus reports presence and version of the host python interpreter.
// A python that is present but cannot report its version still counts as
// installed.
func (d *Detector) PythonStatus(ctx context.Context) model.ToolStatus {
	path, err := d.FindPython()
	if err != nil {
		return model.ToolStatus{Installed: false}
	}

	// python 2 printed its version to stderr, so the probe reads combined
	// output rather than stdout alone.
	out, err := d.run(ctx, path, "--version")
	if err != nil {
		d.log.Warn().Err(err).Msg("python is installed, but the version could not be retrieved")
		return model.ToolStatus{Installed: true, Path: path}
	}
	return model.ToolStatus{Installed: true, Path: path, Version: strings.TrimSpace(out)}
}

// runCombined executes a command and returns its combined stdout+stderr.
func runCombined(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return string(out), nil
}
