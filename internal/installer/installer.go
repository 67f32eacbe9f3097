// Package installer downloads and runs the conda distribution installer
// script.
//
// The installer itself (Miniforge by default) is an external collaborator:
// this package only fetches the script, optionally verifies a pinned SHA-256,
// and executes it in batch mode. All filesystem mutation under the install
// prefix is owned by the script.
package installer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/phatvucoder/gconda/internal/logging"
	"github.com/phatvucoder/gconda/internal/model"
	"github.com/rs/zerolog"
)

const (
	// miniforgeURLTemplate resolves to the latest Miniforge installer for
	// the given architecture suffix.
	miniforgeURLTemplate = "https://github.com/conda-forge/miniforge/releases/latest/download/Miniforge3-Linux-%s.sh"

	// colabPrefix is the install prefix on Google Colab. Installing into
	// /usr/local makes the new interpreter visible to the running kernel
	// without re-activation, matching the upstream condacolab behavior.
	colabPrefix = "/usr/local"

	// genericPrefix is the conventional conda prefix elsewhere.
	genericPrefix = "/opt/conda"

	// downloadTimeout bounds the installer download. The script is ~100 MB;
	// ten minutes is generous even for throttled notebook egress.
	downloadTimeout = 10 * time.Minute
)

// DefaultURL returns the Miniforge installer URL for the current
// architecture.
func DefaultURL() string {
	arch := "x86_64"
	if runtime.GOARCH == "arm64" {
		arch = "aarch64"
	}
	return fmt.Sprintf(miniforgeURLTemplate, arch)
}

// DefaultPrefix returns the install prefix for the detected platform.
func DefaultPrefix(p model.Platform) string {
	if p == model.PlatformColab {
		return colabPrefix
	}
	return genericPrefix
}

// Installer fetches and executes a conda installer script.
//
// URL, Prefix and SHA256 come from flags or the tool configuration.
// An empty SHA256 skips checksum verification.
type Installer struct {
	// URL is the installer script location.
	URL string

	// Prefix is the directory the distribution is installed into.
	Prefix string

	// SHA256 is an optional hex-encoded checksum pin for the script.
	SHA256 string

	log    zerolog.Logger
	client *http.Client

	// runScript executes the downloaded script. Replaced in tests.
	runScript func(ctx context.Context, script, prefix string) error

	// verify sanity-checks the installed conda binary. Replaced in tests.
	verify func(ctx context.Context) (string, error)
}

// New creates an Installer for the given script URL, install prefix and
// optional checksum pin.
func New(url, prefix, sha256Pin string) *Installer {
	i := &Installer{
		URL:       url,
		Prefix:    prefix,
		SHA256:    strings.ToLower(strings.TrimSpace(sha256Pin)),
		log:       logging.GetLogger("installer"),
		client:    &http.Client{Timeout: downloadTimeout},
		runScript: runBashInstaller,
	}
	i.verify = i.verifyInstall
	return i
}

// Install downloads the installer script, verifies it, runs it in batch
// mode against the configured prefix, and sanity-checks the resulting
// conda binary. The temporary script is always cleaned up.
func (i *Installer) Install(ctx context.Context) error {
	i.log.Info().Str("url", i.URL).Str("prefix", i.Prefix).Msg("installing conda distribution")

	script, err := i.download(ctx)
	if err != nil {
		return err
	}
	defer os.Remove(script)

	if err := i.runScript(ctx, script, i.Prefix); err != nil {
		return model.WrapCLIError(model.ExitInstallerFailed, "installer script failed", err)
	}

	version, err := i.verify(ctx)
	if err != nil {
		return model.WrapCLIError(model.ExitInstallerFailed,
			"installer completed but conda does not respond", err)
	}

	i.log.Info().Str("version", version).Msg("conda installation complete")
	return nil
}

// download fetches the installer script to a temporary file, hashing it
// on the way through. When a SHA-256 pin is configured a mismatch removes
// the file and aborts before anything is executed.
func (i *Installer) download(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.URL, nil)
	if err != nil {
		return "", model.WrapCLIError(model.ExitInstallerFailed, "invalid installer URL", err)
	}

	resp, err := i.client.Do(req)
	if err != nil {
		return "", model.WrapCLIError(model.ExitInstallerFailed, "installer download failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", model.NewCLIError(model.ExitInstallerFailed,
			fmt.Sprintf("installer download failed: %s returned %s", i.URL, resp.Status))
	}

	tmp, err := os.CreateTemp("", "gconda-installer-*.sh")
	if err != nil {
		return "", model.WrapCLIError(model.ExitInstallerFailed, "failed to create temp file", err)
	}

	hash := sha256.New()
	_, copyErr := io.Copy(tmp, io.TeeReader(resp.Body, hash))
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmp.Name())
		if copyErr == nil {
			copyErr = closeErr
		}
		return "", model.WrapCLIError(model.ExitInstallerFailed, "failed to write installer script", copyErr)
	}

	sum := hex.EncodeToString(hash.Sum(nil))
	i.log.Debug().Str("sha256", sum).Str("path", tmp.Name()).Msg("installer downloaded")

	if i.SHA256 != "" && sum != i.SHA256 {
		os.Remove(tmp.Name())
		return "", model.NewCLIError(model.ExitInstallerFailed,
			fmt.Sprintf("installer checksum mismatch: expected %s, got %s", i.SHA256, sum))
	}

	return tmp.Name(), nil
}

// verifyInstall runs `conda --version` from the freshly installed prefix.
// The prefix path is used directly because /opt/conda/bin is typically
// not on PATH yet.
func (i *Installer) verifyInstall(ctx context.Context) (string, error) {
	condaPath := filepath.Join(i.Prefix, "bin", "conda")
	out, err := exec.CommandContext(ctx, condaPath, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", condaPath, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// runBashInstaller executes the installer script in batch mode:
// -b (no interactive prompts), -f (install even into an existing prefix),
// -p (target prefix). Installer output goes to stderr so stdout stays
// clean for command output.
func runBashInstaller(ctx context.Context, script, prefix string) error {
	cmd := exec.CommandContext(ctx, "bash", script, "-b", "-f", "-p", prefix)

	var stderr strings.Builder
	cmd.Stdout = os.Stderr
	cmd.Stderr = io.MultiWriter(os.Stderr, &stderr)

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return fmt.Errorf("bash %s: %w: %s", script, err, lastLine(stderrStr))
		}
		return fmt.Errorf("bash %s: %w", script, err)
	}
	return nil
}

// lastLine returns the final non-empty line of s, which for installer
// failures is where the actionable message lives.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
