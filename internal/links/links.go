// Package links switches the default python interpreter by repointing the
// python/python3/pip symlinks next to the current interpreter at a conda
// environment's bin directory.
//
// Hosted notebook kernels resolve "python" through these links, so swapping
// them is what actually moves the kernel onto the new environment. On Colab
// the process runs as root and plain os.Remove/os.Symlink suffice; elsewhere
// the package escalates through sudo only when a direct call is denied.
package links

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/phatvucoder/gconda/internal/logging"
	"github.com/phatvucoder/gconda/internal/model"
	"github.com/rs/zerolog"
)

// Linker performs the symlink switch and verifies the result.
//
// The sudo and run seams default to real process execution and are only
// replaced in tests.
type Linker struct {
	log zerolog.Logger

	// sudo runs `sudo <args...>` for link operations denied to the
	// current user.
	sudo func(ctx context.Context, args ...string) error

	// run executes a command for post-switch verification.
	run func(ctx context.Context, name string, args ...string) (string, error)

	remove  func(name string) error
	symlink func(oldname, newname string) error
}

// NewLinker creates a Linker backed by real filesystem and process calls.
func NewLinker() *Linker {
	return &Linker{
		log:     logging.GetLogger("links"),
		sudo:    runSudo,
		run:     runCombined,
		remove:  os.Remove,
		symlink: os.Symlink,
	}
}

// Switch repoints the interpreter links next to pythonPath at the
// environment bin directory envBin. Three links are updated:
//
//	<python dir>/python  -> <envBin>/python3
//	<python dir>/python3 -> <envBin>/python3
//	<python dir>/pip     -> <envBin>/pip
//
// The link set is deduplicated so a host whose interpreter is already
// named python3 is handled correctly.
func (l *Linker) Switch(ctx context.Context, pythonPath, envBin string) error {
	pythonDir := filepath.Dir(pythonPath)
	newPython := filepath.Join(envBin, "python3")
	newPip := filepath.Join(envBin, "pip")

	targets := map[string]string{
		pythonPath:                          newPython,
		filepath.Join(pythonDir, "python"):  newPython,
		filepath.Join(pythonDir, "python3"): newPython,
		filepath.Join(pythonDir, "pip"):     newPip,
	}

	for link, target := range targets {
		l.log.Debug().Str("link", link).Str("target", target).Msg("updating interpreter link")
		if err := l.replaceLink(ctx, link, target); err != nil {
			return model.WrapCLIError(model.ExitLinkFailed,
				fmt.Sprintf("failed to update link %s", link), err)
		}
	}
	return nil
}

// Verify confirms the switched interpreter and pip actually run.
// A switched link set whose python cannot execute is a broken environment,
// so verification failure is an error rather than a warning.
func (l *Linker) Verify(ctx context.Context) error {
	for _, probe := range [][]string{{"python", "--version"}, {"pip", "--version"}} {
		out, err := l.run(ctx, probe[0], probe[1:]...)
		if err != nil {
			return model.WrapCLIError(model.ExitLinkFailed,
				fmt.Sprintf("%s does not run after interpreter switch", probe[0]), err)
		}
		l.log.Info().Str("tool", probe[0]).Str("version", strings.TrimSpace(out)).Msg("verified")
	}
	return nil
}

// Remove deletes a file or link, escalating through sudo when the direct
// call is denied. A path that does not exist is not an error. Used by the
// doctor command to clear a broken conda entrypoint before reinstalling.
func (l *Linker) Remove(ctx context.Context, path string) error {
	err := l.remove(path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	if !os.IsPermission(err) {
		return err
	}
	if sudoErr := l.sudo(ctx, "rm", "-f", path); sudoErr != nil {
		return fmt.Errorf("remove denied and sudo failed: %w", sudoErr)
	}
	return nil
}

// replaceLink removes an existing file or link and creates a symlink to
// target. Permission-denied failures retry once through sudo; any other
// failure is returned directly.
func (l *Linker) replaceLink(ctx context.Context, link, target string) error {
	if err := l.remove(link); err != nil && !os.IsNotExist(err) {
		if !os.IsPermission(err) {
			return err
		}
		if sudoErr := l.sudo(ctx, "rm", "-f", link); sudoErr != nil {
			return fmt.Errorf("remove denied and sudo failed: %w", sudoErr)
		}
	}

	if err := l.symlink(target, link); err != nil {
		if !os.IsPermission(err) {
			return err
		}
		if sudoErr := l.sudo(ctx, "ln", "-sf", target, link); sudoErr != nil {
			return fmt.Errorf("symlink denied and sudo failed: %w", sudoErr)
		}
	}
	return nil
}

// runSudo executes `sudo <args...>`, capturing stderr for diagnostics.
func runSudo(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, "sudo", args...)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return fmt.Errorf("sudo %s: %w: %s", strings.Join(args, " "), err, stderrStr)
		}
		return fmt.Errorf("sudo %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

// runCombined executes a command and returns its combined stdout+stderr.
func runCombined(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return string(out), nil
}
