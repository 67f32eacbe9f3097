// Package model defines the domain types for the gconda CLI.
//
// All entities in this package are transient representations built from
// external process output (conda invocations) and environment inspection
// at runtime. gconda itself keeps no persistent state — environments are
// owned entirely by the conda installation.
package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Platform identifies the hosted notebook runtime gconda is running in.
// The platform decides the default installer prefix and which installer
// diagnostics to surface (e.g. the kernel-restart warning on Colab).
type Platform string

const (
	// PlatformColab indicates a Google Colab kernel.
	PlatformColab Platform = "colab"

	// PlatformKaggle indicates a Kaggle notebook kernel.
	PlatformKaggle Platform = "kaggle"

	// PlatformGeneric indicates any other host (local machine, CI, generic VM).
	PlatformGeneric Platform = "generic"
)

// String returns the string representation of Platform.
func (p Platform) String() string {
	return string(p)
}

// IsValid checks whether the Platform value is one of the defined runtimes.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformColab, PlatformKaggle, PlatformGeneric:
		return true
	default:
		return false
	}
}

// IsHosted reports whether the platform is a hosted notebook runtime
// (Colab or Kaggle), as opposed to a generic host.
func (p Platform) IsHosted() bool {
	return p == PlatformColab || p == PlatformKaggle
}

// ParsePlatform converts a string to a Platform.
// Returns an error if the string does not match any known runtime.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(s))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid platform: %q (valid: colab, kaggle, generic)", s)
	}
	return p, nil
}

// ToolStatus describes the presence of an external binary (conda, python)
// as reported by a check operation.
type ToolStatus struct {
	// Installed reports whether the binary was found on PATH.
	Installed bool `json:"installed"`

	// Version is the trimmed output of `<tool> --version`.
	// Empty when the tool is absent or the version query failed.
	Version string `json:"version,omitempty"`

	// Path is the resolved binary path, when the tool was found.
	Path string `json:"path,omitempty"`
}

// CheckReport aggregates the presence checks performed by `gconda check`.
type CheckReport struct {
	Platform Platform   `json:"platform"`
	Conda    ToolStatus `json:"conda"`
	Python   ToolStatus `json:"python"`
}

// EnvInfo describes a single conda environment as reported by
// `conda info --json`. The base environment is named "base".
type EnvInfo struct {
	// Name is the environment name (prefix basename, or "base").
	Name string `json:"name"`

	// Path is the absolute environment prefix directory.
	Path string `json:"path"`

	// Active reports whether this is the currently activated environment
	// (per CONDA_DEFAULT_ENV).
	Active bool `json:"active"`
}

// envNameRegex validates environment names: alphanumeric plus hyphen and
// underscore, starting with an alphanumeric character. This mirrors the
// names conda itself accepts without escaping.
var envNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateEnvName checks if the given name is a valid conda environment name.
func ValidateEnvName(name string) error {
	if name == "" {
		return fmt.Errorf("environment name must not be empty")
	}
	if !envNameRegex.MatchString(name) {
		return fmt.Errorf("invalid environment name %q: must contain only alphanumeric characters, hyphens and underscores, and start with an alphanumeric", name)
	}
	return nil
}

// pythonVersionRegex validates python version requests: two or three
// dot-separated numeric segments ("3.10", "3.11.4").
var pythonVersionRegex = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)

// ValidatePythonVersion checks if the given string is an acceptable
// version spec for `conda create python=<version>`.
func ValidatePythonVersion(version string) error {
	if version == "" {
		return fmt.Errorf("python version must not be empty")
	}
	if !pythonVersionRegex.MatchString(version) {
		return fmt.Errorf("invalid python version %q: expected N.N or N.N.N", version)
	}
	return nil
}

// ExitCode defines standard CLI exit codes. These codes let notebook cells
// and scripts gate follow-up steps (e.g. only install when check fails).
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitCondaNotFound indicates the conda binary is not on PATH.
	ExitCondaNotFound ExitCode = 2

	// ExitInstallerFailed indicates the installer script download or
	// execution failed.
	ExitInstallerFailed ExitCode = 3

	// ExitEnvCreateFailed indicates `conda create` / `conda env create`
	// reported a failure.
	ExitEnvCreateFailed ExitCode = 4

	// ExitCommandNotFound indicates the requested command was found neither
	// on PATH nor in the target environment's bin directory.
	ExitCommandNotFound ExitCode = 5

	// ExitLinkFailed indicates the interpreter symlink switch failed or
	// the switched interpreter did not verify.
	ExitLinkFailed ExitCode = 6

	// ExitEnvNotFound indicates the target conda environment does not exist
	// or could not be determined.
	ExitEnvNotFound ExitCode = 7
)

// CLIError is a custom error type that carries an exit code, allowing the
// CLI layer to translate domain errors into process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
