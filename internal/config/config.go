// Package config loads the optional gconda.jsonc tool configuration.
//
// The configuration file uses JSONC (JSON with Comments) so notebook users
// can annotate their pinned installer URLs and package lists. Comments and
// trailing commas are stripped with github.com/tidwall/jsonc before parsing
// with the standard encoding/json library.
//
// Configuration is entirely optional: when no file is found the built-in
// defaults apply, and individual command flags always win over file values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// FileName is the configuration file name searched for in the working
// directory and under the user config directory.
const FileName = "gconda.jsonc"

// Config holds the tool defaults a gconda.jsonc file can override.
type Config struct {
	// PythonVersion is the default python version for `gconda setup`.
	PythonVersion string `json:"pythonVersion"`

	// EnvName is the default environment name for `gconda setup`.
	EnvName string `json:"envName"`

	// InstallPrefix overrides the platform-derived conda install prefix.
	InstallPrefix string `json:"installPrefix,omitempty"`

	// InstallerURL overrides the default Miniforge installer script URL.
	InstallerURL string `json:"installerUrl,omitempty"`

	// InstallerSHA256 pins the installer script checksum. When set, a
	// downloaded script that does not match is refused before execution.
	InstallerSHA256 string `json:"installerSha256,omitempty"`

	// Channels lists additional conda channels passed to environment
	// creation via -c.
	Channels []string `json:"channels,omitempty"`

	// ExtraPackages lists packages installed into every environment
	// created by `gconda setup` alongside python and ipython.
	ExtraPackages []string `json:"extraPackages,omitempty"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		PythonVersion: "3.10",
		EnvName:       "gconda",
	}
}

// Load reads and parses a gconda.jsonc file, overlaying its values on the
// built-in defaults. Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Find searches the standard locations for a gconda.jsonc file:
//
//  1. ./gconda.jsonc (working directory)
//  2. $XDG_CONFIG_HOME/gconda/gconda.jsonc (or ~/.config/gconda/gconda.jsonc)
//
// Returns the first existing path, or false when no file is present.
func Find() (string, bool) {
	candidates := []string{FileName}

	if configHome := userConfigHome(); configHome != "" {
		candidates = append(candidates, filepath.Join(configHome, "gconda", FileName))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// LoadDefault returns the configuration from the first discovered file,
// or the built-in defaults when no file exists. A file that exists but
// fails to parse is an error — silently falling back would mask typos.
func LoadDefault() (*Config, error) {
	path, ok := Find()
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// userConfigHome resolves XDG_CONFIG_HOME with the ~/.config fallback.
func userConfigHome() string {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}
