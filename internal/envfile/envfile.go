// Package envfile reads and writes conda environment.yml files.
//
// It backs two operations: `gconda setup --file` (which only validates the
// file before handing it to `conda env create -f`) and `gconda export`
// (which normalizes `conda env export` output before writing it). The
// dependency list is kept loosely typed because conda mixes plain package
// specs with nested maps (the `pip:` sublist) in the same sequence.
package envfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File represents a conda environment.yml document.
type File struct {
	// Name is the environment name used by `conda env create`.
	Name string `yaml:"name,omitempty"`

	// Channels lists the conda channels to resolve against.
	Channels []string `yaml:"channels,omitempty"`

	// Dependencies holds package specs. Entries are either strings
	// ("python=3.10", "numpy") or maps for nested managers
	// (pip: [requests, gdown]).
	Dependencies []interface{} `yaml:"dependencies,omitempty"`

	// Prefix is the absolute environment path conda embeds into exports.
	// It is machine-specific and stripped by Normalize.
	Prefix string `yaml:"prefix,omitempty"`

	// Variables holds environment variables conda sets on activation.
	Variables map[string]string `yaml:"variables,omitempty"`
}

// Parse decodes an environment.yml document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse environment file: %w", err)
	}
	return &f, nil
}

// Load reads and parses an environment.yml file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Normalize prepares an exported document for sharing: the machine-specific
// prefix line is dropped and the environment name is forced to name when
// non-empty.
func (f *File) Normalize(name string) {
	f.Prefix = ""
	if name != "" {
		f.Name = name
	}
}

// Marshal encodes the document as YAML.
func (f *File) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode environment file: %w", err)
	}
	return data, nil
}

// Write encodes the document and writes it to path.
func (f *File) Write(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write environment file %s: %w", path, err)
	}
	return nil
}
