// Package installer downloads and executes the conda distribution
// installer script (Miniforge by default).
//
// The script is an external collaborator: this package fetches it over
// HTTPS, optionally verifies a pinned SHA-256, runs it in batch mode
// against a prefix, and sanity-checks the resulting conda binary. All
// filesystem mutation under the prefix is owned by the script itself.
package installer
