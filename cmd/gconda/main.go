// Package main is the entry point for the gconda CLI.
//
// This binary bootstraps a conda installation inside hosted notebook
// environments (Google Colab, Kaggle), creates isolated Python environments,
// and proxies command execution into them. It delegates all functionality to
// the internal/cli package, which defines cobra commands.
//
// Build-time variables (version, commit, date) are injected via ldflags
// during the release process. During development they default to "dev",
// "none", and "unknown" respectively.
package main

import (
	"github.com/phatvucoder/gconda/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
