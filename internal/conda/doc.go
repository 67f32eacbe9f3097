// Package conda wraps the conda CLI for environment management.
//
// Every operation is a thin subprocess invocation: presence and version
// checks, base directory discovery, environment create/remove/list/export.
// Parsing is limited to conda's --json output; no environment semantics
// are reimplemented here.
package conda
