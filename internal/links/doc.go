// Package links performs the interpreter switch: it repoints the
// python/python3/pip symlinks next to the current interpreter at a conda
// environment's bin directory, escalating through sudo only when a direct
// filesystem call is denied.
package links
