// Package envfile reads, normalizes and writes conda environment.yml
// documents for the setup --file and export operations.
package envfile
