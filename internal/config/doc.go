// Package config loads the optional gconda.jsonc tool configuration,
// which supplies persistent defaults (python version, environment name,
// installer pin, channels) that individual command flags override.
package config
