// Package logging configures the global zerolog logger for the gconda CLI.
//
// Diagnostics go to stderr so stdout stays reserved for command output
// (including --json responses and proxied child-process output).
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger based on the -v/--verbose count.
// 0 warns only, 1 adds info, 2 adds debug, 3+ enables trace.
func Setup(verbosity int) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}

	log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()

	// Caller information is only useful when debugging gconda itself.
	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", verbosity).Msg("logger initialized")
}

// GetLogger returns a contextualized logger tagged with the given component.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
