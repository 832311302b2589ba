package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the process logger. The effective level is the global one,
// set once the configuration is loaded.
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()
}
