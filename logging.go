package fluuyo

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the default console logger. Production logs at info
// without color; everything else at debug.
func NewLogger(environment string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    environment == "production",
	}

	level := zerolog.DebugLevel
	if environment == "production" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(output).With().
		Timestamp().
		Str("env", environment).
		Logger().Level(level)
}
