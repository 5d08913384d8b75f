// Package logging bootstraps the structured zerolog logger used
// throughout the core, adapted from the teacher's monitoring.NewLogger:
// same level/format handling, stripped of the Loki-specific "service"
// field and the WebSocket-specific panic-recovery helpers that belong to
// a transport this repository does not implement.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the logger's minimum level and output format.
type Config struct {
	Level  string // one of: debug, info, warn, error, fatal
	Pretty bool   // console-writer output instead of JSON
}

// New builds a zerolog.Logger with a timestamp and caller field, at the
// requested level and format. An unrecognized Level falls back to info.
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	return zerolog.New(output).With().Timestamp().Caller().Str("component", "pjs").Logger()
}
