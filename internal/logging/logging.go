package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup initialises the global zerolog logger.
// level may be "debug", "info", "warn" or "error" (default "info").
// format may be "console" or "json" (default "console").
func Setup(level, format string) {
	SetupWriter(os.Stderr, level, format)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(w io.Writer, level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if strings.ToLower(format) != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// Module returns a sub-logger tagged with module=name.
func Module(name string) zerolog.Logger {
	return log.With().Str("module", name).Logger()
}
