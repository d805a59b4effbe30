// Package logging configures the global zerolog logger used across the server.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets the global level and output. DEV gets a human readable console
// writer; every other environment logs JSON lines to stdout.
func Init(appName, env, level string) zerolog.Logger {
	return InitWithWriter(os.Stdout, appName, env, level)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(w io.Writer, appName, env, level string) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if strings.EqualFold(env, "DEV") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	logger := zerolog.New(out).With().Timestamp().Str("app", appName).Logger()
	log.Logger = logger
	return logger
}

// ParseLevel maps a LOG_LEVEL value onto a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
