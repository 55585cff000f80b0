// Package logging configures the structured logger shared by every
// component. Grounded on 99ridho-siakad-poc/cmd/main.go, which wires
// zerolog.ErrorStackMarshaler and logs through the global zerolog.Logger.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339
}

// New builds a logger writing to stderr, human-readable in dev mode and
// newline-delimited JSON otherwise.
func New(pretty bool, level zerolog.Level) zerolog.Logger {
	var w = os.Stderr
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if pretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
	}
	return logger
}

// ParseLevel maps a config string to a zerolog.Level, defaulting to Info on
// an unrecognized value.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
