// Package logging builds the diagnostic logger used for request tracing.
// User facing messages go through internal/ui instead.
package logging

import (
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    color.NoColor,
		TimeFormat: time.Kitchen,
	}

	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// ParseLevel converts a level name to a zerolog level, falling back to warn.
func ParseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return zerolog.WarnLevel
	}
	return level
}
