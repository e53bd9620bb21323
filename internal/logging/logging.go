// Package logging builds the *slog.Logger shared by the whole server.
//
// Text output goes through charmbracelet/log, which implements slog.Handler,
// so the rest of the code only ever sees the standard slog API.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w. An unknown level falls back to info and
// an unknown format falls back to text; both cases are logged as warnings.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl, levelOK := parseLevel(level)

	var logger *slog.Logger
	formatOK := true
	switch strings.ToLower(format) {
	case FormatJSON:
		logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	case FormatText, "":
		logger = slog.New(newCharmHandler(w, lvl))
	default:
		formatOK = false
		logger = slog.New(newCharmHandler(w, lvl))
	}

	if !levelOK {
		logger.Warn("unknown log level, using info", "level", level)
	}
	if !formatOK {
		logger.Warn("unknown log format, using text", "format", format)
	}
	return logger
}

func newCharmHandler(w io.Writer, lvl slog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(lvl),
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Fatal logs at error level and returns an error with the same message, for
// command entry points that bubble errors up to cobra.
func Fatal(logger *slog.Logger, msg string, err error) error {
	logger.Error(msg, "error", err)
	return fmt.Errorf("%s: %w", msg, err)
}
