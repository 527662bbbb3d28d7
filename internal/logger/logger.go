package logger

import (
	"io"
	"log/slog"
	"os"
	"unicode/utf8"
)

// Setup installs the default slog logger for the given APP_ENV value.
func Setup(env string) {
	slog.SetDefault(New(env, os.Stdout))
}

// New returns a debug level text logger in development and an info level
// JSON logger everywhere else.
func New(env string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "development" {
		opts.Level = slog.LevelDebug
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Truncate shortens s to at most maxLen bytes on a rune boundary, appending
// "..." when cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
