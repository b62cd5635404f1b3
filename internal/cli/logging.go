package cli

import (
	"io"
	"log/slog"
)

// SetupLogging installs a text handler on w as the default slog logger
func SetupLogging(w io.Writer, verbose, quiet bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
