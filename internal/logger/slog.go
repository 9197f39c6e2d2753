package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs a text slog handler as the process default and returns it.
// Output goes to w (stderr when nil) so stdout stays free for JSON and MCP stdio.
func Setup(w io.Writer, verbose bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(l)
	return l
}
