package logging

import (
	"log/slog"
	"os"
)

// Setup installs the JSON stdout logger as the slog default and returns its
// handler so it can be combined with others later.
func Setup() slog.Handler {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	return handler
}
