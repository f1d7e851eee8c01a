package observability

import (
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog logger, debug level in dev. The handler
// is wrapped so records carry trace/span ids when a span is active.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewTraceHandler(handler))
}
