package logging

import (
	"io"
	"log/slog"
)

// NewStructuredLogger creates a slog.Logger that writes structured text logs
// to the given writer at the given minimum level.
func NewStructuredLogger(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// SafeCloseWithLogging closes the given resource and logs any close error
// instead of returning it. Intended for defer sites where the error has
// nowhere useful to go.
func SafeCloseWithLogging(c io.Closer, logger *slog.Logger, resourceName string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource",
			slog.String("resource", resourceName),
			slog.String("error", err.Error()))
	}
}
