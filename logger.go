package dunnet

import (
	"io"
	"log/slog"

	"github.com/lambdageek/mcp-server-dunnet/internal/logging"
)

// NopLogger returns a logger that discards all output.
// Use this when you want silent operation with no logging overhead.
func NopLogger() *slog.Logger {
	return logging.Discard()
}

// NewLogger creates a logger writing to w. Level is one of debug, info, warn
// or error; format is text, json or logrus.
func NewLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	return logging.New(w, level, format)
}
