package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sirupsen/logrus"
)

// logrusHandler adapts logrus to the slog.Handler interface.
type logrusHandler struct {
	logger *logrus.Logger
	attrs  []slog.Attr
	groups []string
}

// NewLogrusHandler creates a slog.Handler that writes to logger.
func NewLogrusHandler(logger *logrus.Logger) slog.Handler {
	return &logrusHandler{logger: logger}
}

func (h *logrusHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.IsLevelEnabled(slogToLogrusLevel(level))
}

func (h *logrusHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make(logrus.Fields, record.NumAttrs()+len(h.attrs))

	// Pre-configured attrs already carry their group prefix.
	for _, attr := range h.attrs {
		fields[attr.Key] = attr.Value.Resolve().Any()
	}

	record.Attrs(func(attr slog.Attr) bool {
		h.addField(fields, attr)

		return true
	})

	entry := h.logger.WithFields(fields)
	if !record.Time.IsZero() {
		entry = entry.WithTime(record.Time)
	}

	entry.Log(slogToLogrusLevel(record.Level), record.Message)

	return nil
}

func (h *logrusHandler) addField(fields logrus.Fields, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	fields[h.key(attr.Key)] = attr.Value.Any()
}

func (h *logrusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	prefixed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		prefixed[i] = slog.Attr{Key: h.key(a.Key), Value: a.Value}
	}

	return &logrusHandler{
		logger: h.logger,
		attrs:  append(append([]slog.Attr(nil), h.attrs...), prefixed...),
		groups: h.groups,
	}
}

func (h *logrusHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &logrusHandler{
		logger: h.logger,
		attrs:  h.attrs,
		groups: append(append([]string(nil), h.groups...), name),
	}
}

// key prefixes k with the open groups.
func (h *logrusHandler) key(k string) string {
	if len(h.groups) == 0 {
		return k
	}

	return strings.Join(h.groups, ".") + "." + k
}

func slogToLogrusLevel(level slog.Level) logrus.Level {
	switch {
	case level >= slog.LevelError:
		return logrus.ErrorLevel
	case level >= slog.LevelWarn:
		return logrus.WarnLevel
	case level >= slog.LevelInfo:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}
