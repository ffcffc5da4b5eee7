// Package logging builds the diagnostic logger. The TUI owns the terminal,
// so diagnostics go to a file when one is configured and nowhere otherwise.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

var discard = Discard()

// New returns a logger writing JSON lines to path at the given level.
// An empty path yields a discarding logger. The returned close func
// releases the file.
func New(path, level string) (*logrus.Logger, func() error, error) {
	if path == "" {
		return Discard(), func() error { return nil }, nil
	}

	lvl := logrus.InfoLevel
	if level != "" {
		var err error
		if lvl, err = logrus.ParseLevel(level); err != nil {
			return nil, nil, fmt.Errorf("parse log level: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	l := logrus.New()
	l.SetOutput(f)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.JSONFormatter{})
	return l, f.Close, nil
}

// Discard returns a logger that drops every entry.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// NewContext attaches l to ctx.
func NewContext(ctx context.Context, l logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithContext returns the logger stored in ctx, or a discarding one.
func WithContext(ctx context.Context) logrus.FieldLogger {
	if l, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger); ok {
		return l
	}
	return discard
}
