// Package log provides the zap based loggers used by the drain and replay processes.
package log

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// NewDefault returns an instance of default error handler, logging to stderr in json.
func NewDefault() *Default {
	l, err := New(LevelInfo, FormatJSON)
	if err != nil {
		l = zap.NewNop()
	}

	return NewErrorHandler(l)
}

// NewErrorHandler returns an error handler that logs through the given logger.
func NewErrorHandler(l *zap.Logger) *Default {
	return &Default{l: l}
}

// Default is the default implementation of the error handler.
type Default struct {
	l *zap.Logger
}

type fielder interface {
	LogFields() []zap.Field
}

// Error logs the given error at error level with the fields it carries.
func (d *Default) Error(_ context.Context, err error) {
	fields := []zap.Field{zap.Error(err)}
	var f fielder
	if errors.As(err, &f) {
		fields = append(fields, f.LogFields()...)
	}

	d.l.Error("processing message", fields...)
}
