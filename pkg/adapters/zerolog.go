// Copyright (c) 2026 ObjSweep Authors
//
// This file is part of go-objsweep.
//
// go-objsweep is licensed under the GNU Affero General Public License v3.0.
// See https://www.gnu.org/licenses/agpl-3.0.html

package adapters

import (
	"context"
	"io"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger on top of rs/zerolog. The CLI uses this
// implementation; the library default remains slog.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger creates a zerolog-backed logger writing to w at the
// given minimum level.
func NewZerologLogger(w io.Writer, level LogLevel) Logger {
	var zl zerolog.Level
	switch level {
	case DebugLevel:
		zl = zerolog.DebugLevel
	case WarnLevel:
		zl = zerolog.WarnLevel
	case ErrorLevel:
		zl = zerolog.ErrorLevel
	default:
		zl = zerolog.InfoLevel
	}
	return &ZerologLogger{
		logger: zerolog.New(w).Level(zl).With().Timestamp().Logger(),
	}
}

// Debug logs a debug-level message.
func (l *ZerologLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.logger.Debug(), msg, fields)
}

// Info logs an info-level message.
func (l *ZerologLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.logger.Info(), msg, fields)
}

// Warn logs a warning-level message.
func (l *ZerologLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.logger.Warn(), msg, fields)
}

// Error logs an error-level message.
func (l *ZerologLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.emit(l.logger.Error(), msg, fields)
}

// WithFields returns a new logger with the given fields attached to every entry.
func (l *ZerologLogger) WithFields(fields ...Field) Logger {
	ctx := l.logger.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &ZerologLogger{logger: ctx.Logger()}
}

func (l *ZerologLogger) emit(event *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		event = event.Interface(f.Key, f.Value)
	}
	event.Msg(msg)
}
