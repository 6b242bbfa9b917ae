// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package log provides a leveled, structured logger built on top of
// log/slog, in the style the rest of the codebase expects: a package-scoped
// logger obtained via WithContext, a colorized terminal handler for
// interactive use and a JSON handler for everything else.
package log

import (
	"context"
	"log/slog"
	"os"
)

// Levels, extending the standard slog levels with Trace (below Debug) and
// Crit (above Error) the way go-ethereum's logger does.
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = slog.Level(12)
)

// levelNames maps our extended levels to their short display form.
var levelNames = map[slog.Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelCrit:  "CRIT",
}

// Logger writes structured, leveled log records.
type Logger interface {
	// With returns a new Logger that includes the given key/value pairs
	// in every subsequent record.
	With(ctx ...any) Logger

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)

	// Crit logs at LevelCrit and then terminates the process, matching
	// go-ethereum's convention that a Crit log is always fatal.
	Crit(msg string, ctx ...any)

	Log(level slog.Level, msg string, ctx ...any)

	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger wraps a slog.Handler as a Logger.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{inner: l.inner.With(ctx...)}
}

func (l *logger) Log(level slog.Level, msg string, ctx ...any) {
	l.inner.Log(context.Background(), level, msg, ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.Log(LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.Log(LevelDebug, msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.Log(LevelInfo, msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.Log(LevelWarn, msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.Log(LevelError, msg, ctx...) }

func (l *logger) Crit(msg string, ctx ...any) {
	l.Log(LevelCrit, msg, ctx...)
	os.Exit(1)
}

func (l *logger) Handler() slog.Handler {
	return l.inner.Handler()
}

var defaultLogger = NewLogger(NewTerminalHandler(os.Stderr, false))

// SetDefault replaces the package-level default logger.
func SetDefault(l Logger) { defaultLogger = l }

// Root returns the package-level default logger.
func Root() Logger { return defaultLogger }

// WithContext returns a logger derived from Root with the given key/value
// pairs attached to every subsequent record. This is the convention used
// throughout the codebase to obtain a package-scoped logger, e.g.
//
//	var logger = log.WithContext("pkg", "http-utils")
func WithContext(ctx ...any) Logger { return Root().With(ctx...) }

func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { Root().Crit(msg, ctx...) }
