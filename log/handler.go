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

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const termTimeFormat = "01-02|15:04:05.000"

var levelColors = map[slog.Level]int{
	LevelTrace: 35, // magenta
	LevelDebug: 36, // cyan
	LevelInfo:  32, // green
	LevelWarn:  33, // yellow
	LevelError: 31, // red
	LevelCrit:  31, // red
}

// TerminalHandler formats records as a single human-readable line:
//
//	LVL [01-02|15:04:05.000] message                key=value key=value
//
// optionally colorized when attached to a terminal.
type TerminalHandler struct {
	mu       sync.Mutex
	out      io.Writer
	level    slog.Leveler
	useColor bool
	attrs    []slog.Attr
}

// NewTerminalHandler returns a TerminalHandler with its level fixed at
// LevelTrace (i.e. unfiltered; the caller's logger decides what to emit).
func NewTerminalHandler(out io.Writer, useColor bool) *TerminalHandler {
	var lvl slog.LevelVar
	lvl.Set(LevelTrace)
	return NewTerminalHandlerWithLevel(out, &lvl, useColor)
}

// NewTerminalHandlerWithLevel returns a TerminalHandler filtering at level.
func NewTerminalHandlerWithLevel(out io.Writer, level slog.Leveler, useColor bool) *TerminalHandler {
	return &TerminalHandler{out: out, level: level, useColor: useColor}
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	lvl := levelNames[r.Level]
	if lvl == "" {
		lvl = r.Level.String()
	}
	if h.useColor {
		fmt.Fprintf(&b, "\x1b[%dm%s\x1b[0m", levelColors[r.Level], lvl)
	} else {
		b.WriteString(lvl)
	}

	b.WriteByte(' ')
	b.WriteByte('[')
	b.WriteString(r.Time.Format(termTimeFormat))
	b.WriteByte(']')
	b.WriteByte(' ')
	b.WriteString(r.Message)

	// pad the message column similarly to go-ethereum's layout, then
	// append the key/value pairs.
	if pad := 40 - b.Len(); pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}

	attrs := append([]slog.Attr{}, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(formatValue(a.Value))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		out:      h.out,
		level:    h.level,
		useColor: h.useColor,
		attrs:    append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *TerminalHandler) WithGroup(_ string) slog.Handler {
	// Groups are not meaningful in a flat terminal line; ignore.
	return h
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	s := fmt.Sprintf("%v", v.Any())
	if strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

// JSONHandler returns a slog.Handler writing one JSON object per record at
// any level (LevelTrace and up).
func JSONHandler(out io.Writer) slog.Handler {
	var lvl slog.LevelVar
	lvl.Set(LevelTrace)
	return JSONHandlerWithLevel(out, &lvl)
}

// JSONHandlerWithLevel returns a slog.Handler writing JSON records at or
// above level.
func JSONHandlerWithLevel(out io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevelAttr,
	})
}

// LogfmtHandler returns a slog.Handler writing logfmt-style key=value
// records, unfiltered.
func LogfmtHandler(out io.Writer) slog.Handler {
	var lvl slog.LevelVar
	lvl.Set(LevelTrace)
	return slog.NewTextHandler(out, &slog.HandlerOptions{
		Level:       &lvl,
		ReplaceAttr: replaceLevelAttr,
	})
}

func replaceLevelAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok {
			if name, ok := levelNames[lvl]; ok {
				a.Value = slog.StringValue(name)
			}
		}
	}
	return a
}
