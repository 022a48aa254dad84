// Copyright (c) 2026, the gng-project contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

// NewStructuredLogger builds a slog.Logger tagged with module/version
// context, formatted per GNG_LOG_FORMAT and leveled per level (falling back
// to GNG_LOG, then info). When the process is supervised by systemd
// ($JOURNAL_STREAM set), records are mirrored to the journal alongside
// whatever format was selected for stderr.
func NewStructuredLogger(module, version, level string) *slog.Logger {
	if level == "" {
		level = os.Getenv("GNG_LOG")
	}
	handler := newHandler(os.Stderr, parseLevel(level), logFormat())
	if journal.Enabled() {
		handler = &journalHandler{next: handler}
	}
	return slog.New(handler).With("module", module, "version", version)
}

// SetDefaultStructuredLogger installs NewStructuredLogger(module, version,
// os.Getenv("GNG_LOG")) as the slog default.
func SetDefaultStructuredLogger(module, version string) {
	SetDefaultStructuredLoggerWithLevel(module, version, os.Getenv("GNG_LOG"))
}

// SetDefaultStructuredLoggerWithLevel installs NewStructuredLogger(module,
// version, level) as the slog default.
func SetDefaultStructuredLoggerWithLevel(module, version, level string) {
	slog.SetDefault(NewStructuredLogger(module, version, level))
}

// NewLogLogger adapts a slog handler at the given level (formatted per
// GNG_LOG_FORMAT) into a standard library *log.Logger, for the few
// dependencies (e.g. net/http) that still want one.
func NewLogLogger(level slog.Level, addSource bool) *log.Logger {
	opts := &slog.HandlerOptions{Level: level, AddSource: addSource}
	return slog.NewLogLogger(handlerForFormat(os.Stderr, opts, logFormat()), level)
}

func logFormat() string {
	return strings.ToLower(strings.TrimSpace(os.Getenv("GNG_LOG_FORMAT")))
}

// parseLevel maps GNG_LOG's level names onto slog.Level, defaulting to Info
// for an empty or unrecognized value.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(w *os.File, level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, AddSource: level <= slog.LevelDebug}
	return handlerForFormat(w, opts, format)
}

// handlerForFormat implements GNG_LOG_FORMAT ∈ {pretty,full,compact,json}
// (spec §6): json is the default machine-readable sink; pretty is slog's
// text handler with source locations always on; full is the same handler
// with source locations only at debug level; compact drops the timestamp
// for terminals that already show one.
func handlerForFormat(w *os.File, opts *slog.HandlerOptions, format string) slog.Handler {
	switch format {
	case "pretty":
		o := *opts
		o.AddSource = true
		return slog.NewTextHandler(w, &o)
	case "full":
		return slog.NewTextHandler(w, opts)
	case "compact":
		o := *opts
		o.ReplaceAttr = dropTime
		return slog.NewTextHandler(w, &o)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

// journalHandler mirrors every record into the systemd journal, in addition
// to delegating to the format-selected handler backing stderr.
type journalHandler struct {
	next slog.Handler
}

func (h *journalHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *journalHandler) Handle(ctx context.Context, r slog.Record) error {
	vars := make(map[string]string, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		vars[strings.ToUpper(a.Key)] = a.Value.String()
		return true
	})
	_ = journal.Send(r.Message, journalPriority(r.Level), vars)
	return h.next.Handle(ctx, r)
}

func (h *journalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &journalHandler{next: h.next.WithAttrs(attrs)}
}

func (h *journalHandler) WithGroup(name string) slog.Handler {
	return &journalHandler{next: h.next.WithGroup(name)}
}

func journalPriority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}
