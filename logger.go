package glint

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := slog.New(nopHandler{})
	loggerPtr.Store(l)
}

// SetLogger configures the logger used by glint and all of its sub-packages.
// By default glint produces no log output. Pass nil to restore the silent
// default. Safe for concurrent use.
//
// Levels used:
//   - slog.LevelDebug: per-pass diagnostics (binds, draws, batch sizes)
//   - slog.LevelInfo: device lifecycle (adapter selected, device released)
//   - slog.LevelWarn: non-fatal issues (resource release failures)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the currently configured logger. Sub-packages call this on
// every log site so SetLogger takes effect immediately.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
