package prism

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// The engine logs nothing unless the host application opts in: the
// default logger discards every record without formatting it.
var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.New(nopHandler{}))
}

// SetLogger routes engine diagnostics (frame aborts, recovered handler
// panics, clamped misuse) to l. Passing nil restores the discard
// logger. Safe to call from any goroutine.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	defaultLogger.Store(l)
}

// Logger returns the logger engine internals write to.
func Logger() *slog.Logger {
	return defaultLogger.Load()
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }
