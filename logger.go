package lilac

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record and reports every level as disabled, so
// attribute formatting is skipped at call sites.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var (
	silent    = slog.New(discard{})
	pkgLogger atomic.Pointer[slog.Logger]
)

func init() {
	pkgLogger.Store(silent)
}

// SetLogger installs l as the logger for engines created afterwards
// without WithLogger. A nil l turns logging off again, which is also the
// initial state.
//
// Engines log compilation and preparation at Debug, the finished render
// with its size and duration at Info, and scripts with a newer minor
// version at Warn:
//
//	lilac.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	pkgLogger.Store(l)
}

// Logger returns the logger installed by SetLogger. It may be called from
// any goroutine.
func Logger() *slog.Logger {
	return pkgLogger.Load()
}
