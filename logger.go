package grove

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used for grove diagnostics.
// By default grove produces no log output. Pass nil to restore that.
//
// Log levels used by grove:
//   - [slog.LevelDebug]: per-frame stats and numeric oddities
//   - [slog.LevelInfo]: recovered conditions (singular transforms)
//   - [slog.LevelWarn]: suspicious tree shapes (very deep, very wide)
//   - [slog.LevelError]: failed passes (invalid context, shader failures)
//
// Every record carries an "origin" attribute naming the operation.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// report is the diagnostics sink for the traversal. It never blocks on the
// caller beyond the handler itself and never fails.
func report(level slog.Level, origin, msg string, args ...any) {
	l := Logger()
	ctx := context.Background()
	if !l.Enabled(ctx, level) {
		return
	}
	l.Log(ctx, level, msg, append([]any{"origin", origin}, args...)...)
}
