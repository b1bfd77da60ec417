package traceid

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type contextKey struct{}

var (
	// warnLogger overrides the destination of the missing-scope diagnostic.
	// Nil means slog.Default unless warnings are disabled entirely.
	warnLogger   atomic.Pointer[slog.Logger]
	warnDisabled atomic.Bool
)

// WithContext returns a context carrying id as the current trace identifier.
// Nested calls shadow the outer value for the lifetime of the derived
// context; the binding is torn down with the context itself, on every exit
// path, and is never visible to unrelated executions.
func WithContext(ctx context.Context, id ID) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// Lookup returns the identifier bound to ctx, if any. Unlike FromContext it
// never fabricates an identifier, which makes it the right call for logging
// integrations that should stay silent outside a request scope.
func Lookup(ctx context.Context) (ID, bool) {
	if ctx == nil {
		return Nil, false
	}
	id, ok := ctx.Value(contextKey{}).(ID)
	if !ok || id == Nil {
		return Nil, false
	}
	return id, true
}

// FromContext returns the identifier established by the innermost enclosing
// WithContext. Outside any scope it generates a fresh identifier and emits a
// warning instead of failing, so diagnostic code can never crash merely
// because it ran from a background task or during startup.
func FromContext(ctx context.Context) ID {
	if id, ok := Lookup(ctx); ok {
		return id
	}

	id := New()
	if !warnDisabled.Load() {
		log := warnLogger.Load()
		if log == nil {
			log = slog.Default()
		}
		log.LogAttrs(ctx, slog.LevelWarn,
			"trace id requested outside of a bound scope, generated a fallback",
			slog.String("trace_id", id.String()),
		)
	}
	return id
}

// RunWith executes fn with id bound as the current trace identifier for the
// full extent of the call, including everything fn invokes transitively.
// It returns whatever fn returns. Intended for work that does not enter
// through the HTTP middleware: queue consumers, cron jobs, startup tasks.
func RunWith(ctx context.Context, id ID, fn func(context.Context) error) error {
	return fn(WithContext(ctx, id))
}

// SetWarnLogger redirects the missing-scope diagnostic emitted by
// FromContext. Passing nil disables the diagnostic entirely.
func SetWarnLogger(log *slog.Logger) {
	if log == nil {
		warnDisabled.Store(true)
		warnLogger.Store(nil)
		return
	}
	warnDisabled.Store(false)
	warnLogger.Store(log)
}
