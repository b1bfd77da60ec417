package traceid

import (
	"context"
	"log/slog"
)

// LoggerExtractor returns a context extractor for slog handler decorators.
// It uses Lookup rather than FromContext so log records emitted outside a
// request scope simply omit the attribute instead of fabricating an ID.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := Lookup(ctx); ok {
			return slog.String("trace_id", id.String()), true
		}
		return slog.Attr{}, false
	}
}
