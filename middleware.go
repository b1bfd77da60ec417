package traceid

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Header is the canonical trace-ID header name. HTTP header names are
// case-insensitive, so clients may send any casing of "x-trace-id".
const Header = "X-Trace-Id"

// tracerName identifies spans opened by the middleware log scope.
const tracerName = "github.com/dmitrymomot/traceid"

type options struct {
	header         string
	generator      func() ID
	logScope       bool
	responseHeader bool
	provider       trace.TracerProvider
}

// Option configures the middleware.
type Option func(*options)

// WithHeaderName overrides the header used to read and write the identifier.
func WithHeaderName(name string) Option {
	if name == "" {
		panic("WithHeaderName: name cannot be empty")
	}
	return func(o *options) { o.header = name }
}

// WithGenerator replaces New as the source of fresh identifiers, e.g. a
// deterministic generator in tests or NewUUID for UUID-keyed systems.
// A generator returning Nil is ignored in favor of New.
func WithGenerator(fn func() ID) Option {
	if fn == nil {
		panic("WithGenerator: nil generator")
	}
	return func(o *options) { o.generator = fn }
}

// WithLogScope toggles opening a per-request span on the configured tracer
// provider. Enabled by default; disable for a lower-overhead mode.
func WithLogScope(enabled bool) Option {
	return func(o *options) { o.logScope = enabled }
}

// WithResponseHeader toggles writing the identifier into the response
// header. Enabled by default.
func WithResponseHeader(enabled bool) Option {
	return func(o *options) { o.responseHeader = enabled }
}

// WithTracerProvider supplies the tracer provider used for the log scope.
// Defaults to the global otel provider, which is a noop until configured.
func WithTracerProvider(tp trace.TracerProvider) Option {
	if tp == nil {
		panic("WithTracerProvider: nil provider")
	}
	return func(o *options) { o.provider = tp }
}

func defaultOptions() *options {
	return &options{
		header:         Header,
		generator:      New,
		logScope:       true,
		responseHeader: true,
	}
}

// Middleware returns HTTP middleware that resolves a trace identifier for
// every inbound request and binds it to the request context.
//
// Resolution never fails the request: a valid inbound header value is
// reused, a missing or invalid one is silently replaced by a freshly
// generated identifier. The identifier is echoed in the response header on
// every response produced through the middleware, regardless of status.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}

	var tracer trace.Tracer
	if cfg.logScope {
		tp := cfg.provider
		if tp == nil {
			tp = otel.GetTracerProvider()
		}
		tracer = tp.Tracer(tracerName)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := resolve(r.Header.Get(cfg.header), cfg.generator)

			// Written to the header map before the handler runs so it is
			// flushed with the response exactly once, whatever status the
			// handler reports.
			if cfg.responseHeader {
				w.Header().Set(cfg.header, id.String())
			}

			ctx := WithContext(r.Context(), id)
			if tracer != nil {
				var span trace.Span
				ctx, span = tracer.Start(ctx, "request", trace.WithAttributes(
					attribute.String("trace_id", id.String()),
					attribute.String("http.method", r.Method),
					attribute.String("http.path", r.URL.Path),
				))
				defer span.End()
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolve implements the silent-replace rule: reuse a valid inbound value,
// otherwise generate. A custom generator yielding Nil falls back to New so
// the resolved identifier is always valid.
func resolve(header string, generate func() ID) ID {
	if header != "" {
		if id, err := Parse(header); err == nil {
			return id
		}
	}
	if id := generate(); id != Nil {
		return id
	}
	return New()
}
