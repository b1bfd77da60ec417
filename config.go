package traceid

import "net/http"

// Config allows environment-driven middleware setup.
type Config struct {
	// HeaderName is the header used to read and write the identifier.
	HeaderName string `env:"TRACEID_HEADER" envDefault:"X-Trace-Id"`
	// LogScope opens a per-request span on the configured tracer provider.
	LogScope bool `env:"TRACEID_LOG_SCOPE" envDefault:"true"`
	// ResponseHeader echoes the identifier on every response.
	ResponseHeader bool `env:"TRACEID_RESPONSE_HEADER" envDefault:"true"`
}

// NewFromConfig builds the middleware from the provided Config.
// Additional options take precedence over config values.
func NewFromConfig(cfg Config, opts ...Option) func(http.Handler) http.Handler {
	configOpts := make([]Option, 0, 3+len(opts))
	if cfg.HeaderName != "" {
		configOpts = append(configOpts, WithHeaderName(cfg.HeaderName))
	}
	configOpts = append(configOpts,
		WithLogScope(cfg.LogScope),
		WithResponseHeader(cfg.ResponseHeader),
	)
	configOpts = append(configOpts, opts...)

	return Middleware(configOpts...)
}
