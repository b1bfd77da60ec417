package traceid

import "net/http"

// Transport is an http.RoundTripper decorator that propagates the trace
// identifier bound to the request context into the outbound request header,
// stitching correlation across service boundaries.
//
// An explicitly set header is left untouched, and requests without a bound
// identifier pass through unchanged.
type Transport struct {
	// Base performs the actual round trip. Defaults to http.DefaultTransport.
	Base http.RoundTripper
	// Header overrides the outbound header name. Defaults to Header.
	Header string
}

// NewTransport wraps base with trace-ID propagation.
func NewTransport(base http.RoundTripper) *Transport {
	return &Transport{Base: base}
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// modification per the RoundTripper contract.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	header := t.Header
	if header == "" {
		header = Header
	}

	if req.Header.Get(header) == "" {
		if id, ok := Lookup(req.Context()); ok {
			req = req.Clone(req.Context())
			req.Header.Set(header, id.String())
		}
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
