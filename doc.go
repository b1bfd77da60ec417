// Package traceid assigns a correlation identifier to every inbound request
// and makes it implicitly available to all code running underneath that
// request, so log records, spans, and cross-service calls can be stitched
// together when troubleshooting distributed systems.
//
// An identifier is a 128-bit value with a canonical 32-character lowercase
// hexadecimal textual form, matching the trace-id field of the W3C Trace
// Context specification. Generation combines a millisecond timestamp, a
// per-process instance tag, an atomic counter, and a random component, which
// keeps identifiers approximately time-sortable while remaining
// collision-resistant under high concurrency, without the overhead of UUID
// generation.
//
// # Overview
//
// The package offers:
//
//   - The ID value type with generation (New, NewUUID), validated parsing
//     (Parse), and canonical formatting (String).
//
//   - Context binding (WithContext, FromContext, Lookup, RunWith) that makes
//     the identifier of the current logical request visible anywhere in its
//     call tree without threading it through every signature. Concurrent
//     requests never observe each other's identifier; FromContext outside a
//     scope generates a fallback instead of failing.
//
//   - HTTP Middleware that reads the "x-trace-id" request header, validates
//     it, generates a replacement when absent or invalid, binds the result
//     to the request context, optionally opens a span on an externally-owned
//     OpenTelemetry tracer, and echoes the identifier in the response header
//     on every response.
//
//   - Transport, an http.RoundTripper that forwards the bound identifier to
//     downstream services.
//
//   - LoggerExtractor for injecting the identifier into slog records; see
//     the logger subpackage for a ready-made factory, and the interceptor
//     subpackage for gRPC propagation.
//
// # Usage
//
//	import (
//		"net/http"
//
//		"github.com/dmitrymomot/traceid"
//	)
//
//	mux := http.NewServeMux()
//	mux.Handle("/hello", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//		id := traceid.FromContext(r.Context())
//		w.Write([]byte("hello, your trace id is " + id.String()))
//	}))
//
//	http.ListenAndServe(":8080", traceid.Middleware()(mux))
//
// # Validation
//
// Parse accepts exactly 32 lowercase hex characters and rejects everything
// else with ErrInvalidLength, ErrInvalidCharacters, or ErrAllZeros. The
// all-zero value is reserved to mean "absent" and is never generated.
//
// # Error Handling
//
// The middleware does not return errors. Invalid or missing identifiers
// supplied by a client are silently replaced by a freshly generated one;
// correlation is a diagnostic aid and must never fail a request.
//
//go:generate go test -run=Example
package traceid
