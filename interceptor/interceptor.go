package interceptor

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/dmitrymomot/traceid"
)

// MetadataKey is the metadata key carrying the trace identifier.
// gRPC metadata keys are lowercased on the wire.
const MetadataKey = "x-trace-id"

type options struct {
	key       string
	generator func() traceid.ID
}

// Option configures the interceptors.
type Option func(*options)

// WithMetadataKey overrides the metadata key used to read and write the
// identifier.
func WithMetadataKey(key string) Option {
	if key == "" {
		panic("WithMetadataKey: key cannot be empty")
	}
	return func(o *options) { o.key = key }
}

// WithGenerator replaces traceid.New as the source of fresh identifiers.
func WithGenerator(fn func() traceid.ID) Option {
	if fn == nil {
		panic("WithGenerator: nil generator")
	}
	return func(o *options) { o.generator = fn }
}

func newOptions(opts []Option) *options {
	cfg := &options{key: MetadataKey, generator: traceid.New}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// UnaryServer returns a server interceptor that resolves a trace identifier
// from incoming metadata (generating one when absent or invalid), binds it
// to the handler context, and echoes it in the response header metadata.
// Resolution never fails the call.
func UnaryServer(opts ...Option) grpc.UnaryServerInterceptor {
	cfg := newOptions(opts)
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := resolve(ctx, cfg)
		// Best effort: SetHeader fails only when headers were already sent.
		_ = grpc.SetHeader(ctx, metadata.Pairs(cfg.key, id.String()))
		return handler(traceid.WithContext(ctx, id), req)
	}
}

// StreamServer returns the streaming counterpart of UnaryServer.
func StreamServer(opts ...Option) grpc.StreamServerInterceptor {
	cfg := newOptions(opts)
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		id := resolve(ss.Context(), cfg)
		_ = ss.SetHeader(metadata.Pairs(cfg.key, id.String()))
		return handler(srv, &boundStream{ServerStream: ss, ctx: traceid.WithContext(ss.Context(), id)})
	}
}

// UnaryClient returns a client interceptor that forwards the trace
// identifier bound to the calling context in outgoing metadata. An
// identifier already present in the metadata is left untouched; an unbound
// context gets a fallback identifier via traceid.FromContext.
func UnaryClient(opts ...Option) grpc.UnaryClientInterceptor {
	cfg := newOptions(opts)
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, callOpts ...grpc.CallOption) error {
		return invoker(outgoing(ctx, cfg), method, req, reply, cc, callOpts...)
	}
}

// StreamClient returns the streaming counterpart of UnaryClient.
func StreamClient(opts ...Option) grpc.StreamClientInterceptor {
	cfg := newOptions(opts)
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, callOpts ...grpc.CallOption) (grpc.ClientStream, error) {
		return streamer(outgoing(ctx, cfg), desc, cc, method, callOpts...)
	}
}

// resolve reuses a valid identifier from incoming metadata and silently
// replaces anything else with a freshly generated one.
func resolve(ctx context.Context, cfg *options) traceid.ID {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(cfg.key); len(values) > 0 {
			if id, err := traceid.Parse(values[0]); err == nil {
				return id
			}
		}
	}
	if id := cfg.generator(); id != traceid.Nil {
		return id
	}
	return traceid.New()
}

func outgoing(ctx context.Context, cfg *options) context.Context {
	if md, ok := metadata.FromOutgoingContext(ctx); ok && len(md.Get(cfg.key)) > 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, cfg.key, traceid.FromContext(ctx).String())
}

// boundStream overrides Context so the handler observes the bound identifier.
type boundStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *boundStream) Context() context.Context {
	return s.ctx
}
