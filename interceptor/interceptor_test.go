package interceptor_test

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/dmitrymomot/traceid"
	"github.com/dmitrymomot/traceid/interceptor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransportStream captures header metadata set by the interceptor.
type fakeTransportStream struct {
	header metadata.MD
}

func (s *fakeTransportStream) Method() string { return "/test.Service/Call" }

func (s *fakeTransportStream) SetHeader(md metadata.MD) error {
	s.header = metadata.Join(s.header, md)
	return nil
}

func (s *fakeTransportStream) SendHeader(md metadata.MD) error { return s.SetHeader(md) }
func (s *fakeTransportStream) SetTrailer(md metadata.MD) error { return nil }

func serverContext(md metadata.MD) (context.Context, *fakeTransportStream) {
	ts := &fakeTransportStream{}
	ctx := grpc.NewContextWithServerTransportStream(context.Background(), ts)
	if md != nil {
		ctx = metadata.NewIncomingContext(ctx, md)
	}
	return ctx, ts
}

func TestUnaryServer(t *testing.T) {
	t.Parallel()

	t.Run("reuses valid identifier from metadata", func(t *testing.T) {
		t.Parallel()
		const valid = "0af7651916cd43dd8448eb211c80319c"
		ctx, ts := serverContext(metadata.Pairs(interceptor.MetadataKey, valid))

		handler := func(ctx context.Context, req any) (any, error) {
			assert.Equal(t, valid, traceid.FromContext(ctx).String())
			return "ok", nil
		}

		resp, err := interceptor.UnaryServer()(ctx, nil, &grpc.UnaryServerInfo{}, handler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		assert.Equal(t, []string{valid}, ts.header.Get(interceptor.MetadataKey))
	})

	t.Run("generates identifier when metadata is absent or invalid", func(t *testing.T) {
		t.Parallel()
		for name, md := range map[string]metadata.MD{
			"absent":  nil,
			"invalid": metadata.Pairs(interceptor.MetadataKey, "not-a-valid-id"),
		} {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				ctx, ts := serverContext(md)

				var seen traceid.ID
				handler := func(ctx context.Context, req any) (any, error) {
					seen = traceid.FromContext(ctx)
					return nil, nil
				}

				_, err := interceptor.UnaryServer()(ctx, nil, &grpc.UnaryServerInfo{}, handler)
				require.NoError(t, err)
				assert.False(t, seen.IsZero())
				assert.Equal(t, []string{seen.String()}, ts.header.Get(interceptor.MetadataKey))
			})
		}
	})

	t.Run("custom generator and metadata key", func(t *testing.T) {
		t.Parallel()
		fixed := traceid.Must(traceid.Parse("4bf92f3577b34da6a3ce929d0e0e4736"))
		ctx, ts := serverContext(nil)

		handler := func(ctx context.Context, req any) (any, error) {
			assert.Equal(t, fixed, traceid.FromContext(ctx))
			return nil, nil
		}

		_, err := interceptor.UnaryServer(
			interceptor.WithMetadataKey("x-correlation-id"),
			interceptor.WithGenerator(func() traceid.ID { return fixed }),
		)(ctx, nil, &grpc.UnaryServerInfo{}, handler)
		require.NoError(t, err)
		assert.Equal(t, []string{fixed.String()}, ts.header.Get("x-correlation-id"))
	})
}

// fakeServerStream exposes a fixed context to the stream handler.
type fakeServerStream struct {
	grpc.ServerStream
	ctx    context.Context
	header metadata.MD
}

func (s *fakeServerStream) Context() context.Context { return s.ctx }
func (s *fakeServerStream) SetHeader(md metadata.MD) error {
	s.header = metadata.Join(s.header, md)
	return nil
}

func TestStreamServer(t *testing.T) {
	t.Parallel()

	const valid = "0af7651916cd43dd8448eb211c80319c"
	ss := &fakeServerStream{
		ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs(interceptor.MetadataKey, valid)),
	}

	handler := func(srv any, stream grpc.ServerStream) error {
		assert.Equal(t, valid, traceid.FromContext(stream.Context()).String())
		return nil
	}

	err := interceptor.StreamServer()(nil, ss, &grpc.StreamServerInfo{}, handler)
	require.NoError(t, err)
	assert.Equal(t, []string{valid}, ss.header.Get(interceptor.MetadataKey))
}

func TestUnaryClient(t *testing.T) {
	t.Parallel()

	capture := func(got *metadata.MD) grpc.UnaryInvoker {
		return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
			md, _ := metadata.FromOutgoingContext(ctx)
			*got = md
			return nil
		}
	}

	t.Run("forwards the bound identifier", func(t *testing.T) {
		t.Parallel()
		id := traceid.New()
		ctx := traceid.WithContext(context.Background(), id)

		var got metadata.MD
		err := interceptor.UnaryClient()(ctx, "/test.Service/Call", nil, nil, nil, capture(&got))
		require.NoError(t, err)
		assert.Equal(t, []string{id.String()}, got.Get(interceptor.MetadataKey))
	})

	t.Run("generates a fallback for unbound contexts", func(t *testing.T) {
		t.Parallel()
		var got metadata.MD
		err := interceptor.UnaryClient()(context.Background(), "/test.Service/Call", nil, nil, nil, capture(&got))
		require.NoError(t, err)

		values := got.Get(interceptor.MetadataKey)
		require.Len(t, values, 1)
		_, parseErr := traceid.Parse(values[0])
		assert.NoError(t, parseErr)
	})

	t.Run("does not duplicate an existing metadata value", func(t *testing.T) {
		t.Parallel()
		const explicit = "4bf92f3577b34da6a3ce929d0e0e4736"
		ctx := metadata.AppendToOutgoingContext(
			traceid.WithContext(context.Background(), traceid.New()),
			interceptor.MetadataKey, explicit,
		)

		var got metadata.MD
		err := interceptor.UnaryClient()(ctx, "/test.Service/Call", nil, nil, nil, capture(&got))
		require.NoError(t, err)
		assert.Equal(t, []string{explicit}, got.Get(interceptor.MetadataKey))
	})
}

func TestStreamClient(t *testing.T) {
	t.Parallel()

	id := traceid.New()
	ctx := traceid.WithContext(context.Background(), id)

	var got metadata.MD
	streamer := func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		md, _ := metadata.FromOutgoingContext(ctx)
		got = md
		return nil, nil
	}

	_, err := interceptor.StreamClient()(ctx, &grpc.StreamDesc{}, nil, "/test.Service/Stream", streamer)
	require.NoError(t, err)
	assert.Equal(t, []string{id.String()}, got.Get(interceptor.MetadataKey))
}
