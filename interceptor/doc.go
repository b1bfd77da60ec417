// Package interceptor propagates trace identifiers across gRPC calls.
//
// Server interceptors resolve the identifier from incoming "x-trace-id"
// metadata, bind it to the handler context, and echo it in the response
// header metadata. Client interceptors forward the identifier bound to the
// calling context so downstream services join the same correlation scope.
//
//	srv := grpc.NewServer(
//		grpc.UnaryInterceptor(interceptor.UnaryServer()),
//		grpc.StreamInterceptor(interceptor.StreamServer()),
//	)
//
//	conn, err := grpc.NewClient(addr,
//		grpc.WithUnaryInterceptor(interceptor.UnaryClient()),
//		grpc.WithStreamInterceptor(interceptor.StreamClient()),
//	)
package interceptor
