// Package logger provides a slog factory whose loggers automatically
// annotate every record with the trace identifier bound to the call's
// context.
//
// # Usage
//
//	log := logger.New(
//		logger.WithService("billing"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//	logger.SetAsDefault(log)
//
// Any log call made with a context that passed through the traceid
// middleware carries a "trace_id" attribute:
//
//	log.InfoContext(r.Context(), "charge created") // ... trace_id=0af76519...
//
// Additional request-scoped attributes can be injected with
// WithContextExtractors; the trace-ID extractor can be dropped with
// WithoutTraceID.
package logger
