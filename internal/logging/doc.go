// Package logging provides structured logging for collegeroi.
//
// # Overview
//
// Logging wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Automatic context field injection (trace_id, span_id, request.id, transport)
//   - Level-aware sampling (errors never sampled)
//   - Selectable output stream, so the MCP stdio transport can keep stdout clean
//   - Optional OTEL export via the otelzap bridge, teed with the stream output
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, tel.LoggerProvider())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, "req-42")
//	logger.Info(ctx, "explanation served", zap.Int("horizon", 6))
//
// Services take the underlying *zap.Logger (see Logger.Underlying) and call
// ContextFields when they have a request context in hand.
//
// # Testing
//
//	tl := logging.NewTestLogger()
//	tl.Info(ctx, "artifact loaded", zap.Int("horizon", 10))
//	tl.AssertLogged(t, zapcore.InfoLevel, "artifact loaded")
//	tl.AssertField(t, "artifact loaded", "horizon", int64(10))
package logging
