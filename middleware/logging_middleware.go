package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tgclient/envelope"
)

// Logging logs every call with its method, correlation identifier, and
// duration. Failures log at Warn with the classified error attached.
func Logging(logger *zap.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *envelope.Request) (envelope.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			fields := []zap.Field{
				zap.String("method", string(req.Method)),
				zap.String("request_id", req.RequestID),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Warn("call failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("call completed", fields...)
			}
			return resp, err
		}
	}
}
