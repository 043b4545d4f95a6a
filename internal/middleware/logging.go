package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, operator ID, duration, and any error codes/messages.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			operatorID := GetOperatorID(ctx) // empty unless an auth interceptor ran first

			resp, err := next(ctx, req)

			duration := time.Since(start).Milliseconds()
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal && connectErr.Code() != connect.CodeUnknown {
					logger.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"operator_id", operatorID,
						"duration_ms", duration,
					)
				} else {
					logger.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"operator_id", operatorID,
						"duration_ms", duration,
					)
				}
			} else {
				logger.Info("RPC ok",
					"procedure", procedure,
					"operator_id", operatorID,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}
