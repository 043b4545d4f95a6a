package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pizzeria_rpc_requests_total",
			Help: "Total number of RPC calls",
		},
		[]string{"procedure", "code"},
	)

	rpcDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pizzeria_rpc_request_duration_ms",
			Help:    "Duration of RPC calls in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
		[]string{"procedure"},
	)
)

// MetricsInterceptor counts RPC calls by procedure and result code and
// records their latency.
func MetricsInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			procedure := req.Spec().Procedure
			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			rpcRequests.WithLabelValues(procedure, code).Inc()
			rpcDuration.WithLabelValues(procedure).Observe(float64(time.Since(start).Milliseconds()))

			return resp, err
		}
	}
}
