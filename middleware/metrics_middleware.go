package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"udprpc/message"
)

var (
	rpcCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpc_calls_total",
			Help: "Total number of RPC calls handled",
		},
		[]string{"rpc", "status"},
	)
	rpcDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rpc_duration_seconds",
			Help:    "Duration of RPC handler execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"rpc"},
	)
)

func init() {
	prometheus.MustRegister(rpcCallsTotal)
	prometheus.MustRegister(rpcDuration)
}

// MetricsMiddleware records per-RPC call counts and handler durations.
// The metrics are served by the debug server's /metrics endpoint.
func MetricsMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, arg message.ArgVariant) (message.RetVariant, error) {
			start := time.Now()
			ret, err := next(ctx, arg)

			status := "success"
			if err != nil {
				status = "error"
			}
			rpcCallsTotal.WithLabelValues(arg.RPCID(), status).Inc()
			rpcDuration.WithLabelValues(arg.RPCID()).Observe(time.Since(start).Seconds())

			return ret, err
		}
	}
}
