package middleware

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/prometheus/client_golang/prometheus"

	"tgclient/envelope"
)

// Metrics counts calls and failures per method and observes call latency.
// Failure counters are labeled with the error kind (text code) so rate-limit
// and timeout failures can be alerted on separately.
func Metrics(reg prometheus.Registerer) Middleware {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tgclient_requests_total",
		Help: "Correlated requests issued, by method.",
	}, []string{"method"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tgclient_request_failures_total",
		Help: "Failed requests, by method and error kind.",
	}, []string{"method", "kind"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tgclient_request_duration_seconds",
		Help:    "Wall-clock time from send to matched response.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	reg.MustRegister(requests, failures, duration)

	return func(next Handler) Handler {
		return func(ctx context.Context, req *envelope.Request) (envelope.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			method := string(req.Method)
			requests.WithLabelValues(method).Inc()
			duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
			if err != nil {
				failures.WithLabelValues(method, errorKind(err)).Inc()
			}
			return resp, err
		}
	}
}

func errorKind(err error) string {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.TextCode != "" {
		return rich.TextCode
	}
	return "unclassified"
}
