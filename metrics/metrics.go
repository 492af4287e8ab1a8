// Package metrics holds the Prometheus collectors shared by the storage
// backends and the HTTP layer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bucketindex_upstream_requests_total",
			Help: "Requests sent to the storage provider, by operation and outcome",
		},
		[]string{"op", "result"},
	)
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bucketindex_upstream_duration_seconds",
			Help:    "Time until the storage provider answered",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	ProxiedBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bucketindex_proxied_bytes_total",
			Help: "Object bytes streamed through the proxy route",
		},
	)
	Responses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bucketindex_http_responses_total",
			Help: "Responses served, by route and status code",
		},
		[]string{"route", "code"},
	)
)

func init() {
	prometheus.MustRegister(UpstreamRequests, UpstreamDuration, ProxiedBytes, Responses)
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// Result labels an upstream outcome
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
