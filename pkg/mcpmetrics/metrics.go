// Package mcpmetrics instruments a peer with Prometheus counters/gauges,
// grounded in how jinterlante1206-AleutianLocal wires
// github.com/prometheus/client_golang behind gin. Mounting is left to the
// caller (pkg/transport/sse.ServerTransport.Handler() and cmd/gomcp both
// expose a gin/http handler that can register the /metrics route).
package mcpmetrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every metric this module exposes so a caller wires one
// value into both the peer and an HTTP /metrics handler.
type Registry struct {
	RequestsDispatched      *prometheus.CounterVec
	NotificationsDispatched *prometheus.CounterVec
	ResponsesSent           *prometheus.CounterVec
	PendingDepth            prometheus.Gauge
	BatchSize               prometheus.Histogram
	Errors                  *prometheus.CounterVec
}

// NewRegistry constructs and registers a Registry against reg. Pass
// prometheus.NewRegistry() for an isolated registry (tests, multiple
// peers in one process) or prometheus.DefaultRegisterer for the global one.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		RequestsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gomcp",
			Name:      "requests_dispatched_total",
			Help:      "Inbound requests dispatched to a registered handler, by method.",
		}, []string{"method"}),
		NotificationsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gomcp",
			Name:      "notifications_dispatched_total",
			Help:      "Inbound notifications dispatched to registered handlers, by name.",
		}, []string{"name"}),
		ResponsesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gomcp",
			Name:      "responses_sent_total",
			Help:      "Outbound responses written, by outcome (ok/error).",
		}, []string{"outcome"}),
		// PendingDepth is registered here, but nothing in pkg/mcp sets it;
		// it stays at 0 unless the embedding program updates it.
		PendingDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gomcp",
			Name:      "pending_requests",
			Help:      "Current depth of the pending-request table.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gomcp",
			Name:      "batch_size",
			Help:      "Size of outbound batches at Send time.",
			Buckets:   prometheus.LinearBuckets(1, 2, 8),
		}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gomcp",
			Name:      "errors_total",
			Help:      "Errors surfaced to the peer logger, by JSON-RPC error kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		r.RequestsDispatched,
		r.NotificationsDispatched,
		r.ResponsesSent,
		r.PendingDepth,
		r.BatchSize,
		r.Errors,
	)
	return r
}

// Noop is a Registry whose metrics are registered against a private
// registry that nothing exposes — useful as a default so pkg/mcp never
// needs a nil check before recording a metric.
func Noop() *Registry {
	return NewRegistry(prometheus.NewRegistry())
}
