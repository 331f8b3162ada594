// Package metrics collects Prometheus metrics for upstream provider calls,
// enrichment outcomes and HTTP requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the recorder interfaces used by providers,
// the enrichment orchestrator and the HTTP middleware.
type Collector struct {
	providerCalls   *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	enrichments     *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediashelf_provider_calls_total",
			Help: "Upstream provider calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mediashelf_provider_call_duration_seconds",
			Help:    "Upstream provider call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		enrichments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediashelf_enrichments_total",
			Help: "Enrichment requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mediashelf_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mediashelf_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.providerCalls,
		c.providerLatency,
		c.enrichments,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

func (c *Collector) ObserveProviderCall(provider, outcome string, elapsed time.Duration) {
	c.providerCalls.WithLabelValues(provider, outcome).Inc()
	c.providerLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveEnrichment(provider, outcome string) {
	c.enrichments.WithLabelValues(provider, outcome).Inc()
}

// ObserveRequest records one served HTTP request. route is the matched
// route template, not the raw path, to keep label cardinality bounded.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
