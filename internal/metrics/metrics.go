// Package metrics collects Prometheus metrics for HTTP traffic and the
// analysis pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis and insight sources.
const (
	SourceProvider = "provider"
	SourceFallback = "fallback"
)

// Recorder is what the pipeline and middleware report to.
type Recorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	RecordAnalysis(source string)
	RecordInsights(source string)
	RecordProviderFailure(provider, reason string)
	RecordProviderLatency(provider string, duration time.Duration)
}

type Collector struct {
	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	analyses        *prometheus.CounterVec
	insights        *prometheus.CounterVec
	providerFails   *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
}

// NewCollector creates the metrics and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindjournal_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mindjournal_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindjournal_analyses_total",
			Help: "Entry analyses by result source (provider or fallback).",
		}, []string{"source"}),
		insights: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindjournal_insights_total",
			Help: "Insight derivations by result source (provider or fallback).",
		}, []string{"source"}),
		providerFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindjournal_provider_failures_total",
			Help: "Text-generation provider failures by provider and reason.",
		}, []string{"provider", "reason"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mindjournal_provider_latency_seconds",
			Help:    "Text-generation provider call latency in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"provider"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.analyses,
		c.insights,
		c.providerFails,
		c.providerLatency,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordAnalysis(source string) {
	c.analyses.WithLabelValues(source).Inc()
}

func (c *Collector) RecordInsights(source string) {
	c.insights.WithLabelValues(source).Inc()
}

func (c *Collector) RecordProviderFailure(provider, reason string) {
	c.providerFails.WithLabelValues(provider, reason).Inc()
}

func (c *Collector) RecordProviderLatency(provider string, duration time.Duration) {
	c.providerLatency.WithLabelValues(provider).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used where no registry is wired, mostly tests.
type Nop struct{}

func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordAnalysis(string)                                {}
func (Nop) RecordInsights(string)                                {}
func (Nop) RecordProviderFailure(string, string)                 {}
func (Nop) RecordProviderLatency(string, time.Duration)          {}
