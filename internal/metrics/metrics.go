// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns its registry so independent instances (one per test, one
// per process) never collide on registration.
type Collector struct {
	registry *prometheus.Registry

	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	postsCreated   prometheus.Counter
	postsRejected  *prometheus.CounterVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chirp_http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chirp_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chirp_posts_created_total",
			Help: "Posts admitted and persisted.",
		}),
		postsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chirp_posts_rejected_total",
			Help: "Post creation failures by error kind.",
		}, []string{"reason"}),
	}

	c.registry.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.postsCreated,
		c.postsRejected,
	)
	return c
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordRequestLatency(d time.Duration) {
	c.requestLatency.Observe(d.Seconds())
}

func (c *Collector) RecordPostCreated() {
	c.postsCreated.Inc()
}

func (c *Collector) RecordPostRejected(reason string) {
	c.postsRejected.WithLabelValues(reason).Inc()
}

// Handler returns the scrape endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
