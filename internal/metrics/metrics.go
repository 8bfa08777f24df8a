// Package metrics holds the Prometheus collectors for the service. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	ConfidenceBuckets          = []float64{.4, .5, .6, .7, .8, .9, 1}
)

type Metrics struct {
	Registry *prometheus.Registry

	ComplaintsSubmitted      *prometheus.CounterVec
	StatusTransitions        *prometheus.CounterVec
	ClassificationConfidence prometheus.Histogram
	HTTPRequestsTotal        *prometheus.CounterVec
	HTTPRequestDuration      *prometheus.HistogramVec
}

// New registers all collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		ComplaintsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "complaints_submitted_total",
			Help: "Complaints accepted, by routed department and priority.",
		}, []string{"department", "priority"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "complaint_status_transitions_total",
			Help: "Applied complaint status changes.",
		}, []string{"from", "to"}),
		ClassificationConfidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "complaint_classification_confidence",
			Help:    "Classifier confidence for submitted complaints.",
			Buckets: ConfidenceBuckets,
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: DefaultHTTPDurationBuckets,
		}, []string{"method", "path"}),
	}

	reg.MustRegister(
		m.ComplaintsSubmitted,
		m.StatusTransitions,
		m.ClassificationConfidence,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) RecordSubmission(department, priority string, confidence float64) {
	if m == nil {
		return
	}
	m.ComplaintsSubmitted.WithLabelValues(department, priority).Inc()
	m.ClassificationConfidence.Observe(confidence)
}

func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

// RecordHTTPRequest records one served request. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
