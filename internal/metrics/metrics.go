// Package metrics collects Prometheus metrics for the HTTP surface and the external collaborators.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the recorder interfaces of the image pipeline and the workflow client
type Collector struct {
	requests        *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	imageGeneration *prometheus.CounterVec
	imageUpload     *prometheus.CounterVec
	workflowCalls   *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		}, []string{"route", "method", "status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recipe_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		imageGeneration: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_image_generations_total",
			Help: "Image generation attempts by outcome",
		}, []string{"outcome"}),
		imageUpload: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_image_uploads_total",
			Help: "Image uploads by outcome",
		}, []string{"outcome"}),
		workflowCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_workflow_calls_total",
			Help: "Workflow engine webhook calls by operation and outcome",
		}, []string{"op", "outcome"}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.imageGeneration,
		c.imageUpload,
		c.workflowCalls,
	)

	return c
}

// RecordRequest records a completed HTTP request
func (c *Collector) RecordRequest(route, method string, status int, latency time.Duration) {
	c.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.requestLatency.WithLabelValues(route, method).Observe(latency.Seconds())
}

// RecordImageGeneration records an image generation outcome
func (c *Collector) RecordImageGeneration(outcome string) {
	c.imageGeneration.WithLabelValues(outcome).Inc()
}

// RecordImageUpload records an image upload outcome
func (c *Collector) RecordImageUpload(outcome string) {
	c.imageUpload.WithLabelValues(outcome).Inc()
}

// RecordWorkflowCall records a workflow webhook call outcome
func (c *Collector) RecordWorkflowCall(op, outcome string) {
	c.workflowCalls.WithLabelValues(op, outcome).Inc()
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
