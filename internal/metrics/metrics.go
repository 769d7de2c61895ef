// Package metrics exposes Prometheus instrumentation for the recommendation
// pipeline and the HTTP layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects recommendation metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	filteredRecipes    prometheus.Histogram
	fallbacksTotal     *prometheus.CounterVec
	outcomesTotal      *prometheus.CounterVec
	recommendDuration  prometheus.Histogram
	datasetRecipes     prometheus.Gauge
	httpRequestsTotal  *prometheus.CounterVec
	httpRequestSeconds *prometheus.HistogramVec
}

// New creates a Recorder backed by a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		filteredRecipes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "recommender_filtered_recipes",
			Help:    "Number of recipes qualifying after ingredient filtering",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		fallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recommender_fallbacks_total",
			Help: "Queries that fell back to the full dataset",
		}, []string{"reason"}),
		outcomesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recommender_outcomes_total",
			Help: "Recommendation outcomes by status",
		}, []string{"status"}),
		recommendDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "recommender_duration_seconds",
			Help:    "Time spent filtering, indexing and searching per query",
			Buckets: prometheus.DefBuckets,
		}),
		datasetRecipes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "recommender_dataset_recipes",
			Help: "Recipes held by the dataset store",
		}),
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		httpRequestSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveFiltered(n int) {
	r.filteredRecipes.Observe(float64(n))
}

func (r *Recorder) Fallback(reason string) {
	r.fallbacksTotal.WithLabelValues(reason).Inc()
}

func (r *Recorder) Outcome(status string) {
	r.outcomesTotal.WithLabelValues(status).Inc()
}

func (r *Recorder) ObserveDuration(d time.Duration) {
	r.recommendDuration.Observe(d.Seconds())
}

func (r *Recorder) SetDatasetSize(n int) {
	r.datasetRecipes.Set(float64(n))
}

func (r *Recorder) ObserveHTTP(method, path, status string, d time.Duration) {
	r.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.httpRequestSeconds.WithLabelValues(method, path).Observe(d.Seconds())
}
