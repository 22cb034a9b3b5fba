// Package metrics holds the Prometheus collectors for ingestion and serving.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a set of collectors bound to one registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	RecordsEnriched prometheus.Counter
	RecordsRejected *prometheus.CounterVec
	PagesFetched    *prometheus.CounterVec
	CatalogProducts prometheus.Gauge
	CatalogSwaps    prometheus.Counter
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// New registers the collectors with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		RecordsEnriched: f.NewCounter(prometheus.CounterOpts{
			Name: "sunbeam_records_enriched_total",
			Help: "Raw records turned into catalog products",
		}),
		RecordsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sunbeam_records_rejected_total",
			Help: "Raw records excluded from the catalog",
		}, []string{"reason"}),
		PagesFetched: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sunbeam_storefront_pages_total",
			Help: "Storefront listing pages requested",
		}, []string{"status"}),
		CatalogProducts: f.NewGauge(prometheus.GaugeOpts{
			Name: "sunbeam_catalog_products",
			Help: "Products in the live catalog",
		}),
		CatalogSwaps: f.NewCounter(prometheus.CounterOpts{
			Name: "sunbeam_catalog_swaps_total",
			Help: "Times the live catalog was replaced",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sunbeam_http_requests_total",
			Help: "HTTP requests served",
		}, []string{"route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sunbeam_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) Enriched(n int) {
	if m == nil {
		return
	}
	m.RecordsEnriched.Add(float64(n))
}

func (m *Metrics) Rejected(reason string) {
	if m == nil {
		return
	}
	m.RecordsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) Page(status string) {
	if m == nil {
		return
	}
	m.PagesFetched.WithLabelValues(status).Inc()
}

func (m *Metrics) Swapped(products int) {
	if m == nil {
		return
	}
	m.CatalogSwaps.Inc()
	m.CatalogProducts.Set(float64(products))
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Totals sums every counter in the registry by metric name, across labels.
// Commands that do not serve /metrics log it when they finish.
func (m *Metrics) Totals() map[string]float64 {
	out := map[string]float64{}
	if m == nil {
		return out
	}
	families, err := m.gatherer.Gather()
	if err != nil {
		return out
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				out[mf.GetName()] += c.GetValue()
			}
		}
	}
	return out
}
