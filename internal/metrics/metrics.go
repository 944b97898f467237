// Package metrics records per-run build metrics on a private prometheus registry.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Endpoint labels.
const (
	EndpointCatalog = "catalog"
	EndpointDetail  = "detail"
)

// Recorder holds the collectors of one build run. A nil *Recorder is a no-op.
type Recorder struct {
	registry        *prometheus.Registry
	VendorRequests  *prometheus.CounterVec
	VendorDuration  *prometheus.HistogramVec
	PagesWritten    *prometheus.CounterVec
	PageFailures    *prometheus.CounterVec
	BuildDuration   prometheus.Gauge
	EnrichedDetails prometheus.Gauge
}

// NewRecorder creates a recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		VendorRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yongpei_vendor_requests_total",
				Help: "Vendor API requests by endpoint and outcome.",
			},
			[]string{"endpoint", "outcome"},
		),
		VendorDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "yongpei_vendor_request_duration_seconds",
				Help:    "Duration of vendor API requests.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"endpoint"},
		),
		PagesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yongpei_pages_written_total",
				Help: "Generated files by page kind.",
			},
			[]string{"kind"},
		),
		PageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yongpei_page_failures_total",
				Help: "Pages skipped because rendering or writing failed.",
			},
			[]string{"kind"},
		),
		BuildDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "yongpei_build_duration_seconds",
				Help: "Wall time of the last build run.",
			},
		),
		EnrichedDetails: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "yongpei_enriched_products",
				Help: "Products with a decoded detail payload in the last run.",
			},
		),
	}

	r.registry.MustRegister(
		r.VendorRequests,
		r.VendorDuration,
		r.PagesWritten,
		r.PageFailures,
		r.BuildDuration,
		r.EnrichedDetails,
	)

	return r
}

// ObserveRequest records one vendor request.
func (r *Recorder) ObserveRequest(endpoint string, d time.Duration, err error) {
	if r == nil {
		return
	}

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}

	r.VendorRequests.WithLabelValues(endpoint, outcome).Inc()
	r.VendorDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// PageWritten counts one generated file.
func (r *Recorder) PageWritten(kind string) {
	if r == nil {
		return
	}

	r.PagesWritten.WithLabelValues(kind).Inc()
}

// PageFailed counts one skipped page.
func (r *Recorder) PageFailed(kind string) {
	if r == nil {
		return
	}

	r.PageFailures.WithLabelValues(kind).Inc()
}

// Finish records run-level gauges.
func (r *Recorder) Finish(d time.Duration, enriched int) {
	if r == nil {
		return
	}

	r.BuildDuration.Set(d.Seconds())
	r.EnrichedDetails.Set(float64(enriched))
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}
