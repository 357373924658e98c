// Package metrics exposes Prometheus metrics for the download pipeline
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Conte777/SaveVideoBot/internal/domain/download/entities"
)

// Metrics holds all Prometheus metrics for the bot
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	DownloadDuration *prometheus.HistogramVec
	DeliveredBytes   *prometheus.CounterVec
	ActiveDownloads  prometheus.Gauge
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics registers all metrics on the default registry.
// Call it once; use GetDefaultMetrics everywhere else.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savevideo_bot_requests_total",
				Help: "Total number of link requests by platform and outcome",
			},
			[]string{"platform", "outcome"},
		),
		DownloadDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "savevideo_bot_download_duration_seconds",
				Help:    "Duration of external downloads in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"platform"},
		),
		DeliveredBytes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savevideo_bot_delivered_bytes_total",
				Help: "Total size of videos uploaded to Telegram",
			},
			[]string{"platform"},
		),
		ActiveDownloads: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "savevideo_bot_active_downloads",
			Help: "Current number of downloads holding a concurrency slot",
		}),
	}
}

// RecordRequest counts one finished request
func (m *Metrics) RecordRequest(platform entities.Platform, outcome entities.Outcome) {
	m.RequestsTotal.WithLabelValues(string(platform), string(outcome)).Inc()
}

// RecordDownload observes how long an external fetch took
func (m *Metrics) RecordDownload(platform entities.Platform, duration time.Duration) {
	m.DownloadDuration.WithLabelValues(string(platform)).Observe(duration.Seconds())
}

// RecordDelivered adds the size of an uploaded video
func (m *Metrics) RecordDelivered(platform entities.Platform, bytes int64) {
	if bytes > 0 {
		m.DeliveredBytes.WithLabelValues(string(platform)).Add(float64(bytes))
	}
}

// IncActiveDownloads increments the active downloads gauge
func (m *Metrics) IncActiveDownloads() {
	m.ActiveDownloads.Inc()
}

// DecActiveDownloads decrements the active downloads gauge
func (m *Metrics) DecActiveDownloads() {
	m.ActiveDownloads.Dec()
}
