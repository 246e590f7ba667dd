package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inventory"

// Metrics groups the collectors recorded by the cache and the transfer allocator.
type Metrics struct {
	Registry *prometheus.Registry

	scans        *prometheus.CounterVec
	scanDuration prometheus.Histogram
	skipped      prometheus.Counter
	rebuilds     prometheus.Counter
	transfers    *prometheus.CounterVec
	moved        *prometheus.CounterVec
	attempts     *prometheus.CounterVec
	containers   prometheus.Gauge
	itemKeys     prometheus.Gauge
	storedItems  prometheus.Gauge
}

// New creates and registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Scans by kind (all, one) and outcome.",
		}, []string{"kind", "outcome"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Duration of full scans.",
			Buckets:   prometheus.DefBuckets,
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_skipped_containers_total",
			Help:      "Containers skipped during scans because they did not answer.",
		}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_rebuilds_total",
			Help:      "Full rebuilds of the derived indexes.",
		}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "High level transfers by operation and status.",
		}, []string{"operation", "status"}),
		moved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_moved_total",
			Help:      "Items confirmed moved by operation.",
		}, []string{"operation"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_attempts_total",
			Help:      "Peripheral transfer calls by outcome (success, zero_progress, error).",
		}, []string{"outcome"}),
		containers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_containers",
			Help:      "Containers currently held in the cache.",
		}),
		itemKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stocked_item_keys",
			Help:      "Distinct item keys with a non-zero stock level.",
		}),
		storedItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stocked_items",
			Help:      "Sum of all stock levels.",
		}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.scans, m.scanDuration, m.skipped, m.rebuilds,
		m.transfers, m.moved, m.attempts,
		m.containers, m.itemKeys, m.storedItems,
	)
	return m
}

// ObserveScan records a finished scan.
func (m *Metrics) ObserveScan(kind, outcome string, took time.Duration, skipped int) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(kind, outcome).Inc()
	if kind == "all" && outcome == "ok" {
		m.scanDuration.Observe(took.Seconds())
	}
	if skipped > 0 {
		m.skipped.Add(float64(skipped))
	}
}

// IncRebuild records one index rebuild.
func (m *Metrics) IncRebuild() {
	if m == nil {
		return
	}
	m.rebuilds.Inc()
}

// ObserveTransfer records the outcome of a withdraw, deposit or slot pull.
func (m *Metrics) ObserveTransfer(operation, status string, moved int) {
	if m == nil {
		return
	}
	if status == "" {
		status = "ok"
	}
	m.transfers.WithLabelValues(operation, status).Inc()
	if moved > 0 {
		m.moved.WithLabelValues(operation).Add(float64(moved))
	}
}

// ObserveAttempt records a single peripheral transfer call.
func (m *Metrics) ObserveAttempt(outcome string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(outcome).Inc()
}

// SetCacheSize updates the cache gauges.
func (m *Metrics) SetCacheSize(containers, itemKeys, items int) {
	if m == nil {
		return
	}
	m.containers.Set(float64(containers))
	m.itemKeys.Set(float64(itemKeys))
	m.storedItems.Set(float64(items))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}
