package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects order-store and insight counters. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	ordersPlaced    prometheus.Counter
	statusUpdates   *prometheus.CounterVec
	orderEdits      *prometheus.CounterVec
	insightCalls    *prometheus.CounterVec
	insightDuration *prometheus.HistogramVec
	httpDuration    *prometheus.HistogramVec
}

// New registers the collectors on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}
	m := &Metrics{
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Orders placed through the store.",
		}),
		statusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_status_updates_total",
			Help: "Status update requests by target status and result.",
		}, []string{"status", "result"}),
		orderEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_edits_total",
			Help: "Admin order edits by result.",
		}, []string{"result"}),
		insightCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insight_requests_total",
			Help: "Text generation calls by kind and outcome.",
		}, []string{"kind", "outcome"}),
		insightDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "insight_request_duration_seconds",
			Help:    "Latency of text generation calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.ordersPlaced, m.statusUpdates, m.orderEdits, m.insightCalls, m.insightDuration, m.httpDuration)
	return m
}

func (m *Metrics) IncOrderPlaced() {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// IncStatusUpdate result is one of applied, not_found, rejected.
func (m *Metrics) IncStatusUpdate(status, result string) {
	if m == nil {
		return
	}
	m.statusUpdates.WithLabelValues(normalizeLabel(status), result).Inc()
}

func (m *Metrics) IncOrderEdit(result string) {
	if m == nil {
		return
	}
	m.orderEdits.WithLabelValues(result).Inc()
}

// ObserveInsight records one generation call. outcome is ok, empty, error or timeout.
func (m *Metrics) ObserveInsight(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.insightCalls.WithLabelValues(kind, outcome).Inc()
	m.insightDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return "unknown"
	}
	return v
}
