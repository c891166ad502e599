// Package metrics defines the Prometheus metrics exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusNotFound = "not_found"
	StatusSkipped  = "skipped"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec

	// Dispatch metrics
	RuleMatchesTotal *prometheus.CounterVec
	ReplyTotal       *prometheus.CounterVec

	// Station lookup metrics
	StationLookupsTotal   *prometheus.CounterVec
	StationLookupDuration prometheus.Histogram

	// Rate limiter metrics
	RateLimiterWaitDuration prometheus.Histogram
	RateLimiterDropped      prometheus.Counter
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		WebhookRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitaku_webhook_requests_total",
				Help: "Total number of webhook events by event type and status",
			},
			[]string{"event_type", "status"}, // event_type: text, location, unknown
		),

		WebhookDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kitaku_webhook_duration_seconds",
				Help:    "Webhook event processing duration in seconds by event type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"event_type"},
		),

		RuleMatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitaku_rule_matches_total",
				Help: "Total number of rule matches by rule name",
			},
			[]string{"rule"},
		),

		ReplyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitaku_reply_total",
				Help: "Total number of reply calls by status",
			},
			[]string{"status"}, // status: success, error
		),

		StationLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitaku_station_lookups_total",
				Help: "Total number of nearest station lookups by status",
			},
			[]string{"status"}, // status: success, not_found, error, skipped
		),

		StationLookupDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kitaku_station_lookup_duration_seconds",
				Help:    "Nearest station lookup duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),

		RateLimiterWaitDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "kitaku_rate_limiter_wait_duration_seconds",
				Help:    "Time spent waiting for an outbound reply token",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
		),

		RateLimiterDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "kitaku_rate_limiter_dropped_total",
				Help: "Total number of replies abandoned while waiting for the rate limiter",
			},
		),
	}
}

// RecordWebhook records one processed webhook event.
func (m *Metrics) RecordWebhook(eventType, status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordRuleMatch counts a rule whose builder contributed to a reply.
func (m *Metrics) RecordRuleMatch(rule string) {
	m.RuleMatchesTotal.WithLabelValues(rule).Inc()
}

// RecordReply counts a reply call outcome.
func (m *Metrics) RecordReply(status string) {
	m.ReplyTotal.WithLabelValues(status).Inc()
}

// RecordStationLookup records a lookup outcome and its duration.
func (m *Metrics) RecordStationLookup(status string, duration float64) {
	m.StationLookupsTotal.WithLabelValues(status).Inc()
	m.StationLookupDuration.Observe(duration)
}

// RecordRateLimiterWait records time spent waiting for a token.
func (m *Metrics) RecordRateLimiterWait(duration float64) {
	m.RateLimiterWaitDuration.Observe(duration)
}

// RecordRateLimiterDrop records a reply dropped while waiting for a token.
func (m *Metrics) RecordRateLimiterDrop() {
	m.RateLimiterDropped.Inc()
}

// RegisterLogDrops exports the count of log records the remote sink discarded.
func RegisterLogDrops(registry *prometheus.Registry, dropped func() uint64) {
	promauto.With(registry).NewCounterFunc(
		prometheus.CounterOpts{
			Name: "kitaku_log_records_dropped_total",
			Help: "Total number of log records discarded because the remote log buffer was full",
		},
		func() float64 { return float64(dropped()) },
	)
}
