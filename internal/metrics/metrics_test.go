package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersAll(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m := New(registry)
	require.NotNil(t, m)

	// Vec metrics only appear once a label set is observed.
	m.RecordWebhook("text", StatusSuccess, 0.01)
	m.RecordRuleMatch("farewell")
	m.RecordReply(StatusSuccess)
	m.RecordStationLookup(StatusSuccess, 0.2)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"kitaku_webhook_requests_total",
		"kitaku_webhook_duration_seconds",
		"kitaku_rule_matches_total",
		"kitaku_reply_total",
		"kitaku_station_lookups_total",
		"kitaku_station_lookup_duration_seconds",
		"kitaku_rate_limiter_wait_duration_seconds",
		"kitaku_rate_limiter_dropped_total",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	New(registry)
	assert.Panics(t, func() { New(registry) })
}

func TestRecordCounters(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())

	m.RecordWebhook("text", StatusSuccess, 0.01)
	m.RecordWebhook("text", StatusSuccess, 0.02)
	m.RecordWebhook("location", StatusError, 1)
	m.RecordRuleMatch("farewell")
	m.RecordRuleMatch("thanks")
	m.RecordRuleMatch("farewell")
	m.RecordReply(StatusError)
	m.RecordStationLookup(StatusNotFound, 0.3)
	m.RecordRateLimiterDrop()

	assert.InDelta(t, 2, counterValue(t, m.WebhookRequestsTotal.WithLabelValues("text", StatusSuccess)), 0)
	assert.InDelta(t, 1, counterValue(t, m.WebhookRequestsTotal.WithLabelValues("location", StatusError)), 0)
	assert.InDelta(t, 2, counterValue(t, m.RuleMatchesTotal.WithLabelValues("farewell")), 0)
	assert.InDelta(t, 1, counterValue(t, m.ReplyTotal.WithLabelValues(StatusError)), 0)
	assert.InDelta(t, 1, counterValue(t, m.StationLookupsTotal.WithLabelValues(StatusNotFound)), 0)
	assert.InDelta(t, 1, counterValue(t, m.RateLimiterDropped), 0)
}

func TestRecordHistograms(t *testing.T) {
	t.Parallel()

	m := New(prometheus.NewRegistry())
	m.RecordRateLimiterWait(0.004)
	m.RecordStationLookup(StatusSuccess, 0.07)
	m.RecordStationLookup(StatusError, 3)

	wait := histogram(t, m.RateLimiterWaitDuration)
	assert.Equal(t, uint64(1), wait.GetSampleCount())
	assert.InDelta(t, 0.004, wait.GetSampleSum(), 1e-9)

	lookup := histogram(t, m.StationLookupDuration)
	assert.Equal(t, uint64(2), lookup.GetSampleCount())
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, c.Write(&out))
	return out.GetCounter().GetValue()
}

func histogram(t *testing.T, h prometheus.Histogram) *dto.Histogram {
	t.Helper()
	var out dto.Metric
	require.NoError(t, h.Write(&out))
	return out.GetHistogram()
}

func TestRegisterLogDrops(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	var dropped uint64 = 3
	RegisterLogDrops(registry, func() uint64 { return dropped })

	read := func() float64 {
		families, err := registry.Gather()
		require.NoError(t, err)
		for _, f := range families {
			if f.GetName() == "kitaku_log_records_dropped_total" {
				return f.GetMetric()[0].GetCounter().GetValue()
			}
		}
		t.Fatal("kitaku_log_records_dropped_total not gathered")
		return 0
	}

	assert.InDelta(t, 3, read(), 0)
	dropped = 8
	assert.InDelta(t, 8, read(), 0)
}
