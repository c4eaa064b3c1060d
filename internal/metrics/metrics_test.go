package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["buyermatch_weight_recalculations_total"])
	assert.True(t, names["buyermatch_ai_circuit_state"])
}

func TestCollectors_AcceptLabels(t *testing.T) {
	assert.NotPanics(t, func() {
		ServiceFitScores.WithLabelValues("keyword").Inc()
		AIFallbacks.WithLabelValues("rate_limited").Inc()
		GeoOutcomes.WithLabelValues("disqualified").Inc()
		DedupeGroups.WithLabelValues("merged").Inc()
		HTTPDuration.WithLabelValues("/health", "GET", "200").Observe(0.01)
		AICircuitState.Set(1)
	})
}
