// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Service fit scores by path ("ai" or "keyword").
	ServiceFitScores = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "buyermatch_service_fit_scores_total",
		Help: "Service fit scores computed, by scoring path",
	}, []string{"path"})

	// Semantic scorer failures that fell back to keywords, by reason.
	AIFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "buyermatch_ai_fallbacks_total",
		Help: "Semantic scoring attempts that fell back to keyword scoring",
	}, []string{"reason"})

	// 0 closed, 1 open, 2 half-open.
	AICircuitState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "buyermatch_ai_circuit_state",
		Help: "Semantic scorer circuit breaker state",
	})

	GeoOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "buyermatch_geo_outcomes_total",
		Help: "Geography scoring outcomes",
	}, []string{"outcome"})

	WeightRecalculations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "buyermatch_weight_recalculations_total",
		Help: "Deal weight recalculations persisted",
	})

	DedupeGroups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "buyermatch_dedupe_groups_total",
		Help: "Duplicate buyer groups processed by merge, by result",
	}, []string{"result"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "buyermatch_http_request_duration_seconds",
		Help:    "Latency of API handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)

var once sync.Once

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			ServiceFitScores,
			AIFallbacks,
			AICircuitState,
			GeoOutcomes,
			WeightRecalculations,
			DedupeGroups,
			HTTPDuration,
		)
	})
}
