package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agent_swarm"

// Knowledge outcomes.
const (
	OutcomeGeneral  = "general"
	OutcomeAnswered = "answered"
	OutcomeNoAnswer = "no_answer"
	OutcomeError    = "error"
)

var (
	routesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_total",
			Help:      "Messages routed, by resolved category",
		},
		[]string{"category"},
	)

	routeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_duration_seconds",
			Help:      "Time spent routing one message end to end",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"category"},
	)

	knowledgeOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "knowledge_outcomes_total",
			Help:      "Knowledge responder results by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveRoute records one routed message.
func ObserveRoute(category string, elapsed time.Duration) {
	routesTotal.WithLabelValues(category).Inc()
	routeDuration.WithLabelValues(category).Observe(elapsed.Seconds())
}

// KnowledgeOutcome counts how the knowledge responder answered.
func KnowledgeOutcome(outcome string) {
	knowledgeOutcomes.WithLabelValues(outcome).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
