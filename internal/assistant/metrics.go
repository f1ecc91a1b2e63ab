package assistant

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// chatRequestsTotal counts chat requests by intent and outcome.
// Labels: intent (product, general), outcome (greeting, composed, list_all,
// no_results, empty_catalog, generation_fallback, error)
var chatRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "neusearch",
		Subsystem: "chat",
		Name:      "requests_total",
		Help:      "Total chat requests by intent and pipeline outcome",
	},
	[]string{"intent", "outcome"},
)

func recordChat(intent, outcome string) {
	chatRequestsTotal.WithLabelValues(intent, outcome).Inc()
}
