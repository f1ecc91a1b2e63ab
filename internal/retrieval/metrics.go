package retrieval

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// resultCount tracks how many candidates each similarity search returns.
// A drift toward zero usually means stale or missing chunk embeddings.
var resultCount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: "neusearch",
		Subsystem: "retrieval",
		Name:      "result_count",
		Help:      "Number of candidates returned per similarity search",
		Buckets:   []float64{0, 1, 2, 3, 5, 10},
	},
)
