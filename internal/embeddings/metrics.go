package embeddings

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// embeddingsTotal counts embedding generations by source path.
	// Labels: source (remote, fallback)
	embeddingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neusearch",
			Subsystem: "embeddings",
			Name:      "generated_total",
			Help:      "Total embedding generations by source path",
		},
		[]string{"source"},
	)

	// embeddingDuration tracks how long embedding generation takes.
	embeddingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neusearch",
			Subsystem: "embeddings",
			Name:      "generation_duration_seconds",
			Help:      "Duration of embedding generation in seconds by source path",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)
)

func recordEmbedding(source Source, duration time.Duration) {
	embeddingsTotal.WithLabelValues(string(source)).Inc()
	embeddingDuration.WithLabelValues(string(source)).Observe(duration.Seconds())
}
