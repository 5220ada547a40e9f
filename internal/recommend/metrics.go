package recommend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scorerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movieduel_scorer_runs_total",
		Help: "External scorer invocations, by outcome",
	}, []string{"status"})

	scorerDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "movieduel_scorer_duration_seconds",
		Help:    "Wall time of external scorer runs",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
	})
)

func recordScorerRun(status string, elapsed time.Duration) {
	scorerRuns.WithLabelValues(status).Inc()
	scorerDuration.Observe(elapsed.Seconds())
}
