package movies

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	candidateSetsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movieduel_candidate_sets_built_total",
		Help: "Number of full candidate sets assembled",
	})

	candidateSetSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "movieduel_candidate_set_size",
		Help:    "Candidate count per assembled set",
		Buckets: prometheus.LinearBuckets(0, 5, 5),
	})

	catalogPagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movieduel_catalog_pages_fetched_total",
		Help: "External catalog pages fetched, by selection path",
	}, []string{"source"})

	localFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movieduel_local_fallbacks_total",
		Help: "Times the local store had to backfill a selection path",
	}, []string{"source"})

	replacementsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movieduel_replacements_served_total",
		Help: "Single-candidate replacements served, by selection path",
	}, []string{"source"})
)

func recordCandidateSet(size int) {
	candidateSetsBuilt.Inc()
	candidateSetSize.Observe(float64(size))
}

func recordCatalogPage(source string) {
	catalogPagesFetched.WithLabelValues(source).Inc()
}

func recordLocalFallback(source string) {
	localFallbacks.WithLabelValues(source).Inc()
}

func recordReplacement(source string) {
	replacementsServed.WithLabelValues(source).Inc()
}
