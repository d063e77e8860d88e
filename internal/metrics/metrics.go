// Package metrics holds the Prometheus collectors for dictionary lookups and
// attack runs, registered on a private registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registry every railfence collector is registered on.
var Registry = prometheus.NewRegistry()

var (
	// DictionaryLookups counts uncached backend lookups by verdict (known, unknown, error).
	DictionaryLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "railfence",
		Subsystem: "dictionary",
		Name:      "lookups_total",
		Help:      "Backend word lookups that missed the lookup cache.",
	}, []string{"backend", "verdict"})

	// DictionaryCacheHits counts lookups answered from the lookup cache.
	DictionaryCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "railfence",
		Subsystem: "dictionary",
		Name:      "cache_hits_total",
		Help:      "Word lookups answered from the lookup cache.",
	}, []string{"backend"})

	// CorpusSources counts word-list sources by load result (loaded, failed).
	CorpusSources = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "railfence",
		Subsystem: "corpus",
		Name:      "sources_total",
		Help:      "Word-list sources processed by the corpus loader.",
	}, []string{"result"})

	// CorpusWords is the size of the most recently loaded word set.
	CorpusWords = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "railfence",
		Subsystem: "corpus",
		Name:      "words",
		Help:      "Distinct words in the loaded corpus.",
	})

	// Attacks counts completed brute-force attacks.
	Attacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "railfence",
		Subsystem: "attack",
		Name:      "runs_total",
		Help:      "Completed brute-force attacks.",
	})

	// AttackAttempts counts rail counts evaluated across all attacks.
	AttackAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "railfence",
		Subsystem: "attack",
		Name:      "attempts_total",
		Help:      "Rail counts decrypted and scored.",
	})

	// AttackDuration observes wall time per attack.
	AttackDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "railfence",
		Subsystem: "attack",
		Name:      "duration_seconds",
		Help:      "Wall time of brute-force attacks.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	})
)

func init() {
	Registry.MustRegister(
		DictionaryLookups,
		DictionaryCacheHits,
		CorpusSources,
		CorpusWords,
		Attacks,
		AttackAttempts,
		AttackDuration,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
