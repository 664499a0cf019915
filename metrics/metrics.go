package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	activitiesRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hadithhub",
			Subsystem: "progress",
			Name:      "activities_total",
			Help:      "Tracked activities by kind and outcome (recorded, duplicate, failed).",
		},
		[]string{"kind", "outcome"},
	)

	achievementsGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hadithhub",
			Subsystem: "progress",
			Name:      "achievements_granted_total",
			Help:      "Achievement unlocks written to the award ledger.",
		},
		[]string{"slug"},
	)

	evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hadithhub",
			Subsystem: "progress",
			Name:      "evaluations_total",
			Help:      "Evaluation passes by result (ok, catalog_unavailable, timeout, grant_error).",
		},
		[]string{"result"},
	)

	evaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hadithhub",
			Subsystem: "progress",
			Name:      "evaluation_duration_seconds",
			Help:      "Duration of a full achievement evaluation pass.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
	)

	statFetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hadithhub",
			Subsystem: "progress",
			Name:      "stat_fetch_failures_total",
			Help:      "Stat sources that failed or timed out and were defaulted.",
		},
		[]string{"source"},
	)

	unknownCriteria = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hadithhub",
			Subsystem: "progress",
			Name:      "unknown_criteria_total",
			Help:      "Catalog entries skipped because their criterion was not understood.",
		},
		[]string{"slug"},
	)

	unlockEventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hadithhub",
			Subsystem: "ws",
			Name:      "unlock_events_dropped_total",
			Help:      "Unlock notifications dropped because a subscriber was not reading.",
		},
	)
)

func init() {
	Registry.MustRegister(
		activitiesRecorded,
		achievementsGranted,
		evaluations,
		evaluationDuration,
		statFetchFailures,
		unknownCriteria,
		unlockEventsDropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordActivity(kind, outcome string) {
	activitiesRecorded.WithLabelValues(kind, outcome).Inc()
}

func RecordGrant(slug string) {
	achievementsGranted.WithLabelValues(slug).Inc()
}

func RecordEvaluation(result string, elapsed time.Duration) {
	evaluations.WithLabelValues(result).Inc()
	evaluationDuration.Observe(elapsed.Seconds())
}

func RecordStatFetchFailure(source string) {
	statFetchFailures.WithLabelValues(source).Inc()
}

func RecordUnknownCriterion(slug string) {
	unknownCriteria.WithLabelValues(slug).Inc()
}

func RecordUnlockEventDropped() {
	unlockEventsDropped.Inc()
}
