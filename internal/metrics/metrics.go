package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ComparisonsTotal counts comparison runs by mode.
	ComparisonsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketgap_comparisons_total",
			Help: "Total number of market comparison runs (by mode).",
		},
		[]string{"mode"},
	)

	// ComparisonDuration measures wall time of comparison runs.
	ComparisonDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketgap_comparison_duration_seconds",
			Help:    "Duration of market comparison runs in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"mode"},
	)

	// OpportunitiesFound counts emitted opportunities by mode.
	OpportunitiesFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketgap_opportunities_total",
			Help: "Total number of opportunities emitted (by mode).",
		},
		[]string{"mode"},
	)

	// ScrapeRequestsTotal counts outbound scraping API calls.
	ScrapeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketgap_scrape_requests_total",
			Help: "Total number of scraping API requests (by provider and status).",
		},
		[]string{"provider", "status"},
	)

	// SemanticMatchesTotal counts AI match attempts by outcome
	// (matched, no_match, error).
	SemanticMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketgap_semantic_matches_total",
			Help: "Total number of semantic match attempts (by outcome).",
		},
		[]string{"outcome"},
	)
)

// ObserveComparison records one comparison run.
func ObserveComparison(mode string, start time.Time, opportunities int) {
	ComparisonsTotal.WithLabelValues(mode).Inc()
	ComparisonDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	OpportunitiesFound.WithLabelValues(mode).Add(float64(opportunities))
}
