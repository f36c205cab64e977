package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for ResolutionAttemptsTotal.
const (
	OutcomeTop       = "top"
	OutcomeImproved  = "improved"
	OutcomeNoGain    = "no_gain"
	OutcomeError     = "error"
	OutcomeFallback  = "fallback"
	OutcomeAborted   = "aborted"
	StatusSuccess    = "success"
	StatusPartial    = "partial"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
	QualityUnlabeled = "unknown"
)

// Stream resolution metrics
var (
	ResolutionAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rezka_resolution_attempts_total",
			Help: "Total number of stream resolution attempts by strategy and outcome.",
		},
		[]string{"strategy", "outcome"},
	)

	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rezka_resolutions_total",
			Help: "Total number of finished resolve calls by status.",
		},
		[]string{"status"},
	)

	ResolvedQualityTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rezka_resolved_quality_total",
			Help: "Total number of resolved streams by final quality label.",
		},
		[]string{"quality"},
	)
)

func init() {
	prometheus.MustRegister(
		ResolutionAttemptsTotal,
		ResolutionsTotal,
		ResolvedQualityTotal,
	)
}

// QualityLabel maps an empty quality to QualityUnlabeled.
func QualityLabel(quality string) string {
	if quality == "" {
		return QualityUnlabeled
	}
	return quality
}
