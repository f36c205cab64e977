package models

import "strings"

// Quality labels reported by the site. Labels are free-form; these are the ones
// the selection order knows about.
const (
	Quality1080pUltra = "1080p Ultra"
	Quality1080p      = "1080p"
	Quality720p       = "720p"
	Quality480p       = "480p"
	Quality360p       = "360p"
	QualityUnknown    = "unknown"
)

// QualityPriority is the fixed selection order, best first. Labels outside the
// list rank after all of them and keep their first-seen order.
var QualityPriority = []string{
	Quality1080pUltra,
	Quality1080p,
	Quality720p,
	Quality480p,
	Quality360p,
}

// QualityRank returns the position of label in QualityPriority, or
// len(QualityPriority) for any other label. Lower is better.
func QualityRank(label string) int {
	normalized := strings.TrimSpace(label)
	for i, q := range QualityPriority {
		if strings.EqualFold(q, normalized) {
			return i
		}
	}
	return len(QualityPriority)
}

// IsTopQuality reports whether label is one of the two best labels, which
// makes further probing pointless.
func IsTopQuality(label string) bool {
	return QualityRank(label) < 2
}

// BetterQuality reports whether candidate ranks strictly better than current.
func BetterQuality(candidate, current string) bool {
	return QualityRank(candidate) < QualityRank(current)
}
