// Tests for quality.go: QualityRank(), IsTopQuality() and BetterQuality().
package models

import "testing"

func TestQualityRank(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  int
	}{
		{"1080p Ultra", "1080p Ultra", 0},
		{"1080p", "1080p", 1},
		{"720p", "720p", 2},
		{"480p", "480p", 3},
		{"360p", "360p", 4},
		{"case and spaces", " 1080P ultra ", 0},
		{"unknown", QualityUnknown, 5},
		{"unlisted label", "240p", 5},
		{"empty", "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QualityRank(tt.label); got != tt.want {
				t.Errorf("QualityRank(%q) = %d, want %d", tt.label, got, tt.want)
			}
		})
	}
}

func TestIsTopQuality(t *testing.T) {
	for _, label := range []string{"1080p Ultra", "1080p"} {
		if !IsTopQuality(label) {
			t.Errorf("IsTopQuality(%q) = false, want true", label)
		}
	}
	for _, label := range []string{"720p", "360p", "unknown", "2160p"} {
		if IsTopQuality(label) {
			t.Errorf("IsTopQuality(%q) = true, want false", label)
		}
	}
}

func TestBetterQuality(t *testing.T) {
	tests := []struct {
		candidate, current string
		want               bool
	}{
		{"1080p", "720p", true},
		{"720p", "1080p", false},
		{"720p", "720p", false},
		{"360p", "unknown", true},
		{"unknown", "240p", false},
		{"240p", "unknown", false},
	}

	for _, tt := range tests {
		if got := BetterQuality(tt.candidate, tt.current); got != tt.want {
			t.Errorf("BetterQuality(%q, %q) = %v, want %v", tt.candidate, tt.current, got, tt.want)
		}
	}
}
