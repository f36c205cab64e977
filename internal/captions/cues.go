// Package captions parses WebVTT-style caption documents and picks the cue to
// display at a playback position.
package captions

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pascal91DA/rezka-grabber/internal/models"
)

const rangeSeparator = "-->"

var (
	blockSeparator = regexp.MustCompile(`\n\s*\n`)
	markupTag      = regexp.MustCompile(`<[^>]+>`)
	timestampField = regexp.MustCompile(`^\d+([.,]\d+)?$`)
)

// ParseCueDocument parses a caption document into cues in document order.
// Header, note and style blocks, blocks with unparseable timings, and cues whose
// text is empty after tag stripping are skipped.
func ParseCueDocument(text string) []models.Cue {
	var cues []models.Cue
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	for _, block := range blockSeparator.Split(normalized, -1) {
		lines := strings.Split(strings.TrimSpace(block), "\n")

		timing := -1
		for i, line := range lines {
			if strings.Contains(line, rangeSeparator) {
				timing = i
				break
			}
		}
		if timing < 0 {
			continue
		}

		startRaw, endRaw, _ := strings.Cut(lines[timing], rangeSeparator)
		endFields := strings.Fields(endRaw)
		if len(endFields) == 0 {
			continue
		}
		start, ok := ParseTimestamp(startRaw)
		if !ok {
			continue
		}
		// Positioning settings may follow the end timestamp.
		end, ok := ParseTimestamp(endFields[0])
		if !ok {
			continue
		}

		body := markupTag.ReplaceAllString(strings.Join(lines[timing+1:], "\n"), "")
		body = strings.TrimSpace(body)
		if body == "" {
			continue
		}
		cues = append(cues, models.Cue{Start: start, End: end, Text: body})
	}
	return cues
}

// ParseTimestamp converts "H:MM:SS.mmm" or "MM:SS.mmm" to seconds. A comma is
// accepted as the fraction separator.
func ParseTimestamp(ts string) (float64, bool) {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}

	values := make([]float64, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if !timestampField.MatchString(part) {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.Replace(part, ",", ".", 1), 64)
		if err != nil || math.IsInf(v, 0) {
			return 0, false
		}
		values[i] = v
	}

	if len(values) == 3 {
		return values[0]*3600 + values[1]*60 + values[2], true
	}
	return values[0]*60 + values[1], true
}

// ActiveCueText returns the text of the first cue with Start <= t <= End.
// The second value is false when no cue covers t.
func ActiveCueText(cues []models.Cue, t float64) (string, bool) {
	for _, cue := range cues {
		if t >= cue.Start && t <= cue.End {
			return cue.Text, true
		}
	}
	return "", false
}
