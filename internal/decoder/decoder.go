// Package decoder turns the obfuscated stream payload served by the site into
// quality→URL pairs.
//
// The payload is a base64 string with junk blocks spliced in after a marker and
// single marker characters sprinkled through it. Removal happens in a fixed
// order before the base64 decode; see Decoder.Clean.
package decoder

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"

	"github.com/pascal91DA/rezka-grabber/internal/models"
)

// Values observed on the site's current obfuscation scheme. They are exposed
// through Options so a scheme change can be followed without a code change.
const (
	DefaultTrashMarker      = "//_//"
	DefaultPaddingLookahead = 50
	DefaultTrashRunLength   = 16
)

// Options configures the junk removal heuristics.
type Options struct {
	// TrashMarker precedes every injected junk block.
	TrashMarker string
	// PaddingLookahead is how far after the marker a padded base64 run is looked for.
	PaddingLookahead int
	// TrashRunLength is dropped after the marker when no padded run is found.
	TrashRunLength int
}

// DefaultOptions returns the options matching the site's current scheme.
func DefaultOptions() Options {
	return Options{
		TrashMarker:      DefaultTrashMarker,
		PaddingLookahead: DefaultPaddingLookahead,
		TrashRunLength:   DefaultTrashRunLength,
	}
}

var (
	absoluteURLPattern = regexp.MustCompile(`^https?://`)
	markerPairPattern  = regexp.MustCompile(`[#@!$^].`)
	nonAlphabetPattern = regexp.MustCompile(`[^A-Za-z0-9+/=]`)
	leftoverPattern    = regexp.MustCompile(`[@#!$^]+`)
	streamTokenPattern = regexp.MustCompile(`\[([^\]]+)\](https?://[^\s,]+)`)
	plainListPattern   = regexp.MustCompile(`^\[[^\]]+\]https?://`)
)

// Decoder decodes stream payloads. The zero value is not usable, use New.
type Decoder struct {
	opts          Options
	paddedRunExpr *regexp.Regexp
}

// New creates a Decoder. Zero fields of opts fall back to the defaults.
func New(opts Options) *Decoder {
	defaults := DefaultOptions()
	if opts.TrashMarker == "" {
		opts.TrashMarker = defaults.TrashMarker
	}
	if opts.PaddingLookahead <= 0 {
		opts.PaddingLookahead = defaults.PaddingLookahead
	}
	if opts.TrashRunLength <= 0 {
		opts.TrashRunLength = defaults.TrashRunLength
	}
	return &Decoder{
		opts:          opts,
		paddedRunExpr: regexp.MustCompile(`^[A-Za-z0-9+/]{1,` + strconv.Itoa(opts.PaddingLookahead) + `}?={1,2}`),
	}
}

var defaultDecoder = New(DefaultOptions())

// Decode decodes raw with the default options.
func Decode(raw string) models.StreamInfo {
	return defaultDecoder.Decode(raw)
}

// Decode turns raw into a StreamInfo. It never fails: malformed input yields
// either no streams or a single "unknown" stream. An absolute URL is returned
// as is; other input is trimmed before decoding.
func (d *Decoder) Decode(raw string) models.StreamInfo {
	if absoluteURLPattern.MatchString(raw) {
		return unknownStream(raw)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.StreamInfo{}
	}
	if absoluteURLPattern.MatchString(trimmed) {
		return unknownStream(trimmed)
	}

	decoded := trimmed
	if !plainListPattern.MatchString(trimmed) {
		decoded = d.Clean(trimmed)
	}

	streams := ParseStreams(decoded)
	return models.StreamInfo{Streams: streams, Selected: SelectBest(streams)}
}

func unknownStream(u string) models.StreamInfo {
	stream := models.QualityStream{Quality: models.QualityUnknown, URL: u}
	return models.StreamInfo{Streams: []models.QualityStream{stream}, Selected: &stream}
}

// Clean removes the obfuscation from raw and returns the decoded text. When the
// base64 step cannot complete, raw is returned unchanged.
func (d *Decoder) Clean(raw string) string {
	cleaned := d.removeTrashBlocks(raw)
	cleaned = markerPairPattern.ReplaceAllString(cleaned, "")
	cleaned = nonAlphabetPattern.ReplaceAllString(cleaned, "")
	if rem := len(cleaned) % 4; rem != 0 {
		cleaned += strings.Repeat("=", 4-rem)
	}

	decoded, ok := decodeBase64(cleaned)
	if !ok {
		return raw
	}
	return leftoverPattern.ReplaceAllString(decoded, "")
}

func (d *Decoder) removeTrashBlocks(s string) string {
	marker := d.opts.TrashMarker
	for {
		idx := strings.Index(s, marker)
		if idx < 0 {
			return s
		}
		after := s[idx+len(marker):]
		if loc := d.paddedRunExpr.FindStringIndex(after); loc != nil {
			s = s[:idx] + after[loc[1]:]
			continue
		}
		drop := min(d.opts.TrashRunLength, len(after))
		s = s[:idx] + after[drop:]
	}
}

// decodeBase64 decodes leniently: padding is ignored wherever it appears and a
// dangling sextet that cannot form a byte is discarded.
func decodeBase64(s string) (string, bool) {
	s = strings.ReplaceAll(s, "=", "")
	if len(s)%4 == 1 {
		s = s[:len(s)-1]
	}
	if s == "" {
		return "", false
	}
	out, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// ParseStreams splits a decoded payload on commas and keeps every
// "[quality]url" token. A non-empty payload without any token becomes a single
// "unknown" stream.
func ParseStreams(decoded string) []models.QualityStream {
	var streams []models.QualityStream
	for _, part := range strings.Split(decoded, ",") {
		m := streamTokenPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		quality := strings.TrimSpace(m[1])
		if quality == "" {
			quality = models.QualityUnknown
		}
		streams = append(streams, models.QualityStream{Quality: quality, URL: strings.TrimSpace(m[2])})
	}

	cleaned := strings.TrimSpace(decoded)
	if len(streams) == 0 && cleaned != "" {
		streams = append(streams, models.QualityStream{Quality: models.QualityUnknown, URL: cleaned})
	}
	return streams
}

// SelectBest walks models.QualityPriority and returns the first quality present,
// falling back to the first stream. It returns nil for an empty list.
func SelectBest(streams []models.QualityStream) *models.QualityStream {
	if len(streams) == 0 {
		return nil
	}
	for _, quality := range models.QualityPriority {
		for i := range streams {
			if streams[i].Quality == quality {
				s := streams[i]
				return &s
			}
		}
	}
	s := streams[0]
	return &s
}

var doubleSlashPattern = regexp.MustCompile(`([^:/])/{2,}`)

// NormalizeURL collapses doubled path separators that are not part of the
// scheme and trims surrounding whitespace.
func NormalizeURL(u string) string {
	return strings.TrimSpace(doubleSlashPattern.ReplaceAllString(u, "$1/"))
}
