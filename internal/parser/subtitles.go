package parser

import (
	"regexp"
	"strings"

	"github.com/pascal91DA/rezka-grabber/internal/models"
	"golang.org/x/text/language"
)

var subtitleTokenPattern = regexp.MustCompile(`^\[([^\]]+)\](https?://\S+)$`)

// Codes the site uses that are not ISO 639.
var languageAliases = map[string]string{
	"ua": "uk",
}

// ParseSubtitleTracks parses "[Title]url,[Title2]url2" into tracks. langs maps
// track titles to language codes and may be nil.
func ParseSubtitleTracks(raw string, langs map[string]string) []models.SubtitleTrack {
	var tracks []models.SubtitleTrack
	for _, part := range strings.Split(raw, ",") {
		m := subtitleTokenPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		tracks = append(tracks, models.SubtitleTrack{
			Title:    title,
			URL:      m[2],
			Language: NormalizeLanguage(langs[title]),
		})
	}
	return tracks
}

// NormalizeLanguage converts a language code to its ISO 639-1 form when one
// exists ("rus" -> "ru", "ua" -> "uk"). Unknown codes yield "".
func NormalizeLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if alias, ok := languageAliases[code]; ok {
		code = alias
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	return base.String()
}
