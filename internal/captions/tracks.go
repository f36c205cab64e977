package captions

import (
	"strings"

	"github.com/pascal91DA/rezka-grabber/internal/models"
)

// Words marking a translation that is shown as subtitles rather than a dub.
var subtitledTranslationMarkers = []string{"субтитр", "subtitle"}

// SelectTrack picks the track to enable for a freshly resolved stream.
//
// A track whose title equals previousTitle wins, so switching episodes keeps
// the viewer's choice. Otherwise the first track is picked when the translation
// itself is a subtitled one. The second value is false when nothing should be
// enabled.
func SelectTrack(tracks []models.SubtitleTrack, previousTitle, translationTitle string) (int, bool) {
	if len(tracks) == 0 {
		return -1, false
	}
	if previousTitle != "" {
		for i, track := range tracks {
			if track.Title == previousTitle {
				return i, true
			}
		}
	}
	lower := strings.ToLower(translationTitle)
	for _, marker := range subtitledTranslationMarkers {
		if strings.Contains(lower, marker) {
			return 0, true
		}
	}
	return -1, false
}
