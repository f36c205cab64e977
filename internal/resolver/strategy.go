package resolver

import (
	"net/url"
	"strings"

	"github.com/pascal91DA/rezka-grabber/internal/models"
)

// Strategy is the way one attempt obtains a stream payload.
type Strategy int

const (
	// DirectQuery posts the ids to the site's CDN endpoint and reads JSON.
	DirectQuery Strategy = iota
	// SlugPage fetches a translator page built from the slug convention and
	// scrapes the payload embedded in it.
	SlugPage
)

func (s Strategy) String() string {
	switch s {
	case DirectQuery:
		return "direct_query"
	case SlugPage:
		return "slug_page"
	default:
		return "unknown"
	}
}

// Strategies returns the strategies an attempt tries for req, in order.
// DirectQuery needs both a media id and a translation id.
func Strategies(req Request) []Strategy {
	if req.Media.ID != "" && req.TranslationID != "" {
		return []Strategy{DirectQuery, SlugPage}
	}
	return []Strategy{SlugPage}
}

// SlugPageURL builds the translator specific page of the media:
//
//	{base}/{slug}/{season}-season/{episode}-episode.html
//	{base}/{slug}/{season}-season.html
//	{base}/{slug}.html
//
// where base is the media URL without ".html". Without a slug the bare media
// URL is returned.
func SlugPageURL(mediaURL, slug, seasonID, episodeID string) string {
	if slug == "" {
		return mediaURL
	}
	base := strings.TrimSuffix(strings.TrimRight(mediaURL, "/"), ".html")
	switch {
	case seasonID != "" && episodeID != "":
		return base + "/" + slug + "/" + seasonID + "-season/" + episodeID + "-episode.html"
	case seasonID != "":
		return base + "/" + slug + "/" + seasonID + "-season.html"
	default:
		return base + "/" + slug + ".html"
	}
}

// originOf returns scheme://host of rawURL, or "" when it has none.
func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// attempt is what one successful fetch produced.
type attempt struct {
	strategy  Strategy
	info      models.StreamInfo
	subtitles []models.SubtitleTrack
}

func (a *attempt) quality() string {
	if a == nil || a.info.Selected == nil {
		return ""
	}
	return a.info.Selected.Quality
}
