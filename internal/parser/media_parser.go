package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/models"
)

var (
	numericPattern       = regexp.MustCompile(`^\d+$`)
	translatorSlugInHref = regexp.MustCompile(`/(\d+)-([\w-]+)/\d+-season`)
	slugIDPrefix         = regexp.MustCompile(`^\d+-`)
	cdnInitializer       = regexp.MustCompile(`initCDN(?:Series|Movies)Events\(\s*(\d+)\s*,\s*(\d+)`)
	streamsValue         = regexp.MustCompile(`"streams"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	subtitleValue        = regexp.MustCompile(`"subtitle"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	subtitleLangsValue   = regexp.MustCompile(`"subtitle_lns"\s*:\s*(\{[^{}]*\})`)
)

// Labels of the info table row naming the single translation of a page.
var translationRowLabels = []string{"В переводе:", "In translation:"}

// MediaPageParser parses media landing pages.
type MediaPageParser struct{}

// NewMediaPageParser creates a new media page parser instance
func NewMediaPageParser() SingleResultParser[*models.MediaPage] {
	return &MediaPageParser{}
}

// ParseHtml reads a media page and scrapes it. Only a read failure is an error;
// missing sections yield empty results.
func (p *MediaPageParser) ParseHtml(body io.Reader) (*models.MediaPage, error) {
	html, err := ReadUTF8(body, "")
	if err != nil {
		return nil, fmt.Errorf("failed to read media page: %w", err)
	}
	return ScrapeMediaPage(html), nil
}

// ScrapeMediaPage extracts the media id, translations, seasons, episodes and the
// embedded stream payload from the HTML of a media page.
func ScrapeMediaPage(html string) *models.MediaPage {
	logger := config.GetLogger()

	page := &models.MediaPage{Translations: []models.Translation{}}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to parse media page HTML")
		return page
	}

	page.MediaID = scrapeMediaID(doc)
	page.Title = strings.TrimSpace(doc.Find(".b-post__title h1").First().Text())
	page.OriginalTitle = strings.TrimSpace(doc.Find(".b-post__origtitle").First().Text())
	page.Description = strings.TrimSpace(doc.Find(".b-post__description_text").First().Text())
	if src, ok := doc.Find(".b-sidecover img").First().Attr("src"); ok {
		page.PosterURL = absoluteProtocol(src)
	}

	slugs := scrapeTranslatorSlugs(doc)
	page.Translations = scrapeTranslations(doc, html, slugs)
	page.Seasons = scrapeSeasons(doc)
	page.Episodes = scrapeEpisodes(doc)

	if payload, ok := ExtractStreamPayload(html); ok {
		page.StreamPayload = payload
	}

	logger.Debug().
		Str("mediaId", page.MediaID).
		Int("translations", len(page.Translations)).
		Int("seasons", len(page.Seasons)).
		Int("episodes", len(page.Episodes)).
		Bool("hasPayload", page.StreamPayload != "").
		Msg("Scraped media page")

	return page
}

// ScrapeTranslatorSlugs maps translator ids to the "<id>-<words>" path segment
// found in season links, e.g. "56" -> "56-dublyazh".
func ScrapeTranslatorSlugs(html string) map[string]string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return map[string]string{}
	}
	return scrapeTranslatorSlugs(doc)
}

// ExtractStreamPayload returns the unescaped "streams" value of the inline
// player initializer. The second value is false when the page has none.
func ExtractStreamPayload(html string) (string, bool) {
	m := streamsValue.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return unescapeJSONString(m[1]), true
}

// ExtractSubtitles returns the subtitle tracks declared next to the stream
// payload in the inline player initializer, if any.
func ExtractSubtitles(html string) []models.SubtitleTrack {
	m := subtitleValue.FindStringSubmatch(html)
	if m == nil {
		return nil
	}
	var langs map[string]string
	if lm := subtitleLangsValue.FindStringSubmatch(html); lm != nil {
		if err := json.Unmarshal([]byte(lm[1]), &langs); err != nil {
			logger := config.GetLogger()
			logger.Debug().Err(err).Msg("Ignoring malformed subtitle_lns object")
		}
	}
	return ParseSubtitleTracks(unescapeJSONString(m[1]), langs)
}

func unescapeJSONString(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err == nil {
		return out
	}
	return strings.ReplaceAll(s, `\/`, "/")
}

func scrapeMediaID(doc *goquery.Document) string {
	id := ""
	doc.Find("[data-id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		value := strings.TrimSpace(s.AttrOr("data-id", ""))
		if numericPattern.MatchString(value) {
			id = value
			return false
		}
		return true
	})
	return id
}

func scrapeTranslatorSlugs(doc *goquery.Document) map[string]string {
	slugs := make(map[string]string)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		for _, m := range translatorSlugInHref.FindAllStringSubmatch(href, -1) {
			slugs[m[1]] = m[1] + "-" + m[2]
		}
	})
	return slugs
}

func scrapeTranslations(doc *goquery.Document, html string, slugs map[string]string) []models.Translation {
	logger := config.GetLogger()
	translations := []models.Translation{}

	container := doc.Find("#translators-list")
	if container.Length() > 0 {
		seen := make(map[string]bool)
		container.Find("[data-translator_id]").Each(func(_ int, s *goquery.Selection) {
			id := strings.TrimSpace(s.AttrOr("data-translator_id", ""))
			if !numericPattern.MatchString(id) || seen[id] {
				return
			}
			seen[id] = true
			title := strings.TrimSpace(s.AttrOr("title", ""))
			if title == "" {
				title = syntheticTranslationTitle(id)
			}
			translations = append(translations, models.Translation{ID: id, Title: title, Slug: slugs[id]})
		})
		fillSoleSlug(translations, slugs)
		logger.Debug().Int("count", len(translations)).Msg("Found translations in selector")
		return translations
	}

	id := ""
	if m := cdnInitializer.FindStringSubmatch(html); m != nil {
		id = m[2]
	} else if len(slugs) == 1 {
		for key := range slugs {
			id = key
		}
	}
	if id == "" {
		return translations
	}

	title := singleTranslationTitle(doc)
	if title == "" {
		if slug := slugs[id]; slug != "" {
			title = slugIDPrefix.ReplaceAllString(slug, "")
		}
	}
	if title == "" {
		title = syntheticTranslationTitle(id)
	}

	translations = append(translations, models.Translation{ID: id, Title: title, Slug: slugs[id]})
	fillSoleSlug(translations, slugs)

	single := translations[0]
	logger.Debug().Str("id", single.ID).Str("title", single.Title).Str("slug", single.Slug).Msg("Recovered single translation without selector")
	return translations
}

// fillSoleSlug gives a lone slugless translation the only slug on the page.
func fillSoleSlug(translations []models.Translation, slugs map[string]string) {
	if len(translations) != 1 || translations[0].Slug != "" || len(slugs) != 1 {
		return
	}
	for _, slug := range slugs {
		translations[0].Slug = slug
	}
}

func singleTranslationTitle(doc *goquery.Document) string {
	title := ""
	doc.Find(".b-post__info tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		text := strings.Join(strings.Fields(row.Text()), " ")
		for _, label := range translationRowLabels {
			if idx := strings.Index(text, label); idx >= 0 {
				title = strings.TrimSpace(text[idx+len(label):])
				return false
			}
		}
		return true
	})
	return title
}

func syntheticTranslationTitle(id string) string {
	return "Translation " + id
}

func scrapeSeasons(doc *goquery.Document) []models.Season {
	var seasons []models.Season
	doc.Find("#simple-seasons-tabs [data-tab_id]").Each(func(_ int, s *goquery.Selection) {
		id := strings.TrimSpace(s.AttrOr("data-tab_id", ""))
		if !numericPattern.MatchString(id) {
			return
		}
		seasons = append(seasons, models.Season{ID: id, Title: strings.TrimSpace(s.Text())})
	})
	return seasons
}

func scrapeEpisodes(doc *goquery.Document) []models.Episode {
	var episodes []models.Episode
	doc.Find("#simple-episodes-tabs [data-season_id][data-episode_id]").Each(func(_ int, s *goquery.Selection) {
		seasonID := strings.TrimSpace(s.AttrOr("data-season_id", ""))
		episodeID := strings.TrimSpace(s.AttrOr("data-episode_id", ""))
		if !numericPattern.MatchString(seasonID) || !numericPattern.MatchString(episodeID) {
			return
		}
		episodes = append(episodes, models.Episode{
			ID:       episodeID,
			Title:    strings.TrimSpace(s.Text()),
			SeasonID: seasonID,
		})
	})
	return episodes
}

func absoluteProtocol(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}
