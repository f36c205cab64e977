package testutil

import (
	"fmt"
	"html"
	"strings"
)

// TranslationOptions describes one entry of the translator selector
type TranslationOptions struct {
	ID    string
	Title string
	Slug  string // "56-dublyazh"; when set a season link carrying it is emitted
}

// EpisodeOptions describes one entry of the episode list
type EpisodeOptions struct {
	SeasonID string
	ID       string
	Title    string
}

// MediaPageOptions contains options for generating a media landing page
type MediaPageOptions struct {
	MediaID      string
	Title        string
	Translations []TranslationOptions
	// HideTranslatorList omits #translators-list, as on single-translation pages
	HideTranslatorList bool
	Seasons            []string // season ids, titled "Сезон <id>"
	Episodes           []EpisodeOptions
	// StreamPayload is written verbatim into the inline player initializer
	StreamPayload string
	Subtitle      string
	SubtitleLangs string // raw JSON object, e.g. {"Русский":"ru"}
}

// GenerateMediaPageHTML generates a media page with the structure of the site's
// film and series pages
func GenerateMediaPageHTML(opts MediaPageOptions) string {
	var sb strings.Builder

	sb.WriteString("<html><head><meta charset=\"utf-8\"></head><body>\n")
	fmt.Fprintf(&sb, "<div class=\"b-post__title\"><h1>%s</h1></div>\n", html.EscapeString(opts.Title))
	fmt.Fprintf(&sb, "<div class=\"b-userset__fav_holder\" data-id=\"%s\"></div>\n", opts.MediaID)

	if !opts.HideTranslatorList && len(opts.Translations) > 0 {
		sb.WriteString("<ul id=\"translators-list\" class=\"b-translators__list\">\n")
		for _, t := range opts.Translations {
			fmt.Fprintf(&sb, "  <li title=\"%s\" class=\"b-translator__item\" data-translator_id=\"%s\">%s</li>\n",
				html.EscapeString(t.Title), t.ID, html.EscapeString(t.Title))
		}
		sb.WriteString("</ul>\n")
	}
	for _, t := range opts.Translations {
		if t.Slug != "" {
			fmt.Fprintf(&sb, "<a class=\"b-translator__link\" href=\"/media/%s/%s/1-season.html\">%s</a>\n", opts.MediaID, t.Slug, html.EscapeString(t.Title))
		}
	}

	if len(opts.Seasons) > 0 {
		sb.WriteString("<ul id=\"simple-seasons-tabs\" class=\"b-simple_seasons__list\">\n")
		for _, id := range opts.Seasons {
			fmt.Fprintf(&sb, "  <li class=\"b-simple_season__item\" data-tab_id=\"%s\">Сезон %s</li>\n", id, id)
		}
		sb.WriteString("</ul>\n")
	}
	if len(opts.Episodes) > 0 {
		sb.WriteString("<div id=\"simple-episodes-tabs\"><ul>\n")
		for _, ep := range opts.Episodes {
			fmt.Fprintf(&sb, "  <li class=\"b-simple_episode__item\" data-id=\"%s\" data-season_id=\"%s\" data-episode_id=\"%s\">%s</li>\n",
				opts.MediaID, ep.SeasonID, ep.ID, html.EscapeString(ep.Title))
		}
		sb.WriteString("</ul></div>\n")
	}

	if opts.StreamPayload != "" {
		kind := "Movies"
		if len(opts.Episodes) > 0 {
			kind = "Series"
		}
		translatorID := "0"
		if len(opts.Translations) > 0 {
			translatorID = opts.Translations[0].ID
		}
		fmt.Fprintf(&sb, "<script>sof.tv.initCDN%sEvents(%s, %s, 0, 0, false, 'rezka.ag', false, {\"id\":\"cdnplayer\",\"streams\":\"%s\"",
			kind, opts.MediaID, translatorID, EscapeJSONSlashes(opts.StreamPayload))
		if opts.Subtitle != "" {
			fmt.Fprintf(&sb, ",\"subtitle\":\"%s\"", EscapeJSONSlashes(opts.Subtitle))
		}
		if opts.SubtitleLangs != "" {
			fmt.Fprintf(&sb, ",\"subtitle_lns\":%s", opts.SubtitleLangs)
		}
		sb.WriteString("});</script>\n")
	}

	sb.WriteString("</body></html>")
	return sb.String()
}

// CatalogCardOptions contains options for generating a catalog listing card
type CatalogCardOptions struct {
	Path        string // "/films/action/646-film.html"
	Title       string
	PosterSrc   string
	Misc        string // "2001, США, Боевик"
	ContentType string
	Rating      string
}

// GenerateCatalogHTML generates a catalog listing page holding the given cards
func GenerateCatalogHTML(cards []CatalogCardOptions) string {
	var sb strings.Builder

	sb.WriteString("<html><body><div class=\"b-content__inline_items\">\n")
	for _, c := range cards {
		fmt.Fprintf(&sb, "<div class=\"b-content__inline_item\" data-url=\"%s\">\n", c.Path)
		sb.WriteString("  <div class=\"b-content__inline_item-cover\">")
		fmt.Fprintf(&sb, "<a href=\"%s\">", c.Path)
		if c.PosterSrc != "" {
			fmt.Fprintf(&sb, "<img src=\"%s\">", c.PosterSrc)
		}
		sb.WriteString("</a>")
		if c.ContentType != "" {
			fmt.Fprintf(&sb, "<i class=\"entity\">%s</i>", html.EscapeString(c.ContentType))
		}
		if c.Rating != "" {
			fmt.Fprintf(&sb, "<span class=\"b-category-bestrating\">%s</span>", c.Rating)
		}
		sb.WriteString("</div>\n")
		fmt.Fprintf(&sb, "  <div class=\"b-content__inline_item-link\"><a href=\"%s\">%s</a><div class=\"misc\">%s</div></div>\n",
			c.Path, html.EscapeString(c.Title), html.EscapeString(c.Misc))
		sb.WriteString("</div>\n")
	}
	sb.WriteString("</div></body></html>")
	return sb.String()
}

// SearchEntryOptions contains options for generating a quick search result
type SearchEntryOptions struct {
	Path   string
	Title  string
	Meta   string // "Film, 2001"
	Rating string
}

// GenerateSearchHTML generates the HTML fragment returned by the quick search endpoint
func GenerateSearchHTML(entries []SearchEntryOptions) string {
	var sb strings.Builder

	sb.WriteString("<div class=\"b-search__section\"><ul class=\"b-search__section_list\">\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "<li><a href=\"%s\"><span class=\"enty\">%s</span>", e.Path, html.EscapeString(e.Title))
		if e.Meta != "" {
			fmt.Fprintf(&sb, " (%s)", html.EscapeString(e.Meta))
		}
		if e.Rating != "" {
			fmt.Fprintf(&sb, " <span class=\"rating\">%s</span>", e.Rating)
		}
		sb.WriteString("</a></li>\n")
	}
	sb.WriteString("</ul></div>")
	return sb.String()
}
