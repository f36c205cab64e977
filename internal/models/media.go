package models

// MediaReference identifies a media item on the site: the numeric id string and
// its canonical page URL.
type MediaReference struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Translation is a dub or localization offered for a media item.
type Translation struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug,omitempty"` // e.g. "56-dublyazh"
}

// Season is an entry of the season tab list.
type Season struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Episode is an entry of the episode list, tagged with the season it belongs to.
type Episode struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	SeasonID string `json:"seasonId"`
}

// MediaPage is everything scraped from a media landing page.
// Seasons and Episodes are nil for pages without the corresponding section.
type MediaPage struct {
	MediaID       string        `json:"mediaId"`
	URL           string        `json:"url,omitempty"`
	Title         string        `json:"title,omitempty"`
	OriginalTitle string        `json:"originalTitle,omitempty"`
	PosterURL     string        `json:"posterUrl,omitempty"`
	Description   string        `json:"description,omitempty"`
	Translations  []Translation `json:"translations"`
	Seasons       []Season      `json:"seasons,omitempty"`
	Episodes      []Episode     `json:"episodes,omitempty"`
	// StreamPayload is the raw embedded payload of the default translation, if any.
	StreamPayload string `json:"streamPayload,omitempty"`
}

// Reference returns the MediaReference of the page.
func (p *MediaPage) Reference() MediaReference {
	return MediaReference{ID: p.MediaID, URL: p.URL}
}

// IsSeries reports whether the page lists episodes.
func (p *MediaPage) IsSeries() bool {
	return len(p.Episodes) > 0
}

// TranslationByID returns the translation with the given id.
func (p *MediaPage) TranslationByID(id string) (Translation, bool) {
	for _, t := range p.Translations {
		if t.ID == id {
			return t, true
		}
	}
	return Translation{}, false
}

// SeasonByID returns the season with the given id.
func (p *MediaPage) SeasonByID(id string) (Season, bool) {
	for _, s := range p.Seasons {
		if s.ID == id {
			return s, true
		}
	}
	return Season{}, false
}

// NextEpisode returns the episode following (seasonID, episodeID) in document
// order. The second value is false when the current episode is unknown or last.
func (p *MediaPage) NextEpisode(seasonID, episodeID string) (Episode, bool) {
	for i, ep := range p.Episodes {
		if ep.ID == episodeID && ep.SeasonID == seasonID {
			if i+1 < len(p.Episodes) {
				return p.Episodes[i+1], true
			}
			return Episode{}, false
		}
	}
	return Episode{}, false
}

// FirstEpisode returns the first episode of a season in document order.
func (p *MediaPage) FirstEpisode(seasonID string) (Episode, bool) {
	for _, ep := range p.Episodes {
		if ep.SeasonID == seasonID {
			return ep, true
		}
	}
	return Episode{}, false
}
