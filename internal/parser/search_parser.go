package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/models"
)

var (
	ratingPattern     = regexp.MustCompile(`\d+(?:\.\d+)?`)
	parenthesizedMeta = regexp.MustCompile(`\(([^)]*)\)`)
)

// SearchParser parses the quick search dropdown returned by the AJAX search endpoint.
type SearchParser struct {
	baseURL string
}

// NewSearchParser creates a search result parser resolving relative links against baseURL
func NewSearchParser(baseURL string) Parser[models.CatalogItem] {
	return &SearchParser{baseURL: strings.TrimRight(baseURL, "/")}
}

// ParseHtml parses search results. Each entry looks like
// <li><a href="..."><span class="enty">Title</span> (Original, 2020) <span class="rating">7.5</span></a></li>
func (p *SearchParser) ParseHtml(body io.Reader) ([]models.CatalogItem, error) {
	logger := config.GetLogger()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse search HTML")
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	items := []models.CatalogItem{}
	doc.Find(".b-search__section_list li").Each(func(i int, li *goquery.Selection) {
		link := li.Find("a[href]").First()
		href := strings.TrimSpace(link.AttrOr("href", ""))
		title := strings.TrimSpace(li.Find("span.enty").First().Text())
		if href == "" || title == "" {
			logger.Debug().Int("index", i).Msg("Skipping search entry without link or title")
			return
		}

		item := models.CatalogItem{
			ID:    lastPathSegment(href),
			Title: title,
			URL:   resolveURL(p.baseURL, href),
		}

		rating := li.Find("span.rating").First()
		item.Rating = ratingPattern.FindString(rating.Text())

		// The free text between the title and the rating holds "(original title, year)".
		meta := link.Clone()
		meta.Find("span.enty, span.rating").Remove()
		if m := parenthesizedMeta.FindStringSubmatch(meta.Text()); m != nil {
			item.Description = strings.TrimSpace(m[1])
			if y := yearPattern.FindAllString(item.Description, -1); len(y) > 0 {
				item.Year = y[len(y)-1]
			}
		}

		items = append(items, item)
	})

	logger.Debug().Int("count", len(items)).Msg("Parsed search results")
	return items, nil
}
