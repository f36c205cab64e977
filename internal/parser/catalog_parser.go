package parser

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/models"
)

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// CatalogParser parses catalog listing pages (the "new", "films", "series"...
// sections) into catalog items.
type CatalogParser struct {
	baseURL string
}

// NewCatalogParser creates a catalog parser resolving relative links against baseURL
func NewCatalogParser(baseURL string) Parser[models.CatalogItem] {
	return &CatalogParser{baseURL: strings.TrimRight(baseURL, "/")}
}

// ParseHtml parses the catalog cards of a listing page
func (p *CatalogParser) ParseHtml(body io.Reader) ([]models.CatalogItem, error) {
	logger := config.GetLogger()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse catalog HTML")
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	items := []models.CatalogItem{}
	doc.Find(".b-content__inline_item[data-url]").Each(func(i int, card *goquery.Selection) {
		dataURL := strings.TrimSpace(card.AttrOr("data-url", ""))
		title := ""
		card.Find(".b-content__inline_item-link a, .b-content__inline_item-2 a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			title = strings.TrimSpace(a.Text())
			return title == ""
		})
		if dataURL == "" || title == "" {
			logger.Debug().Int("index", i).Str("dataUrl", dataURL).Msg("Skipping catalog card without link or title")
			return
		}

		item := models.CatalogItem{
			ID:    lastPathSegment(dataURL),
			Title: title,
			URL:   p.absoluteURL(dataURL),
		}
		if src, ok := card.Find("img").First().Attr("src"); ok && src != "" {
			item.PosterURL = absoluteProtocol(src)
		}
		if misc := card.Find(".misc").First(); misc.Length() > 0 {
			item.Description = strings.TrimSpace(misc.Text())
			if m := yearPattern.FindStringSubmatch(item.Description); m != nil {
				item.Year = m[1]
			}
		}
		item.ContentType = strings.TrimSpace(card.Find(".entity").First().Text())
		item.Rating = strings.TrimSpace(card.Find(".b-category-bestrating").First().Text())

		items = append(items, item)
	})

	logger.Debug().Int("count", len(items)).Msg("Parsed catalog page")
	return items, nil
}

func (p *CatalogParser) absoluteURL(href string) string {
	return resolveURL(p.baseURL, href)
}

func resolveURL(baseURL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base, err := url.Parse(baseURL + "/")
	if err != nil {
		return baseURL + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return baseURL + href
	}
	return base.ResolveReference(ref).String()
}

func lastPathSegment(u string) string {
	parts := strings.Split(strings.Trim(u, "/"), "/")
	return parts[len(parts)-1]
}

// CatalogURL builds the listing URL of a category page. Pages start at 1.
func CatalogURL(baseURL string, category models.Category, page int) string {
	base := strings.TrimRight(baseURL, "/")
	query := "?filter=" + url.QueryEscape(category.Filter)
	if page <= 1 {
		return fmt.Sprintf("%s/%s/%s", base, category.BasePath, query)
	}
	return fmt.Sprintf("%s/%s/page/%d/%s", base, category.BasePath, page, query)
}
