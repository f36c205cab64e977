package client

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/models"
	"github.com/pascal91DA/rezka-grabber/internal/parser"
)

// Catalog fetches one page of a category listing. Pages start at 1.
func (c *client) Catalog(ctx context.Context, category models.Category, page int) ([]models.CatalogItem, error) {
	logger := config.GetLogger()

	listingURL := parser.CatalogURL(c.baseURL, category, page)
	resp, err := c.fetcher.Get(ctx, listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog %s/%s: %w", category.BasePath, category.Filter, err)
	}

	html, err := parser.ReadUTF8(bytes.NewReader(resp.Body), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog page: %w", err)
	}

	items, err := c.catalogParser.ParseHtml(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("category", category.Label).
		Int("page", page).
		Int("items", len(items)).
		Msg("Fetched catalog page")
	return items, nil
}
