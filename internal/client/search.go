package client

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/models"
)

// Search queries the quick search endpoint. An empty query returns no results
// without a request.
func (c *client) Search(ctx context.Context, query string) ([]models.CatalogItem, error) {
	logger := config.GetLogger()

	query = strings.TrimSpace(query)
	if query == "" {
		return []models.CatalogItem{}, nil
	}

	endpoint := c.baseURL + "/engine/ajax/search.php"
	resp, err := c.fetcher.PostForm(ctx, endpoint, url.Values{"q": {query}}, ajaxHeader())
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	items, err := c.searchParser.ParseHtml(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}

	logger.Info().Str("query", query).Int("results", len(items)).Msg("Search completed")
	return items, nil
}
