package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/models"
	"github.com/pascal91DA/rezka-grabber/internal/parser"
)

const mediaPageKeyPrefix = "page:"

// GetMediaPage fetches and scrapes a media landing page. Scraped pages are
// cached by URL without their stream payload, whose links are short lived.
func (c *client) GetMediaPage(ctx context.Context, pageURL string) (*models.MediaPage, error) {
	logger := config.GetLogger()
	key := mediaPageKeyPrefix + pageURL

	if c.pageCache != nil {
		if data, ok := c.pageCache.Get(key); ok {
			var page models.MediaPage
			if err := json.Unmarshal(data, &page); err == nil {
				logger.Debug().Str("url", pageURL).Msg("Media page served from cache")
				return &page, nil
			}
			logger.Warn().Str("url", pageURL).Msg("Discarding undecodable cached media page")
		}
	}

	resp, err := c.fetcher.Get(ctx, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media page: %w", err)
	}

	html, err := parser.ReadUTF8(bytes.NewReader(resp.Body), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode media page: %w", err)
	}

	page := parser.ScrapeMediaPage(html)
	page.URL = pageURL

	logger.Info().
		Str("url", pageURL).
		Str("mediaId", page.MediaID).
		Int("translations", len(page.Translations)).
		Int("episodes", len(page.Episodes)).
		Msg("Fetched media page")

	if c.pageCache != nil {
		cached := *page
		cached.StreamPayload = ""
		if data, err := json.Marshal(&cached); err == nil {
			c.pageCache.Set(key, data)
		}
	}

	return page, nil
}
