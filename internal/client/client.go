package client

import (
	"context"
	"net/http"

	"github.com/pascal91DA/rezka-grabber/internal/cache"
	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/models"
	"github.com/pascal91DA/rezka-grabber/internal/parser"
)

// Client defines the interface for browsing the site: media pages, catalog
// listings, search and caption documents. Stream resolution lives in the
// resolver package and only shares the Fetcher.
type Client interface {
	GetMediaPage(ctx context.Context, pageURL string) (*models.MediaPage, error)
	Search(ctx context.Context, query string) ([]models.CatalogItem, error)
	Catalog(ctx context.Context, category models.Category, page int) ([]models.CatalogItem, error)
	FetchCues(ctx context.Context, trackURL string) ([]models.Cue, error)

	// Fetcher returns the HTTP capability used by the client.
	Fetcher() Fetcher
	// Domain returns the site origin, e.g. "https://rezka.ag".
	Domain() string

	// Close releases any resources held by the client (e.g., cache connections).
	Close() error
}

// client implements the Client interface
type client struct {
	fetcher       Fetcher
	baseURL       string
	pageCache     cache.Cache
	catalogParser parser.Parser[models.CatalogItem]
	searchParser  parser.Parser[models.CatalogItem]
}

// NewClient creates a client for cfg. pageCache may be nil to disable caching
// of scraped media pages.
func NewClient(cfg *config.Config, pageCache cache.Cache) Client {
	return NewClientWithFetcher(cfg, NewFetcher(cfg), pageCache)
}

// NewClientWithFetcher creates a client on top of an existing Fetcher.
func NewClientWithFetcher(cfg *config.Config, fetcher Fetcher, pageCache cache.Cache) Client {
	baseURL := cfg.Domain()
	return &client{
		fetcher:       fetcher,
		baseURL:       baseURL,
		pageCache:     pageCache,
		catalogParser: parser.NewCatalogParser(baseURL),
		searchParser:  parser.NewSearchParser(baseURL),
	}
}

func (c *client) Fetcher() Fetcher {
	return c.fetcher
}

func (c *client) Domain() string {
	return c.baseURL
}

// Close releases any resources held by the client, such as cache connections.
func (c *client) Close() error {
	if c.pageCache == nil {
		return nil
	}
	return c.pageCache.Close()
}

func ajaxHeader() http.Header {
	h := http.Header{}
	h.Set("X-Requested-With", "XMLHttpRequest")
	return h
}
