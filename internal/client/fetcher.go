package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pascal91DA/rezka-grabber/internal/apperrors"
	"github.com/pascal91DA/rezka-grabber/internal/config"
)

// maxBodySize caps how much of a response is read into memory.
const maxBodySize = 16 << 20

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Fetcher is the HTTP capability the scraping and resolution code depends on.
// Non-2xx responses are returned as *apperrors.HTTPStatusError.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, header http.Header) (*Response, error)
	PostForm(ctx context.Context, rawURL string, form url.Values, header http.Header) (*Response, error)
}

type httpFetcher struct {
	httpClient *http.Client
	defaults   http.Header
}

// NewFetcher creates a Fetcher with proxy, timeout, compression and the
// browser-like default headers taken from cfg.
func NewFetcher(cfg *config.Config) Fetcher {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.GetUserAgent()
	}
	defaults := http.Header{}
	defaults.Set("User-Agent", userAgent)
	acceptLanguage := cfg.AcceptLanguage
	if acceptLanguage == "" {
		acceptLanguage = config.DefaultAcceptLanguage
	}
	defaults.Set("Accept-Language", acceptLanguage)
	defaults.Set("Referer", cfg.Domain()+"/")

	return &httpFetcher{
		httpClient: NewHTTPClient(cfg),
		defaults:   defaults,
	}
}

// NewHTTPClient creates an http.Client with the configured timeout and proxy
// whose transport handles gzip, deflate, brotli and zstd responses.
func NewHTTPClient(cfg *config.Config) *http.Client {
	logger := config.GetLogger()

	timeout := 30 * time.Second
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			timeout = parsedTimeout
		}
	}

	// Clone DefaultTransport to keep its pooling, HTTP/2 and dial timeouts.
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: newCompressionTransport(baseTransport),
	}
}

func (f *httpFetcher) Get(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return f.do(req, header)
}

func (f *httpFetcher) PostForm(ctx context.Context, rawURL string, form url.Values, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	return f.do(req, header)
}

func (f *httpFetcher) do(req *http.Request, header http.Header) (*Response, error) {
	logger := config.GetLogger()

	for key, values := range f.defaults {
		req.Header[key] = append([]string(nil), values...)
	}
	for key, values := range header {
		req.Header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("Request failed")
		return nil, fmt.Errorf("failed to fetch %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", req.URL, err)
	}

	logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("Request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.HTTPStatusError{StatusCode: resp.StatusCode, URL: req.URL.String()}
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}
