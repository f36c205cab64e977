package client

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pascal91DA/rezka-grabber/internal/captions"
	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/models"
	"github.com/pascal91DA/rezka-grabber/internal/parser"
)

// FetchCues downloads a caption track and parses it into cues.
func (c *client) FetchCues(ctx context.Context, trackURL string) ([]models.Cue, error) {
	logger := config.GetLogger()

	resp, err := c.fetcher.Get(ctx, trackURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch caption track: %w", err)
	}

	text, err := parser.ReadUTF8(bytes.NewReader(resp.Body), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode caption track: %w", err)
	}

	cues := captions.ParseCueDocument(text)
	logger.Debug().Str("url", trackURL).Int("cues", len(cues)).Msg("Parsed caption track")
	return cues, nil
}
