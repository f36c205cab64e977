package resolver

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pascal91DA/rezka-grabber/internal/apperrors"
	"github.com/pascal91DA/rezka-grabber/internal/parser"
)

func (r *Resolver) fetchSlugPage(ctx context.Context, req Request, session *Session) (*attempt, error) {
	pageURL := SlugPageURL(req.Media.URL, req.TranslatorSlug, req.SeasonID, req.EpisodeID)
	if pageURL == "" {
		return nil, fmt.Errorf("media %q has no page URL", req.Media.ID)
	}

	resp, err := r.fetcher.Get(ctx, pageURL, session.requestHeader(nil))
	if err != nil {
		return nil, err
	}
	session.remember(resp.Header)

	html, err := parser.ReadUTF8(bytes.NewReader(resp.Body), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", pageURL, err)
	}

	payload, ok := parser.ExtractStreamPayload(html)
	if !ok {
		return nil, apperrors.NewStreamPayloadNotFoundError(pageURL)
	}

	return &attempt{
		strategy:  SlugPage,
		info:      r.decoder.Decode(payload),
		subtitles: parser.ExtractSubtitles(html),
	}, nil
}
