package resolver

import (
	"context"

	"github.com/pascal91DA/rezka-grabber/internal/apperrors"
	"github.com/pascal91DA/rezka-grabber/internal/models"
)

// RequestFor builds a Request for a scraped page. An empty translationID picks
// the first translation of the page; the slug is taken from the page.
func RequestFor(page *models.MediaPage, translationID, seasonID, episodeID string) Request {
	req := Request{
		Media:         page.Reference(),
		TranslationID: translationID,
		SeasonID:      seasonID,
		EpisodeID:     episodeID,
	}
	if req.TranslationID == "" && len(page.Translations) > 0 {
		req.TranslationID = page.Translations[0].ID
	}
	if t, ok := page.TranslationByID(req.TranslationID); ok {
		req.TranslatorSlug = t.Slug
	}
	return req
}

// NextRequest returns the request for the episode that follows req's episode in
// the page's document order. The returned request gets its own session.
func NextRequest(page *models.MediaPage, req Request) (Request, models.Episode, bool) {
	next, ok := page.NextEpisode(req.SeasonID, req.EpisodeID)
	if !ok {
		return Request{}, models.Episode{}, false
	}
	nextReq := req
	nextReq.SeasonID = next.SeasonID
	nextReq.EpisodeID = next.ID
	nextReq.Session = nil
	return nextReq, next, true
}

// ResolveNext resolves the episode following req's episode. It is meant for
// speculative preloading; the caller owns caching of the result.
func (r *Resolver) ResolveNext(ctx context.Context, page *models.MediaPage, req Request) (models.Episode, *models.ResolutionResult, error) {
	nextReq, next, ok := NextRequest(page, req)
	if !ok {
		return models.Episode{}, nil, apperrors.NewNotFoundError("next episode after", req.SeasonID+":"+req.EpisodeID)
	}
	result, err := r.Resolve(ctx, nextReq)
	if err != nil {
		return next, nil, err
	}
	return next, result, nil
}
