// Package resolver turns a (media, translation, season, episode) selection into
// a playable stream URL, probing the site repeatedly for the best quality.
package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/pascal91DA/rezka-grabber/internal/apperrors"
	"github.com/pascal91DA/rezka-grabber/internal/client"
	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/decoder"
	"github.com/pascal91DA/rezka-grabber/internal/metrics"
	"github.com/pascal91DA/rezka-grabber/internal/models"
)

// ProgressFunc is called after every attempt. quality is "" when the attempt
// produced no stream.
type ProgressFunc func(attempt, maxAttempts int, quality string)

// Options configures a Resolver.
type Options struct {
	// MaxAttempts is used when a Request does not set its own.
	MaxAttempts int
	// RetryDelay is the pause between attempts. Zero disables it.
	RetryDelay time.Duration
	// Origin is the site origin used when the media URL carries none.
	Origin  string
	Decoder decoder.Options
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{
		MaxAttempts: config.DefaultMaxAttempts,
		RetryDelay:  config.DefaultRetryDelay,
		Origin:      config.DefaultDomain,
		Decoder:     decoder.DefaultOptions(),
	}
}

// OptionsFromConfig reads the resolver section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.Resolver.MaxAttempts > 0 {
		opts.MaxAttempts = cfg.Resolver.MaxAttempts
	}
	opts.RetryDelay = config.Duration(cfg.Resolver.RetryDelay, config.DefaultRetryDelay)
	opts.Origin = cfg.Domain()
	return opts
}

// Request is one resolve call.
type Request struct {
	Media          models.MediaReference
	TranslationID  string
	TranslatorSlug string
	SeasonID       string
	EpisodeID      string
	// MaxAttempts overrides Options.MaxAttempts when positive.
	MaxAttempts int
	// Session carries headers and cookies for this call. A fresh one is
	// created when nil.
	Session    *Session
	OnProgress ProgressFunc
}

// Resolver is the stream resolution controller. It holds no per-call state and
// is safe for concurrent use.
type Resolver struct {
	fetcher client.Fetcher
	decoder *decoder.Decoder
	opts    Options
}

// New creates a Resolver fetching through fetcher.
func New(fetcher client.Fetcher, opts Options) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		decoder: decoder.New(opts.Decoder),
		opts:    opts,
	}
}

// Resolve probes the site up to the attempt limit and returns the best stream
// seen. It stops early once a top quality shows up or the site answers 503.
// A *apperrors.ResolutionError is returned when no attempt produced a stream.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*models.ResolutionResult, error) {
	logger := config.GetLogger()

	maxAttempts := r.maxAttempts(req)
	session := req.Session
	if session == nil {
		session = NewSession(nil, nil)
	}

	var (
		best     *models.ResolutionResult
		attempts int
		lastErr  error
	)

	probe := func() (*attempt, error) {
		attempts++
		a, err := r.fetchOnce(ctx, req, session)
		quality := a.quality()

		outcome := metrics.OutcomeNoGain
		switch {
		case err != nil:
			lastErr = err
			outcome = metrics.OutcomeError
			if apperrors.IsServiceUnavailable(err) {
				outcome = metrics.OutcomeAborted
			}
			logger.Warn().Err(err).Int("attempt", attempts).Int("maxAttempts", maxAttempts).Msg("Resolution attempt failed")
		case quality == "":
			logger.Info().Int("attempt", attempts).Int("maxAttempts", maxAttempts).Msg("Resolution attempt found no stream")
		default:
			if best == nil || models.BetterQuality(quality, best.Quality) {
				best = newResult(a, attempts)
				outcome = metrics.OutcomeImproved
			}
			if models.IsTopQuality(quality) {
				outcome = metrics.OutcomeTop
			}
			logger.Info().
				Int("attempt", attempts).
				Int("maxAttempts", maxAttempts).
				Str("strategy", a.strategy.String()).
				Str("quality", quality).
				Str("best", best.Quality).
				Msg("Resolution attempt finished")
		}

		strategy := SlugPage
		if a != nil {
			strategy = a.strategy
		}
		metrics.ResolutionAttemptsTotal.WithLabelValues(strategy.String(), outcome).Inc()

		if req.OnProgress != nil {
			req.OnProgress(attempts, maxAttempts, quality)
		}
		return a, err
	}

	builder := retrypolicy.NewBuilder[*attempt]().
		HandleIf(func(a *attempt, err error) bool {
			return err != nil || !models.IsTopQuality(a.quality())
		}).
		AbortIf(func(_ *attempt, err error) bool {
			return apperrors.IsServiceUnavailable(err)
		}).
		WithMaxAttempts(maxAttempts)
	if r.opts.RetryDelay > 0 {
		builder = builder.WithDelay(r.opts.RetryDelay)
	}

	_, execErr := failsafe.With[*attempt](builder.Build()).WithContext(ctx).Get(probe)
	if execErr != nil {
		logger.Debug().Err(execErr).Int("attempts", attempts).Msg("Retry loop ended with error")
	}

	if best != nil {
		best.Attempts = attempts
		status := metrics.StatusPartial
		if models.IsTopQuality(best.Quality) {
			status = metrics.StatusSuccess
		}
		metrics.ResolutionsTotal.WithLabelValues(status).Inc()
		metrics.ResolvedQualityTotal.WithLabelValues(metrics.QualityLabel(best.Quality)).Inc()
		logger.Info().
			Str("mediaId", req.Media.ID).
			Str("translationId", req.TranslationID).
			Str("quality", best.Quality).
			Int("attempts", attempts).
			Int("foundAt", best.FoundAt).
			Msg("Stream resolved")
		return best, nil
	}

	if err := ctx.Err(); err != nil {
		metrics.ResolutionsTotal.WithLabelValues(metrics.StatusCancelled).Inc()
		return nil, err
	}

	reason := "exhausted attempts"
	if apperrors.IsServiceUnavailable(lastErr) {
		reason = "service unavailable"
	}
	metrics.ResolutionsTotal.WithLabelValues(metrics.StatusFailed).Inc()
	resErr := &apperrors.ResolutionError{
		MediaID:       req.Media.ID,
		TranslationID: req.TranslationID,
		SeasonID:      req.SeasonID,
		EpisodeID:     req.EpisodeID,
		Attempts:      attempts,
		Reason:        reason,
		Err:           lastErr,
	}
	logger.Error().Err(resErr).Msg("Stream resolution failed")
	return nil, resErr
}

// fetchOnce runs the strategies of req in order and returns the first success.
func (r *Resolver) fetchOnce(ctx context.Context, req Request, session *Session) (*attempt, error) {
	logger := config.GetLogger()

	var lastErr error
	for _, strategy := range Strategies(req) {
		var (
			a   *attempt
			err error
		)
		switch strategy {
		case DirectQuery:
			a, err = r.queryDirect(ctx, req, session)
		case SlugPage:
			a, err = r.fetchSlugPage(ctx, req, session)
		}
		if err == nil {
			return a, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		lastErr = err

		if strategy == DirectQuery {
			var rejected *apperrors.BackendRejectedError
			logger.Debug().
				Err(err).
				Bool("rejected", errors.As(err, &rejected)).
				Msg("Direct stream query failed, falling back to slug page")
			metrics.ResolutionAttemptsTotal.WithLabelValues(DirectQuery.String(), metrics.OutcomeFallback).Inc()
		}
	}
	return nil, lastErr
}

func (r *Resolver) maxAttempts(req Request) int {
	switch {
	case req.MaxAttempts > 0:
		return req.MaxAttempts
	case r.opts.MaxAttempts > 0:
		return r.opts.MaxAttempts
	default:
		return 1
	}
}

func (r *Resolver) origin(req Request) string {
	if origin := originOf(req.Media.URL); origin != "" {
		return origin
	}
	if r.opts.Origin != "" {
		return r.opts.Origin
	}
	return config.DefaultDomain
}

func newResult(a *attempt, attemptNo int) *models.ResolutionResult {
	return &models.ResolutionResult{
		URL:       decoder.NormalizeURL(a.info.Selected.URL),
		Quality:   a.info.Selected.Quality,
		FoundAt:   attemptNo,
		Strategy:  a.strategy.String(),
		Streams:   a.info.Streams,
		Subtitles: a.subtitles,
	}
}
