package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pascal91DA/rezka-grabber/internal/apperrors"
	"github.com/pascal91DA/rezka-grabber/internal/parser"
)

const cdnQueryPath = "/ajax/get_cdn_series/"

// cdnResponse is the JSON answer of the CDN endpoint. Several fields are the
// literal false instead of an empty value.
type cdnResponse struct {
	Success       bool         `json:"success"`
	Message       string       `json:"message"`
	URL           falsyString  `json:"url"`
	Quality       falsyString  `json:"quality"`
	Subtitle      falsyString  `json:"subtitle"`
	SubtitleLangs falsyStrings `json:"subtitle_lns"`
}

// falsyString decodes a JSON string, treating false, null and non-string
// values as "".
type falsyString string

func (s *falsyString) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = falsyString(v)
	return nil
}

// falsyStrings decodes a JSON object of strings, treating anything else as empty.
type falsyStrings map[string]string

func (m *falsyStrings) UnmarshalJSON(data []byte) error {
	var v map[string]string
	if err := json.Unmarshal(data, &v); err != nil {
		*m = nil
		return nil
	}
	*m = v
	return nil
}

// cdnQueryForm builds the form of the CDN query. Season and episode are only
// sent together and switch the action to a single episode stream.
func cdnQueryForm(req Request) url.Values {
	form := url.Values{}
	form.Set("id", req.Media.ID)
	form.Set("translator_id", req.TranslationID)
	if req.SeasonID != "" && req.EpisodeID != "" {
		form.Set("season", req.SeasonID)
		form.Set("episode", req.EpisodeID)
		form.Set("action", "get_stream")
	} else {
		form.Set("action", "get_movie")
	}
	return form
}

// parseCDNResponse turns the CDN answer into an attempt. A success=false answer
// or one without a usable stream is a BackendRejectedError.
func (r *Resolver) parseCDNResponse(req Request, body []byte) (*attempt, error) {
	var payload cdnResponse
	if err := json.Unmarshal(bytes.TrimSpace(body), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode stream query response: %w", err)
	}
	if !payload.Success {
		return nil, &apperrors.BackendRejectedError{
			MediaID:       req.Media.ID,
			TranslationID: req.TranslationID,
			Message:       payload.Message,
		}
	}

	info := r.decoder.Decode(string(payload.URL))
	if info.Selected == nil {
		return nil, &apperrors.BackendRejectedError{
			MediaID:       req.Media.ID,
			TranslationID: req.TranslationID,
			Message:       "response carries no stream",
		}
	}

	return &attempt{
		strategy:  DirectQuery,
		info:      info,
		subtitles: parser.ParseSubtitleTracks(string(payload.Subtitle), payload.SubtitleLangs),
	}, nil
}

func (r *Resolver) queryDirect(ctx context.Context, req Request, session *Session) (*attempt, error) {
	origin := r.origin(req)
	header := http.Header{}
	header.Set("X-Requested-With", "XMLHttpRequest")
	header.Set("Origin", origin)
	if req.Media.URL != "" {
		header.Set("Referer", req.Media.URL)
	}

	resp, err := r.fetcher.PostForm(ctx, origin+cdnQueryPath, cdnQueryForm(req), session.requestHeader(header))
	if err != nil {
		return nil, err
	}
	session.remember(resp.Header)

	return r.parseCDNResponse(req, resp.Body)
}
