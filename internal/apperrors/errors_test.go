package apperrors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// ErrNotFound
// ---------------------------------------------------------------------------

func TestErrNotFound_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ErrNotFound
		expected string
	}{
		{
			name:     "with string ID",
			err:      &ErrNotFound{Resource: "media page", ID: "abc"},
			expected: "media page with ID abc not found",
		},
		{
			name:     "with nil ID",
			err:      &ErrNotFound{Resource: "translation", ID: nil},
			expected: "translation not found",
		},
		{
			name:     "stream payload helper",
			err:      NewStreamPayloadNotFoundError("https://example.org/a.html"),
			expected: "stream payload with ID https://example.org/a.html not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrNotFound_IsThroughWrapping(t *testing.T) {
	t.Parallel()
	wrapped := fmt.Errorf("attempt 2: %w", NewNotFoundError("stream payload", "x"))
	if !errors.Is(wrapped, &ErrNotFound{}) {
		t.Fatal("expected wrapped ErrNotFound to match")
	}
	if errors.Is(wrapped, &BackendRejectedError{}) {
		t.Fatal("ErrNotFound must not match BackendRejectedError")
	}
}

// ---------------------------------------------------------------------------
// BackendRejectedError
// ---------------------------------------------------------------------------

func TestBackendRejectedError_Error(t *testing.T) {
	t.Parallel()
	withMsg := &BackendRejectedError{MediaID: "1", TranslationID: "56", Message: "Время сессии истекло"}
	if !strings.Contains(withMsg.Error(), "Время сессии истекло") {
		t.Errorf("message missing from %q", withMsg.Error())
	}
	bare := &BackendRejectedError{MediaID: "1", TranslationID: "56"}
	if got, want := bare.Error(), "backend rejected stream query for media 1 (translation 56)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// HTTPStatusError / IsServiceUnavailable
// ---------------------------------------------------------------------------

func TestIsServiceUnavailable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"503 status", &HTTPStatusError{StatusCode: 503, URL: "u"}, true},
		{"wrapped 503 status", fmt.Errorf("fetch: %w", &HTTPStatusError{StatusCode: 503}), true},
		{"404 status", &HTTPStatusError{StatusCode: 404}, false},
		{"500 status mentioning 503 in URL", &HTTPStatusError{StatusCode: 500, URL: "/503"}, false},
		{"plain text 503", errors.New("relay said 503 Service Unavailable"), true},
		{"plain text other", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsServiceUnavailable(tt.err); got != tt.want {
				t.Errorf("IsServiceUnavailable() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ResolutionError
// ---------------------------------------------------------------------------

func TestResolutionError(t *testing.T) {
	t.Parallel()
	cause := &HTTPStatusError{StatusCode: 500, URL: "https://example.org"}
	err := &ResolutionError{
		MediaID:       "646",
		TranslationID: "56",
		SeasonID:      "1",
		EpisodeID:     "2",
		Attempts:      3,
		Reason:        "exhausted attempts",
		Err:           cause,
	}

	msg := err.Error()
	for _, part := range []string{`"646"`, `"56"`, `season "1"`, `episode "2"`, "3 attempt(s)", "exhausted attempts", "500"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error() = %q, missing %q", msg, part)
		}
	}

	if !errors.Is(err, &ResolutionError{}) {
		t.Error("expected errors.Is to match ResolutionError")
	}
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 500 {
		t.Error("expected Unwrap to expose the HTTPStatusError")
	}
}

func TestResolutionError_MovieOmitsEpisode(t *testing.T) {
	t.Parallel()
	err := &ResolutionError{MediaID: "1", TranslationID: "2", Attempts: 1, Reason: "exhausted attempts"}
	if strings.Contains(err.Error(), "season") {
		t.Errorf("movie error should not mention season: %q", err.Error())
	}
}
