package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewStreamPayloadNotFoundError is returned when a fetched page carries no embedded stream payload.
func NewStreamPayloadNotFoundError(pageURL string) *ErrNotFound {
	return &ErrNotFound{
		Resource: "stream payload",
		ID:       pageURL,
	}
}

// BackendRejectedError is returned when the direct CDN query answered with success=false.
// It only ever triggers the slug page fallback and is not surfaced to callers on its own.
type BackendRejectedError struct {
	MediaID       string
	TranslationID string
	Message       string
}

// Error implements the error interface.
func (e *BackendRejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend rejected stream query for media %s (translation %s): %s", e.MediaID, e.TranslationID, e.Message)
	}
	return fmt.Sprintf("backend rejected stream query for media %s (translation %s)", e.MediaID, e.TranslationID)
}

// Is allows for error checking with errors.Is().
func (e *BackendRejectedError) Is(target error) bool {
	_, ok := target.(*BackendRejectedError)
	return ok
}

// HTTPStatusError is a transport error carrying the non-2xx status returned by the site.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Is allows for error checking with errors.Is().
func (e *HTTPStatusError) Is(target error) bool {
	_, ok := target.(*HTTPStatusError)
	return ok
}

// IsServiceUnavailable reports whether err carries a 503 status anywhere in its chain.
// Errors that only mention the status in their message are matched too, since some
// relays flatten the upstream status into text.
func IsServiceUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusServiceUnavailable
	}
	return strings.Contains(err.Error(), "503")
}

// ResolutionError is the terminal failure of a resolve call: every attempt failed
// and no usable stream was ever recorded.
type ResolutionError struct {
	MediaID       string
	TranslationID string
	SeasonID      string
	EpisodeID     string
	Attempts      int
	Reason        string
	Err           error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to resolve stream for media %q translation %q", e.MediaID, e.TranslationID)
	if e.SeasonID != "" || e.EpisodeID != "" {
		fmt.Fprintf(&b, " season %q episode %q", e.SeasonID, e.EpisodeID)
	}
	fmt.Fprintf(&b, " after %d attempt(s): %s", e.Attempts, e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes the last attempt error.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ResolutionError) Is(target error) bool {
	_, ok := target.(*ResolutionError)
	return ok
}
