package models

// StreamResult is the outcome of a background resolution: a value or the error
// that prevented it.
type StreamResult[T any] struct {
	Value T
	Err   error
}

// Get returns the value and error as a pair.
func (r StreamResult[T]) Get() (T, error) {
	return r.Value, r.Err
}
