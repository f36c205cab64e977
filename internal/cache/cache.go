// Package cache stores scraped site data (media pages) behind a small
// key/value interface with interchangeable backends.
package cache

import "github.com/rs/zerolog"

// EvictCallback is called when an entry is evicted from the cache.
// Providers that delegate eviction to a server (redis) never call it.
type EvictCallback func(key string, value []byte)

// Cache is a byte-oriented key/value cache with bounded lifetime entries.
type Cache interface {
	// Get retrieves a value by key. Returns the value and true if found, or nil and false if not.
	Get(key string) ([]byte, bool)

	// Set stores a value with the given key. If the key already exists, it is overwritten.
	Set(key string, value []byte)

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string)

	Contains(key string) bool

	// Len returns the number of entries currently in the cache.
	Len() int

	// Close releases any resources held by the cache (e.g., network connections).
	Close() error
}

// Logger receives errors from providers that can fail at runtime.
type Logger interface {
	Error(msg string, err error)
}

type zerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger adapts a zerolog logger to Logger.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return zerologLogger{logger: logger}
}

func (l zerologLogger) Error(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}
