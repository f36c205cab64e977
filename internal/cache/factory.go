package cache

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// DefaultSize bounds in-process caches created without a size.
const DefaultSize = 128

// ProviderConfig is what a provider needs to build a cache.
type ProviderConfig struct {
	// Size bounds in-process caches. Defaults to DefaultSize.
	Size int
	// TTL expires entries. Zero keeps them until evicted.
	TTL time.Duration
	// OnEvict observes evictions of in-process caches.
	OnEvict EvictCallback
	// Logger receives runtime errors of remote backends. May be nil.
	Logger Logger

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	// RedisKeyPrefix namespaces keys; defaults to "rezka:".
	RedisKeyPrefix string

	// Group names the cache in metrics. Caches without a group are not metered.
	Group string
}

// Provider builds a Cache from its config.
type Provider func(cfg ProviderConfig) (Cache, error)

var registry = struct {
	sync.RWMutex
	providers map[string]Provider
}{providers: make(map[string]Provider)}

// Register makes a provider available to New. Registering a nil provider or a
// name twice panics.
func Register(name string, p Provider) {
	if p == nil {
		panic("cache: nil provider for " + name)
	}
	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.providers[name]; dup {
		panic(fmt.Sprintf("cache: provider %q registered twice", name))
	}
	registry.providers[name] = p
}

// New builds a cache with the named provider.
func New(name string, cfg ProviderConfig) (Cache, error) {
	registry.RLock()
	p, ok := registry.providers[name]
	registry.RUnlock()
	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q, known: %v", name, RegisteredProviders())
	}

	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}
	if cfg.Group == "" {
		return p(cfg)
	}

	onEvict := cfg.OnEvict
	evictions := EvictionsTotal.WithLabelValues(cfg.Group)
	cfg.OnEvict = func(key string, value []byte) {
		evictions.Inc()
		if onEvict != nil {
			onEvict(key, value)
		}
	}

	c, err := p(cfg)
	if err != nil {
		return nil, err
	}
	return newMeteredCache(c, cfg.Group), nil
}

// RegisteredProviders lists provider names in sorted order.
func RegisteredProviders() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.providers))
	for name := range registry.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
