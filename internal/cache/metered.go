package cache

// meteredCache counts lookups of the wrapped cache and exports its size.
type meteredCache struct {
	Cache
	name string
}

func newMeteredCache(inner Cache, name string) *meteredCache {
	trackEntries(name, inner.Len)
	return &meteredCache{Cache: inner, name: name}
}

func (c *meteredCache) Get(key string) ([]byte, bool) {
	value, ok := c.Cache.Get(key)
	result := lookupMiss
	if ok {
		result = lookupHit
	}
	LookupsTotal.WithLabelValues(c.name, result).Inc()
	return value, ok
}

// Close drops the size gauge before closing the wrapped cache.
func (c *meteredCache) Close() error {
	untrackEntries(c.name)
	return c.Cache.Close()
}
