package cache

import (
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache keeps entries in process: least recently used entries go first
// once Size is reached, and every entry expires after TTL.
type memoryCache struct {
	*lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	var onEvict lru.EvictCallback[string, []byte]
	if cfg.OnEvict != nil {
		onEvict = lru.EvictCallback[string, []byte](cfg.OnEvict)
	}
	return memoryCache{lru.NewLRU(cfg.Size, onEvict, cfg.TTL)}, nil
}

func (m memoryCache) Set(key string, value []byte) {
	m.Add(key, value)
}

func (m memoryCache) Delete(key string) {
	m.Remove(key)
}

func (memoryCache) Close() error {
	return nil
}
