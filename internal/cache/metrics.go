package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	lookupHit  = "hit"
	lookupMiss = "miss"
)

var (
	// LookupsTotal counts Get calls per cache and result ("hit" or "miss").
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rezka_cache_lookups_total",
			Help: "Cache lookups by cache name and result.",
		},
		[]string{"cache", "result"},
	)

	// EvictionsTotal counts entries pushed out of in-process caches.
	EvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rezka_cache_evictions_total",
			Help: "Entries evicted from the cache by size or age.",
		},
		[]string{"cache"},
	)
)

func init() {
	prometheus.MustRegister(LookupsTotal, EvictionsTotal)
}

// entriesReg receives the per-cache entry gauges. Tests swap it for an
// isolated registry.
var entriesReg prometheus.Registerer = prometheus.DefaultRegisterer

// entryGauges tracks the live gauge of every cache name so that a cache
// created again under the same name replaces the old gauge.
var entryGauges = struct {
	sync.Mutex
	byName map[string]prometheus.Collector
}{byName: make(map[string]prometheus.Collector)}

// trackEntries exports rezka_cache_entries{cache=name}, read from size at
// scrape time.
func trackEntries(name string, size func() int) {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "rezka_cache_entries",
		Help:        "Entries currently held by the cache.",
		ConstLabels: prometheus.Labels{"cache": name},
	}, func() float64 {
		return float64(size())
	})

	entryGauges.Lock()
	defer entryGauges.Unlock()
	if old, ok := entryGauges.byName[name]; ok {
		entriesReg.Unregister(old)
	}
	if err := entriesReg.Register(gauge); err == nil {
		entryGauges.byName[name] = gauge
	}
}

func untrackEntries(name string) {
	entryGauges.Lock()
	defer entryGauges.Unlock()
	if gauge, ok := entryGauges.byName[name]; ok {
		entriesReg.Unregister(gauge)
		delete(entryGauges.byName, name)
	}
}
