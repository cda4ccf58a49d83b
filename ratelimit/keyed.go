package ratelimit

import (
	"sync"
	"time"

	"github.com/sweengineeringlabs/guardrail/clock"
)

// KeyedConfig configures a per-key limiter registry.
type KeyedConfig struct {
	// Factory creates the limiter for a new key. Required.
	Factory func() Limiter

	// IdleTTL is how long an untouched entry survives before it is eligible
	// for eviction.
	// Default: 10 minutes
	IdleTTL time.Duration

	// Clock supplies the current instant.
	// Default: the system clock.
	Clock clock.Clock
}

// Keyed manages one limiter instance per key, for example one sliding window
// per client. Limiters are created lazily on first use and evicted after
// IdleTTL without access. Eviction is lazy and amortized across Get calls;
// there is no background goroutine.
type Keyed struct {
	config KeyedConfig

	mu      sync.Mutex
	entries map[string]*keyedEntry
	gets    int
}

type keyedEntry struct {
	limiter  Limiter
	lastSeen time.Time
}

// sweepEvery controls how often Get amortizes a full stale-entry sweep.
const sweepEvery = 256

// NewKeyed creates a new per-key limiter registry.
// It panics if no Factory is provided; there is no sensible default limiter.
func NewKeyed(config KeyedConfig) *Keyed {
	if config.Factory == nil {
		panic("ratelimit: KeyedConfig.Factory is required")
	}
	// Apply defaults
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	if config.Clock == nil {
		config.Clock = clock.NewSystemClock()
	}

	return &Keyed{
		config:  config,
		entries: make(map[string]*keyedEntry),
	}
}

// Get returns the limiter for the given key, creating it if necessary.
func (k *Keyed) Get(key string) Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.config.Clock.Now()

	k.gets++
	if k.gets%sweepEvery == 0 {
		k.sweepLocked(now)
	}

	entry, ok := k.entries[key]
	if ok && now.Sub(entry.lastSeen) >= k.config.IdleTTL {
		// Stale entry for this key: rebuild rather than resume, so a
		// long-idle client starts from a fresh limiter state.
		ok = false
	}
	if !ok {
		entry = &keyedEntry{limiter: k.config.Factory()}
		k.entries[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter
}

// Allow reports whether one request for the given key is admitted.
func (k *Keyed) Allow(key string) bool {
	return k.Get(key).Allow()
}

// Len returns the number of tracked keys, including not-yet-swept stale ones.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

func (k *Keyed) sweepLocked(now time.Time) {
	for key, entry := range k.entries {
		if now.Sub(entry.lastSeen) >= k.config.IdleTTL {
			delete(k.entries, key)
		}
	}
}
