package wowapi

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// Envelope is the decoded JSON body of an origin response augmented with the
// two instants the conditional-caching protocol needs: the modification time
// the origin reported (zero when it reported none) and the client-side
// capture time. Envelopes are the values cached and returned to callers
// before domain mapping.
type Envelope struct {
	// Data is the decoded JSON payload
	Data map[string]interface{} `json:"data"`
	// LastModified is the origin-reported modification instant, zero if
	// the origin supplied none
	LastModified time.Time `json:"last_modified"`
	// FetchedAt is when this client captured the payload
	FetchedAt time.Time `json:"fetched_at"`
}

// CacheEngine is the pluggable store behind the fetch pipeline, keyed by
// (url, query parameters). Engines never decide staleness: entries have no
// eviction, no capacity limit and no expiry scan — freshness is decided
// entirely by the pipeline. Any conforming implementation may be injected
// via Config.WithCache.
//
// A Get failure is not fatal to a request: the pipeline absorbs it as a
// cache miss, because cache correctness is not safety-critical to the call.
type CacheEngine interface {
	// Get retrieves the entry for (url, params). The boolean reports
	// whether an entry was present.
	Get(ctx context.Context, url string, params url.Values) (*Envelope, bool, error)

	// Set stores the entry for (url, params), overwriting any previous one.
	Set(ctx context.Context, url string, params url.Values, entry *Envelope) error

	// Exists checks whether an entry is present without retrieving it.
	Exists(ctx context.Context, url string, params url.Values) (bool, error)

	// Close releases any resources held by the engine.
	Close() error
}

// cacheKey derives the store key from the full URL and the serialized query
// parameters. url.Values.Encode sorts by key, so insertion order of the
// parameters never changes the key.
func cacheKey(rawURL string, params url.Values) string {
	if len(params) == 0 {
		return rawURL
	}
	return rawURL + "?" + params.Encode()
}

// MemoryCache is the default cache engine: a mutex-guarded in-process map
// scoped to one client instance. Entries live for the lifetime of the
// engine. The guard makes interleaved reads and writes safe when a host
// application issues overlapping calls against the same client.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Envelope
}

// NewMemoryCache creates an empty in-process cache engine.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*Envelope),
	}
}

// Get retrieves the entry for (url, params).
func (m *MemoryCache) Get(ctx context.Context, url string, params url.Values) (*Envelope, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[cacheKey(url, params)]
	return entry, ok, nil
}

// Set stores the entry for (url, params).
func (m *MemoryCache) Set(ctx context.Context, url string, params url.Values, entry *Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[cacheKey(url, params)] = entry
	return nil
}

// Exists checks whether an entry is present.
func (m *MemoryCache) Exists(ctx context.Context, url string, params url.Values) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[cacheKey(url, params)]
	return ok, nil
}

// Close releases the engine's entries.
func (m *MemoryCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*Envelope)
	return nil
}
