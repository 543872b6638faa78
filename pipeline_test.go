package wowapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver captures pipeline events for assertions.
type recordingObserver struct {
	mu            sync.Mutex
	requestEnds   int
	cacheHits     int
	cacheMisses   int
	revalidations []bool
}

func (r *recordingObserver) OnRequestStart(method, url string) {}

func (r *recordingObserver) OnRequestEnd(method, url string, duration time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requestEnds++
}

func (r *recordingObserver) OnCacheHit(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cacheHits++
}

func (r *recordingObserver) OnCacheMiss(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cacheMisses++
}

func (r *recordingObserver) OnRevalidation(url string, notModified bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revalidations = append(r.revalidations, notModified)
}

// failingCache simulates a broken engine.
type failingCache struct {
	getErr error
	setErr error
	inner  *MemoryCache
}

func (f *failingCache) Get(ctx context.Context, url string, params url.Values) (*Envelope, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.inner.Get(ctx, url, params)
}

func (f *failingCache) Set(ctx context.Context, url string, params url.Values, entry *Envelope) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.inner.Set(ctx, url, params, entry)
}

func (f *failingCache) Exists(ctx context.Context, url string, params url.Values) (bool, error) {
	return f.inner.Exists(ctx, url, params)
}

func (f *failingCache) Close() error { return f.inner.Close() }

func testSpec(serverURL, path string) *RequestSpec {
	q := url.Values{}
	q.Set("locale", "en_US")
	h := http.Header{}
	h.Set("Accept", "application/json")
	return &RequestSpec{
		Method: http.MethodGet,
		URL:    serverURL + path,
		Query:  q,
		Header: h,
	}
}

func testPipeline(cache CacheEngine, observer Observer, now time.Time) *pipeline {
	p := newPipeline(cache, &httpTransport{client: &http.Client{Timeout: 5 * time.Second}}, observer)
	p.now = func() time.Time { return now }
	return p
}

func TestPipeline_FreshCacheShortCircuits(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Write([]byte(`{"id": 1, "name": "thing"}`))
	}))
	defer server.Close()

	obs := &recordingObserver{}
	p := testPipeline(NewMemoryCache(), obs, time.Now())
	spec := testSpec(server.URL, "/wow/item/1")

	first, err := p.fetch(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, float64(1), first.Data["id"])

	// Second call inside the freshness window: no network, identical envelope.
	second, err := p.fetch(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "fresh entry must not contact the network")
	assert.Equal(t, first, second)

	assert.Equal(t, 1, obs.cacheMisses)
	assert.Equal(t, 1, obs.cacheHits)
	assert.Equal(t, 1, obs.requestEnds)
}

func TestPipeline_StaleEntryRevalidated304(t *testing.T) {
	lastModified := time.Date(2016, 3, 4, 12, 0, 0, 0, time.UTC)

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, lastModified.Format(http.TimeFormat), r.Header.Get("If-Modified-Since"))
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	now := time.Now()
	cache := NewMemoryCache()
	obs := &recordingObserver{}
	p := testPipeline(cache, obs, now)
	spec := testSpec(server.URL, "/wow/item/1")

	seeded := &Envelope{
		Data:         map[string]interface{}{"id": float64(1)},
		LastModified: lastModified,
		FetchedAt:    now.Add(-10 * time.Minute),
	}
	require.NoError(t, cache.Set(context.Background(), spec.URL, spec.Query, seeded))

	got, err := p.fetch(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "revalidation makes exactly one network call")
	assert.Equal(t, seeded, got, "304 must return the cached envelope unchanged")
	assert.Equal(t, []bool{true}, obs.revalidations)
}

func TestPipeline_StaleEntryOverwrittenOn200(t *testing.T) {
	newModified := time.Date(2016, 5, 1, 9, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", newModified.Format(http.TimeFormat))
		w.Write([]byte(`{"id": 1, "name": "renamed"}`))
	}))
	defer server.Close()

	now := time.Now()
	cache := NewMemoryCache()
	obs := &recordingObserver{}
	p := testPipeline(cache, obs, now)
	spec := testSpec(server.URL, "/wow/item/1")

	staleFetch := now.Add(-10 * time.Minute)
	require.NoError(t, cache.Set(context.Background(), spec.URL, spec.Query, &Envelope{
		Data:         map[string]interface{}{"id": float64(1), "name": "old"},
		LastModified: newModified.Add(-time.Hour),
		FetchedAt:    staleFetch,
	}))

	got, err := p.fetch(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Data["name"])
	assert.True(t, got.LastModified.Equal(newModified))
	assert.True(t, got.FetchedAt.After(staleFetch), "fetchedAt must advance")

	stored, ok, err := cache.Get(context.Background(), spec.URL, spec.Query)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, got, stored, "store must hold the new envelope")
	assert.Equal(t, []bool{false}, obs.revalidations)
}

func TestPipeline_NoConditionalHeaderWithoutLastModified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("If-Modified-Since"))
		w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	now := time.Now()
	cache := NewMemoryCache()
	p := testPipeline(cache, &NoopObserver{}, now)
	spec := testSpec(server.URL, "/wow/item/1")

	// Stale entry whose origin never reported a modification time.
	require.NoError(t, cache.Set(context.Background(), spec.URL, spec.Query, &Envelope{
		Data:      map[string]interface{}{"id": float64(1)},
		FetchedAt: now.Add(-10 * time.Minute),
	}))

	_, err := p.fetch(context.Background(), spec)
	require.NoError(t, err)
}

func TestPipeline_MissingLastModifiedStoredAsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	p := testPipeline(NewMemoryCache(), &NoopObserver{}, time.Now())
	got, err := p.fetch(context.Background(), testSpec(server.URL, "/wow/item/1"))
	require.NoError(t, err)
	assert.True(t, got.LastModified.IsZero())
}

func TestPipeline_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	p := testPipeline(NewMemoryCache(), &NoopObserver{}, time.Now())
	_, err := p.fetch(context.Background(), testSpec(server.URL, "/wow/item/1"))
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.True(t, errors.Is(err, ErrTransport))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, StatusTransport, e.Code)
	assert.NotEmpty(t, e.Message)
}

func TestPipeline_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status": "nok", "reason": "unable to get character information."}`))
	}))
	defer server.Close()

	p := testPipeline(NewMemoryCache(), &NoopObserver{}, time.Now())
	_, err := p.fetch(context.Background(), testSpec(server.URL, "/wow/character/Hyjal/Nobody"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsAPI(err))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusNotFound, e.Code)
	assert.Equal(t, "Not Found", e.Message)
	assert.Equal(t, "unable to get character information.", e.Details["reason"])
}

func TestPipeline_CacheReadFailureTreatedAsMiss(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	engine := &failingCache{getErr: errors.New("backend down"), inner: NewMemoryCache()}
	p := testPipeline(engine, &NoopObserver{}, time.Now())

	got, err := p.fetch(context.Background(), testSpec(server.URL, "/wow/item/1"))
	require.NoError(t, err, "a cache read failure must be absorbed as a miss")
	assert.Equal(t, 1, calls)
	assert.Equal(t, float64(1), got.Data["id"])
}

func TestPipeline_CacheWriteFailureSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	engine := &failingCache{setErr: errors.New("backend down"), inner: NewMemoryCache()}
	p := testPipeline(engine, &NoopObserver{}, time.Now())

	_, err := p.fetch(context.Background(), testSpec(server.URL, "/wow/item/1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store cache entry")
}

func TestPipeline_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	p := testPipeline(NewMemoryCache(), &NoopObserver{}, time.Now())
	_, err := p.fetch(context.Background(), testSpec(server.URL, "/wow/item/1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
