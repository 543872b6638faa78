package wowapi

import (
	"context"
	"fmt"
	"time"
)

// freshnessWindow is how long a cached entry is trusted outright. Within
// the window the network is never contacted; past it the entry is
// revalidated with a conditional request. This client-side short-circuit is
// independent of the origin's own cache headers.
const freshnessWindow = 5 * time.Minute

// pipeline orchestrates one resource fetch: cache lookup, freshness
// decision, conditional network call, 304 interpretation, and cache update.
// Each invocation performs at most one outbound request and blocks until a
// response or timeout.
type pipeline struct {
	cache     CacheEngine
	transport *httpTransport
	observer  Observer

	// now is the clock used for freshness decisions; replaced in tests.
	now func() time.Time
}

func newPipeline(cache CacheEngine, transport *httpTransport, observer Observer) *pipeline {
	return &pipeline{
		cache:     cache,
		transport: transport,
		observer:  observer,
		now:       time.Now,
	}
}

// fetch runs the per-call state machine and returns the response envelope.
//
// A cached entry younger than the freshness window is returned without
// touching the network. A stale or missing entry triggers exactly one GET,
// conditional on the cached entry's modification instant when one exists.
// 304 returns the cached entry unchanged; 200 decodes, stamps and stores a
// fresh envelope; any other status becomes an API error. A transport
// failure is surfaced as-is and never retried.
func (p *pipeline) fetch(ctx context.Context, spec *RequestSpec) (*Envelope, error) {
	key := cacheKey(spec.URL, spec.Query)

	// A cache read failure is absorbed as a miss: cache correctness is not
	// safety-critical to the call.
	cached, ok, err := p.cache.Get(ctx, spec.URL, spec.Query)
	if err != nil || cached == nil {
		ok = false
	}
	if ok {
		p.observer.OnCacheHit(key)
		if p.now().Sub(cached.FetchedAt) < freshnessWindow {
			return cached, nil
		}
	} else {
		p.observer.OnCacheMiss(key)
	}

	var ifModifiedSince time.Time
	if ok && !cached.LastModified.IsZero() {
		ifModifiedSince = cached.LastModified
	}

	p.observer.OnRequestStart(spec.Method, spec.URL)
	start := p.now()
	resp, err := p.transport.roundTrip(ctx, spec, ifModifiedSince)
	p.observer.OnRequestEnd(spec.Method, spec.URL, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if resp.status == 304 && ok {
		// Origin-driven revalidation succeeded; the entry is returned
		// exactly as cached, fetchedAt included.
		p.observer.OnRevalidation(spec.URL, true)
		return cached, nil
	}

	if resp.status >= 200 && resp.status < 300 {
		if !ifModifiedSince.IsZero() {
			p.observer.OnRevalidation(spec.URL, false)
		}

		data, err := decodeObject(resp.body)
		if err != nil {
			return nil, err
		}
		entry := &Envelope{
			Data:         data,
			LastModified: resp.lastModified,
			FetchedAt:    p.now(),
		}
		if err := p.cache.Set(ctx, spec.URL, spec.Query, entry); err != nil {
			return nil, fmt.Errorf("failed to store cache entry: %w", err)
		}
		return entry, nil
	}

	// Error bodies are JSON when the origin produced them; a body that does
	// not decode leaves the detail empty.
	detail, _ := decodeObject(resp.body)
	return nil, newAPIError(resp.status, resp.reason, detail)
}
