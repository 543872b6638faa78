// Package wowapi is a Go client library for the World of Warcraft community
// web API. It builds authenticated requests against the versioned REST API,
// decodes JSON responses into domain values, and caches responses so
// repeated lookups stay off the network.
//
// # Features
//
// The library provides:
//   - Region/locale aware request construction with validated configuration
//   - Conditional caching: a five-minute client-side freshness window plus
//     If-Modified-Since revalidation honoring 304 answers
//   - Pluggable cache engines (in-process map by default, Redis optional)
//   - A generic field mapper projecting payloads onto declared field sets
//   - The OAuth authorization-code flow for user-context endpoints
//   - A single error type for configuration, argument, transport and origin
//     failures
//   - Observer hooks with ready-made logrus and Prometheus implementations
//
// # Basic Usage
//
// Create a client and look up a character:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/azerothdev/wowapi"
//	)
//
//	func main() {
//	    client, err := wowapi.NewClient(wowapi.DefaultConfig().
//	        WithRegion("us").
//	        WithLocale("en_US").
//	        WithAPIKey("my-key"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer client.Close()
//
//	    char, err := client.Character(context.Background(), "Hyjal", "Ardeel", "items", "stats")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    log.Printf("level %v", char["level"])
//	}
//
// # Caching
//
// Every response envelope is cached by (url, query parameters). Within the
// freshness window the cached envelope is returned without touching the
// network; past it the entry is revalidated with a conditional GET, and a
// 304 answer keeps the cached envelope alive without resending the body.
// Engines are per-client unless one is injected:
//
//	shared := wowapi.NewMemoryCache()
//	a, _ := wowapi.NewClient(wowapi.DefaultConfig().WithAPIKey(key).WithCache(shared))
//	b, _ := wowapi.NewClient(wowapi.DefaultConfig().WithAPIKey(key).WithCache(shared))
//
// # Errors
//
// Every failure carries a {code, message, detail} triple in a single *Error
// value. Use the Is* helpers or errors.Is with the package sentinels:
//
//	if wowapi.IsNotFound(err) {
//	    // 404 from the origin
//	}
//	if errors.Is(err, wowapi.ErrTransport) {
//	    // the origin was unreachable
//	}
//
// # User context
//
// Endpoints under the account section need a bearer token obtained through
// the OAuth authorization-code flow; see OAuth. The library never stores or
// refreshes tokens — supply one with Config.WithAccessToken.
package wowapi
