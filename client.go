package wowapi

import (
	"context"
	"errors"
	"net/url"
	"sync"
)

// Client talks to the game-data web service for one region/locale. It owns
// one request-builder configuration and one cache engine reference; the
// engine is shared across calls on the same client and across clients only
// when explicitly injected.
//
// Example:
//
//	client, err := wowapi.NewClient(wowapi.DefaultConfig().
//	    WithRegion("us").
//	    WithLocale("en_US").
//	    WithAPIKey("my-key"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	char, err := client.Character(ctx, "Hyjal", "Ardeel")
//	if wowapi.IsNotFound(err) {
//	    // No such character.
//	}
type Client struct {
	config    *Config
	transport *httpTransport
	pipeline  *pipeline

	mu     sync.RWMutex
	closed bool
}

// NewClient validates the configuration and builds a client. Validation
// happens here, once — an invalid protocol, region or locale fails fast
// with a configuration error before any request is possible.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.Cache == nil {
		config.Cache = NewMemoryCache()
	}

	transport := newHTTPTransport(config)
	return &Client{
		config:    config,
		transport: transport,
		pipeline:  newPipeline(config.Cache, transport, config.Observer),
	}, nil
}

// Fetch runs the fetch pipeline for an arbitrary resource path: section is
// the API section ("wow" or "account"), pathTemplate uses :name
// placeholders filled from subs, and query holds extra query parameters.
// The returned envelope carries the decoded payload plus its cache
// timestamps. Resource methods are thin wrappers over Fetch; it is exported
// so callers can reach endpoints this library has no wrapper for.
func (c *Client) Fetch(ctx context.Context, section, pathTemplate string, subs map[string]string, query url.Values) (*Envelope, error) {
	return c.fetch(ctx, section, pathTemplate, subs, query, false)
}

func (c *Client) fetch(ctx context.Context, section, pathTemplate string, subs map[string]string, query url.Values, authenticated bool) (*Envelope, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}

	spec := newRequestSpec(c.config, section, pathTemplate, subs, query, authenticated)
	return c.pipeline.fetch(ctx, spec)
}

// Close releases the transport and the client-owned cache engine. A client
// must not be used after Close; Close is safe to call multiple times.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	c.transport.close()
	return c.config.Cache.Close()
}

func (c *Client) checkClosed() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return errors.New("client is closed")
	}
	return nil
}
