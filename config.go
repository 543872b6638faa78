package wowapi

import (
	"fmt"
	"sort"
	"time"
)

// region holds the static per-region routing table: the API host, the OAuth
// endpoints, and the locales the origin accepts for that region.
type region struct {
	APIHost      string
	AuthorizeURL string
	TokenURL     string
	Locales      []string
}

// regions is the closed set of regions the origin serves. The first locale
// of each entry is that region's default.
var regions = map[string]region{
	"us": {
		APIHost:      "us.api.battle.net",
		AuthorizeURL: "https://us.battle.net/oauth/authorize",
		TokenURL:     "https://us.battle.net/oauth/token",
		Locales:      []string{"en_US", "es_MX", "pt_BR"},
	},
	"eu": {
		APIHost:      "eu.api.battle.net",
		AuthorizeURL: "https://eu.battle.net/oauth/authorize",
		TokenURL:     "https://eu.battle.net/oauth/token",
		Locales:      []string{"en_GB", "es_ES", "fr_FR", "ru_RU", "de_DE", "pt_PT", "it_IT"},
	},
	"kr": {
		APIHost:      "kr.api.battle.net",
		AuthorizeURL: "https://kr.battle.net/oauth/authorize",
		TokenURL:     "https://kr.battle.net/oauth/token",
		Locales:      []string{"ko_KR"},
	},
	"tw": {
		APIHost:      "tw.api.battle.net",
		AuthorizeURL: "https://tw.battle.net/oauth/authorize",
		TokenURL:     "https://tw.battle.net/oauth/token",
		Locales:      []string{"zh_TW"},
	},
	"cn": {
		APIHost:      "api.battlenet.com.cn",
		AuthorizeURL: "https://www.battlenet.com.cn/oauth/authorize",
		TokenURL:     "https://www.battlenet.com.cn/oauth/token",
		Locales:      []string{"zh_CN"},
	},
}

// regionNames returns the known region codes in stable order, for error
// messages.
func regionNames() []string {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config holds the configuration for a client instance. All fields are
// optional and have sensible defaults; Validate fills defaults and enforces
// the invariants once, before any request is possible.
//
// Configuration can be built using the fluent builder pattern:
//
//	config := wowapi.DefaultConfig().
//	    WithRegion("eu").
//	    WithLocale("fr_FR").
//	    WithAPIKey("my-key").
//	    WithTimeout(10 * time.Second)
//
//	client, err := wowapi.NewClient(config)
type Config struct {
	// Protocol is "http" or "https".
	// Default: "https"
	Protocol string

	// Region is the origin region code (us, eu, kr, tw, cn).
	// Default: "us"
	Region string

	// Locale must be one of the locales permitted for the region.
	// Default: the region's first locale.
	Locale string

	// BaseURL overrides the protocol and region host when set, e.g. to
	// point at a proxy or a test server. Leave empty to derive the base
	// URL from Protocol and Region.
	BaseURL string

	// APIKey is sent as the apikey query parameter on every request.
	APIKey string

	// AccessToken is an optional pre-supplied bearer token for
	// user-context calls. The library never acquires or refreshes it;
	// see OAuth for the exchange flow.
	AccessToken string

	// Timeout is the HTTP request timeout, covering connection time and
	// reading the response body.
	// Default: 30s
	Timeout time.Duration

	// Cache is the cache engine used by the fetch pipeline. If nil, each
	// client owns an independent in-memory engine; inject a shared engine
	// explicitly to cache across clients.
	Cache CacheEngine

	// Observer receives request and cache events.
	// If nil, NoopObserver is used.
	Observer Observer
}

// DefaultConfig returns a Config with the static defaults: https, region us,
// the region's default locale, and a 30 second timeout.
func DefaultConfig() *Config {
	return &Config{
		Protocol: "https",
		Region:   "us",
		Timeout:  30 * time.Second,
	}
}

// WithProtocol sets the protocol ("http" or "https").
func (c *Config) WithProtocol(protocol string) *Config {
	c.Protocol = protocol
	return c
}

// WithRegion sets the origin region code.
func (c *Config) WithRegion(region string) *Config {
	c.Region = region
	return c
}

// WithLocale sets the locale for response localization.
func (c *Config) WithLocale(locale string) *Config {
	c.Locale = locale
	return c
}

// WithBaseURL overrides the derived {protocol}://{region host}/ base URL,
// e.g. to route through a proxy. The URL should include the protocol and
// end without a trailing slash.
func (c *Config) WithBaseURL(baseURL string) *Config {
	c.BaseURL = baseURL
	return c
}

// WithAPIKey sets the API key sent with every request.
func (c *Config) WithAPIKey(key string) *Config {
	c.APIKey = key
	return c
}

// WithAccessToken sets a pre-supplied bearer token for user-context calls.
func (c *Config) WithAccessToken(token string) *Config {
	c.AccessToken = token
	return c
}

// WithTimeout sets the request timeout.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithCache injects a cache engine, e.g. to share one store across several
// clients or to use Redis instead of the in-process default.
//
// Example:
//
//	shared := wowapi.NewMemoryCache()
//	usClient, _ := wowapi.NewClient(wowapi.DefaultConfig().WithCache(shared))
//	euClient, _ := wowapi.NewClient(wowapi.DefaultConfig().WithRegion("eu").WithCache(shared))
func (c *Config) WithCache(engine CacheEngine) *Config {
	c.Cache = engine
	return c
}

// WithObserver sets an observer for monitoring requests and cache behavior.
func (c *Config) WithObserver(observer Observer) *Config {
	c.Observer = observer
	return c
}

// Validate fills defaults for unset fields and enforces the construction
// invariants: protocol in {http, https}, region known, locale permitted for
// the region, timeout positive. It is called once by NewClient; violations
// are construction-time failures naming the offending field and its allowed
// set.
func (c *Config) Validate() error {
	if c.Protocol == "" {
		c.Protocol = "https"
	}
	if c.Protocol != "http" && c.Protocol != "https" {
		return newConfigError("protocol", c.Protocol, []string{"http", "https"})
	}

	if c.Region == "" {
		c.Region = "us"
	}
	reg, ok := regions[c.Region]
	if !ok {
		return newConfigError("region", c.Region, regionNames())
	}

	if c.Locale == "" {
		c.Locale = reg.Locales[0]
	}
	if !containsString(reg.Locales, c.Locale) {
		return newConfigError(fmt.Sprintf("locale for region %s", c.Region), c.Locale, reg.Locales)
	}

	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Timeout < 0 {
		return newConfigError("timeout", c.Timeout.String(), []string{"a positive duration"})
	}

	if c.Observer == nil {
		c.Observer = &NoopObserver{}
	}
	return nil
}

// regionTable returns the routing entry for the validated region.
func (c *Config) regionTable() region {
	return regions[c.Region]
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
