package wowapi

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

const userAgent = "wowapi-go/1.0.0"

// RequestSpec fully describes one outbound request. It is built in a single
// pass from the call's inputs and never mutated after handoff to the fetch
// pipeline, so two calls on the same client can never bleed query or header
// state into each other.
type RequestSpec struct {
	// Method is the HTTP method; every catalogue resource uses GET.
	Method string
	// URL is the fully qualified request URL without query parameters.
	URL string
	// Query holds the query parameters; insertion order is irrelevant.
	Query url.Values
	// Header holds the request headers.
	Header http.Header
}

// placeholderPattern matches :name segments in a path template.
var placeholderPattern = regexp.MustCompile(`:([A-Za-z_][A-Za-z0-9_]*)`)

// buildBaseURL substitutes the validated protocol and region host into the
// base URL. The result always carries a scheme, a host and a trailing
// slash; no placeholder can survive because both inputs were validated at
// construction.
func buildBaseURL(cfg *Config) string {
	if cfg.BaseURL != "" {
		return strings.TrimSuffix(cfg.BaseURL, "/") + "/"
	}
	return fmt.Sprintf("%s://%s/", cfg.Protocol, cfg.regionTable().APIHost)
}

// buildPath replaces every :name placeholder in the template with the
// URL-escaped value from the substitution map. Placeholders with no supplied
// value are left unsubstituted; the origin then rejects the malformed URL
// and the failure surfaces as an API error downstream.
//
// Example:
//
//	buildPath("character/:realm/:character", map[string]string{
//	    "realm": "Hyjal", "character": "Ardeel",
//	})
//	// "character/Hyjal/Ardeel"
func buildPath(template string, subs map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		value, ok := subs[match[1:]]
		if !ok {
			return match
		}
		return escapePathSegment(value)
	})
}

// escapePathSegment encodes a path segment, including characters
// QueryEscape would leave as '+'.
func escapePathSegment(s string) string {
	escaped := url.QueryEscape(s)
	return strings.ReplaceAll(escaped, "+", "%20")
}

// fieldsParam validates requested field selectors against a per-resource cap
// and serializes them into the single comma-joined value the origin expects
// for the fields query parameter.
//
// A candidate containing a comma is a malformed multi-field item and is
// rejected before the count is checked against the cap. maxFields <= 0 means
// the resource accepts any number of fields.
func fieldsParam(fields []string, maxFields int) (string, error) {
	for _, f := range fields {
		if strings.Contains(f, ",") {
			return "", newArgumentError("field %q must not contain a comma; pass fields individually", f)
		}
	}
	if maxFields > 0 && len(fields) > maxFields {
		return "", newArgumentError("too many fields: got %d, resource allows at most %d", len(fields), maxFields)
	}
	return strings.Join(fields, ","), nil
}

// sortParam validates a sort specification against the resource's sort-key
// whitelist. Exactly one key/value pair is accepted, and the key must be
// whitelisted; otherwise the error enumerates the allowed keys.
func sortParam(sortSpec map[string]string, whitelist []string) (key, value string, err error) {
	if len(sortSpec) != 1 {
		return "", "", newArgumentError("sort spec must contain exactly one key, got %d", len(sortSpec))
	}
	allowed := append([]string(nil), whitelist...)
	sort.Strings(allowed)
	for k, v := range sortSpec {
		if !containsString(whitelist, k) {
			return "", "", newArgumentError("invalid sort key %q, allowed: %s", k, strings.Join(allowed, ", "))
		}
		key, value = k, v
	}
	return key, value, nil
}

// newRequestSpec assembles the immutable request for one resource call:
// base URL + section + templated path, the default locale/apikey query
// parameters, the JSON content headers, and the bearer token when the
// resource requires user context.
func newRequestSpec(cfg *Config, section, pathTemplate string, subs map[string]string, query url.Values, authenticated bool) *RequestSpec {
	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("locale", cfg.Locale)
	if cfg.APIKey != "" {
		q.Set("apikey", cfg.APIKey)
	}

	h := http.Header{}
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/json")
	h.Set("User-Agent", userAgent)
	if authenticated && cfg.AccessToken != "" {
		h.Set("Authorization", "Bearer "+cfg.AccessToken)
	}

	return &RequestSpec{
		Method: http.MethodGet,
		URL:    buildBaseURL(cfg) + section + "/" + buildPath(pathTemplate, subs),
		Query:  q,
		Header: h,
	}
}
