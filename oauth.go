package wowapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// OAuth implements the authorization-code grant against the origin's OAuth
// endpoints for the configured region. It is orthogonal to the fetch
// pipeline: it builds the browser redirect URL and exchanges an
// authorization code for a bearer token, nothing more. The caller persists
// the token and supplies it to authenticated calls via
// Config.WithAccessToken; there is no storage or refresh logic here.
//
// Example:
//
//	flow, err := wowapi.NewOAuth("us", "client-id", "client-secret",
//	    "https://example.com/callback")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Step 1: send the user to the authorization endpoint.
//	http.Redirect(w, r, flow.AuthorizationURL(state), http.StatusFound)
//
//	// Step 2: in the callback, trade the code for a token.
//	token, err := flow.ExchangeCode(ctx, r.URL.Query().Get("code"))
type OAuth struct {
	conf    *oauth2.Config
	timeout time.Duration
}

// Token is the result of a successful code exchange.
type Token struct {
	// AccessToken is the bearer token for user-context calls.
	AccessToken string
	// TokenType is the token scheme, normally "bearer".
	TokenType string
	// Expiry is when the token expires; zero when the origin did not say.
	Expiry time.Time
}

// NewOAuth builds a flow for the given region's authorization and token
// endpoints. The region must be one of the known region codes.
func NewOAuth(regionCode, clientID, clientSecret, redirectURI string) (*OAuth, error) {
	reg, ok := regions[regionCode]
	if !ok {
		return nil, newConfigError("region", regionCode, regionNames())
	}

	return &OAuth{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:  reg.AuthorizeURL,
				TokenURL: reg.TokenURL,
			},
		},
		timeout: 30 * time.Second,
	}, nil
}

// AuthorizationURL returns the URL to redirect the user's browser to. The
// state value is echoed back on the callback for CSRF protection. No
// network call is made.
func (o *OAuth) AuthorizationURL(state string) string {
	return o.conf.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for an access token with a
// single POST to the token endpoint. A non-2xx answer surfaces as the same
// unified error the fetch pipeline uses.
func (o *OAuth) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: o.timeout})

	tok, err := o.conf.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			detail, _ := decodeObject(retrieveErr.Body)
			return nil, newAPIError(retrieveErr.Response.StatusCode, reasonPhrase(retrieveErr.Response), detail)
		}
		return nil, newTransportError(err)
	}

	return &Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Expiry:      tok.Expiry,
	}, nil
}
