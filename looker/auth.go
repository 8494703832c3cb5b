package looker

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// APIConfig authenticates an APIClient to a Looker-compatible analytics API
// using the client credentials flow (client_id/client_secret against the
// instance's login endpoint).
type APIConfig struct {
	// BaseURL is the instance's API root, e.g. https://looker.example.com:19999/api/4.0
	BaseURL string
	// ClientID and ClientSecret are the API3 credentials for a Looker user.
	ClientID     string
	ClientSecret string
}

// tokenSource returns an oauth2.TokenSource that authenticates against the
// instance's /login endpoint using the client credentials grant.
func (c APIConfig) tokenSource(ctx context.Context) oauth2.TokenSource {
	cfg := clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.BaseURL + "/login",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	return cfg.TokenSource(ctx)
}

// AuthenticatedTransport adds a bearer token, sourced from an oauth2
// TokenSource, to every outgoing request.
type AuthenticatedTransport struct {
	from   http.RoundTripper
	source oauth2.TokenSource
}

// NewAuthenticatedClient wraps a retrying HTTP client with token-based
// authentication for the given API config.
func NewAuthenticatedClient(ctx context.Context, cfg APIConfig) *http.Client {
	retrying := retryablehttp.NewClient()
	retrying.Logger = nil
	httpClient := retrying.StandardClient()

	return &http.Client{
		Transport: &AuthenticatedTransport{
			from:   httpClient.Transport,
			source: cfg.tokenSource(ctx),
		},
		Timeout: httpClient.Timeout,
	}
}

// RoundTrip fetches a token from the source and attaches it as a bearer
// token before delegating to the underlying retrying transport.
func (t *AuthenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.source.Token()
	if err != nil {
		return nil, fmt.Errorf("looker: fetching access token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return t.from.RoundTrip(req)
}
