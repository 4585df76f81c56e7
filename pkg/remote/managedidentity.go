package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// managedIdentityProvider acquires tokens from the hosting platform's
// instance metadata identity endpoint.
type managedIdentityProvider struct {
	endpoint       string
	apiVersion     string
	identityHeader string
	httpClient     *http.Client
}

// newManagedIdentityProviderWithRuntime builds a provider with explicit
// runtime settings.
func newManagedIdentityProviderWithRuntime(o *Options, cfg *RuntimeConfig) (*managedIdentityProvider, error) {
	endpoint := cfg.IdentityEndpoint
	if endpoint == "" {
		endpoint = defaultIdentityEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("%w: identity endpoint: %v", ErrInvalidConfiguration, err)
	}

	apiVersion := cfg.IdentityAPIVersion
	if apiVersion == "" {
		apiVersion = defaultIdentityAPIVersion
	}

	return &managedIdentityProvider{
		endpoint:       endpoint,
		apiVersion:     apiVersion,
		identityHeader: cfg.IdentityHeader,
		httpClient:     newDefaultHTTPClient(o),
	}, nil
}

// identityTokenResponse is the metadata endpoint's token payload. The
// endpoint returns numbers as strings.
type identityTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
	ExpiresOn   string `json:"expires_on"`
}

// GetToken requests a token for the resource derived from the first scope.
func (p *managedIdentityProvider) GetToken(ctx context.Context, scopes []string) (*AccessToken, error) {
	if len(scopes) == 0 {
		return nil, fmt.Errorf("%w: at least one scope is required", ErrInvalidScopes)
	}

	q := url.Values{}
	q.Set("api-version", p.apiVersion)
	q.Set("resource", resourceFromScope(scopes[0]))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}
	req.Header.Set("Metadata", "true")
	if p.identityHeader != "" {
		req.Header.Set("X-Identity-Header", p.identityHeader)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: identity endpoint returned %d", ErrCredentialUnavailable, resp.StatusCode)
	}

	var payload identityTokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}
	if payload.AccessToken == "" {
		return nil, fmt.Errorf("%w: identity endpoint returned no token", ErrCredentialUnavailable)
	}

	return &AccessToken{
		Token:     payload.AccessToken,
		ExpiresOn: payload.expiry(time.Now()),
	}, nil
}

// expiry resolves the token expiry from expires_on (unix seconds), then
// expires_in (relative seconds), then the token's own exp claim.
func (r *identityTokenResponse) expiry(now time.Time) time.Time {
	if r.ExpiresOn != "" {
		if secs, err := strconv.ParseInt(r.ExpiresOn, 10, 64); err == nil {
			return time.Unix(secs, 0)
		}
	}
	if r.ExpiresIn != "" {
		if secs, err := strconv.ParseInt(r.ExpiresIn, 10, 64); err == nil {
			return now.Add(time.Duration(secs) * time.Second)
		}
	}
	return expiryFromToken(r.AccessToken)
}

// resourceFromScope converts a scope to the resource identifier the metadata
// endpoint expects, stripping the conventional "/.default" suffix.
func resourceFromScope(scope string) string {
	return strings.TrimSuffix(scope, "/.default")
}
