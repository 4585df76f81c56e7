package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// clientSecretProvider acquires tokens via the OAuth 2.0 client credentials
// flow against the configured authority.
type clientSecretProvider struct {
	authorityHost string
	tenantID      string
	clientID      string
	clientSecret  string
	httpClient    *http.Client
}

// newClientSecretProvider builds a provider from validated options.
func newClientSecretProvider(o *Options) *clientSecretProvider {
	return &clientSecretProvider{
		authorityHost: o.AuthorityHost,
		tenantID:      o.SecretCredential.TenantID,
		clientID:      o.SecretCredential.ClientID,
		clientSecret:  o.SecretCredential.ClientSecret,
		httpClient:    newDefaultHTTPClient(o),
	}
}

// GetToken requests a token for the given scopes from the authority's token
// endpoint.
func (p *clientSecretProvider) GetToken(ctx context.Context, scopes []string) (*AccessToken, error) {
	cfg := &clientcredentials.Config{
		ClientID:     p.clientID,
		ClientSecret: p.clientSecret,
		TokenURL:     tokenEndpoint(p.authorityHost, p.tenantID),
		Scopes:       scopes,
	}

	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}

	tok, err := cfg.Token(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = expiryFromToken(tok.AccessToken)
	}

	return &AccessToken{Token: tok.AccessToken, ExpiresOn: expiry}, nil
}

// tokenEndpoint composes the v2.0 token endpoint for a tenant.
func tokenEndpoint(authorityHost, tenantID string) string {
	return strings.TrimRight(authorityHost, "/") + "/" + tenantID + "/oauth2/v2.0/token"
}
