package remote

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken is a bearer token issued for a scope set, with its absolute
// expiry. Immutable once issued; the token cache shares it by reference.
type AccessToken struct {
	// Token is the opaque bearer token value.
	Token string

	// ExpiresOn is when the token stops being valid.
	ExpiresOn time.Time
}

// Valid returns true if the token has not expired.
func (t *AccessToken) Valid() bool {
	if t.ExpiresOn.IsZero() {
		return false
	}
	return time.Now().Before(t.ExpiresOn)
}

// ExpiresIn returns the duration until the token expires.
// Returns 0 if the token is already expired.
func (t *AccessToken) ExpiresIn() time.Duration {
	d := time.Until(t.ExpiresOn)
	if d < 0 {
		return 0
	}
	return d
}

// CredentialProvider issues bearer tokens for an ordered scope sequence.
// Implementations must honor context cancellation across the network call.
type CredentialProvider interface {
	// GetToken requests a token valid for the given scopes.
	// Fails with an error wrapping ErrCredentialUnavailable on provider-side
	// errors (network, denied, misconfigured identity).
	GetToken(ctx context.Context, scopes []string) (*AccessToken, error)
}

// expiryFromToken extracts the exp claim from a JWT access token without
// verifying its signature. Used as a fallback when the token response carries
// no explicit expiry; the token is opaque to us otherwise.
func expiryFromToken(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
