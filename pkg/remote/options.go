package remote

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// CredentialType identifies how outbound requests are authenticated.
type CredentialType string

const (
	// CredentialManagedIdentity acquires tokens from the hosting platform's
	// identity endpoint.
	CredentialManagedIdentity CredentialType = "managed_identity"

	// CredentialClientSecret acquires tokens using the OAuth 2.0 client
	// credentials flow.
	CredentialClientSecret CredentialType = "client_secret"

	// CredentialAuthorizationHeader attaches a fixed, caller-supplied
	// authorization header to every request.
	CredentialAuthorizationHeader CredentialType = "authorization_header"

	// CredentialNone sends requests without credentials.
	CredentialNone CredentialType = "none"
)

// SecretCredentialOptions holds the identity used by the client secret
// credential type.
type SecretCredentialOptions struct {
	TenantID     string `json:"tenant_id"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AuthorizationHeader is a static credential attached verbatim as
// "<Scheme> <Value>".
type AuthorizationHeader struct {
	Scheme string `json:"scheme"`
	Value  string `json:"value"`
}

// Options configures a named remote client. It is validated once at
// registration time and treated as immutable afterwards.
type Options struct {
	// ServiceURI is the base URI of the target service.
	ServiceURI string `json:"service_uri"`

	// ApplicationName identifies the calling application to the target.
	ApplicationName string `json:"application_name,omitempty"`

	// CredentialType selects how requests are authenticated.
	// Defaults to CredentialNone.
	CredentialType CredentialType `json:"credential_type,omitempty"`

	// AuthorityHost is the base URL of the identity provider. Required for
	// the managed identity and client secret credential types.
	AuthorityHost string `json:"authority_host,omitempty"`

	// SecretCredential holds the client secret identity. Required for the
	// client secret credential type.
	SecretCredential *SecretCredentialOptions `json:"secret_credential,omitempty"`

	// AuthorizationHeader is the static credential for the authorization
	// header credential type.
	AuthorizationHeader *AuthorizationHeader `json:"authorization_header,omitempty"`

	// Scopes are requested from the identity provider when acquiring tokens.
	// Order is significant: it forms the token cache key.
	Scopes []string `json:"scopes,omitempty"`

	// RedactedHeaders are header names whose values are redacted when
	// outbound requests are logged. Authorization is always redacted.
	RedactedHeaders []string `json:"redacted_headers,omitempty"`

	// Timeout is the HTTP client timeout for requests to the target service.
	Timeout time.Duration `json:"timeout,omitempty"`

	// EnableRetry turns on exponential-backoff retries for transient
	// failures (5xx, 429) on the outbound pipeline.
	EnableRetry bool `json:"enable_retry,omitempty"`

	// MaxRetries bounds retry attempts when EnableRetry is set.
	MaxRetries int `json:"max_retries,omitempty"`

	// TLSConfig allows custom TLS configuration. Not part of registration
	// equality.
	TLSConfig *tls.Config `json:"-"`

	// InsecureSkipVerify disables TLS certificate verification (not
	// recommended).
	InsecureSkipVerify bool `json:"insecure_skip_verify,omitempty"`

	// Logger receives outbound request logs. Not part of registration
	// equality. When nil, logging is disabled.
	Logger *slog.Logger `json:"-"`
}

// Validate checks that the options are self-consistent for the configured
// credential type. It is pure: rules are evaluated in a fixed order and the
// first failure wins.
func (o *Options) Validate() error {
	if o == nil {
		return fmt.Errorf("%w: options are nil", ErrInvalidConfiguration)
	}

	if strings.TrimSpace(o.ServiceURI) == "" {
		return fmt.Errorf("%w: service_uri is required", ErrMissingServiceURI)
	}

	switch o.CredentialType {
	case CredentialManagedIdentity, CredentialClientSecret, CredentialAuthorizationHeader, CredentialNone, "":
	default:
		return fmt.Errorf("%w: %s", ErrCredentialTypeNotSupported, o.CredentialType)
	}

	if o.CredentialType == CredentialManagedIdentity || o.CredentialType == CredentialClientSecret {
		if strings.TrimSpace(o.AuthorityHost) == "" {
			return fmt.Errorf("%w: authority_host is required for %s", ErrMissingAuthorityHost, o.CredentialType)
		}
	}

	if o.CredentialType == CredentialClientSecret {
		sc := o.SecretCredential
		if sc == nil ||
			strings.TrimSpace(sc.TenantID) == "" ||
			strings.TrimSpace(sc.ClientID) == "" ||
			strings.TrimSpace(sc.ClientSecret) == "" {
			return fmt.Errorf("%w: tenant_id, client_id and client_secret are required", ErrMissingSecretCredentialOptions)
		}
	}

	if o.CredentialType == CredentialAuthorizationHeader {
		h := o.AuthorizationHeader
		if h == nil || strings.TrimSpace(h.Scheme) == "" || strings.TrimSpace(h.Value) == "" {
			return fmt.Errorf("%w: scheme and value are required", ErrMissingAuthorizationHeader)
		}
	}

	return nil
}

// normalized returns a defensive copy with defaults applied. The copy is what
// the registry stores; the caller's value is never mutated.
func (o *Options) normalized() *Options {
	c := *o

	if c.CredentialType == "" {
		c.CredentialType = CredentialNone
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.EnableRetry && c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}

	c.Scopes = append([]string(nil), o.Scopes...)
	c.RedactedHeaders = append([]string(nil), o.RedactedHeaders...)
	if o.SecretCredential != nil {
		sc := *o.SecretCredential
		c.SecretCredential = &sc
	}
	if o.AuthorizationHeader != nil {
		h := *o.AuthorizationHeader
		c.AuthorizationHeader = &h
	}

	return &c
}

// canonical returns a deterministic serialized form used for registration
// equality. Fields excluded from JSON (TLS config, logger) do not participate.
func (o *Options) canonical() (string, error) {
	b, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return string(b), nil
}
