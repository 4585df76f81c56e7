package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-Id"
)

// authTransport authenticates every outbound request for one registered
// client before handing it to the base round tripper. A token failure fails
// the request before transmission; no partial request is sent.
type authTransport struct {
	reg    *ClientRegistration
	cache  *TokenCache
	base   http.RoundTripper
	logger *slog.Logger
}

// RoundTrip implements http.RoundTripper. The incoming request is never
// mutated; credentials are attached to a clone, overwriting any prior
// Authorization value.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	switch t.reg.Options.CredentialType {
	case CredentialManagedIdentity, CredentialClientSecret:
		tok, err := t.cache.GetToken(req.Context(), t.reg.provider, t.reg.Options.Scopes)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: client %q: %v", ErrAuthenticationFailed, t.reg.Name, err)
		}
		out.Header.Set(headerAuthorization, "Bearer "+tok.Token)

	case CredentialAuthorizationHeader:
		h := t.reg.Options.AuthorizationHeader
		out.Header.Set(headerAuthorization, h.Scheme+" "+h.Value)

	case CredentialNone:
		// No credential attached.
	}

	if out.Header.Get(headerRequestID) == "" {
		out.Header.Set(headerRequestID, uuid.NewString())
	}
	if t.reg.Options.ApplicationName != "" && out.Header.Get("User-Agent") == "" {
		out.Header.Set("User-Agent", t.reg.Options.ApplicationName)
	}

	t.logRequest(out)

	return t.base.RoundTrip(out)
}

// logRequest emits a debug record for the outbound request with sensitive
// headers redacted.
func (t *authTransport) logRequest(req *http.Request) {
	if t.logger == nil || !t.logger.Enabled(req.Context(), slog.LevelDebug) {
		return
	}
	t.logger.Debug("outbound request",
		"client", t.reg.Name,
		"method", req.Method,
		"url", req.URL.Redacted(),
		"request_id", req.Header.Get(headerRequestID),
		"headers", redactHeaders(req.Header, t.reg.Options.RedactedHeaders),
	)
}

// redactHeaders renders headers for logging. Authorization and any
// configured header names are replaced with a placeholder; matching is
// case-insensitive.
func redactHeaders(h http.Header, redacted []string) map[string]string {
	hidden := map[string]bool{strings.ToLower(headerAuthorization): true}
	for _, name := range redacted {
		hidden[strings.ToLower(name)] = true
	}

	rendered := make(map[string]string, len(h))
	for name, values := range h {
		if hidden[strings.ToLower(name)] {
			rendered[name] = "[REDACTED]"
			continue
		}
		rendered[name] = strings.Join(values, ", ")
	}
	return rendered
}
