package remote

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// newBaseTransport builds the HTTP transport for outbound calls from
// validated options.
func newBaseTransport(o *Options) http.RoundTripper {
	customTLS := o.TLSConfig
	if customTLS == nil {
		customTLS = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	} else {
		// Clone to avoid modifying the original
		customTLS = customTLS.Clone()
	}

	if o.InsecureSkipVerify {
		customTLS.InsecureSkipVerify = true
	}

	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig:       customTLS,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: o.Timeout,
	}
}

// newDefaultHTTPClient creates the HTTP client used for credential provider
// calls. Provider calls never retry; failures propagate to the caller.
func newDefaultHTTPClient(o *Options) *http.Client {
	return &http.Client{
		Timeout:   o.Timeout,
		Transport: newBaseTransport(o),
	}
}

// retryTransport wraps a round tripper with exponential-backoff retries for
// transient failures (network errors, 5xx, 429). Client errors other than
// 429 are returned as-is.
type retryTransport struct {
	base     http.RoundTripper
	maxTries uint

	// initialInterval overrides the first backoff interval; zero keeps the
	// library default.
	initialInterval time.Duration
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// A consumed body cannot be replayed without GetBody.
	if req.Body != nil && req.GetBody == nil {
		return t.base.RoundTrip(req)
	}

	operation := func() (*http.Response, error) {
		attempt := req
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, backoff.Permanent(err)
			}
			attempt = req.Clone(req.Context())
			attempt.Body = body
		}

		resp, err := t.base.RoundTrip(attempt)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("remote: transient status %d from %s", resp.StatusCode, req.URL.Redacted())
		}
		return resp, nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	if t.initialInterval > 0 {
		expBackoff.InitialInterval = t.initialInterval
	}

	return backoff.Retry(req.Context(), operation,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxTries(t.maxTries),
	)
}
