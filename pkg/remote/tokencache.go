package remote

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultRefreshBuffer is the safety margin subtracted from a token's expiry.
// A cached token within this margin of expiring is refreshed proactively so
// it cannot expire mid-flight of the outbound call.
const DefaultRefreshBuffer = 45 * time.Second

// TokenCache caches bearer tokens per scope set for the lifetime of the
// process. It is safe for concurrent use: reads of a fresh token are
// lock-free, and refreshes serialize per scope set so at most one credential
// provider call is in flight per key at any time. Distinct scope sets never
// block each other.
//
// Construct one cache per process and share it; each test can construct its
// own.
type TokenCache struct {
	// tokens maps scope-set key to *AccessToken. Entries are replaced
	// wholesale on refresh, never merged.
	tokens sync.Map

	// locks maps scope-set key to a 1-buffered channel used as a
	// cancellable mutex. Created lazily, never removed; the key space is
	// bounded by the distinct scope sets of configured clients.
	locks sync.Map
}

// NewTokenCache creates an empty token cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// GetTokenOption customizes a single GetToken call.
type GetTokenOption func(*getTokenConfig)

type getTokenConfig struct {
	refreshBuffer time.Duration
}

// WithRefreshBuffer overrides DefaultRefreshBuffer for one call.
// The buffer must not be negative.
func WithRefreshBuffer(d time.Duration) GetTokenOption {
	return func(c *getTokenConfig) { c.refreshBuffer = d }
}

// GetToken returns a token valid for the ordered scope sequence, consulting
// the cache first and calling the provider only when the cached token is
// absent or expires within the refresh buffer.
//
// The fast path takes no lock. The slow path serializes per scope set with a
// double-checked re-read, so N concurrent callers against an empty cache
// produce exactly one provider invocation. A provider failure propagates to
// the caller and leaves the cache unchanged; the next call retries from
// scratch. Cancellation is honored both while waiting for the per-key lock
// and during the provider call, surfacing as the context's error.
func (c *TokenCache) GetToken(ctx context.Context, provider CredentialProvider, scopes []string, opts ...GetTokenOption) (*AccessToken, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: credential provider is nil", ErrInvalidConfiguration)
	}

	cfg := getTokenConfig{refreshBuffer: DefaultRefreshBuffer}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.refreshBuffer < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRefreshBuffer, cfg.refreshBuffer)
	}

	key, err := scopeSetKey(scopes)
	if err != nil {
		return nil, err
	}

	if tok, ok := c.lookup(key, cfg.refreshBuffer); ok {
		return tok, nil
	}

	unlock, err := c.lockScopeSet(ctx, key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Re-check under the lock: a concurrent caller may have refreshed the
	// token while we waited.
	if tok, ok := c.lookup(key, cfg.refreshBuffer); ok {
		return tok, nil
	}

	tok, err := provider.GetToken(ctx, scopes)
	if err != nil {
		return nil, err
	}
	if tok == nil || tok.Token == "" {
		return nil, fmt.Errorf("%w: provider returned an empty token", ErrCredentialUnavailable)
	}

	c.tokens.Store(key, tok)
	return tok, nil
}

// ClearAll drops every cached token. Per-key locks stay intact, so in-flight
// refreshes keep their serialization. Used for testing and forced rotation.
func (c *TokenCache) ClearAll() {
	c.tokens.Clear()
}

// lookup returns the cached token for key if it stays valid beyond the
// refresh buffer.
func (c *TokenCache) lookup(key string, buffer time.Duration) (*AccessToken, bool) {
	v, ok := c.tokens.Load(key)
	if !ok {
		return nil, false
	}
	tok := v.(*AccessToken)
	if time.Now().Add(buffer).Before(tok.ExpiresOn) {
		return tok, true
	}
	return nil, false
}

// lockScopeSet acquires the per-key refresh lock, creating it on first use.
// A caller cancelled while waiting never holds the lock.
func (c *TokenCache) lockScopeSet(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, _ := c.locks.LoadOrStore(key, make(chan struct{}, 1))
	sem := v.(chan struct{})

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
