package remote

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// RegisterOutcome reports what a Register call did.
type RegisterOutcome int

const (
	// OutcomeRegistered means the name was inserted for the first time.
	OutcomeRegistered RegisterOutcome = iota

	// OutcomeAlreadyRegistered means the name was already present with
	// structurally equal options; the call was a no-op.
	OutcomeAlreadyRegistered
)

// String returns a human-readable outcome name.
func (o RegisterOutcome) String() string {
	switch o {
	case OutcomeRegistered:
		return "registered"
	case OutcomeAlreadyRegistered:
		return "already registered"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ClientRegistration is a named client's stored configuration.
type ClientRegistration struct {
	// Name is the name as supplied at registration.
	Name string

	// Options is the validated, normalized configuration snapshot.
	Options *Options

	canonical string
	provider  CredentialProvider
}

// Registry maps case-insensitive client names to their registered
// configuration, enforcing at-most-one configuration per name. It also owns
// the process-wide token cache and one credential provider per credential
// type. Construct one registry per process at startup and share it; each
// test can construct its own.
type Registry struct {
	cache   *TokenCache
	runtime *RuntimeConfig
	logger  *slog.Logger

	// clients maps normalized (lowercase) name to *ClientRegistration.
	clients sync.Map

	// providers maps CredentialType to CredentialProvider. Populated lazily
	// on first registration of each type, never overwritten.
	providers sync.Map
}

// RegistryOption customizes a Registry.
type RegistryOption func(*Registry)

// WithTokenCache uses an existing token cache instead of a fresh one.
func WithTokenCache(cache *TokenCache) RegistryOption {
	return func(r *Registry) { r.cache = cache }
}

// WithRuntimeConfig supplies hosting-environment settings instead of reading
// them from the environment.
func WithRuntimeConfig(cfg *RuntimeConfig) RegistryOption {
	return func(r *Registry) { r.runtime = cfg }
}

// WithLogger attaches a logger for registration and request events.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry creates an empty client registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewTokenCache()
	}
	if r.runtime == nil {
		cfg, err := RuntimeConfigFromEnv()
		if err != nil {
			cfg = &RuntimeConfig{}
		}
		r.runtime = cfg
	}
	return r
}

// Register validates options and registers them under name. Names are
// case-insensitive. Registering the same name again with structurally equal
// options is a no-op reported as OutcomeAlreadyRegistered; with different
// options it fails with ErrConflictingRegistration. Validation failures leave
// the registry unchanged. The outcome is meaningful only when err is nil.
//
// Registration errors are configuration errors: callers should treat them as
// fatal at startup, before any request traffic is served.
func (r *Registry) Register(name string, options *Options) (RegisterOutcome, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: client name is required", ErrInvalidConfiguration)
	}
	if options == nil {
		return 0, fmt.Errorf("%w: options are nil", ErrInvalidConfiguration)
	}

	if err := options.Validate(); err != nil {
		return 0, err
	}

	normalized := options.normalized()
	canon, err := normalized.canonical()
	if err != nil {
		return 0, err
	}

	provider, err := r.ensureProvider(normalized)
	if err != nil {
		return 0, err
	}

	key := strings.ToLower(strings.TrimSpace(name))
	reg := &ClientRegistration{
		Name:      name,
		Options:   normalized,
		canonical: canon,
		provider:  provider,
	}

	// Insert-if-absent; on a race the loser re-reads the winning entry and
	// compares configurations exactly like the already-present path.
	actual, loaded := r.clients.LoadOrStore(key, reg)
	if !loaded {
		if r.logger != nil {
			r.logger.Debug("registered remote client",
				"client", key,
				"credential_type", string(normalized.CredentialType),
				"service_uri", normalized.ServiceURI)
		}
		return OutcomeRegistered, nil
	}

	existing := actual.(*ClientRegistration)
	if existing.canonical == canon {
		return OutcomeAlreadyRegistered, nil
	}
	return 0, fmt.Errorf("%w: client %q is already registered with different options", ErrConflictingRegistration, name)
}

// Lookup returns the registration for name, if present. Matching is
// case-insensitive.
func (r *Registry) Lookup(name string) (*ClientRegistration, bool) {
	v, ok := r.clients.Load(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		return nil, false
	}
	return v.(*ClientRegistration), true
}

// Client builds an HTTP client for a registered name. Every request through
// the client is authenticated according to the registration's credential
// type before transmission.
func (r *Registry) Client(name string) (*http.Client, error) {
	reg, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrClientNotRegistered, name)
	}

	base := newBaseTransport(reg.Options)
	if reg.Options.EnableRetry {
		base = &retryTransport{base: base, maxTries: uint(reg.Options.MaxRetries) + 1}
	}

	return &http.Client{
		Transport: &authTransport{
			reg:    reg,
			cache:  r.cache,
			base:   base,
			logger: r.logger,
		},
		Timeout: reg.Options.Timeout,
	}, nil
}

// MustClient is like Client but panics on error. Intended for startup wiring
// where a missing registration is a programming error.
func (r *Registry) MustClient(name string) *http.Client {
	client, err := r.Client(name)
	if err != nil {
		panic(err)
	}
	return client
}

// ClearTokens atomically drops all cached tokens, forcing every client to
// re-acquire on next use.
func (r *Registry) ClearTokens() {
	r.cache.ClearAll()
}

// ensureProvider returns the process-wide credential provider for the
// options' credential type, creating it on first use. The first registration
// of a type wins; later registrations reuse it and never overwrite it.
func (r *Registry) ensureProvider(o *Options) (CredentialProvider, error) {
	switch o.CredentialType {
	case CredentialAuthorizationHeader, CredentialNone:
		// Static or absent credentials need no provider.
		return nil, nil
	}

	if v, ok := r.providers.Load(o.CredentialType); ok {
		return v.(CredentialProvider), nil
	}

	var (
		provider CredentialProvider
		err      error
	)
	switch o.CredentialType {
	case CredentialClientSecret:
		provider = newClientSecretProvider(o)
	case CredentialManagedIdentity:
		provider, err = newManagedIdentityProviderWithRuntime(o, r.runtime)
	default:
		return nil, fmt.Errorf("%w: no credential provider for %s", ErrCredentialTypeNotSupported, o.CredentialType)
	}
	if err != nil {
		return nil, err
	}

	actual, _ := r.providers.LoadOrStore(o.CredentialType, provider)
	return actual.(CredentialProvider), nil
}
