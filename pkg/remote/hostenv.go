package remote

import (
	"fmt"

	"github.com/joeshaw/envdecode"
)

const (
	defaultIdentityEndpoint   = "http://169.254.169.254/metadata/identity/oauth2/token"
	defaultIdentityAPIVersion = "2019-08-01"
)

// RuntimeConfig holds settings consumed from the hosting environment.
// Defaults can be loaded via envdecode.
type RuntimeConfig struct {
	// Mode selects the runtime mode. The library passes it through opaquely;
	// callers branch on it. ENV: REMOTE_RUNTIME_MODE
	Mode string `env:"REMOTE_RUNTIME_MODE,default=production"`

	// IdentityEndpoint is the managed identity token endpoint.
	// ENV: IDENTITY_ENDPOINT
	IdentityEndpoint string `env:"IDENTITY_ENDPOINT,default=http://169.254.169.254/metadata/identity/oauth2/token"`

	// IdentityHeader authenticates calls to the identity endpoint when the
	// platform requires it. ENV: IDENTITY_HEADER
	IdentityHeader string `env:"IDENTITY_HEADER"`

	// IdentityAPIVersion is the identity endpoint API version.
	// ENV: IDENTITY_API_VERSION
	IdentityAPIVersion string `env:"IDENTITY_API_VERSION,default=2019-08-01"`
}

// RuntimeConfigFromEnv populates a RuntimeConfig from the environment.
// Defaults are provided via struct tags.
func RuntimeConfigFromEnv() (*RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return &cfg, nil
}
