// Package remote configures authenticated outbound HTTP clients for
// inter-service calls made by serverless applications.
//
// Clients are registered once at startup under a case-insensitive name and
// consumed anywhere in the process. Requests through a registered client are
// authenticated before transmission using the client's credential type, with
// bearer tokens served from a process-wide token cache.
//
// # Credential Types
//
//   - Managed Identity: tokens from the hosting platform's identity endpoint
//   - Client Secret: OAuth 2.0 client credentials flow against an authority
//   - Authorization Header: a fixed caller-supplied scheme and value
//   - None: requests are sent without credentials
//
// # Registering and Using a Client
//
//	registry := remote.NewRegistry()
//
//	_, err := registry.Register("billing", &remote.Options{
//	    ServiceURI:      "https://billing.internal.example.com",
//	    ApplicationName: "order-processor",
//	    CredentialType:  remote.CredentialClientSecret,
//	    AuthorityHost:   "https://login.example.com",
//	    SecretCredential: &remote.SecretCredentialOptions{
//	        TenantID:     "tenant-id",
//	        ClientID:     "client-id",
//	        ClientSecret: "client-secret",
//	    },
//	    Scopes: []string{"https://billing.internal.example.com/.default"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := registry.Client("billing")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := client.Get("https://billing.internal.example.com/invoices")
//
// Registration errors are configuration errors. They surface synchronously so
// misconfiguration is caught at startup, before any request traffic is
// served. Registering the same name twice with equal options is a no-op;
// with different options it fails with ErrConflictingRegistration.
//
// # Token Caching
//
// Tokens are cached per ordered scope set for the lifetime of the process.
// A cached token is served lock-free until it comes within the refresh
// buffer (45 seconds by default) of its expiry; refreshes serialize per
// scope set so concurrent callers trigger exactly one round trip to the
// identity provider. Provider failures propagate to the caller and never
// poison other cache entries.
//
// The cache can also be used directly with any CredentialProvider:
//
//	cache := remote.NewTokenCache()
//	tok, err := cache.GetToken(ctx, provider, []string{"https://api.example.com/.default"})
//
// # Thread Safety
//
// Registry and TokenCache are safe for concurrent use. Options are validated
// once at registration and treated as immutable afterwards.
//
// # Security Considerations
//
//   - Always use TLS in production (enabled by default, minimum TLS 1.2)
//   - Tokens and client secrets are never logged
//   - Use Options.RedactedHeaders to keep sensitive headers out of logs
package remote
