package remote

import "errors"

var (
	// ErrInvalidScopes indicates a token was requested with an empty or
	// malformed scope sequence.
	ErrInvalidScopes = errors.New("remote: invalid scopes")

	// ErrInvalidRefreshBuffer indicates a negative refresh buffer was supplied.
	ErrInvalidRefreshBuffer = errors.New("remote: invalid refresh buffer")

	// ErrInvalidConfiguration indicates the client options are invalid.
	ErrInvalidConfiguration = errors.New("remote: invalid configuration")

	// ErrMissingServiceURI indicates the service URI is absent or blank.
	ErrMissingServiceURI = errors.New("remote: missing service uri")

	// ErrMissingAuthorityHost indicates the authority host is required for the
	// configured credential type but is absent or blank.
	ErrMissingAuthorityHost = errors.New("remote: missing authority host")

	// ErrMissingSecretCredentialOptions indicates the client secret credential
	// options are absent or incomplete.
	ErrMissingSecretCredentialOptions = errors.New("remote: missing secret credential options")

	// ErrMissingAuthorizationHeader indicates the static authorization header
	// is absent for the authorization header credential type.
	ErrMissingAuthorizationHeader = errors.New("remote: missing authorization header")

	// ErrCredentialTypeNotSupported indicates the credential type is not one of
	// the supported values.
	ErrCredentialTypeNotSupported = errors.New("remote: credential type not supported")

	// ErrConflictingRegistration indicates a client name was registered twice
	// with different options.
	ErrConflictingRegistration = errors.New("remote: conflicting client registration")

	// ErrClientNotRegistered indicates no client is registered under the
	// requested name.
	ErrClientNotRegistered = errors.New("remote: client not registered")

	// ErrCredentialUnavailable indicates the credential provider failed to
	// issue a token.
	ErrCredentialUnavailable = errors.New("remote: credential unavailable")

	// ErrAuthenticationFailed indicates an outbound request could not be
	// authenticated before transmission.
	ErrAuthenticationFailed = errors.New("remote: authentication failed")
)
