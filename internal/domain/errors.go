package domain

import "errors"

var (
	// ErrMissingCredentials means no configuration source yielded a usable
	// endpoint/key pair. Fatal to the whole flow.
	ErrMissingCredentials = errors.New("missing store credentials")

	// ErrInvalidCredentials means the resolved endpoint or key was rejected
	// while constructing a store handle (e.g. malformed URL).
	ErrInvalidCredentials = errors.New("invalid store credentials")

	// ErrMalformedCode means the user-entered pairing code failed local
	// validation; no network call was made.
	ErrMalformedCode = errors.New("malformed pairing code")

	// ErrSessionNotFound covers both "no row for that code" and a failed
	// lookup. The two are deliberately not distinguished at this layer.
	ErrSessionNotFound = errors.New("session not found")
)
