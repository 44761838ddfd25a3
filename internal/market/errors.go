package market

import "errors"

var (
	// ErrProviderUnavailable marks transport or parse failures talking to
	// an upstream source.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrEmptyResult marks a reachable source that returned no rows.
	ErrEmptyResult = errors.New("provider returned no rows")

	// ErrAllSourcesExhausted means every configured source failed or came
	// back empty; the existing cache must be left untouched.
	ErrAllSourcesExhausted = errors.New("all quote sources exhausted")

	// ErrNotFound marks a symbol absent from an otherwise good snapshot.
	ErrNotFound = errors.New("symbol not found")

	// ErrSchema means the identity (code) field was missing from every row
	// after normalization.
	ErrSchema = errors.New("identity field missing from provider rows")

	// ErrInvalidRequest marks a missing or malformed request parameter.
	ErrInvalidRequest = errors.New("invalid request")
)
