package domain

import "errors"

// Error kinds surfaced to the caller. Services wrap these with context
// via fmt.Errorf and callers classify with errors.Is.
var (
	// ErrProviderUnavailable means the provider gateway failed its
	// health check; the whole request is aborted.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderRequestFailed covers a non-2xx or malformed response
	// for a single provider call.
	ErrProviderRequestFailed = errors.New("provider request failed")

	// ErrStoreFailure covers persistence errors, including an ingest
	// that cannot produce a surrogate id.
	ErrStoreFailure = errors.New("store failure")

	// ErrIdentityNotResolvable means the name/tag/region combination is
	// unknown to the account provider.
	ErrIdentityNotResolvable = errors.New("identity not resolvable")

	// ErrRegionUnsupported is reported before any network call.
	ErrRegionUnsupported = errors.New("unsupported region")
)
