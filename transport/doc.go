// Package transport is the single point of outbound HTTP traffic for the SDK.
//
// # Overview
//
// The package provides:
//  1. A Client that owns the HTTP connection to the CRM backend: it attaches
//     session credentials via a cookie jar, performs exactly one attempt per
//     request (no retries), and maps failure responses onto sentinel errors.
//     A 401 additionally fires the unauthenticated hook — once per session,
//     no matter how many concurrent requests observe the expired session. A
//     403 fires the forbidden hook without invalidating the session.
//  2. A request envelope (Call, CallNoContent, Download) that adapts a raw
//     HTTP exchange into a uniform success/failure contract: on success the
//     decoded payload, on failure an *APIError whose Message is always safe
//     to show to a person.
//  3. Client-side payload validation (ValidateParams) so malformed writes
//     are rejected before any network call is attempted.
//
// # Error Handling
//
// Sentinel errors (ErrUnauthenticated, ErrForbidden, ErrNotFound,
// ErrUnavailable, ErrValidation) are preserved through normalization and can
// be matched with errors.Is on any error returned by this package. No raw
// transport or decoding failure ever escapes unnormalized from the envelope
// functions.
//
// # Concurrency
//
// Client is safe for concurrent use. All operations accept context.Context
// and honor cancellation; no timeout beyond the underlying http.Client's is
// imposed here.
package transport
