package transport

import (
	"errors"
	"fmt"
)

var (
	// Transport-level sentinels, matched with errors.Is.
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")

	// ErrValidation marks client-side payload violations that never
	// reached the wire.
	ErrValidation = errors.New("validation error")
)

// Error is the raw transport failure: the request reached the HTTP layer and
// came back non-2xx, or never came back at all. Callers outside this package
// normally see it only through errors.As after normalization.
type Error struct {
	Status int    // zero when no response was received
	Body   []byte // raw failure body, may be empty
	Err    error  // sentinel or underlying cause
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	return fmt.Sprintf("transport: status %d: %v", e.Status, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// APIError is the normalized failure surfaced to callers. Message is the
// single user-facing string; Details carries optional server-supplied
// structure; Raw keeps the failure body for diagnostics.
type APIError struct {
	Message string
	Details any
	Status  int
	Raw     []byte

	cause error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.cause }

// AsAPIError coerces err into an *APIError, normalizing foreign errors under
// the fallback message. Returns nil for a nil err.
func AsAPIError(err error, fallback string) *APIError {
	if err == nil {
		return nil
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae
	}
	msg := fallback
	if msg == "" {
		msg = err.Error()
	}
	return &APIError{Message: msg, cause: err}
}
