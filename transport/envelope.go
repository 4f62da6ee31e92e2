package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// apiFailure mirrors the backend's failure envelope.
type apiFailure struct {
	Message string `json:"message"`
	Err     string `json:"error"`
	Details any    `json:"details"`
}

// Call executes r against c and decodes the success payload into T. Every
// failure path comes back as an *APIError; the raw transport error never
// escapes. Decoded structs (and slices of structs) are checked against
// their validate tags, rejecting malformed server responses at the boundary
// instead of letting them propagate into the cache.
func Call[T any](ctx context.Context, c *Client, r Request) (T, error) {
	var zero T

	resp, err := c.Do(ctx, r)
	if err != nil {
		return zero, Normalize(err, r.Fallback)
	}
	defer resp.Body.Close()

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, &APIError{
			Message: fallbackOr(r.Fallback, "unexpected server response"),
			Status:  resp.StatusCode,
			cause:   fmt.Errorf("decoding response: %w", err),
		}
	}

	if err := checkDecoded(out); err != nil {
		return zero, &APIError{
			Message: fallbackOr(r.Fallback, "unexpected server response"),
			Status:  resp.StatusCode,
			cause:   fmt.Errorf("malformed server response: %w", err),
		}
	}

	return out, nil
}

// CallNoContent executes r and discards any success body.
func CallNoContent(ctx context.Context, c *Client, r Request) error {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return Normalize(err, r.Fallback)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// Normalize converts any failure from Do into an *APIError. Message
// precedence: server-supplied "message", then server-supplied "error", then
// the caller's fallback. Already-normalized errors pass through unchanged.
func Normalize(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae
	}

	out := &APIError{Message: fallback, cause: err}

	var terr *Error
	if errors.As(err, &terr) {
		out.Status = terr.Status
		out.Raw = terr.Body
		var f apiFailure
		if len(terr.Body) > 0 && json.Unmarshal(terr.Body, &f) == nil {
			switch {
			case f.Message != "":
				out.Message = f.Message
			case f.Err != "":
				out.Message = f.Err
			}
			out.Details = f.Details
		}
	}

	if out.Message == "" {
		out.Message = "request failed"
	}
	return out
}

// ValidateParams checks a write payload client-side before any request is
// attempted. Failures wrap ErrValidation and carry the offending field
// names in Details; they must never reach the Transport Client.
func ValidateParams(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return &APIError{
			Message: fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", ")),
			Details: fields,
			cause:   ErrValidation,
		}
	}
	return &APIError{Message: "validation failed", cause: ErrValidation}
}

// checkDecoded validates a decoded payload when it is a struct or a slice
// of structs; scalar payloads pass through.
func checkDecoded(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return validate.Struct(rv.Interface())
	case reflect.Slice, reflect.Array:
		elem := rv.Type().Elem()
		for elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct {
			return validate.Var(rv.Interface(), "dive")
		}
	}
	return nil
}

func fallbackOr(fallback, def string) string {
	if fallback != "" {
		return fallback
	}
	return def
}
