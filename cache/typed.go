package cache

import "context"

// ReadAs reads key through the store and returns the cached value as T.
// The entry snapshot rides along so callers can inspect staleness or a
// retained error next to last-known data.
func ReadAs[T any](ctx context.Context, s *Store, key Key, fetch func(context.Context) (T, error)) (T, Entry, error) {
	var zero T

	e, err := s.Read(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, e, err
	}

	v, ok := e.Data.(T)
	if !ok {
		// Entry holds nothing usable for this type (nil data from a racing
		// remove); the zero value is the honest answer.
		return zero, e, nil
	}
	return v, e, nil
}
