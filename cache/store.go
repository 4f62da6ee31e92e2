package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkoval/crmsync/internal/logging"
	"github.com/dkoval/crmsync/transport"
	"golang.org/x/sync/singleflight"
)

// FetchFunc populates a cache entry from the backend.
type FetchFunc func(ctx context.Context) (any, error)

// Store maps query identities to their last-known results. Construct one per
// client; there is no package-level instance.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry

	flight   singleflight.Group
	inflight sync.WaitGroup

	staleAfter time.Duration
	log        logging.Logger
	now        func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	dedupes   atomic.Int64
	evictions atomic.Int64
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithStaleAfter sets how long a successful entry counts as fresh before
// reads start revalidating it in the background. Zero disables time-based
// staleness; entries then go stale only through explicit invalidation.
func WithStaleAfter(d time.Duration) StoreOption {
	return func(s *Store) { s.staleAfter = d }
}

// WithStoreLogger sets the diagnostics logger.
func WithStoreLogger(l logging.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// WithClock overrides the time source. Tests use it to control freshness.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		entries:    make(map[string]*entry),
		staleAfter: 30 * time.Second,
		log:        logging.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read returns the entry for key, populating it through fetch when needed.
//
// Fresh data is served without a network call. Stale data is served
// immediately while a single background refetch revalidates it. A missing
// entry blocks on exactly one fetch shared by all concurrent readers of the
// structurally same key.
func (s *Store) Read(ctx context.Context, key Key, fetch FetchFunc) (Entry, error) {
	id := key.String()

	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		e = &entry{key: key, status: StatusLoading}
		s.entries[id] = e
	}

	if ok {
		fresh := e.status == StatusSuccess && !e.stale && !s.expiredLocked(e)
		if fresh {
			snap := e.snapshot()
			s.mu.Unlock()
			s.hits.Add(1)
			return snap, nil
		}

		// Anything previously populated is served as-is while one
		// revalidation runs behind it.
		if e.status == StatusSuccess || (e.status == StatusError && e.data != nil) {
			snap := e.snapshot()
			snap.Stale = true
			gen := e.gen
			s.mu.Unlock()
			s.hits.Add(1)
			s.revalidate(key, gen, fetch)
			return snap, nil
		}
	}
	gen := e.gen
	s.mu.Unlock()
	s.misses.Add(1)

	// First load, or an errored entry with nothing to show: block on the
	// shared fetch.
	v, err, shared := s.flight.Do(id, func() (any, error) {
		data, ferr := fetch(ctx)
		if ferr != nil {
			s.commitError(key, ferr)
			return nil, ferr
		}
		s.commitSuccess(key, gen, data)
		return data, nil
	})
	if shared {
		s.dedupes.Add(1)
	}
	if err != nil {
		ae := transport.AsAPIError(err, "")
		snap, _ := s.Get(key)
		if snap.Status == "" {
			snap = Entry{Key: key, Status: StatusError, Err: ae}
		}
		return snap, ae
	}

	snap, ok := s.Get(key)
	if !ok {
		// Entry was removed while the fetch was in flight (delete racing a
		// read); hand the caller the data without resurrecting the entry.
		snap = Entry{Key: key, Data: v, Status: StatusSuccess, LastUpdated: s.now()}
	}
	return snap, nil
}

// Get peeks at the entry for key without triggering population.
func (s *Store) Get(key Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key.String()]
	if !ok {
		return Entry{}, false
	}
	return e.snapshot(), true
}

// Invalidate marks every entry matching pred stale and reports how many
// matched. Current readers keep seeing the previous value until a refetch
// resolves; nothing is deleted.
func (s *Store) Invalidate(pred func(Key) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if pred(e.key) {
			e.stale = true
			e.gen++
			n++
		}
	}
	return n
}

// InvalidateKey marks a single entry stale.
func (s *Store) InvalidateKey(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key.String()]
	if !ok {
		return false
	}
	e.stale = true
	e.gen++
	return true
}

// InvalidateKind marks every view of an entity kind stale.
func (s *Store) InvalidateKind(kind string) int {
	return s.Invalidate(OfKind(kind))
}

// Patch synchronously applies fn to the cached value for key, without any
// network round trip. Patching a key with no populated entry is a no-op
// returning false: speculative patches never create phantom entries.
func (s *Store) Patch(key Key, fn func(any) any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key.String()]
	if !ok || (e.status != StatusSuccess && e.data == nil) {
		return false
	}
	e.data = fn(e.data)
	e.lastUpdated = s.now()
	return true
}

// PatchView applies fn to every populated entry of the given kind and view.
// Returns the number of entries patched.
func (s *Store) PatchView(kind, view string, fn func(any) any) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if e.key.Kind != kind || e.key.View != view {
			continue
		}
		if e.status != StatusSuccess && e.data == nil {
			continue
		}
		e.data = fn(e.data)
		e.lastUpdated = s.now()
		n++
	}
	return n
}

// Remove evicts the entry for key entirely. Used after a delete mutation:
// the resource no longer exists, so not even stale data may be served.
func (s *Store) Remove(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := key.String()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	s.evictions.Add(1)
	return true
}

// Wait blocks until no background revalidation is in flight. Intended for
// tests and orderly shutdown.
func (s *Store) Wait() {
	s.inflight.Wait()
}

// Stats is a point-in-time view of the store counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Dedupes   int64
	Evictions int64
	Entries   int
}

// Stats returns the current counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	n := len(s.entries)
	s.mu.Unlock()
	return Stats{
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Dedupes:   s.dedupes.Load(),
		Evictions: s.evictions.Load(),
		Entries:   n,
	}
}

// revalidate refreshes key in the background. Concurrent revalidations of
// the same key collapse into one fetch via singleflight.
func (s *Store) revalidate(key Key, gen uint64, fetch FetchFunc) {
	id := key.String()
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		_, err, shared := s.flight.Do(id, func() (any, error) {
			// The triggering reader may be long gone by the time this
			// resolves; the refetch outlives any single caller.
			data, ferr := fetch(context.Background())
			if ferr != nil {
				s.commitError(key, ferr)
				return nil, ferr
			}
			s.commitSuccess(key, gen, data)
			return data, nil
		})
		if shared {
			s.dedupes.Add(1)
		}
		if err != nil {
			s.log.Warn(context.Background(), "background refetch failed", "key", id, "error", err)
		}
	}()
}

// commitSuccess records a fetched value. If the entry was invalidated again
// while the fetch was in flight (gen moved), the data is stored but the
// entry stays stale so the next read revalidates once more. An entry
// removed mid-flight stays removed.
func (s *Store) commitSuccess(key Key, gen uint64, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key.String()]
	if !ok {
		return
	}
	e.data = data
	e.status = StatusSuccess
	e.err = nil
	e.lastUpdated = s.now()
	e.stale = e.gen != gen
}

// commitError records a failed fetch. Previous data survives: the entry goes
// to StatusError with the normalized error alongside whatever was last
// known.
func (s *Store) commitError(key Key, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key.String()]
	if !ok {
		return
	}
	e.status = StatusError
	e.err = transport.AsAPIError(err, "")
}

func (s *Store) expiredLocked(e *entry) bool {
	if s.staleAfter <= 0 {
		return false
	}
	return s.now().Sub(e.lastUpdated) > s.staleAfter
}
