package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dkoval/crmsync/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedFetch(v any) FetchFunc {
	return func(context.Context) (any, error) { return v, nil }
}

func failingFetch(msg string) FetchFunc {
	return func(context.Context) (any, error) {
		return nil, &transport.APIError{Message: msg}
	}
}

func TestReadPopulatesAndServesFresh(t *testing.T) {
	s := NewStore(WithStaleAfter(0))
	key := ListKey("leads", nil, Page{})

	var calls atomic.Int64
	fetch := func(context.Context) (any, error) {
		calls.Add(1)
		return "v1", nil
	}

	e, err := s.Read(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", e.Data)
	assert.Equal(t, StatusSuccess, e.Status)

	// Second read is a cache hit, no fetch.
	e, err = s.Read(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", e.Data)
	assert.Equal(t, int64(1), calls.Load())
	assert.Equal(t, int64(1), s.Stats().Hits)
}

func TestConcurrentReadsDeduplicate(t *testing.T) {
	s := NewStore(WithStaleAfter(0))
	key := ListKey("leads", nil, Page{})

	var calls atomic.Int64
	release := make(chan struct{})
	fetch := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "v1", nil
	}

	const readers = 3
	var wg sync.WaitGroup
	results := make([]Entry, readers)
	errs := make([]error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Read(context.Background(), key, fetch)
		}(i)
	}

	// Let every reader reach the shared in-flight request before it
	// resolves.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "structurally equal keys must share one network call")
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, "v1", results[i].Data)
	}
}

func TestInvalidateServesStaleWhileRevalidating(t *testing.T) {
	s := NewStore(WithStaleAfter(0))
	key := ListKey("leads", nil, Page{})

	_, err := s.Read(context.Background(), key, fixedFetch("v1"))
	require.NoError(t, err)

	require.True(t, s.InvalidateKey(key))

	// Reader keeps seeing the previous value until the refetch resolves.
	e, err := s.Read(context.Background(), key, fixedFetch("v2"))
	require.NoError(t, err)
	assert.Equal(t, "v1", e.Data)
	assert.True(t, e.Stale)

	s.Wait()
	e, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "v2", e.Data)
	assert.Equal(t, StatusSuccess, e.Status)
	assert.False(t, e.Stale)
}

func TestConvergenceRefetchWinsOverPatch(t *testing.T) {
	s := NewStore(WithStaleAfter(0))
	key := ListKey("leads", nil, Page{})

	_, err := s.Read(context.Background(), key, fixedFetch("server-v1"))
	require.NoError(t, err)

	require.True(t, s.Patch(key, func(any) any { return "patched" }))
	s.InvalidateKey(key)

	e, err := s.Read(context.Background(), key, fixedFetch("server-v2"))
	require.NoError(t, err)
	assert.Equal(t, "patched", e.Data, "patch visible until refetch resolves")

	s.Wait()
	e, _ = s.Get(key)
	assert.Equal(t, "server-v2", e.Data, "server truth wins over any patch")
}

func TestFailedRefetchKeepsPreviousData(t *testing.T) {
	s := NewStore(WithStaleAfter(0))
	key := ListKey("leads", nil, Page{})

	_, err := s.Read(context.Background(), key, fixedFetch("v1"))
	require.NoError(t, err)

	s.InvalidateKey(key)
	_, err = s.Read(context.Background(), key, failingFetch("backend down"))
	require.NoError(t, err)
	s.Wait()

	e, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, StatusError, e.Status)
	assert.Equal(t, "v1", e.Data, "failed refetch must not destroy last-known data")
	require.NotNil(t, e.Err)
	assert.Equal(t, "backend down", e.Err.Message)
}

func TestFirstReadFailureSurfacesNormalizedError(t *testing.T) {
	s := NewStore(WithStaleAfter(0))
	key := DetailKey("leads", "L1")

	_, err := s.Read(context.Background(), key, failingFetch("nope"))
	require.Error(t, err)
	var ae *transport.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "nope", ae.Message)

	e, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, StatusError, e.Status)
	assert.Nil(t, e.Data)
}

func TestPatchMissingEntryIsNoOp(t *testing.T) {
	s := NewStore()
	key := DetailKey("leads", "ghost")

	called := false
	ok := s.Patch(key, func(v any) any {
		called = true
		return v
	})

	assert.False(t, ok)
	assert.False(t, called)
	_, exists := s.Get(key)
	assert.False(t, exists, "speculative patches must not create phantom entries")
}

func TestPatchViewTouchesOnlyMatchingEntries(t *testing.T) {
	s := NewStore(WithStaleAfter(0))
	leads := ListKey("leads", nil, Page{})
	users := ListKey("users", nil, Page{})

	_, err := s.Read(context.Background(), leads, fixedFetch("leads-data"))
	require.NoError(t, err)
	_, err = s.Read(context.Background(), users, fixedFetch("users-data"))
	require.NoError(t, err)

	n := s.PatchView("leads", ViewList, func(any) any { return "patched" })
	assert.Equal(t, 1, n)

	e, _ := s.Get(leads)
	assert.Equal(t, "patched", e.Data)
	e, _ = s.Get(users)
	assert.Equal(t, "users-data", e.Data)
}

func TestRemoveEvicts(t *testing.T) {
	s := NewStore(WithStaleAfter(0))
	key := DetailKey("leads", "L1")

	_, err := s.Read(context.Background(), key, fixedFetch("v1"))
	require.NoError(t, err)

	require.True(t, s.Remove(key))
	_, ok := s.Get(key)
	assert.False(t, ok, "removed entries must not serve even stale data")
	assert.Equal(t, int64(1), s.Stats().Evictions)
}

func TestInvalidateByPredicate(t *testing.T) {
	s := NewStore(WithStaleAfter(0))
	l1 := ListKey("leads", map[string]string{"status": "New"}, Page{})
	l2 := ListKey("leads", nil, Page{})
	u1 := ListKey("users", nil, Page{})

	for _, k := range []Key{l1, l2, u1} {
		_, err := s.Read(context.Background(), k, fixedFetch("x"))
		require.NoError(t, err)
	}

	n := s.Invalidate(ListsOf("leads"))
	assert.Equal(t, 2, n)

	e, _ := s.Get(l1)
	assert.True(t, e.Stale)
	e, _ = s.Get(u1)
	assert.False(t, e.Stale)
}

func TestTimeBasedStaleness(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	s := NewStore(WithStaleAfter(time.Minute), WithClock(clock))
	key := ListKey("leads", nil, Page{})

	_, err := s.Read(context.Background(), key, fixedFetch("v1"))
	require.NoError(t, err)

	// Within the window: fresh hit.
	e, err := s.Read(context.Background(), key, failingFetch("should not be called"))
	require.NoError(t, err)
	assert.Equal(t, "v1", e.Data)
	assert.False(t, e.Stale)

	// Past the window: served stale, revalidated in background.
	now = now.Add(2 * time.Minute)
	e, err = s.Read(context.Background(), key, fixedFetch("v2"))
	require.NoError(t, err)
	assert.Equal(t, "v1", e.Data)
	assert.True(t, e.Stale)

	s.Wait()
	e, _ = s.Get(key)
	assert.Equal(t, "v2", e.Data)
}

func TestReadAsTypes(t *testing.T) {
	s := NewStore(WithStaleAfter(0))
	key := ListKey("nums", nil, Page{})

	vals, e, err := ReadAs(context.Background(), s, key, func(context.Context) ([]int, error) {
		return []int{1, 2, 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, vals)
	assert.Equal(t, StatusSuccess, e.Status)

	_, _, err = ReadAs(context.Background(), s, DetailKey("nums", "x"), func(context.Context) ([]int, error) {
		return nil, errors.New("boom")
	})
	require.Error(t, err)
}
