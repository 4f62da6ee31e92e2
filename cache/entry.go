package cache

import (
	"time"

	"github.com/dkoval/crmsync/transport"
)

// Status is the lifecycle state of a cache entry.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Entry is a point-in-time snapshot of one cached result set. Err and Data
// can be set at the same time: a failed refetch keeps the previous data so
// callers can render last-known results alongside the failure.
type Entry struct {
	Key         Key
	Data        any
	Status      Status
	Err         *transport.APIError
	LastUpdated time.Time
	Stale       bool
}

// entry is the mutable store-internal record behind Entry snapshots.
type entry struct {
	key         Key
	data        any
	status      Status
	err         *transport.APIError
	lastUpdated time.Time
	stale       bool
	gen         uint64 // bumped on invalidation; detects mid-flight staleness
}

func (e *entry) snapshot() Entry {
	return Entry{
		Key:         e.key,
		Data:        e.data,
		Status:      e.status,
		Err:         e.err,
		LastUpdated: e.lastUpdated,
		Stale:       e.stale,
	}
}
