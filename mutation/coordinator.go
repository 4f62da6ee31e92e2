package mutation

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkoval/crmsync/cache"
	"github.com/dkoval/crmsync/internal/logging"
	"github.com/dkoval/crmsync/transport"
	"github.com/google/uuid"
)

// Op is the kind of write operation a Mutation performs.
type Op string

const (
	OpCreate           Op = "create"
	OpUpdate           Op = "update"
	OpDelete           Op = "delete"
	OpStatusTransition Op = "statusTransition"
	OpAssign           Op = "assign"
)

// Mutation describes one write operation and the inputs to its cache plan.
type Mutation struct {
	Op       Op
	Kind     string
	EntityID string // empty for create

	// Execute performs the HTTP call and returns the server-confirmed
	// entity when the response carries one, nil otherwise.
	Execute func(ctx context.Context) (any, error)

	// PatchDetail marks the Execute result as the full updated entity,
	// eligible to overwrite the cached detail entry in place. Leave false
	// when the response is something else (a sub-resource, an ack); the
	// plan then invalidates only.
	PatchDetail bool

	// PatchList rewrites a cached list result around the confirmed entity.
	// Leave nil when the response does not carry the full entity; the plan
	// then invalidates only.
	PatchList func(cur, confirmed any) any
}

// Coordinator runs mutations and applies their cache plans. One per client;
// all cache writes are expected to flow through it.
type Coordinator struct {
	store *cache.Store
	log   logging.Logger

	mu      sync.Mutex
	seq     map[string]uint64 // last issued token per kind/id
	applied map[string]uint64 // last token whose cache plan was applied
}

// NewCoordinator creates a Coordinator over the given store.
func NewCoordinator(store *cache.Store, log logging.Logger) *Coordinator {
	if log == nil {
		log = logging.NewNop()
	}
	return &Coordinator{
		store:   store,
		log:     log,
		seq:     make(map[string]uint64),
		applied: make(map[string]uint64),
	}
}

// Run executes m. Cache effects are applied only after the server confirms
// success; a failure leaves the cache untouched and returns the normalized
// error. A resolution that arrives after a later-issued mutation on the
// same entity has already applied its cache plan is discarded.
func (c *Coordinator) Run(ctx context.Context, m Mutation) (any, error) {
	token := c.issue(m)
	ctx = transport.WithIdempotencyKey(ctx, uuid.NewString())

	confirmed, err := m.Execute(ctx)
	if err != nil {
		return nil, transport.AsAPIError(err, "")
	}

	if !c.commit(m, token, confirmed) {
		c.log.Warn(ctx, "stale mutation resolution, cache untouched",
			"op", string(m.Op), "kind", m.Kind, "id", m.EntityID)
	}
	return confirmed, nil
}

func (c *Coordinator) issue(m Mutation) uint64 {
	if m.EntityID == "" {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	k := m.Kind + "/" + m.EntityID
	c.seq[k]++
	return c.seq[k]
}

// commit applies m's cache plan if no later-issued mutation on the same
// entity has applied its plan first. The comparison is against the last
// APPLIED token, not the last issued one: a later mutation that failed
// applied nothing, so it must not stop an earlier confirmed change from
// reaching the cache. Held across apply so plans land in token order.
func (c *Coordinator) commit(m Mutation, token uint64, confirmed any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m.EntityID != "" {
		k := m.Kind + "/" + m.EntityID
		if token <= c.applied[k] {
			return false
		}
		c.applied[k] = token
	}
	c.apply(m, confirmed)
	return true
}

// apply is the per-operation cache plan.
func (c *Coordinator) apply(m Mutation, confirmed any) {
	switch m.Op {
	case OpCreate:
		c.store.Invalidate(cache.ListsOf(m.Kind))

	case OpDelete:
		// Remove, not invalidate: the resource no longer exists, so not
		// even stale detail data may be served.
		c.store.Remove(cache.DetailKey(m.Kind, m.EntityID))
		c.store.Invalidate(cache.ListsOf(m.Kind))
		c.store.Invalidate(cache.DerivedOf(m.Kind, m.EntityID))

	default: // OpUpdate, OpStatusTransition, OpAssign
		detail := cache.DetailKey(m.Kind, m.EntityID)
		if confirmed != nil {
			if m.PatchDetail {
				c.store.Patch(detail, func(any) any { return confirmed })
			}
			if m.PatchList != nil {
				c.store.PatchView(m.Kind, cache.ViewList, func(cur any) any {
					return m.PatchList(cur, confirmed)
				})
			}
		}
		// Patch first, then mark stale: readers see the change right away
		// and the next access reconciles against server truth. Derived
		// views (activity, contacts) grow server-side entries the client
		// cannot predict, so they are always invalidated.
		c.store.InvalidateKey(detail)
		c.store.Invalidate(cache.ListsOf(m.Kind))
		c.store.Invalidate(cache.DerivedOf(m.Kind, m.EntityID))
	}
}

// Do runs m through c and returns the confirmed result as T. A confirmed
// result of a different type is a programming error at the call site and
// surfaces as a normalized error rather than a silent zero value.
func Do[T any](ctx context.Context, c *Coordinator, m Mutation) (T, error) {
	var zero T
	res, err := c.Run(ctx, m)
	if err != nil {
		return zero, err
	}
	v, ok := res.(T)
	if !ok {
		return zero, transport.AsAPIError(
			fmt.Errorf("confirmed result is %T, want %T", res, zero),
			"unexpected server response")
	}
	return v, nil
}

// Identifiable is implemented by every entity model.
type Identifiable interface{ EntityID() string }

// ReplaceByID builds a PatchList function for []T lists: the element whose
// id matches the confirmed entity is replaced in a copied slice, leaving
// the cached slice itself untouched for concurrent readers.
func ReplaceByID[T Identifiable]() func(cur, confirmed any) any {
	return func(cur, confirmed any) any {
		list, ok := cur.([]T)
		upd, ok2 := confirmed.(T)
		if !ok || !ok2 {
			return cur
		}
		out := make([]T, len(list))
		copy(out, list)
		for i, item := range list {
			if item.EntityID() == upd.EntityID() {
				out[i] = upd
			}
		}
		return out
	}
}
