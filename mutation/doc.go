// Package mutation executes write operations against the backend and brings
// the cache back into a consistent state afterward.
//
// # Overview
//
// A Mutation names its operation (create, update, delete, status transition,
// assign), the entity kind and id it touches, and an Execute function that
// performs the actual HTTP call. The Coordinator runs it and applies a
// declared cache plan, only after the server confirms success:
//
//   - create: invalidate the kind's list views (the new row must appear,
//     its position is server-determined).
//   - update / statusTransition / assign: patch the detail entry and list
//     entries in place when the response carries the full updated entity,
//     then invalidate detail, lists, and the entity's derived views
//     (activity log, contact history) so a background refetch reconciles.
//     If the refetch disagrees with the patch, the refetch wins.
//   - delete: remove the detail entry entirely and invalidate the lists.
//
// A failed mutation leaves the cache untouched and surfaces the normalized
// error; nothing is retried.
//
// # Ordering
//
// Mutations on the same entity fired in quick succession resolve in network
// order, not issuance order. The Coordinator tracks a per-entity sequence
// token: a response that resolves after a later-issued mutation applies no
// cache effects, so a double-fired action cannot clobber the newer result.
//
// Every run attaches a fresh idempotency key to the outgoing request, which
// the transport forwards as the Idempotency-Key header.
package mutation
