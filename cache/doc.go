// Package cache is the in-memory entity cache: a keyed store mapping a query
// identity (entity kind + view + filter/page parameters) to its last-known
// result, with read-through population, request de-duplication, explicit
// invalidation and in-place patching.
//
// # Overview
//
//  1. Key is the structural identity of one cached result set. Two keys with
//     equal components address the same entry; the canonical string form is
//     the map key.
//  2. Entry is a point-in-time snapshot handed to readers: data, lifecycle
//     status, normalized error, and last-update time.
//  3. Store holds the entries. Reads are read-through: a missing entry blocks
//     on exactly one shared fetch (singleflight); a stale entry is served
//     immediately while one background refetch revalidates it
//     (stale-while-revalidate). A failed refetch records the error but keeps
//     the previous data, so callers can show last-known results alongside
//     the failure.
//
// # Ownership
//
// The server owns all durable state. The Store is a read-through, time-bound
// copy with no authority of its own: whenever a patched value and a
// refetched value disagree, the refetched value wins.
//
// # Concurrency
//
// Store is safe for concurrent use. It is a plain injected value with no
// package-level instance; every Client owns its own Store, and tests build
// isolated ones.
package cache
