// Package resources contains the per-entity services: leads, inquiries,
// clients, users, products, documents, reports, attendance, and auth.
//
// Every service follows the same discipline: reads flow through the cache
// (so structurally equal queries de-duplicate and stale results revalidate
// in the background), and writes flow through the mutation coordinator (so
// cache consistency plans are applied centrally, never ad hoc at call
// sites). Services hold no state of their own beyond their collaborators;
// construct them through the root crmsync.Client.
package resources
