// Package models holds the typed shapes of every entity the backend owns,
// plus the filter and write-parameter types the resource services accept.
//
// The server assigns every ID and enforces status transitions; the client
// only reflects them. Entity structs carry validate tags so the transport
// envelope can reject malformed server responses at the boundary, and
// write-parameter structs carry validate tags for client-side validation
// before a request is attempted.
package models
