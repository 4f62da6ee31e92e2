// Package crmsync is a typed Go client for the CRM backend of a
// construction-materials supply business: leads, inquiries, clients, users,
// products, documents, reports, and attendance.
//
// # Overview
//
// The Client facade wires together:
//  1. A transport layer that owns the session cookie, normalizes every
//     failure into a user-presentable error, and signals session expiry
//     (401) exactly once.
//  2. An in-memory entity cache with request de-duplication, explicit
//     invalidation, in-place patching and stale-while-revalidate reads.
//  3. A mutation coordinator that applies a declared cache-consistency plan
//     after every confirmed write.
//  4. Per-entity resource services and a pure permission gate.
//
// Every Client owns its own cache and coordinator; there is no global
// state, and tests construct isolated clients freely.
//
// # Typical Usage
//
//	cfg := config.Load()
//	c, err := crmsync.New(cfg, crmsync.OnUnauthenticated(func() { /* go to login */ }))
//	if err != nil { ... }
//	sess, err := c.Auth.Login(ctx, email, password)
//	leads, err := c.Leads.List(ctx, models.LeadFilter{Status: models.LeadNew}, cache.Page{})
//	if sess.Permissions.Has(permissions.LeadsWrite) {
//		_, err = c.Leads.TransitionStatus(ctx, id, models.LeadWon)
//	}
package crmsync

import (
	"log/slog"

	"github.com/dkoval/crmsync/cache"
	"github.com/dkoval/crmsync/config"
	"github.com/dkoval/crmsync/internal/logging"
	"github.com/dkoval/crmsync/mutation"
	"github.com/dkoval/crmsync/resources"
	"github.com/dkoval/crmsync/transport"
)

// Client is the root handle: one authenticated session, one cache, one
// coordinator, and the per-entity services over them.
type Client struct {
	Auth       *resources.Auth
	Leads      *resources.Leads
	Inquiries  *resources.Inquiries
	Clients    *resources.Clients
	Users      *resources.Users
	Products   *resources.Products
	Documents  *resources.Documents
	Reports    *resources.Reports
	Attendance *resources.Attendance

	api   *transport.Client
	store *cache.Store
	log   logging.Logger
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	log               logging.Logger
	onUnauthenticated func()
	onForbidden       func(path string)
	sessionCookie     string
}

// WithSlog routes SDK diagnostics to the given slog logger.
func WithSlog(l *slog.Logger) Option {
	return func(o *options) { o.log = logging.NewSlogLogger(l) }
}

// OnUnauthenticated registers the redirect-to-login signal, fired once per
// session invalidation.
func OnUnauthenticated(fn func()) Option {
	return func(o *options) { o.onUnauthenticated = fn }
}

// OnForbidden registers the access-denied signal; the session stays valid.
func OnForbidden(fn func(path string)) Option {
	return func(o *options) { o.onForbidden = fn }
}

// WithSessionCookie overrides the session cookie name.
func WithSessionCookie(name string) Option {
	return func(o *options) { o.sessionCookie = name }
}

// New wires a Client against cfg.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	log := o.log
	if log == nil {
		log = logging.NewText(cfg.LogLevel)
	}

	tOpts := []transport.Option{
		transport.WithTimeout(cfg.RequestTimeout),
		transport.WithLogger(log),
	}
	if o.onUnauthenticated != nil {
		tOpts = append(tOpts, transport.OnUnauthenticated(o.onUnauthenticated))
	}
	if o.onForbidden != nil {
		tOpts = append(tOpts, transport.OnForbidden(o.onForbidden))
	}

	api, err := transport.New(cfg.APIRoot, tOpts...)
	if err != nil {
		return nil, err
	}

	store := cache.NewStore(
		cache.WithStaleAfter(cfg.StaleAfter),
		cache.WithStoreLogger(log),
	)
	mut := mutation.NewCoordinator(store, log)

	var aOpts []resources.AuthOption
	if o.sessionCookie != "" {
		aOpts = append(aOpts, resources.WithSessionCookie(o.sessionCookie))
	}

	return &Client{
		Auth:       resources.NewAuth(api, store, log, aOpts...),
		Leads:      resources.NewLeads(api, store, mut),
		Inquiries:  resources.NewInquiries(api, store, mut),
		Clients:    resources.NewClients(api, store, mut),
		Users:      resources.NewUsers(api, store, mut),
		Products:   resources.NewProducts(api, store, mut),
		Documents:  resources.NewDocuments(api, store, mut),
		Reports:    resources.NewReports(api, store, mut),
		Attendance: resources.NewAttendance(api, store, mut),
		api:        api,
		store:      store,
		log:        log,
	}, nil
}

// CacheStats exposes the cache counters for diagnostics.
func (c *Client) CacheStats() cache.Stats {
	return c.store.Stats()
}

// Flush blocks until no background revalidation is in flight. Call before
// shutdown, or in tests that need deterministic cache state.
func (c *Client) Flush() {
	c.store.Wait()
}
