package resources

import (
	"context"
	"net/http"

	"github.com/dkoval/crmsync/cache"
	"github.com/dkoval/crmsync/models"
	"github.com/dkoval/crmsync/mutation"
	"github.com/dkoval/crmsync/transport"
)

// Leads is the lead pipeline module.
type Leads struct {
	api   *transport.Client
	store *cache.Store
	mut   *mutation.Coordinator
}

// NewLeads constructs the lead service over its collaborators.
func NewLeads(api *transport.Client, store *cache.Store, mut *mutation.Coordinator) *Leads {
	return &Leads{api: api, store: store, mut: mut}
}

// List returns one page of leads under the given filter, read through the
// cache.
func (s *Leads) List(ctx context.Context, f models.LeadFilter, p cache.Page) ([]models.Lead, error) {
	key := cache.ListKey(models.KindLead, f.CacheFilter(), p)
	leads, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) ([]models.Lead, error) {
		return transport.Call[[]models.Lead](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/leads",
			Query:    pageQuery(f.Query(), p),
			Fallback: "could not load leads",
		})
	})
	return leads, err
}

// Get returns one lead by id.
func (s *Leads) Get(ctx context.Context, id string) (models.Lead, error) {
	key := cache.DetailKey(models.KindLead, id)
	lead, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) (models.Lead, error) {
		return transport.Call[models.Lead](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/leads/" + id,
			Fallback: "could not load lead",
		})
	})
	return lead, err
}

// Activity returns the server-generated activity log for a lead.
func (s *Leads) Activity(ctx context.Context, id string) ([]models.ActivityLog, error) {
	key := cache.DerivedKey(models.KindLead, cache.ViewActivity, id)
	log, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) ([]models.ActivityLog, error) {
		return transport.Call[[]models.ActivityLog](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/leads/" + id + "/activity",
			Fallback: "could not load activity log",
		})
	})
	return log, err
}

// Contacts returns the contact history for a lead.
func (s *Leads) Contacts(ctx context.Context, id string) ([]models.ContactHistory, error) {
	key := cache.DerivedKey(models.KindLead, cache.ViewContacts, id)
	hist, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) ([]models.ContactHistory, error) {
		return transport.Call[[]models.ContactHistory](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/leads/" + id + "/contacts",
			Fallback: "could not load contact history",
		})
	})
	return hist, err
}

// Create registers a new lead. The list views are invalidated so the new
// row appears at its server-determined position on the next read.
func (s *Leads) Create(ctx context.Context, p models.CreateLeadParams) (models.Lead, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.Lead{}, err
	}
	return mutation.Do[models.Lead](ctx, s.mut, mutation.Mutation{
		Op:   mutation.OpCreate,
		Kind: models.KindLead,
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.Lead](ctx, s.api, transport.Request{
				Method:   http.MethodPost,
				Path:     "/leads",
				Body:     p,
				Fallback: "could not create lead",
			})
		},
	})
}

// Update rewrites a lead's business fields.
func (s *Leads) Update(ctx context.Context, id string, p models.UpdateLeadParams) (models.Lead, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.Lead{}, err
	}
	return mutation.Do[models.Lead](ctx, s.mut, mutation.Mutation{
		Op:          mutation.OpUpdate,
		Kind:        models.KindLead,
		EntityID:    id,
		PatchDetail: true,
		PatchList:   mutation.ReplaceByID[models.Lead](),
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.Lead](ctx, s.api, transport.Request{
				Method:   http.MethodPut,
				Path:     "/leads/" + id,
				Body:     p,
				Fallback: "could not update lead",
			})
		},
	})
}

type leadStatusBody struct {
	Status models.LeadStatus `json:"status"`
}

// TransitionStatus moves a lead to a new pipeline stage. The confirmed
// entity is patched into cached views immediately; legality of the
// transition itself is the server's call.
func (s *Leads) TransitionStatus(ctx context.Context, id string, status models.LeadStatus) (models.Lead, error) {
	if !status.Valid() {
		return models.Lead{}, transport.AsAPIError(transport.ErrValidation, "unknown lead status "+string(status))
	}
	return mutation.Do[models.Lead](ctx, s.mut, mutation.Mutation{
		Op:          mutation.OpStatusTransition,
		Kind:        models.KindLead,
		EntityID:    id,
		PatchDetail: true,
		PatchList:   mutation.ReplaceByID[models.Lead](),
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.Lead](ctx, s.api, transport.Request{
				Method:   http.MethodPatch,
				Path:     "/leads/" + id + "/status",
				Body:     leadStatusBody{Status: status},
				Fallback: "could not update lead status",
			})
		},
	})
}

type assignBody struct {
	AssigneeID string `json:"assignee_id"`
}

// Assign hands a lead to a user.
func (s *Leads) Assign(ctx context.Context, id, assigneeID string) (models.Lead, error) {
	return mutation.Do[models.Lead](ctx, s.mut, mutation.Mutation{
		Op:          mutation.OpAssign,
		Kind:        models.KindLead,
		EntityID:    id,
		PatchDetail: true,
		PatchList:   mutation.ReplaceByID[models.Lead](),
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.Lead](ctx, s.api, transport.Request{
				Method:   http.MethodPatch,
				Path:     "/leads/" + id + "/assign",
				Body:     assignBody{AssigneeID: assigneeID},
				Fallback: "could not assign lead",
			})
		},
	})
}

// LogContactParams records one touch with a lead.
type LogContactParams struct {
	Channel string `json:"channel" validate:"required,oneof=call email visit other"`
	Summary string `json:"summary" validate:"required"`
}

// LogContact appends to a lead's contact history. The response is the new
// history entry, not the lead, so cached lead views are only invalidated.
func (s *Leads) LogContact(ctx context.Context, id string, p LogContactParams) (models.ContactHistory, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.ContactHistory{}, err
	}
	return mutation.Do[models.ContactHistory](ctx, s.mut, mutation.Mutation{
		Op:       mutation.OpUpdate,
		Kind:     models.KindLead,
		EntityID: id,
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.ContactHistory](ctx, s.api, transport.Request{
				Method:   http.MethodPost,
				Path:     "/leads/" + id + "/contacts",
				Body:     p,
				Fallback: "could not record contact",
			})
		},
	})
}

// Delete removes a lead for good. Requires an explicit confirmation step in
// any UI; here the call itself is the confirmation.
func (s *Leads) Delete(ctx context.Context, id string) error {
	_, err := s.mut.Run(ctx, mutation.Mutation{
		Op:       mutation.OpDelete,
		Kind:     models.KindLead,
		EntityID: id,
		Execute: func(ctx context.Context) (any, error) {
			return nil, transport.CallNoContent(ctx, s.api, transport.Request{
				Method:   http.MethodDelete,
				Path:     "/leads/" + id,
				Fallback: "could not delete lead",
			})
		},
	})
	return err
}
