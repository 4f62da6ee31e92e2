package resources

import (
	"context"
	"net/http"

	"github.com/dkoval/crmsync/cache"
	"github.com/dkoval/crmsync/models"
	"github.com/dkoval/crmsync/mutation"
	"github.com/dkoval/crmsync/transport"
)

// Clients is the client-account module.
type Clients struct {
	api   *transport.Client
	store *cache.Store
	mut   *mutation.Coordinator
}

func NewClients(api *transport.Client, store *cache.Store, mut *mutation.Coordinator) *Clients {
	return &Clients{api: api, store: store, mut: mut}
}

func (s *Clients) List(ctx context.Context, f models.ClientFilter, p cache.Page) ([]models.ClientAccount, error) {
	key := cache.ListKey(models.KindClient, f.CacheFilter(), p)
	items, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) ([]models.ClientAccount, error) {
		return transport.Call[[]models.ClientAccount](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/clients",
			Query:    pageQuery(f.Query(), p),
			Fallback: "could not load clients",
		})
	})
	return items, err
}

func (s *Clients) Get(ctx context.Context, id string) (models.ClientAccount, error) {
	key := cache.DetailKey(models.KindClient, id)
	item, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) (models.ClientAccount, error) {
		return transport.Call[models.ClientAccount](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/clients/" + id,
			Fallback: "could not load client",
		})
	})
	return item, err
}

func (s *Clients) Activity(ctx context.Context, id string) ([]models.ActivityLog, error) {
	key := cache.DerivedKey(models.KindClient, cache.ViewActivity, id)
	log, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) ([]models.ActivityLog, error) {
		return transport.Call[[]models.ActivityLog](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/clients/" + id + "/activity",
			Fallback: "could not load activity log",
		})
	})
	return log, err
}

func (s *Clients) Create(ctx context.Context, p models.CreateClientParams) (models.ClientAccount, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.ClientAccount{}, err
	}
	return mutation.Do[models.ClientAccount](ctx, s.mut, mutation.Mutation{
		Op:   mutation.OpCreate,
		Kind: models.KindClient,
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.ClientAccount](ctx, s.api, transport.Request{
				Method:   http.MethodPost,
				Path:     "/clients",
				Body:     p,
				Fallback: "could not create client",
			})
		},
	})
}

func (s *Clients) Update(ctx context.Context, id string, p models.UpdateClientParams) (models.ClientAccount, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.ClientAccount{}, err
	}
	return mutation.Do[models.ClientAccount](ctx, s.mut, mutation.Mutation{
		Op:          mutation.OpUpdate,
		Kind:        models.KindClient,
		EntityID:    id,
		PatchDetail: true,
		PatchList:   mutation.ReplaceByID[models.ClientAccount](),
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.ClientAccount](ctx, s.api, transport.Request{
				Method:   http.MethodPut,
				Path:     "/clients/" + id,
				Body:     p,
				Fallback: "could not update client",
			})
		},
	})
}

func (s *Clients) Delete(ctx context.Context, id string) error {
	_, err := s.mut.Run(ctx, mutation.Mutation{
		Op:       mutation.OpDelete,
		Kind:     models.KindClient,
		EntityID: id,
		Execute: func(ctx context.Context) (any, error) {
			return nil, transport.CallNoContent(ctx, s.api, transport.Request{
				Method:   http.MethodDelete,
				Path:     "/clients/" + id,
				Fallback: "could not delete client",
			})
		},
	})
	return err
}
