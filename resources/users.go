package resources

import (
	"context"
	"net/http"

	"github.com/dkoval/crmsync/cache"
	"github.com/dkoval/crmsync/models"
	"github.com/dkoval/crmsync/mutation"
	"github.com/dkoval/crmsync/transport"
)

// Users is the operator-administration module.
type Users struct {
	api   *transport.Client
	store *cache.Store
	mut   *mutation.Coordinator
}

func NewUsers(api *transport.Client, store *cache.Store, mut *mutation.Coordinator) *Users {
	return &Users{api: api, store: store, mut: mut}
}

func (s *Users) List(ctx context.Context, f models.UserFilter, p cache.Page) ([]models.User, error) {
	key := cache.ListKey(models.KindUser, f.CacheFilter(), p)
	items, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) ([]models.User, error) {
		return transport.Call[[]models.User](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/users",
			Query:    pageQuery(f.Query(), p),
			Fallback: "could not load users",
		})
	})
	return items, err
}

func (s *Users) Get(ctx context.Context, id string) (models.User, error) {
	key := cache.DetailKey(models.KindUser, id)
	item, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) (models.User, error) {
		return transport.Call[models.User](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/users/" + id,
			Fallback: "could not load user",
		})
	})
	return item, err
}

func (s *Users) Create(ctx context.Context, p models.CreateUserParams) (models.User, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.User{}, err
	}
	return mutation.Do[models.User](ctx, s.mut, mutation.Mutation{
		Op:   mutation.OpCreate,
		Kind: models.KindUser,
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.User](ctx, s.api, transport.Request{
				Method:   http.MethodPost,
				Path:     "/users",
				Body:     p,
				Fallback: "could not create user",
			})
		},
	})
}

func (s *Users) Update(ctx context.Context, id string, p models.UpdateUserParams) (models.User, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.User{}, err
	}
	return mutation.Do[models.User](ctx, s.mut, mutation.Mutation{
		Op:          mutation.OpUpdate,
		Kind:        models.KindUser,
		EntityID:    id,
		PatchDetail: true,
		PatchList:   mutation.ReplaceByID[models.User](),
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.User](ctx, s.api, transport.Request{
				Method:   http.MethodPut,
				Path:     "/users/" + id,
				Body:     p,
				Fallback: "could not update user",
			})
		},
	})
}

type activeBody struct {
	Active bool `json:"active"`
}

// SetActive enables or disables an operator account.
func (s *Users) SetActive(ctx context.Context, id string, active bool) (models.User, error) {
	return mutation.Do[models.User](ctx, s.mut, mutation.Mutation{
		Op:          mutation.OpStatusTransition,
		Kind:        models.KindUser,
		EntityID:    id,
		PatchDetail: true,
		PatchList:   mutation.ReplaceByID[models.User](),
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.User](ctx, s.api, transport.Request{
				Method:   http.MethodPatch,
				Path:     "/users/" + id + "/active",
				Body:     activeBody{Active: active},
				Fallback: "could not change user state",
			})
		},
	})
}

func (s *Users) Delete(ctx context.Context, id string) error {
	_, err := s.mut.Run(ctx, mutation.Mutation{
		Op:       mutation.OpDelete,
		Kind:     models.KindUser,
		EntityID: id,
		Execute: func(ctx context.Context) (any, error) {
			return nil, transport.CallNoContent(ctx, s.api, transport.Request{
				Method:   http.MethodDelete,
				Path:     "/users/" + id,
				Fallback: "could not delete user",
			})
		},
	})
	return err
}
