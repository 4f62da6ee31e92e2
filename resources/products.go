package resources

import (
	"context"
	"net/http"

	"github.com/dkoval/crmsync/cache"
	"github.com/dkoval/crmsync/models"
	"github.com/dkoval/crmsync/mutation"
	"github.com/dkoval/crmsync/transport"
)

// Products is the catalogue and pricing module.
type Products struct {
	api   *transport.Client
	store *cache.Store
	mut   *mutation.Coordinator
}

func NewProducts(api *transport.Client, store *cache.Store, mut *mutation.Coordinator) *Products {
	return &Products{api: api, store: store, mut: mut}
}

func (s *Products) List(ctx context.Context, f models.ProductFilter, p cache.Page) ([]models.Product, error) {
	key := cache.ListKey(models.KindProduct, f.CacheFilter(), p)
	items, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) ([]models.Product, error) {
		return transport.Call[[]models.Product](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/products",
			Query:    pageQuery(f.Query(), p),
			Fallback: "could not load products",
		})
	})
	return items, err
}

func (s *Products) Get(ctx context.Context, id string) (models.Product, error) {
	key := cache.DetailKey(models.KindProduct, id)
	item, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) (models.Product, error) {
		return transport.Call[models.Product](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/products/" + id,
			Fallback: "could not load product",
		})
	})
	return item, err
}

func (s *Products) Create(ctx context.Context, p models.CreateProductParams) (models.Product, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.Product{}, err
	}
	return mutation.Do[models.Product](ctx, s.mut, mutation.Mutation{
		Op:   mutation.OpCreate,
		Kind: models.KindProduct,
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.Product](ctx, s.api, transport.Request{
				Method:   http.MethodPost,
				Path:     "/products",
				Body:     p,
				Fallback: "could not create product",
			})
		},
	})
}

func (s *Products) Update(ctx context.Context, id string, p models.UpdateProductParams) (models.Product, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.Product{}, err
	}
	return mutation.Do[models.Product](ctx, s.mut, mutation.Mutation{
		Op:          mutation.OpUpdate,
		Kind:        models.KindProduct,
		EntityID:    id,
		PatchDetail: true,
		PatchList:   mutation.ReplaceByID[models.Product](),
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.Product](ctx, s.api, transport.Request{
				Method:   http.MethodPut,
				Path:     "/products/" + id,
				Body:     p,
				Fallback: "could not update product",
			})
		},
	})
}

func (s *Products) Delete(ctx context.Context, id string) error {
	_, err := s.mut.Run(ctx, mutation.Mutation{
		Op:       mutation.OpDelete,
		Kind:     models.KindProduct,
		EntityID: id,
		Execute: func(ctx context.Context) (any, error) {
			return nil, transport.CallNoContent(ctx, s.api, transport.Request{
				Method:   http.MethodDelete,
				Path:     "/products/" + id,
				Fallback: "could not delete product",
			})
		},
	})
	return err
}
