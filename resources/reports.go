package resources

import (
	"context"
	"net/http"

	"github.com/dkoval/crmsync/cache"
	"github.com/dkoval/crmsync/models"
	"github.com/dkoval/crmsync/mutation"
	"github.com/dkoval/crmsync/transport"
)

// Reports is the reporting module. Generation is a create-shaped mutation:
// the server builds and stores the report, the client invalidates its
// report lists.
type Reports struct {
	api   *transport.Client
	store *cache.Store
	mut   *mutation.Coordinator
}

func NewReports(api *transport.Client, store *cache.Store, mut *mutation.Coordinator) *Reports {
	return &Reports{api: api, store: store, mut: mut}
}

func (s *Reports) List(ctx context.Context, f models.ReportFilter, p cache.Page) ([]models.Report, error) {
	key := cache.ListKey(models.KindReport, f.CacheFilter(), p)
	items, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) ([]models.Report, error) {
		return transport.Call[[]models.Report](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/reports",
			Query:    pageQuery(f.Query(), p),
			Fallback: "could not load reports",
		})
	})
	return items, err
}

func (s *Reports) Get(ctx context.Context, id string) (models.Report, error) {
	key := cache.DetailKey(models.KindReport, id)
	item, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) (models.Report, error) {
		return transport.Call[models.Report](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/reports/" + id,
			Fallback: "could not load report",
		})
	})
	return item, err
}

func (s *Reports) Generate(ctx context.Context, p models.GenerateReportParams) (models.Report, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.Report{}, err
	}
	return mutation.Do[models.Report](ctx, s.mut, mutation.Mutation{
		Op:   mutation.OpCreate,
		Kind: models.KindReport,
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.Report](ctx, s.api, transport.Request{
				Method:   http.MethodPost,
				Path:     "/reports",
				Body:     p,
				Fallback: "could not generate report",
			})
		},
	})
}

func (s *Reports) Delete(ctx context.Context, id string) error {
	_, err := s.mut.Run(ctx, mutation.Mutation{
		Op:       mutation.OpDelete,
		Kind:     models.KindReport,
		EntityID: id,
		Execute: func(ctx context.Context) (any, error) {
			return nil, transport.CallNoContent(ctx, s.api, transport.Request{
				Method:   http.MethodDelete,
				Path:     "/reports/" + id,
				Fallback: "could not delete report",
			})
		},
	})
	return err
}
