package resources

import (
	"context"
	"net/http"

	"github.com/dkoval/crmsync/cache"
	"github.com/dkoval/crmsync/models"
	"github.com/dkoval/crmsync/mutation"
	"github.com/dkoval/crmsync/transport"
)

// Inquiries is the product-inquiry module.
type Inquiries struct {
	api   *transport.Client
	store *cache.Store
	mut   *mutation.Coordinator
}

func NewInquiries(api *transport.Client, store *cache.Store, mut *mutation.Coordinator) *Inquiries {
	return &Inquiries{api: api, store: store, mut: mut}
}

func (s *Inquiries) List(ctx context.Context, f models.InquiryFilter, p cache.Page) ([]models.Inquiry, error) {
	key := cache.ListKey(models.KindInquiry, f.CacheFilter(), p)
	items, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) ([]models.Inquiry, error) {
		return transport.Call[[]models.Inquiry](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/inquiries",
			Query:    pageQuery(f.Query(), p),
			Fallback: "could not load inquiries",
		})
	})
	return items, err
}

func (s *Inquiries) Get(ctx context.Context, id string) (models.Inquiry, error) {
	key := cache.DetailKey(models.KindInquiry, id)
	item, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) (models.Inquiry, error) {
		return transport.Call[models.Inquiry](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/inquiries/" + id,
			Fallback: "could not load inquiry",
		})
	})
	return item, err
}

func (s *Inquiries) Activity(ctx context.Context, id string) ([]models.ActivityLog, error) {
	key := cache.DerivedKey(models.KindInquiry, cache.ViewActivity, id)
	log, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) ([]models.ActivityLog, error) {
		return transport.Call[[]models.ActivityLog](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/inquiries/" + id + "/activity",
			Fallback: "could not load activity log",
		})
	})
	return log, err
}

func (s *Inquiries) Create(ctx context.Context, p models.CreateInquiryParams) (models.Inquiry, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.Inquiry{}, err
	}
	return mutation.Do[models.Inquiry](ctx, s.mut, mutation.Mutation{
		Op:   mutation.OpCreate,
		Kind: models.KindInquiry,
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.Inquiry](ctx, s.api, transport.Request{
				Method:   http.MethodPost,
				Path:     "/inquiries",
				Body:     p,
				Fallback: "could not create inquiry",
			})
		},
	})
}

func (s *Inquiries) Update(ctx context.Context, id string, p models.UpdateInquiryParams) (models.Inquiry, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.Inquiry{}, err
	}
	return mutation.Do[models.Inquiry](ctx, s.mut, mutation.Mutation{
		Op:          mutation.OpUpdate,
		Kind:        models.KindInquiry,
		EntityID:    id,
		PatchDetail: true,
		PatchList:   mutation.ReplaceByID[models.Inquiry](),
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.Inquiry](ctx, s.api, transport.Request{
				Method:   http.MethodPut,
				Path:     "/inquiries/" + id,
				Body:     p,
				Fallback: "could not update inquiry",
			})
		},
	})
}

type inquiryStatusBody struct {
	Status models.InquiryStatus `json:"status"`
}

func (s *Inquiries) TransitionStatus(ctx context.Context, id string, status models.InquiryStatus) (models.Inquiry, error) {
	if !status.Valid() {
		return models.Inquiry{}, transport.AsAPIError(transport.ErrValidation, "unknown inquiry status "+string(status))
	}
	return mutation.Do[models.Inquiry](ctx, s.mut, mutation.Mutation{
		Op:          mutation.OpStatusTransition,
		Kind:        models.KindInquiry,
		EntityID:    id,
		PatchDetail: true,
		PatchList:   mutation.ReplaceByID[models.Inquiry](),
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.Inquiry](ctx, s.api, transport.Request{
				Method:   http.MethodPatch,
				Path:     "/inquiries/" + id + "/status",
				Body:     inquiryStatusBody{Status: status},
				Fallback: "could not update inquiry status",
			})
		},
	})
}

func (s *Inquiries) Assign(ctx context.Context, id, assigneeID string) (models.Inquiry, error) {
	return mutation.Do[models.Inquiry](ctx, s.mut, mutation.Mutation{
		Op:          mutation.OpAssign,
		Kind:        models.KindInquiry,
		EntityID:    id,
		PatchDetail: true,
		PatchList:   mutation.ReplaceByID[models.Inquiry](),
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.Inquiry](ctx, s.api, transport.Request{
				Method:   http.MethodPatch,
				Path:     "/inquiries/" + id + "/assign",
				Body:     assignBody{AssigneeID: assigneeID},
				Fallback: "could not assign inquiry",
			})
		},
	})
}

func (s *Inquiries) Delete(ctx context.Context, id string) error {
	_, err := s.mut.Run(ctx, mutation.Mutation{
		Op:       mutation.OpDelete,
		Kind:     models.KindInquiry,
		EntityID: id,
		Execute: func(ctx context.Context) (any, error) {
			return nil, transport.CallNoContent(ctx, s.api, transport.Request{
				Method:   http.MethodDelete,
				Path:     "/inquiries/" + id,
				Fallback: "could not delete inquiry",
			})
		},
	})
	return err
}
