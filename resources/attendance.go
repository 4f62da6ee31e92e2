package resources

import (
	"context"
	"net/http"

	"github.com/dkoval/crmsync/cache"
	"github.com/dkoval/crmsync/models"
	"github.com/dkoval/crmsync/mutation"
	"github.com/dkoval/crmsync/transport"
)

// Attendance is the staff-attendance module.
type Attendance struct {
	api   *transport.Client
	store *cache.Store
	mut   *mutation.Coordinator
}

func NewAttendance(api *transport.Client, store *cache.Store, mut *mutation.Coordinator) *Attendance {
	return &Attendance{api: api, store: store, mut: mut}
}

func (s *Attendance) List(ctx context.Context, f models.AttendanceFilter, p cache.Page) ([]models.AttendanceRecord, error) {
	key := cache.ListKey(models.KindAttendance, f.CacheFilter(), p)
	items, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) ([]models.AttendanceRecord, error) {
		return transport.Call[[]models.AttendanceRecord](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/attendance",
			Query:    pageQuery(f.Query(), p),
			Fallback: "could not load attendance",
		})
	})
	return items, err
}

// Mark records one user-day. The server upserts by (user, date), so the
// response may be a new or an updated record; either way the list views go
// stale.
func (s *Attendance) Mark(ctx context.Context, p models.MarkAttendanceParams) (models.AttendanceRecord, error) {
	if err := transport.ValidateParams(p); err != nil {
		return models.AttendanceRecord{}, err
	}
	if !p.Status.Valid() {
		return models.AttendanceRecord{}, transport.AsAPIError(transport.ErrValidation, "unknown attendance status "+string(p.Status))
	}
	return mutation.Do[models.AttendanceRecord](ctx, s.mut, mutation.Mutation{
		Op:   mutation.OpCreate,
		Kind: models.KindAttendance,
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.AttendanceRecord](ctx, s.api, transport.Request{
				Method:   http.MethodPost,
				Path:     "/attendance",
				Body:     p,
				Fallback: "could not mark attendance",
			})
		},
	})
}

type bulkAttendanceBody struct {
	Records []models.MarkAttendanceParams `json:"records"`
}

// MarkBulk records a whole day for several users in one round trip.
func (s *Attendance) MarkBulk(ctx context.Context, records []models.MarkAttendanceParams) ([]models.AttendanceRecord, error) {
	for _, r := range records {
		if err := transport.ValidateParams(r); err != nil {
			return nil, err
		}
	}
	return mutation.Do[[]models.AttendanceRecord](ctx, s.mut, mutation.Mutation{
		Op:   mutation.OpCreate,
		Kind: models.KindAttendance,
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[[]models.AttendanceRecord](ctx, s.api, transport.Request{
				Method:   http.MethodPost,
				Path:     "/attendance/bulk",
				Body:     bulkAttendanceBody{Records: records},
				Fallback: "could not mark attendance",
			})
		},
	})
}
