package resources

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dkoval/crmsync/cache"
	"github.com/dkoval/crmsync/models"
	"github.com/dkoval/crmsync/mutation"
	"github.com/dkoval/crmsync/transport"
)

// Documents is the file-management module. Metadata is cached like any
// other entity; the bytes themselves are fetched on demand and never
// cached.
type Documents struct {
	api   *transport.Client
	store *cache.Store
	mut   *mutation.Coordinator
}

func NewDocuments(api *transport.Client, store *cache.Store, mut *mutation.Coordinator) *Documents {
	return &Documents{api: api, store: store, mut: mut}
}

func (s *Documents) List(ctx context.Context, f models.DocumentFilter, p cache.Page) ([]models.Document, error) {
	key := cache.ListKey(models.KindDocument, f.CacheFilter(), p)
	items, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) ([]models.Document, error) {
		return transport.Call[[]models.Document](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/documents",
			Query:    pageQuery(f.Query(), p),
			Fallback: "could not load documents",
		})
	})
	return items, err
}

func (s *Documents) Get(ctx context.Context, id string) (models.Document, error) {
	key := cache.DetailKey(models.KindDocument, id)
	item, _, err := cache.ReadAs(ctx, s.store, key, func(ctx context.Context) (models.Document, error) {
		return transport.Call[models.Document](ctx, s.api, transport.Request{
			Method:   http.MethodGet,
			Path:     "/documents/" + id,
			Fallback: "could not load document",
		})
	})
	return item, err
}

// Upload stores a new document as a multipart form: the file part plus an
// optional category field.
func (s *Documents) Upload(ctx context.Context, name, category string, content io.Reader) (models.Document, error) {
	if name == "" {
		return models.Document{}, transport.AsAPIError(transport.ErrValidation, "document name is required")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		return models.Document{}, transport.AsAPIError(err, "could not prepare upload")
	}
	if _, err := io.Copy(fw, content); err != nil {
		return models.Document{}, transport.AsAPIError(fmt.Errorf("reading file: %w", err), "could not prepare upload")
	}
	if category != "" {
		_ = w.WriteField("category", category)
	}
	if err := w.Close(); err != nil {
		return models.Document{}, transport.AsAPIError(err, "could not prepare upload")
	}

	return mutation.Do[models.Document](ctx, s.mut, mutation.Mutation{
		Op:   mutation.OpCreate,
		Kind: models.KindDocument,
		Execute: func(ctx context.Context) (any, error) {
			return transport.Call[models.Document](ctx, s.api, transport.Request{
				Method:      http.MethodPost,
				Path:        "/documents",
				RawBody:     &buf,
				ContentType: w.FormDataContentType(),
				Fallback:    "could not upload document",
			})
		},
	})
}

// Download returns the raw document bytes with the filename and MIME type
// the server declared.
func (s *Documents) Download(ctx context.Context, id string) (transport.Blob, error) {
	return transport.Download(ctx, s.api, transport.Request{
		Method:   http.MethodGet,
		Path:     "/documents/" + id + "/download",
		Fallback: "could not download document",
	})
}

// Preview returns an inline-renderable representation of the document.
func (s *Documents) Preview(ctx context.Context, id string) (transport.Blob, error) {
	return transport.Download(ctx, s.api, transport.Request{
		Method:   http.MethodGet,
		Path:     "/documents/" + id + "/preview",
		Fallback: "could not preview document",
	})
}

func (s *Documents) Delete(ctx context.Context, id string) error {
	_, err := s.mut.Run(ctx, mutation.Mutation{
		Op:       mutation.OpDelete,
		Kind:     models.KindDocument,
		EntityID: id,
		Execute: func(ctx context.Context) (any, error) {
			return nil, transport.CallNoContent(ctx, s.api, transport.Request{
				Method:   http.MethodDelete,
				Path:     "/documents/" + id,
				Fallback: "could not delete document",
			})
		},
	})
	return err
}
