package models

import (
	"net/url"
	"time"
)

// Document is file metadata; the bytes live behind the preview/download
// endpoints and come back as a transport.Blob.
type Document struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size,omitempty"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d Document) EntityID() string { return d.ID }

type DocumentFilter struct {
	Category string
}

func (f DocumentFilter) CacheFilter() map[string]string {
	if f.Category == "" {
		return nil
	}
	return map[string]string{"category": f.Category}
}

func (f DocumentFilter) Query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	return q
}
