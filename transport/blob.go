package transport

import (
	"context"
	"fmt"
	"io"
	"mime"
)

// Blob is a binary payload recovered from a document preview/download
// endpoint: the bytes plus the filename and MIME type the server declared.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// Download fetches a binary endpoint. The filename comes from the
// Content-Disposition header, the MIME type from Content-Type; both stay
// empty when the server omits them.
func Download(ctx context.Context, c *Client, r Request) (Blob, error) {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return Blob{}, Normalize(err, r.Fallback)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Blob{}, &APIError{
			Message: fallbackOr(r.Fallback, "download failed"),
			Status:  resp.StatusCode,
			cause:   fmt.Errorf("reading body: %w", err),
		}
	}

	b := Blob{Data: data}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			b.ContentType = mt
		} else {
			b.ContentType = ct
		}
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			b.Name = params["filename"]
		}
	}
	return b, nil
}
