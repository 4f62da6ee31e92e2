package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	require.NoError(t, err)
	return c
}

type wireLead struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

func TestCallDecodesSuccess(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"L1","name":"Acme"}`))
	})

	out, err := Call[wireLead](context.Background(), c, Request{Method: http.MethodGet, Path: "/leads/L1"})
	require.NoError(t, err)
	assert.Equal(t, wireLead{ID: "L1", Name: "Acme"}, out)
}

func TestCallRejectsMalformedPayload(t *testing.T) {
	// A success status carrying an entity without its required ID is a
	// server bug; it must not land in the cache.
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Acme"}`))
	})

	_, err := Call[wireLead](context.Background(), c, Request{
		Method:   http.MethodGet,
		Path:     "/leads/L1",
		Fallback: "could not load lead",
	})
	require.Error(t, err)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "could not load lead", ae.Message)
}

func TestCallRejectsNonJSON(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	})

	_, err := Call[wireLead](context.Background(), c, Request{Method: http.MethodGet, Path: "/leads/L1"})
	require.Error(t, err)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "unexpected server response", ae.Message)
}

func TestNormalizeMessagePrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"server message wins", `{"message":"lead already converted","error":"conflict"}`, "lead already converted"},
		{"error field next", `{"error":"conflict"}`, "conflict"},
		{"fallback when body is opaque", `<html>boom</html>`, "could not update lead"},
		{"fallback when body is empty", ``, "could not update lead"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(tc.body))
			})

			_, err := Call[wireLead](context.Background(), c, Request{
				Method:   http.MethodPut,
				Path:     "/leads/L1",
				Fallback: "could not update lead",
			})
			require.Error(t, err)
			var ae *APIError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tc.want, ae.Message)
			assert.Equal(t, http.StatusConflict, ae.Status)
		})
	}
}

func TestNormalizePreservesSentinels(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no such lead"}`))
	})

	_, err := Call[wireLead](context.Background(), c, Request{Method: http.MethodGet, Path: "/leads/L9"})
	require.Error(t, err)

	// Callers branch on the category while showing the server's message.
	assert.ErrorIs(t, err, ErrNotFound)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "no such lead", ae.Message)
}

func TestCallNoContent(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	err := CallNoContent(context.Background(), c, Request{Method: http.MethodDelete, Path: "/leads/L1"})
	assert.NoError(t, err)
}

func TestValidateParams(t *testing.T) {
	type createLead struct {
		Name  string `validate:"required"`
		Email string `validate:"omitempty,email"`
	}

	assert.NoError(t, ValidateParams(createLead{Name: "Acme"}))

	err := ValidateParams(createLead{Email: "not-an-email"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Message, "Name")
	assert.Contains(t, ae.Message, "Email")
	assert.Equal(t, []string{"Name", "Email"}, ae.Details)
}

func TestAsAPIError(t *testing.T) {
	orig := &APIError{Message: "kept"}
	assert.Same(t, orig, AsAPIError(orig, "ignored"))

	ae := AsAPIError(ErrUnavailable, "server unreachable")
	require.NotNil(t, ae)
	assert.Equal(t, "server unreachable", ae.Message)
	assert.ErrorIs(t, ae, ErrUnavailable)

	assert.Nil(t, AsAPIError(nil, "x"))
}
