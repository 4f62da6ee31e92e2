package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dkoval/crmsync/cache"
	"github.com/dkoval/crmsync/models"
	"github.com/dkoval/crmsync/permissions"
	"github.com/dkoval/crmsync/transport"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintSessionToken(t *testing.T, perms []string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "U1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return signed
}

func TestLoginBuildsSessionFromCookie(t *testing.T) {
	exp := time.Now().Add(8 * time.Hour).Truncate(time.Second)
	r := newRig(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "/api/auth/login", req.URL.Path)
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&creds))
		require.Equal(t, "ops@example.com", creds.Email)

		http.SetCookie(w, &http.Cookie{
			Name:  DefaultSessionCookie,
			Value: mintSessionToken(t, []string{"leads:read", "leads:write"}, exp),
			Path:  "/",
		})
		// Login response carries the user but no permission list; the
		// cookie claims fill the gap.
		writeJSON(t, w, loginResponse{User: models.User{ID: "U1", Name: "Olya", Email: creds.Email}})
	}))
	auth := NewAuth(r.api, r.store, nil)

	sess, err := auth.Login(context.Background(), "ops@example.com", "hunter22")
	require.NoError(t, err)

	assert.Equal(t, "U1", sess.User.ID)
	assert.True(t, sess.Permissions.Has(permissions.LeadsWrite))
	assert.False(t, sess.Permissions.Has(permissions.UsersManage))
	assert.Equal(t, exp.Unix(), sess.ExpiresAt.Unix())

	held, ok := auth.Session()
	require.True(t, ok)
	assert.Equal(t, sess.User, held.User)
}

func TestLoginUserPermissionsWinOverCookie(t *testing.T) {
	r := newRig(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:  DefaultSessionCookie,
			Value: mintSessionToken(t, []string{"leads:read"}, time.Now().Add(time.Hour)),
			Path:  "/",
		})
		writeJSON(t, w, loginResponse{User: models.User{
			ID:          "U1",
			Permissions: []string{"users:manage"},
		}})
	}))
	auth := NewAuth(r.api, r.store, nil)

	sess, err := auth.Login(context.Background(), "a@b.co", "pw")
	require.NoError(t, err)

	assert.True(t, sess.Permissions.Has(permissions.UsersManage))
	assert.False(t, sess.Permissions.Has(permissions.LeadsRead))
}

func TestLoginWithOpaqueCookie(t *testing.T) {
	r := newRig(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: DefaultSessionCookie, Value: "not-a-jwt", Path: "/"})
		writeJSON(t, w, loginResponse{User: models.User{ID: "U1"}})
	}))
	auth := NewAuth(r.api, r.store, nil)

	sess, err := auth.Login(context.Background(), "a@b.co", "pw")
	require.NoError(t, err)
	assert.True(t, sess.ExpiresAt.IsZero())
	assert.Zero(t, sess.Permissions.Len())
}

func TestLoginValidatesCredentialsLocally(t *testing.T) {
	r := newRig(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		t.Error("no request expected")
	}))
	auth := NewAuth(r.api, r.store, nil)

	_, err := auth.Login(context.Background(), "not-an-email", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrValidation)
}

func TestVerifyRejectedSessionSurfacesUnauthenticated(t *testing.T) {
	r := newRig(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(t, w, verifyResponse{Authenticated: false})
	}))
	auth := NewAuth(r.api, r.store, nil)

	_, err := auth.Verify(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrUnauthenticated)
	var ae *transport.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "session expired", ae.Message)

	_, ok := auth.Session()
	assert.False(t, ok)
}

func TestVerifyRefreshesIdentity(t *testing.T) {
	r := newRig(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(t, w, verifyResponse{
			Authenticated: true,
			User:          &models.User{ID: "U1", Permissions: []string{"reports:read"}},
		})
	}))
	auth := NewAuth(r.api, r.store, nil)

	sess, err := auth.Verify(context.Background())
	require.NoError(t, err)
	assert.True(t, sess.Permissions.Has(permissions.ReportsRead))
	assert.True(t, auth.Permissions().Has(permissions.ReportsRead))
}

func TestLogoutClearsSessionAndCache(t *testing.T) {
	r := newRig(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/api/auth/verify":
			writeJSON(t, w, verifyResponse{Authenticated: true, User: &models.User{ID: "U1"}})
		case "/api/auth/logout":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", req.URL.Path)
		}
	}))
	auth := NewAuth(r.api, r.store, nil)

	_, err := auth.Verify(context.Background())
	require.NoError(t, err)

	key := cache.ListKey(models.KindLead, nil, cache.Page{})
	_, err = r.store.Read(context.Background(), key, func(context.Context) (any, error) { return "x", nil })
	require.NoError(t, err)

	require.NoError(t, auth.Logout(context.Background()))

	_, ok := auth.Session()
	assert.False(t, ok)
	assert.Zero(t, auth.Permissions().Len())

	// The next actor may be someone else: everything cached is suspect.
	e, ok := r.store.Get(key)
	require.True(t, ok)
	assert.True(t, e.Stale)
}
