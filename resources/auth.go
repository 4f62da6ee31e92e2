package resources

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkoval/crmsync/cache"
	"github.com/dkoval/crmsync/internal/logging"
	"github.com/dkoval/crmsync/models"
	"github.com/dkoval/crmsync/permissions"
	"github.com/dkoval/crmsync/transport"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionCookie is the cookie the backend sets on login.
const DefaultSessionCookie = "crm_session"

// Session is the authenticated identity held client-side. Permissions are
// fixed for the lifetime of the session; a change requires re-login or a
// fresh Verify.
type Session struct {
	User        models.User
	Permissions permissions.Set
	ExpiresAt   time.Time // zero when the session cookie is not a readable JWT
}

// Auth handles login, verification and logout, and owns the current
// Session.
type Auth struct {
	api        *transport.Client
	store      *cache.Store
	log        logging.Logger
	cookieName string

	mu      sync.Mutex
	session *Session
}

// AuthOption customizes the auth service.
type AuthOption func(*Auth)

// WithSessionCookie overrides the session cookie name.
func WithSessionCookie(name string) AuthOption {
	return func(a *Auth) { a.cookieName = name }
}

// NewAuth constructs the auth service.
func NewAuth(api *transport.Client, store *cache.Store, log logging.Logger, opts ...AuthOption) *Auth {
	if log == nil {
		log = logging.NewNop()
	}
	a := &Auth{api: api, store: store, log: log, cookieName: DefaultSessionCookie}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User models.User `json:"user"`
}

type verifyResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
}

// Login authenticates and establishes a session. The session cookie lands
// in the transport's jar; the unauthenticated signal is re-armed so a later
// expiry fires it again exactly once.
func (a *Auth) Login(ctx context.Context, email, password string) (Session, error) {
	creds := loginRequest{Email: email, Password: password}
	if err := transport.ValidateParams(creds); err != nil {
		return Session{}, err
	}

	resp, err := transport.Call[loginResponse](ctx, a.api, transport.Request{
		Method:   http.MethodPost,
		Path:     "/auth/login",
		Body:     creds,
		Fallback: "login failed",
	})
	if err != nil {
		return Session{}, err
	}

	a.api.ResetSession()
	sess := a.buildSession(ctx, resp.User)

	a.mu.Lock()
	a.session = &sess
	a.mu.Unlock()
	return sess, nil
}

// Verify asks the server whether the current session is still good and
// refreshes the held identity. Wraps ErrUnauthenticated when it is not.
func (a *Auth) Verify(ctx context.Context) (Session, error) {
	resp, err := transport.Call[verifyResponse](ctx, a.api, transport.Request{
		Method:   http.MethodGet,
		Path:     "/auth/verify",
		Fallback: "could not verify session",
	})
	if err != nil {
		return Session{}, err
	}
	if !resp.Authenticated || resp.User == nil {
		a.clear()
		return Session{}, transport.AsAPIError(transport.ErrUnauthenticated, "session expired")
	}

	sess := a.buildSession(ctx, *resp.User)
	a.mu.Lock()
	a.session = &sess
	a.mu.Unlock()
	return sess, nil
}

// Logout ends the session server-side, drops the held identity, and marks
// the whole cache stale: the next actor may be someone else.
func (a *Auth) Logout(ctx context.Context) error {
	err := transport.CallNoContent(ctx, a.api, transport.Request{
		Method:   http.MethodPost,
		Path:     "/auth/logout",
		Fallback: "logout failed",
	})
	a.clear()
	a.store.Invalidate(func(cache.Key) bool { return true })
	return err
}

// Session returns the current session, if any.
func (a *Auth) Session() (Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return Session{}, false
	}
	return *a.session, true
}

// Permissions returns the held capability set; empty when logged out.
func (a *Auth) Permissions() permissions.Set {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return permissions.NewSet()
	}
	return a.session.Permissions
}

func (a *Auth) clear() {
	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
}

// sessionClaims is what the backend encodes into the session JWT.
type sessionClaims struct {
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// buildSession combines the server-returned user with whatever the session
// cookie exposes. The cookie is parsed UNVERIFIED: the client holds no
// signing key, and the server stays the authority on every claim. The parse
// only surfaces expiry and, when the login response omitted them, the
// permission tokens.
func (a *Auth) buildSession(ctx context.Context, user models.User) Session {
	sess := Session{
		User:        user,
		Permissions: permissions.NewSet(user.Permissions...),
	}

	ck := a.api.SessionCookie(a.cookieName)
	if ck == nil {
		return sess
	}

	var claims sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(ck.Value, &claims); err != nil {
		a.log.Debug(ctx, "session cookie is not a readable JWT", "error", err)
		return sess
	}

	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	if len(user.Permissions) == 0 && len(claims.Permissions) > 0 {
		sess.Permissions = permissions.NewSet(claims.Permissions...)
	}
	return sess
}
