package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dkoval/crmsync/internal/logging"
)

// maxFailureBody caps how much of a failure response is buffered for
// normalization and diagnostics.
const maxFailureBody = 64 << 10

// Client talks to the CRM backend. It holds the session cookie jar, attaches
// credentials to every request, and performs a single attempt per call.
type Client struct {
	baseURL    string
	base       *url.URL
	httpClient *http.Client
	log        logging.Logger

	onUnauthenticated func()
	onForbidden       func(path string)
	unauthSignaled    atomic.Bool
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. A cookie jar is
// installed if the supplied client has none, since the session credential is
// cookie-based.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// OnUnauthenticated registers the hook fired when the session turns out to
// be invalid (HTTP 401). The hook fires at most once per session; a fresh
// login re-arms it. This is the "redirect to login" signal.
func OnUnauthenticated(fn func()) Option {
	return func(c *Client) { c.onUnauthenticated = fn }
}

// OnForbidden registers the hook fired when an operation is disallowed
// (HTTP 403) while the session itself remains valid.
func OnForbidden(fn func(path string)) Option {
	return func(c *Client) { c.onForbidden = fn }
}

// New creates a Client for the backend rooted at baseURL (scheme://host, the
// "/api" prefix is appended per request).
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		base:       base,
		httpClient: &http.Client{Jar: jar, Timeout: 15 * time.Second},
		log:        logging.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}

	return c, nil
}

// Request describes one outbound call.
type Request struct {
	Method string
	Path   string     // resource path, e.g. "/leads/123"
	Query  url.Values // optional query parameters

	Body        any       // JSON-marshaled when non-nil
	RawBody     io.Reader // used verbatim when non-nil (multipart uploads)
	ContentType string    // required alongside RawBody

	// Fallback is the user-facing message used when the server supplies
	// none. Set by every call site.
	Fallback string
}

// Do performs a single attempt of r. A 2xx response is returned with its
// body unread; every other outcome returns a *Error wrapping the matching
// sentinel, with the failure body buffered for normalization.
func (c *Client) Do(ctx context.Context, r Request) (*http.Response, error) {
	u := c.baseURL + "/api" + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case r.RawBody != nil:
		body = r.RawBody
		contentType = r.ContentType
	case r.Body != nil:
		buf, err := json.Marshal(r.Body)
		if err != nil {
			return nil, &Error{Err: fmt.Errorf("encoding request body: %w", err)}
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u, body)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("building request: %w", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if key := IdempotencyKeyFrom(ctx); key != "" {
		req.Header.Set("Idempotency-Key", key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxFailureBody))

	terr := &Error{Status: resp.StatusCode, Body: raw}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		terr.Err = ErrUnauthenticated
		c.signalUnauthenticated(ctx, r.Path)
	case http.StatusForbidden:
		terr.Err = ErrForbidden
		if c.onForbidden != nil {
			c.onForbidden(r.Path)
		}
	case http.StatusNotFound:
		terr.Err = ErrNotFound
	default:
		terr.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil, terr
}

// signalUnauthenticated fires the unauthenticated hook at most once per
// session, so that N invalidated cache entries refetching concurrently
// produce one redirect, not N.
func (c *Client) signalUnauthenticated(ctx context.Context, path string) {
	if c.onUnauthenticated == nil {
		return
	}
	if c.unauthSignaled.CompareAndSwap(false, true) {
		c.onUnauthenticated()
		return
	}
	c.log.Debug(ctx, "unauthenticated signal suppressed, already fired", "path", path)
}

// ResetSession re-arms the unauthenticated signal. Called after a fresh
// login establishes a new session.
func (c *Client) ResetSession() {
	c.unauthSignaled.Store(false)
}

// SessionCookie returns the named session cookie held in the jar, or nil.
func (c *Client) SessionCookie(name string) *http.Cookie {
	if c.httpClient.Jar == nil {
		return nil
	}
	for _, ck := range c.httpClient.Jar.Cookies(c.base) {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

type ctxKey int

const idempotencyCtxKey ctxKey = iota

// WithIdempotencyKey attaches a mutation idempotency key to ctx; Do sends
// it as the Idempotency-Key header.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyCtxKey, key)
}

// IdempotencyKeyFrom returns the idempotency key carried by ctx, if any.
func IdempotencyKeyFrom(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyCtxKey).(string)
	return key
}
