package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/senselib/f8client/internal/client/config"
	"github.com/senselib/f8client/internal/client/navigator"
	"github.com/senselib/f8client/internal/common"
	"github.com/senselib/f8client/internal/logging"
	"github.com/tidwall/gjson"
)

// maxBody bounds a decoded JSON response.
const maxBody = 16 << 20

// Session is the credential holder the client reads and clears.
// session.Store satisfies it.
type Session interface {
	Token() string
	Clear(ctx context.Context) bool
}

// Client is the authenticated REST client. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	session Session
	nav     navigator.Navigator
	log     logging.Logger
	metrics *Metrics

	newRequestID func() string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New builds a client for cfg.BackendURL. A zero cfg.RequestTimeout keeps the
// transport default.
func New(cfg *config.Config, sess Session, nav navigator.Navigator, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BackendURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", cfg.BackendURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", cfg.BackendURL)
	}

	c := &Client{
		base:         base,
		http:         &http.Client{Timeout: cfg.RequestTimeout},
		session:      sess,
		nav:          nav,
		log:          logging.Nop(),
		newRequestID: uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string { return c.base.String() }

// Resolve turns a backend path (or an absolute URL) into a full URL.
func (c *Client) Resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", ref, err)
	}
	if u.IsAbs() {
		return u, nil
	}
	out := *c.base
	out.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(u.Path, "/")
	out.RawPath = ""
	out.RawQuery = u.RawQuery
	return &out, nil
}

// NewRequest builds a request against the backend.
func (c *Client) NewRequest(ctx context.Context, method, ref string, body io.Reader) (*http.Request, error) {
	u, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return http.NewRequestWithContext(ctx, method, u.String(), body)
}

// Do sends req. It returns the response only for 2xx statuses; the caller
// must close its body. Other statuses come back as *Error.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	c.decorate(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(req.Method, 0, time.Since(start))
		c.log.Debug(ctx, "request failed", "method", req.Method, "url", req.URL.Redacted(), "error", err)
		return nil, err
	}
	c.metrics.observe(req.Method, resp.StatusCode, time.Since(start))
	c.log.Debug(ctx, "request sent", "method", req.Method, "url", req.URL.Redacted(), "status", resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	apiErr := newError(resp)
	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidateSession(ctx)
	}
	return nil, apiErr
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Del(common.AuthorizationHeaderName)
	if c.session != nil {
		if tok := c.session.Token(); tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+tok)
		}
	}
	if req.Header.Get(common.RequestIDHeaderName) == "" {
		req.Header.Set(common.RequestIDHeaderName, c.newRequestID())
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}

// invalidateSession clears the session and redirects to the login surface
// unless the user is already there. Safe to call without a session.
func (c *Client) invalidateSession(ctx context.Context) {
	had := false
	if c.session != nil {
		had = c.session.Clear(ctx)
	}
	c.metrics.sessionInvalidated()

	redirected := false
	if c.nav != nil && !c.nav.At(navigator.Login) {
		c.nav.Navigate(navigator.Login)
		redirected = true
	}
	c.log.Warn(ctx, "backend rejected the session", "had_session", had, "redirected", redirected)
}

// call sends a JSON request and returns the response body with a top-level
// "data" envelope removed.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	req, err := c.NewRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.read(req)
}

func (c *Client) read(req *http.Request) ([]byte, error) {
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return unwrap(b), nil
}

// unwrap strips a {"data": ...} envelope.
func unwrap(b []byte) []byte {
	if !gjson.ValidBytes(b) {
		return b
	}
	r := gjson.ParseBytes(b)
	if !r.IsObject() {
		return b
	}
	if d := r.Get("data"); d.Exists() && (d.IsObject() || d.IsArray()) {
		return []byte(d.Raw)
	}
	return b
}

func decode(b []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// JSON performs a JSON round trip. in and out may be nil.
func (c *Client) JSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	b, err := c.call(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	return decode(b, out)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.JSON(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.JSON(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.JSON(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.JSON(ctx, http.MethodDelete, path, nil, nil, nil)
}
