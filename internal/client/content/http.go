package content

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// Backend is the authenticated API client as seen by HTTPFetcher.
type Backend interface {
	BaseURL() string
	NewRequest(ctx context.Context, method, ref string, body io.Reader) (*http.Request, error)
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher downloads http(s) URLs. Relative URLs and URLs on the backend
// host go through the Backend so the bearer token is attached; other hosts
// are fetched anonymously.
type HTTPFetcher struct {
	backend Backend
	plain   *http.Client
	dir     string
}

func NewHTTPFetcher(backend Backend, plain *http.Client, dir string) *HTTPFetcher {
	if plain == nil {
		plain = http.DefaultClient
	}
	return &HTTPFetcher{backend: backend, plain: plain, dir: dir}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, req Request) (Result, error) {
	if req.URL == "" {
		return Result{}, fmt.Errorf("%w: empty url", ErrNoSource)
	}

	resp, err := f.get(ctx, req.URL)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	name := pickName(req.FileName, dispositionName(resp.Header.Get("Content-Disposition")), nameFromURL(req.URL))
	p, n, err := save(f.dir, name, resp.Body)
	if err != nil {
		return Result{}, err
	}
	return Result{Path: p, Bytes: n, ContentType: resp.Header.Get("Content-Type")}, nil
}

func (f *HTTPFetcher) get(ctx context.Context, ref string) (*http.Response, error) {
	if f.backend != nil && f.onBackend(ref) {
		r, err := f.backend.NewRequest(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, err
		}
		r.Header.Set("Accept", "*/*")
		return f.backend.Do(r)
	}

	u, err := url.Parse(ref)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q", ErrNoSource, ref)
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.plain.Do(r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", u.Redacted(), resp.Status)
	}
	return resp, nil
}

func (f *HTTPFetcher) onBackend(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	if !u.IsAbs() {
		return true
	}
	base, err := url.Parse(f.backend.BaseURL())
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, base.Host) && u.Scheme == base.Scheme
}

func dispositionName(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
