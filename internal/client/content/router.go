package content

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/senselib/f8client/internal/common"
)

// ErrNoSource is returned for a missing or malformed content URL.
var ErrNoSource = errors.New("no content source")

// Router dispatches on the URL scheme. URLs without a scheme are treated as
// backend paths and go to the "http" fetcher.
type Router struct {
	byScheme map[string]Fetcher
}

func NewRouter() *Router {
	return &Router{byScheme: map[string]Fetcher{}}
}

// Handle registers f for the given schemes.
func (r *Router) Handle(f Fetcher, schemes ...string) *Router {
	for _, s := range schemes {
		r.byScheme[strings.ToLower(s)] = f
	}
	return r
}

func (r *Router) Fetch(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.URL) == "" {
		return Result{}, fmt.Errorf("%w: empty url", ErrNoSource)
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNoSource, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "http"
	}
	f, ok := r.byScheme[scheme]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", common.ErrUnsupportedSource, scheme)
	}
	return f.Fetch(ctx, req)
}
