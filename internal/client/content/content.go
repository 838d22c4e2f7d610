// Package content moves a released document from its source (the backend,
// another HTTP host or an S3 bucket) into the local download directory.
package content

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/senselib/f8client/internal/common"
	"github.com/senselib/f8client/internal/filex"
)

// Request names the content to fetch.
type Request struct {
	URL string
	// FileName is a hint for the local file; the source may suggest another.
	FileName string
}

// Result describes the written file.
type Result struct {
	Path        string
	Bytes       int64
	ContentType string
}

// Fetcher retrieves content into the download directory.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (Result, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req Request) (Result, error)

func (f FetcherFunc) Fetch(ctx context.Context, req Request) (Result, error) { return f(ctx, req) }

// save streams r into a new file in dir. A partially written file is removed.
func save(dir, name string, r io.Reader) (string, int64, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return "", 0, err
	}
	f, err := filex.CreateUnique(abs, common.SafeFileName(name))
	if err != nil {
		return "", 0, err
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", 0, fmt.Errorf("write %s: %w", f.Name(), err)
	}
	return f.Name(), n, nil
}

// nameFromURL returns the last path element of raw, or "".
func nameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	if unescaped, err := url.PathUnescape(base); err == nil {
		base = unescaped
	}
	return strings.TrimSpace(base)
}

func pickName(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return "document"
}
