package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/senselib/f8client/internal/client/models"
	"github.com/tidwall/gjson"
)

// Resource is a paginated CRUD collection of T under one backend path.
type Resource[T any] struct {
	c    *Client
	path string
}

func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{c: c, path: "/" + strings.Trim(path, "/")}
}

func (r *Resource[T]) Path() string { return r.path }

func (r *Resource[T]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// List fetches one page. Backends that answer with a bare array get it
// wrapped into a single page.
func (r *Resource[T]) List(ctx context.Context, q models.PageQuery) (models.Page[T], error) {
	var page models.Page[T]
	b, err := r.c.call(ctx, http.MethodGet, r.path, PageValues(q), nil)
	if err != nil {
		return page, err
	}
	if gjson.ParseBytes(b).IsArray() {
		if err := decode(b, &page.Content); err != nil {
			return page, err
		}
		page.TotalElements = int64(len(page.Content))
		page.TotalPages = 1
		page.Size = len(page.Content)
		return page, nil
	}
	err = decode(b, &page)
	return page, err
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.c.Get(ctx, r.item(id), nil, &out)
	return out, err
}

func (r *Resource[T]) Create(ctx context.Context, in any) (T, error) {
	var out T
	err := r.c.Post(ctx, r.path, in, &out)
	return out, err
}

func (r *Resource[T]) Update(ctx context.Context, id string, in any) (T, error) {
	var out T
	err := r.c.Put(ctx, r.item(id), in, &out)
	return out, err
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.Delete(ctx, r.item(id))
}

// PageValues encodes q as list query parameters, leaving out zero values.
// Page is always sent so the backend does not fall back to an unpaged list.
func PageValues(q models.PageQuery) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.SortField != "" {
		v.Set("sortField", q.SortField)
	}
	if q.SortDirection != "" {
		v.Set("sortDirection", q.SortDirection)
	}
	return v
}

// Catalog bundles the backend collections.
type Catalog struct {
	Authors       *Resource[models.Author]
	Categories    *Resource[models.Category]
	Publishers    *Resource[models.Publisher]
	Books         *Resource[models.Book]
	BorrowRecords *Resource[models.BorrowRecord]
	Transactions  *Resource[models.Transaction]
	Users         *Resource[models.User]
	Slides        *Resource[models.Slide]
	Documents     *Resource[models.Document]
}

func NewCatalog(c *Client) *Catalog {
	return &Catalog{
		Authors:       NewResource[models.Author](c, "/authors"),
		Categories:    NewResource[models.Category](c, "/admin/categories"),
		Publishers:    NewResource[models.Publisher](c, "/admin/publishers"),
		Books:         NewResource[models.Book](c, "/books"),
		BorrowRecords: NewResource[models.BorrowRecord](c, "/borrow-records"),
		Transactions:  NewResource[models.Transaction](c, "/transactions"),
		Users:         NewResource[models.User](c, "/admin/users"),
		Slides:        NewResource[models.Slide](c, "/admin/slides"),
		Documents:     NewResource[models.Document](c, "/admin/documents"),
	}
}

// Names lists the collection names accepted by Lookup.
func (cat *Catalog) Names() []string {
	return []string{"authors", "categories", "publishers", "books", "borrow-records", "transactions", "users", "slides", "documents"}
}

// Generic is the type-erased view of a Resource used by admin tooling.
type Generic interface {
	Path() string
	ListAny(ctx context.Context, q models.PageQuery) (models.Page[any], error)
	GetAny(ctx context.Context, id string) (any, error)
	Delete(ctx context.Context, id string) error
}

func (r *Resource[T]) ListAny(ctx context.Context, q models.PageQuery) (models.Page[any], error) {
	p, err := r.List(ctx, q)
	if err != nil {
		return models.Page[any]{}, err
	}
	out := models.Page[any]{
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Number:        p.Number,
		Size:          p.Size,
		Content:       make([]any, 0, len(p.Content)),
	}
	for _, it := range p.Content {
		out.Content = append(out.Content, it)
	}
	return out, nil
}

func (r *Resource[T]) GetAny(ctx context.Context, id string) (any, error) {
	return r.Get(ctx, id)
}

// Lookup returns the collection called name.
func (cat *Catalog) Lookup(name string) (Generic, error) {
	switch strings.ToLower(name) {
	case "authors":
		return cat.Authors, nil
	case "categories":
		return cat.Categories, nil
	case "publishers":
		return cat.Publishers, nil
	case "books":
		return cat.Books, nil
	case "borrow-records", "borrows":
		return cat.BorrowRecords, nil
	case "transactions":
		return cat.Transactions, nil
	case "users":
		return cat.Users, nil
	case "slides":
		return cat.Slides, nil
	case "documents":
		return cat.Documents, nil
	}
	return nil, fmt.Errorf("unknown resource %q", name)
}
