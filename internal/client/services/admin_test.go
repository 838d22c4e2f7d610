package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/senselib/f8client/internal/client/api"
	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResource struct {
	path    string
	items   map[string]any
	deleted []string
}

func (f *fakeResource) Path() string { return f.path }
func (f *fakeResource) ListAny(ctx context.Context, q models.PageQuery) (models.Page[any], error) {
	p := models.Page[any]{TotalPages: 1}
	for _, it := range f.items {
		p.Content = append(p.Content, it)
	}
	return p, nil
}
func (f *fakeResource) GetAny(ctx context.Context, id string) (any, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return it, nil
}
func (f *fakeResource) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCollections struct{ res map[string]*fakeResource }

func (f fakeCollections) Names() []string {
	out := make([]string, 0, len(f.res))
	for k := range f.res {
		out = append(out, k)
	}
	return out
}

func (f fakeCollections) Lookup(name string) (api.Generic, error) {
	r, ok := f.res[name]
	if !ok {
		return nil, errors.New("unknown resource")
	}
	return r, nil
}

type fakeUploader struct {
	Last  models.DocumentUpload
	Calls int
}

func (f *fakeUploader) UploadDocument(ctx context.Context, in models.DocumentUpload) (models.Document, error) {
	f.Calls++
	f.Last = in
	return models.Document{ID: "99", Title: in.Title}, nil
}

func TestAdmin_ListGetDelete(t *testing.T) {
	authors := &fakeResource{path: "/authors", items: map[string]any{"1": models.Author{ID: "1", Name: "Le Guin"}}}
	svc := NewAdminService(fakeCollections{res: map[string]*fakeResource{"authors": authors}}, &fakeUploader{})
	ctx := context.Background()

	assert.Equal(t, []string{"authors"}, svc.Resources())

	p, err := svc.List(ctx, "authors", models.PageQuery{})
	require.NoError(t, err)
	assert.Len(t, p.Content, 1)

	it, err := svc.Get(ctx, "authors", "1")
	require.NoError(t, err)
	assert.Equal(t, "Le Guin", it.(models.Author).Name)

	_, err = svc.Get(ctx, "authors", "2")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "authors", "1"))
	assert.Equal(t, []string{"1"}, authors.deleted)

	_, err = svc.List(ctx, "nope", models.PageQuery{})
	require.Error(t, err)
	_, err = svc.Get(ctx, "nope", "1")
	require.Error(t, err)
	require.Error(t, svc.Delete(ctx, "nope", "1"))
	_, err = svc.List(ctx, "authors", models.PageQuery{Size: -1})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestAdmin_Upload(t *testing.T) {
	up := &fakeUploader{}
	svc := NewAdminService(fakeCollections{}, up)
	ctx := context.Background()

	_, err := svc.Upload(ctx, models.DocumentUpload{Title: "x", Path: "/no/such/file.pdf"})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, up.Calls)

	p := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(p, []byte("%PDF"), 0o600))
	doc, err := svc.Upload(ctx, models.DocumentUpload{Title: "Paper", Path: p, Score: 10})
	require.NoError(t, err)
	assert.Equal(t, models.ID("99"), doc.ID)
	assert.Equal(t, int64(10), up.Last.Score)
}
