package services

import (
	"context"

	"github.com/senselib/f8client/internal/client/api"
	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/validate"
)

// AdminService is catalogue management by collection name.
type AdminService interface {
	Resources() []string
	List(ctx context.Context, resource string, q models.PageQuery) (models.Page[any], error)
	Get(ctx context.Context, resource, id string) (any, error)
	Delete(ctx context.Context, resource, id string) error
	Upload(ctx context.Context, in models.DocumentUpload) (models.Document, error)
}

// Collections resolves collection names. *api.Catalog satisfies it.
type Collections interface {
	Names() []string
	Lookup(name string) (api.Generic, error)
}

// Uploader sends document files. *api.Client satisfies it.
type Uploader interface {
	UploadDocument(ctx context.Context, in models.DocumentUpload) (models.Document, error)
}

type adminService struct {
	cols Collections
	up   Uploader
}

func NewAdminService(cols Collections, up Uploader) AdminService {
	return &adminService{cols: cols, up: up}
}

func (s *adminService) Resources() []string { return s.cols.Names() }

func (s *adminService) List(ctx context.Context, resource string, q models.PageQuery) (models.Page[any], error) {
	if err := validate.Struct(q); err != nil {
		return models.Page[any]{}, err
	}
	r, err := s.cols.Lookup(resource)
	if err != nil {
		return models.Page[any]{}, err
	}
	return r.ListAny(ctx, q)
}

func (s *adminService) Get(ctx context.Context, resource, id string) (any, error) {
	r, err := s.cols.Lookup(resource)
	if err != nil {
		return nil, err
	}
	return r.GetAny(ctx, id)
}

func (s *adminService) Delete(ctx context.Context, resource, id string) error {
	r, err := s.cols.Lookup(resource)
	if err != nil {
		return err
	}
	return r.Delete(ctx, id)
}

func (s *adminService) Upload(ctx context.Context, in models.DocumentUpload) (models.Document, error) {
	if err := validate.Struct(in); err != nil {
		return models.Document{}, err
	}
	return s.up.UploadDocument(ctx, in)
}
