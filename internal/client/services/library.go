package services

import (
	"context"

	"github.com/senselib/f8client/internal/client/cache"
	"github.com/senselib/f8client/internal/client/gate"
	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/validate"
)

// LibraryService browses documents, manages favourites and runs gated
// downloads.
type LibraryService interface {
	Browse(ctx context.Context, q models.PageQuery) (models.Page[models.Document], error)
	Document(ctx context.Context, id string) (models.Document, error)
	Favorites(ctx context.Context) ([]models.Document, error)
	AddFavorite(ctx context.Context, id string) error
	RemoveFavorite(ctx context.Context, id string) error
	Download(ctx context.Context, id string) (gate.Outcome, error)
}

// DocumentStore is the document collection. *api.Resource[models.Document]
// satisfies it.
type DocumentStore interface {
	List(ctx context.Context, q models.PageQuery) (models.Page[models.Document], error)
	Get(ctx context.Context, id string) (models.Document, error)
}

// FavoritesAPI is the favourites part of the backend.
type FavoritesAPI interface {
	Favorites(ctx context.Context) ([]models.Document, error)
	AddFavorite(ctx context.Context, documentID string) error
	RemoveFavorite(ctx context.Context, documentID string) error
}

// Downloader runs a gated download. *gate.Gate satisfies it.
type Downloader interface {
	Download(ctx context.Context, d models.Descriptor) (gate.Outcome, error)
}

type libraryService struct {
	docs  DocumentStore
	favs  FavoritesAPI
	gate  Downloader
	cache *cache.Cache
}

func NewLibraryService(docs DocumentStore, favs FavoritesAPI, g Downloader, c *cache.Cache) LibraryService {
	return &libraryService{docs: docs, favs: favs, gate: g, cache: c}
}

func (s *libraryService) remember(docs ...models.Document) {
	for _, d := range docs {
		s.cache.Set(cache.DescriptorKey(d.ID.String()), d.Descriptor())
	}
}

func (s *libraryService) Browse(ctx context.Context, q models.PageQuery) (models.Page[models.Document], error) {
	if err := validate.Struct(q); err != nil {
		return models.Page[models.Document]{}, err
	}
	p, err := s.docs.List(ctx, q)
	if err != nil {
		return p, err
	}
	s.remember(p.Content...)
	return p, nil
}

func (s *libraryService) Document(ctx context.Context, id string) (models.Document, error) {
	d, err := s.docs.Get(ctx, id)
	if err != nil {
		return d, err
	}
	s.remember(d)
	return d, nil
}

func (s *libraryService) Favorites(ctx context.Context) ([]models.Document, error) {
	docs, err := s.favs.Favorites(ctx)
	if err != nil {
		return nil, err
	}
	s.remember(docs...)
	return docs, nil
}

func (s *libraryService) AddFavorite(ctx context.Context, id string) error {
	return s.favs.AddFavorite(ctx, id)
}

func (s *libraryService) RemoveFavorite(ctx context.Context, id string) error {
	return s.favs.RemoveFavorite(ctx, id)
}

// Download looks up the document's descriptor (cached from an earlier
// listing when fresh) and hands it to the gate.
func (s *libraryService) Download(ctx context.Context, id string) (gate.Outcome, error) {
	d, ok := cache.Lookup[models.Descriptor](s.cache, cache.DescriptorKey(id))
	if !ok {
		doc, err := s.Document(ctx, id)
		if err != nil {
			return gate.Outcome{}, err
		}
		d = doc.Descriptor()
	}
	return s.gate.Download(ctx, d)
}
