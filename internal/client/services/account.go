package services

import (
	"context"

	"github.com/senselib/f8client/internal/client/cache"
	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/session"
	"github.com/senselib/f8client/internal/client/validate"
	"github.com/senselib/f8client/internal/logging"
)

// AccountService is self-service profile and security management.
type AccountService interface {
	UpdateProfile(ctx context.Context, in models.ProfileUpdate) (models.Profile, error)
	ChangePassword(ctx context.Context, in models.PasswordChange) error
}

// AccountAPI is the self-service part of the backend.
type AccountAPI interface {
	UpdateProfile(ctx context.Context, in models.ProfileUpdate) (models.Profile, error)
	ChangePassword(ctx context.Context, in models.PasswordChange) error
}

type accountService struct {
	api   AccountAPI
	sess  *session.Store
	cache *cache.Cache
	log   logging.Logger
}

func NewAccountService(a AccountAPI, sess *session.Store, c *cache.Cache, log logging.Logger) AccountService {
	if log == nil {
		log = logging.Nop()
	}
	return &accountService{api: a, sess: sess, cache: c, log: log}
}

func (s *accountService) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (models.Profile, error) {
	if err := validate.Struct(in); err != nil {
		return models.Profile{}, err
	}
	p, err := s.api.UpdateProfile(ctx, in)
	if err != nil {
		return models.Profile{}, err
	}

	s.cache.Delete(cache.ProfileKey)
	if id, ok := s.sess.Identity(); ok {
		if err := s.sess.SetIdentity(ctx, mergeProfile(id, p)); err != nil {
			s.log.Warn(ctx, "identity not persisted", "error", err)
		}
	}
	return p, nil
}

func (s *accountService) ChangePassword(ctx context.Context, in models.PasswordChange) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	return s.api.ChangePassword(ctx, in)
}
