// Package services contains application services for the SenseLib client.
// This file defines the authentication service: login against the backend,
// resuming a persisted session, logout, and the cached profile.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/senselib/f8client/internal/client/api"
	"github.com/senselib/f8client/internal/client/cache"
	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/navigator"
	"github.com/senselib/f8client/internal/client/session"
	"github.com/senselib/f8client/internal/client/validate"
	"github.com/senselib/f8client/internal/common"
	"github.com/senselib/f8client/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: validate the form, obtain a token, install and persist the
//     session, complete the identity from the profile endpoint.
//   - Restore: resume a persisted session and confirm it with the backend.
//   - Logout: clear the session and everything cached for it.
//   - Profile: the signed-in profile, served from cache when fresh.
//   - Current: the signed-in identity, if any.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) (session.Identity, error)
	Restore(ctx context.Context) (bool, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (models.Profile, error)
	Current() (session.Identity, bool)
}

// AuthAPI is the part of the backend the auth service calls.
type AuthAPI interface {
	Login(ctx context.Context, in models.LoginRequest) (api.LoginResult, error)
	Profile(ctx context.Context) (models.Profile, error)
}

type authService struct {
	api   AuthAPI
	sess  *session.Store
	cache *cache.Cache
	nav   navigator.Navigator
	log   logging.Logger
}

// NewAuthService constructs an AuthService. The cache is flushed whenever the
// session is cleared, including by a 401 from the backend.
func NewAuthService(a AuthAPI, sess *session.Store, c *cache.Cache, nav navigator.Navigator, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	sess.OnClear(func(context.Context) { c.Flush() })
	return &authService{api: a, sess: sess, cache: c, nav: nav, log: log}
}

func (s *authService) Login(ctx context.Context, username string, password []byte) (session.Identity, error) {
	defer common.WipeByteArray(password)

	form := models.LoginRequest{Username: username, Password: string(password)}
	if err := validate.Struct(form); err != nil {
		return session.Identity{}, err
	}

	res, err := s.api.Login(ctx, form)
	if err != nil {
		return session.Identity{}, fmt.Errorf("login error: %w", err)
	}

	cred, err := session.NewCredential(res.Token)
	if err != nil {
		return session.Identity{}, fmt.Errorf("login error: %w", err)
	}
	if cred.Identity.Name == "" {
		cred.Identity.Name = username
	}
	if res.User != nil {
		cred.Identity = mergeProfile(cred.Identity, *res.User)
		s.cache.Set(cache.ProfileKey, *res.User)
	}
	if err := s.sess.Set(ctx, cred); err != nil {
		s.log.Warn(ctx, "session not persisted", "error", err)
	}

	if res.User == nil {
		if _, err := s.Profile(ctx); err != nil {
			if errors.Is(err, common.ErrUnauthorized) {
				return session.Identity{}, fmt.Errorf("login error: %w", err)
			}
			s.log.Warn(ctx, "profile not loaded after login", "error", err)
		}
	}

	id, _ := s.sess.Identity()
	if s.nav != nil {
		s.nav.Navigate(navigator.Library)
	}
	s.log.Info(ctx, "logged in", "identity", id.Key())
	return id, nil
}

func (s *authService) Restore(ctx context.Context) (bool, error) {
	ok, err := s.sess.Restore(ctx)
	if err != nil || !ok {
		return false, err
	}
	if _, err := s.Profile(ctx); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			// The API client already cleared the session.
			return false, nil
		}
		s.log.Warn(ctx, "could not confirm restored session", "error", err)
	}
	if s.nav != nil && s.sess.Authenticated() {
		s.nav.Navigate(navigator.Library)
	}
	return s.sess.Authenticated(), nil
}

func (s *authService) Logout(ctx context.Context) error {
	s.sess.Clear(ctx)
	if s.nav != nil {
		s.nav.Navigate(navigator.Login)
	}
	return nil
}

func (s *authService) Profile(ctx context.Context) (models.Profile, error) {
	if !s.sess.Authenticated() {
		return models.Profile{}, common.ErrNoSession
	}
	if p, ok := cache.Lookup[models.Profile](s.cache, cache.ProfileKey); ok {
		return p, nil
	}

	p, err := s.api.Profile(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	s.cache.Set(cache.ProfileKey, p)

	cur, _ := s.sess.Identity()
	if err := s.sess.SetIdentity(ctx, mergeProfile(cur, p)); err != nil {
		s.log.Warn(ctx, "identity not persisted", "error", err)
	}
	return p, nil
}

func (s *authService) Current() (session.Identity, bool) {
	return s.sess.Identity()
}

// mergeProfile fills id from the profile; profile values win.
func mergeProfile(id session.Identity, p models.Profile) session.Identity {
	if p.ID != "" {
		id.ID = p.ID.String()
	}
	if p.Email != "" {
		id.Email = p.Email
	}
	if p.Username != "" {
		id.Name = p.Username
	}
	if p.Role != "" {
		id.Role = p.Role
	}
	return id
}
