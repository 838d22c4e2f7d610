package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/senselib/f8client/internal/logging"
)

// Persister keeps a credential across client restarts.
type Persister interface {
	Save(ctx context.Context, c Credential) error
	Load(ctx context.Context) (Credential, bool, error)
	Delete(ctx context.Context) error
}

// Store holds at most one credential. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	cred  *Credential
	hooks []func(ctx context.Context)

	persister Persister
	log       logging.Logger
	now       func() time.Time
}

type Option func(*Store)

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

func NewStore(opts ...Option) *Store {
	s := &Store{log: logging.Nop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Set installs c as the current credential and persists it.
func (s *Store) Set(ctx context.Context, c Credential) error {
	s.mu.Lock()
	cp := c
	s.cred = &cp
	s.mu.Unlock()

	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, c); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// SetIdentity completes the identity of the current credential, typically
// from the profile endpoint. It is a no-op when anonymous.
func (s *Store) SetIdentity(ctx context.Context, id Identity) error {
	s.mu.Lock()
	if s.cred == nil {
		s.mu.Unlock()
		return nil
	}
	s.cred.Identity = id
	c := *s.cred
	s.mu.Unlock()

	if s.persister == nil {
		return nil
	}
	return s.persister.Save(ctx, c)
}

// Credential returns a copy of the current credential.
func (s *Store) Credential() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return Credential{}, false
	}
	return *s.cred, true
}

// Token returns the bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return ""
	}
	return s.cred.Token
}

func (s *Store) Identity() (Identity, bool) {
	c, ok := s.Credential()
	return c.Identity, ok
}

func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// OnClear registers fn to run every time Clear is called.
func (s *Store) OnClear(fn func(ctx context.Context)) {
	s.mu.Lock()
	s.hooks = append(s.hooks, fn)
	s.mu.Unlock()
}

// Clear drops the credential, deletes the persisted copy and runs the
// OnClear hooks. It is idempotent and never panics; it reports whether a
// credential was present.
func (s *Store) Clear(ctx context.Context) bool {
	s.mu.Lock()
	had := s.cred != nil
	s.cred = nil
	hooks := append([]func(context.Context){}, s.hooks...)
	s.mu.Unlock()

	if s.persister != nil {
		s.safely(ctx, "delete persisted session", func() {
			if err := s.persister.Delete(ctx); err != nil {
				s.log.Warn(ctx, "failed to delete persisted session", "error", err)
			}
		})
	}
	for _, h := range hooks {
		s.safely(ctx, "session clear hook", func() { h(ctx) })
	}

	if had {
		s.log.Info(ctx, "session cleared")
	}
	return had
}

func (s *Store) safely(ctx context.Context, what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(ctx, what+" panicked", "panic", r)
		}
	}()
	fn()
}

// Restore loads a persisted credential. Expired credentials are discarded.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	if s.persister == nil {
		return false, nil
	}
	c, ok, err := s.persister.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return false, nil
	}
	if c.Expired(s.now()) {
		s.log.Info(ctx, "persisted session expired", "expires_at", c.ExpiresAt)
		if err := s.persister.Delete(ctx); err != nil {
			return false, fmt.Errorf("drop expired session: %w", err)
		}
		return false, nil
	}

	s.mu.Lock()
	s.cred = &c
	s.mu.Unlock()
	return true, nil
}
