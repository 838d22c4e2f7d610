package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/senselib/f8client/internal/client/api"
	"github.com/senselib/f8client/internal/client/cache"
	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/navigator"
	"github.com/senselib/f8client/internal/client/repositories/metadata"
	"github.com/senselib/f8client/internal/client/session"
	"github.com/senselib/f8client/internal/client/storage"
	"github.com/senselib/f8client/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fake auth api ----

type fakeAuthAPI struct {
	LoginRet   api.LoginResult
	LoginErr   error
	ProfileRet models.Profile
	ProfileErr error

	// Clears the session like the real client does on 401.
	sess *session.Store

	LastLogin    models.LoginRequest
	ProfileCalls int
}

func (f *fakeAuthAPI) Login(ctx context.Context, in models.LoginRequest) (api.LoginResult, error) {
	f.LastLogin = in
	return f.LoginRet, f.LoginErr
}

func (f *fakeAuthAPI) Profile(ctx context.Context) (models.Profile, error) {
	f.ProfileCalls++
	if errors.Is(f.ProfileErr, common.ErrUnauthorized) && f.sess != nil {
		f.sess.Clear(ctx)
	}
	return f.ProfileRet, f.ProfileErr
}

var unauthorized = &api.Error{StatusCode: http.StatusUnauthorized}

type authFixture struct {
	api  *fakeAuthAPI
	sess *session.Store
	c    *cache.Cache
	nav  *navigator.Tracker
	svc  AuthService
}

func newAuthFixture(t *testing.T, opts ...session.Option) *authFixture {
	t.Helper()
	f := &authFixture{
		api:  &fakeAuthAPI{},
		sess: session.NewStore(opts...),
		c:    cache.New(time.Minute),
		nav:  navigator.NewTracker(navigator.Login),
	}
	f.api.sess = f.sess
	f.svc = NewAuthService(f.api, f.sess, f.c, f.nav, nil)
	return f
}

// ---- TESTS ----

func TestLogin_ValidationStopsBeforeBackend(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Login(context.Background(), "", []byte("x"))
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, f.api.LastLogin.Username, "nothing sent")
}

func TestLogin_Success_WithEmbeddedUser(t *testing.T) {
	f := newAuthFixture(t)
	f.api.LoginRet = api.LoginResult{Token: "opaque", User: &models.Profile{ID: "3", Username: "bob", Email: "bob@x.io", Role: "USER"}}

	pw := []byte("secret1")
	id, err := f.svc.Login(context.Background(), "bob", pw)
	require.NoError(t, err)
	assert.Equal(t, session.Identity{ID: "3", Email: "bob@x.io", Name: "bob", Role: "USER"}, id)
	assert.Equal(t, "secret1", f.api.LastLogin.Password)
	assert.Equal(t, make([]byte, 7), pw, "password wiped")

	assert.Equal(t, "opaque", f.sess.Token())
	assert.True(t, f.nav.At(navigator.Library))
	assert.Zero(t, f.api.ProfileCalls, "profile already known")

	p, err := f.svc.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bob@x.io", p.Email)
	assert.Zero(t, f.api.ProfileCalls, "served from cache")
}

func TestLogin_LoadsProfileWhenNotEmbedded(t *testing.T) {
	f := newAuthFixture(t)
	f.api.LoginRet = api.LoginResult{Token: "opaque"}
	f.api.ProfileRet = models.Profile{ID: "9", Username: "amy", Role: "ADMIN"}

	id, err := f.svc.Login(context.Background(), "amy", []byte("secret1"))
	require.NoError(t, err)
	assert.Equal(t, "9", id.ID)
	assert.True(t, id.IsAdmin())
	assert.Equal(t, 1, f.api.ProfileCalls)
}

func TestLogin_ProfileFailureIsTolerated(t *testing.T) {
	f := newAuthFixture(t)
	f.api.LoginRet = api.LoginResult{Token: "opaque"}
	f.api.ProfileErr = errors.New("timeout")

	id, err := f.svc.Login(context.Background(), "amy", []byte("secret1"))
	require.NoError(t, err)
	assert.Equal(t, "amy", id.Name)
	assert.True(t, f.sess.Authenticated())
}

func TestLogin_ProfileRejectedFailsLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.api.LoginRet = api.LoginResult{Token: "opaque"}
	f.api.ProfileErr = unauthorized

	_, err := f.svc.Login(context.Background(), "amy", []byte("secret1"))
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.False(t, f.sess.Authenticated())
}

func TestLogin_BackendError_Wrapped(t *testing.T) {
	f := newAuthFixture(t)
	f.api.LoginErr = unauthorized

	_, err := f.svc.Login(context.Background(), "amy", []byte("secret1"))
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.ErrorContains(t, err, "login error:")
	assert.False(t, f.sess.Authenticated())
}

func TestLogin_EmptyToken(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Login(context.Background(), "amy", []byte("secret1"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestLogout_ClearsSessionAndCache(t *testing.T) {
	f := newAuthFixture(t)
	f.api.LoginRet = api.LoginResult{Token: "opaque", User: &models.Profile{ID: "1"}}
	_, err := f.svc.Login(context.Background(), "amy", []byte("secret1"))
	require.NoError(t, err)
	require.Equal(t, 1, f.c.Len())

	require.NoError(t, f.svc.Logout(context.Background()))
	assert.False(t, f.sess.Authenticated())
	assert.Zero(t, f.c.Len())
	assert.True(t, f.nav.At(navigator.Login))

	_, ok := f.svc.Current()
	assert.False(t, ok)
	_, err = f.svc.Profile(context.Background())
	require.ErrorIs(t, err, common.ErrNoSession)
}

func newPersister(t *testing.T) *session.MetadataPersister {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return session.NewMetadataPersister(metadata.NewSQLRepository(db, db.Dialect))
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	p := newPersister(t)
	require.NoError(t, p.Save(ctx, session.Credential{Token: "saved", Identity: session.Identity{ID: "4"}}))

	f := newAuthFixture(t, session.WithPersister(p))
	f.api.ProfileRet = models.Profile{ID: "4", Username: "zoe"}

	ok, err := f.svc.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	id, _ := f.svc.Current()
	assert.Equal(t, "zoe", id.Name)
	assert.True(t, f.nav.At(navigator.Library))
}

func TestRestore_RejectedSession(t *testing.T) {
	ctx := context.Background()
	p := newPersister(t)
	require.NoError(t, p.Save(ctx, session.Credential{Token: "revoked"}))

	f := newAuthFixture(t, session.WithPersister(p))
	f.api.ProfileErr = unauthorized

	ok, err := f.svc.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, found, err := p.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found, "persisted login flag removed")
}

func TestRestore_NothingSaved(t *testing.T) {
	f := newAuthFixture(t, session.WithPersister(newPersister(t)))
	ok, err := f.svc.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, f.api.ProfileCalls)
}
