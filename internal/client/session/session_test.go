package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/senselib/f8client/internal/client/repositories/metadata"
	"github.com/senselib/f8client/internal/client/storage"
	"github.com/senselib/f8client/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestNewCredential_FromJWT(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signed(t, jwt.MapClaims{
		"sub":    "alice",
		"userId": float64(42),
		"email":  "alice@example.com",
		"role":   "ADMIN",
		"exp":    exp.Unix(),
	})

	c, err := NewCredential(tok)
	require.NoError(t, err)
	assert.Equal(t, tok, c.Token)
	assert.Equal(t, Identity{ID: "42", Email: "alice@example.com", Name: "alice", Role: "ADMIN"}, c.Identity)
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.True(t, c.Identity.IsAdmin())
	assert.Equal(t, "42", c.Identity.Key())
	assert.False(t, c.Expired(time.Now()))
	assert.True(t, c.Expired(exp))
}

func TestNewCredential_Opaque(t *testing.T) {
	c, err := NewCredential("  opaque-token  ")
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", c.Token)
	assert.Equal(t, Identity{}, c.Identity)
	assert.False(t, c.Expired(time.Now()))

	_, err = NewCredential(" ")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestIdentity_KeyAndString(t *testing.T) {
	assert.Equal(t, "e@x", Identity{Email: "e@x", Name: "n"}.Key())
	assert.Equal(t, "n", Identity{Email: "e@x", Name: "n"}.String())
	assert.Equal(t, "e@x", Identity{ID: "1", Email: "e@x"}.String())
	assert.False(t, Identity{Role: "USER"}.IsAdmin())
}

func TestStore_SetTokenClear(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())

	require.NoError(t, s.Set(ctx, Credential{Token: "t1", Identity: Identity{ID: "1"}}))
	assert.Equal(t, "t1", s.Token())
	id, ok := s.Identity()
	require.True(t, ok)
	assert.Equal(t, "1", id.ID)

	require.NoError(t, s.SetIdentity(ctx, Identity{ID: "1", Email: "a@b"}))
	id, _ = s.Identity()
	assert.Equal(t, "a@b", id.Email)

	var calls int
	s.OnClear(func(context.Context) { calls++ })

	assert.True(t, s.Clear(ctx))
	assert.False(t, s.Authenticated())
	assert.False(t, s.Clear(ctx), "second clear finds nothing")
	assert.Equal(t, 2, calls, "hooks run on every clear")
}

func TestStore_SetIdentityWhenAnonymous(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.SetIdentity(context.Background(), Identity{ID: "x"}))
	_, ok := s.Identity()
	assert.False(t, ok)
}

type brokenPersister struct{ saveErr, deleteErr error }

func (b brokenPersister) Save(context.Context, Credential) error { return b.saveErr }
func (b brokenPersister) Load(context.Context) (Credential, bool, error) {
	return Credential{}, false, errors.New("load failed")
}
func (b brokenPersister) Delete(context.Context) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	panic("boom")
}

func TestStore_ClearNeverPanics(t *testing.T) {
	ctx := context.Background()
	s := NewStore(WithPersister(brokenPersister{}))
	s.OnClear(func(context.Context) { panic("hook") })

	ran := false
	s.OnClear(func(context.Context) { ran = true })

	require.NotPanics(t, func() { s.Clear(ctx) })
	assert.True(t, ran, "a panicking hook does not stop later hooks")

	s = NewStore(WithPersister(brokenPersister{deleteErr: errors.New("disk")}))
	require.NotPanics(t, func() { s.Clear(ctx) })
}

func TestStore_SetPersistError(t *testing.T) {
	s := NewStore(WithPersister(brokenPersister{saveErr: errors.New("disk")}))
	err := s.Set(context.Background(), Credential{Token: "t"})
	require.ErrorContains(t, err, "persist session")
	assert.Equal(t, "t", s.Token(), "in-memory session still set")

	_, err = s.Restore(context.Background())
	require.ErrorContains(t, err, "load session")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _ = s.Set(ctx, Credential{Token: "t"}) }()
		go func() { defer wg.Done(); _ = s.Token(); s.Clear(ctx) }()
	}
	wg.Wait()
}

func newMetadataRepo(t *testing.T) metadata.Repository {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLRepository(db, db.Dialect)
}

func TestMetadataPersister_RoundTripAndRestore(t *testing.T) {
	ctx := context.Background()
	repo := newMetadataRepo(t)
	p := NewMetadataPersister(repo)

	s := NewStore(WithPersister(p))
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, s.Set(ctx, Credential{
		Token:     "opaque",
		Identity:  Identity{ID: "7", Email: "u@x", Role: "USER"},
		ExpiresAt: exp,
	}))

	tok, ok, err := repo.Get(ctx, common.MetaSessionToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "opaque", tok)

	restored := NewStore(WithPersister(p))
	ok, err = restored.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	c, _ := restored.Credential()
	assert.Equal(t, "opaque", c.Token)
	assert.Equal(t, "u@x", c.Identity.Email)
	assert.True(t, c.ExpiresAt.Equal(exp))

	restored.Clear(ctx)
	_, ok, err = repo.Get(ctx, common.MetaSessionToken)
	require.NoError(t, err)
	assert.False(t, ok, "clearing the session removes the login flag")

	ok, err = NewStore(WithPersister(p)).Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestore_DropsExpired(t *testing.T) {
	ctx := context.Background()
	repo := newMetadataRepo(t)
	p := NewMetadataPersister(repo)

	require.NoError(t, p.Save(ctx, Credential{Token: "old", ExpiresAt: time.Now().Add(-time.Minute)}))

	s := NewStore(WithPersister(p))
	ok, err := s.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, s.Authenticated())

	_, found, err := repo.Get(ctx, common.MetaSessionToken)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRestore_WithoutPersister(t *testing.T) {
	ok, err := NewStore().Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
