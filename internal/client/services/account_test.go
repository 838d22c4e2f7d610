package services

import (
	"context"
	"testing"
	"time"

	"github.com/senselib/f8client/internal/client/cache"
	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/session"
	"github.com/senselib/f8client/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountAPI struct {
	ProfileRet models.Profile
	Err        error

	LastUpdate   models.ProfileUpdate
	LastPassword models.PasswordChange
	Calls        int
}

func (f *fakeAccountAPI) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (models.Profile, error) {
	f.Calls++
	f.LastUpdate = in
	return f.ProfileRet, f.Err
}

func (f *fakeAccountAPI) ChangePassword(ctx context.Context, in models.PasswordChange) error {
	f.Calls++
	f.LastPassword = in
	return f.Err
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	sess := session.NewStore()
	require.NoError(t, sess.Set(ctx, session.Credential{Token: "t", Identity: session.Identity{ID: "1", Name: "amy"}}))
	c := cache.New(time.Minute)
	c.Set(cache.ProfileKey, models.Profile{Email: "old@x.io"})

	a := &fakeAccountAPI{ProfileRet: models.Profile{ID: "1", Username: "amy", Email: "new@x.io", FullName: "Amy Pond"}}
	svc := NewAccountService(a, sess, c, nil)

	p, err := svc.UpdateProfile(ctx, models.ProfileUpdate{FullName: "Amy Pond", Email: "new@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "Amy Pond", p.FullName)

	_, ok := c.Get(cache.ProfileKey)
	assert.False(t, ok, "stale profile dropped")
	id, _ := sess.Identity()
	assert.Equal(t, "new@x.io", id.Email)
}

func TestUpdateProfile_Invalid(t *testing.T) {
	a := &fakeAccountAPI{}
	svc := NewAccountService(a, session.NewStore(), cache.New(0), nil)
	_, err := svc.UpdateProfile(context.Background(), models.ProfileUpdate{Email: "x"})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, a.Calls)
}

func TestChangePassword(t *testing.T) {
	a := &fakeAccountAPI{}
	svc := NewAccountService(a, session.NewStore(), cache.New(0), nil)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, models.PasswordChange{CurrentPassword: "a", NewPassword: "short", ConfirmPassword: "short"})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Zero(t, a.Calls)

	in := models.PasswordChange{CurrentPassword: "oldpass", NewPassword: "newpass", ConfirmPassword: "newpass"}
	require.NoError(t, svc.ChangePassword(ctx, in))
	assert.Equal(t, in, a.LastPassword)
}
