package services

import (
	"context"
	"testing"

	"github.com/senselib/f8client/internal/client/ledger"
	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/session"
	"github.com/senselib/f8client/internal/client/storage"
	"github.com/senselib/f8client/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticIDs struct {
	id session.Identity
	ok bool
}

func (s staticIDs) Identity() (session.Identity, bool) { return s.id, s.ok }

type fakeTxs struct {
	Ret  models.Page[models.Transaction]
	Last models.PageQuery
}

func (f *fakeTxs) List(ctx context.Context, q models.PageQuery) (models.Page[models.Transaction], error) {
	f.Last = q
	return f.Ret, nil
}

func newWallet(t *testing.T, ids staticIDs) (WalletService, *fakeTxs) {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	txs := &fakeTxs{}
	return NewWalletService(ids, ledger.NewService(db.DB, db.Dialect, nil), txs), txs
}

func TestWallet_DepositBalanceHistory(t *testing.T) {
	w, _ := newWallet(t, staticIDs{id: session.Identity{ID: "u1"}, ok: true})
	ctx := context.Background()

	acc, err := w.Balance(ctx)
	require.NoError(t, err)
	assert.Zero(t, acc.Points)

	acc, err = w.Deposit(ctx, 120)
	require.NoError(t, err)
	assert.Equal(t, int64(120), acc.Points)

	_, err = w.Deposit(ctx, 0)
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = w.Deposit(ctx, 2_000_000)
	require.ErrorIs(t, err, common.ErrValidation)

	h, err := w.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, "top-up", h[0].Reference)
}

func TestWallet_RequiresIdentity(t *testing.T) {
	w, _ := newWallet(t, staticIDs{})
	ctx := context.Background()

	_, err := w.Balance(ctx)
	require.ErrorIs(t, err, common.ErrNoSession)
	_, err = w.Deposit(ctx, 5)
	require.ErrorIs(t, err, common.ErrNoSession)
	_, err = w.History(ctx, 5)
	require.ErrorIs(t, err, common.ErrNoSession)

	w, _ = newWallet(t, staticIDs{ok: true})
	_, err = w.Balance(ctx)
	require.ErrorIs(t, err, common.ErrNoSession, "identity without a key")
}

func TestWallet_Transactions(t *testing.T) {
	w, txs := newWallet(t, staticIDs{})
	txs.Ret = models.Page[models.Transaction]{Content: []models.Transaction{{ID: "1", Amount: 50}}}

	p, err := w.Transactions(context.Background(), models.PageQuery{Page: 1, SortField: "createdAt", SortDirection: "desc"})
	require.NoError(t, err)
	assert.Len(t, p.Content, 1)
	assert.Equal(t, 1, txs.Last.Page)

	_, err = w.Transactions(context.Background(), models.PageQuery{Page: -1})
	require.ErrorIs(t, err, common.ErrValidation)
}
