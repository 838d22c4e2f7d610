package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/senselib/f8client/internal/client/storage"
	"github.com/senselib/f8client/internal/common"
	"github.com/senselib/f8client/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (*SQLRepository, *storage.DB) {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db, db.Dialect), db
}

func TestBalance_UnknownIdentityIsZero(t *testing.T) {
	r, _ := newRepo(t)
	b, err := r.Balance(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, b)
}

func TestApply_DepositThenCharge(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	b, err := r.Apply(ctx, "u1", 100, now)
	require.NoError(t, err)
	assert.Equal(t, int64(100), b)

	b, err = r.Apply(ctx, "u1", -50, now)
	require.NoError(t, err)
	assert.Equal(t, int64(50), b)

	b, err = r.Apply(ctx, "u1", -50, now)
	require.NoError(t, err)
	assert.Zero(t, b)
}

func TestApply_RefusesNegative(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := r.Apply(ctx, "u1", 10, now)
	require.NoError(t, err)

	_, err = r.Apply(ctx, "u1", -11, now)
	require.ErrorIs(t, err, common.ErrInsufficientBalance)

	b, err := r.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), b, "refused change must not touch the balance")

	_, err = r.Apply(ctx, "fresh", -1, now)
	require.ErrorIs(t, err, common.ErrInsufficientBalance)
}

func TestAppendAndHistory(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	entries := []Entry{
		{ID: "e1", Identity: "u1", Kind: KindDeposit, Amount: 100, BalanceAfter: 100, CreatedAt: base},
		{ID: "e2", Identity: "u1", Kind: KindCharge, Amount: -50, BalanceAfter: 50, Reference: "doc:3", CreatedAt: base.Add(time.Minute)},
		{ID: "e3", Identity: "u2", Kind: KindDeposit, Amount: 5, BalanceAfter: 5, CreatedAt: base},
	}
	for _, e := range entries {
		require.NoError(t, r.Append(ctx, e))
	}

	got, err := r.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].ID, "newest first")
	assert.Equal(t, KindCharge, got[0].Kind)
	assert.Equal(t, "doc:3", got[0].Reference)
	assert.True(t, got[0].CreatedAt.Equal(base.Add(time.Minute)))

	got, err = r.History(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestErrorsAreWrapped(t *testing.T) {
	r, db := newRepo(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Balance(ctx, "u")
	require.ErrorContains(t, err, "failed to read balance")
	_, err = r.Apply(ctx, "u", 1, time.Now())
	require.ErrorContains(t, err, "failed to open account")
	require.ErrorContains(t, r.Append(ctx, Entry{ID: "x"}), "failed to append ledger entry")
	_, err = r.History(ctx, "u", 1)
	require.ErrorContains(t, err, "failed to list ledger entries")
}

func TestApply_PostgresGuardedUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLRepository(db, dbx.DialectPostgres)
	at := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO balances \(identity, points, updated_at\) VALUES \(\$1, 0, \$2\)`).
		WithArgs("u1", at).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE balances SET points = points \+ \$1, updated_at = \$2\s+WHERE identity = \$3 AND points \+ \$4 >= 0`).
		WithArgs(int64(-50), at, "u1", int64(-50)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err = r.Apply(context.Background(), "u1", -50, at)
	require.ErrorIs(t, err, common.ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApply_UpdateError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLRepository(db, dbx.DialectSQLite)
	mock.ExpectExec(`INSERT INTO balances`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE balances`).WillReturnError(errors.New("disk I/O error"))

	_, err = r.Apply(context.Background(), "u1", 5, time.Now())
	require.ErrorContains(t, err, "failed to update balance of u1")
	require.NoError(t, mock.ExpectationsWereMet())
}
