package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/senselib/f8client/internal/common"
	"github.com/senselib/f8client/internal/dbx"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Balance(ctx context.Context, identity string) (int64, error) {
	var points int64
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT points FROM balances WHERE identity = ?`), identity).Scan(&points)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance of %s: %w", identity, err)
	}
	return points, nil
}

func (r *SQLRepository) Apply(ctx context.Context, identity string, delta int64, at time.Time) (int64, error) {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`
		INSERT INTO balances (identity, points, updated_at) VALUES (?, 0, ?)
		ON CONFLICT (identity) DO NOTHING
	`), identity, at)
	if err != nil {
		return 0, fmt.Errorf("failed to open account %s: %w", identity, err)
	}

	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(`
		UPDATE balances SET points = points + ?, updated_at = ?
		WHERE identity = ? AND points + ? >= 0
	`), delta, at, identity, delta)
	if err != nil {
		return 0, fmt.Errorf("failed to update balance of %s: %w", identity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to update balance of %s: %w", identity, err)
	}
	if n == 0 {
		return 0, common.ErrInsufficientBalance
	}

	return r.Balance(ctx, identity)
}

func (r *SQLRepository) Append(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`
		INSERT INTO ledger_entries (id, identity, kind, amount, balance_after, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), e.ID, e.Identity, string(e.Kind), e.Amount, e.BalanceAfter, e.Reference, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

func (r *SQLRepository) History(ctx context.Context, identity string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`
		SELECT id, identity, kind, amount, balance_after, reference, created_at
		FROM ledger_entries WHERE identity = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`), identity, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.ID, &e.Identity, &kind, &e.Amount, &e.BalanceAfter, &e.Reference, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Kind = Kind(kind)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return out, nil
}
