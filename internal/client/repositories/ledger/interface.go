// Package ledger stores Entitlement Balances and their append-only history.
package ledger

import (
	"context"
	"time"
)

// Kind classifies a ledger entry.
type Kind string

const (
	KindDeposit Kind = "deposit"
	KindCharge  Kind = "charge"
	KindRefund  Kind = "refund"
)

// Entry is one committed balance movement. Amount is signed: charges are
// negative.
type Entry struct {
	ID           string
	Identity     string
	Kind         Kind
	Amount       int64
	BalanceAfter int64
	Reference    string
	CreatedAt    time.Time
}

// Repository is the storage port of the balance ledger.
//
// Apply adds delta to the identity's balance, creating the account at zero
// when needed, and refuses (common.ErrInsufficientBalance) any change that
// would leave the balance negative. It returns the new balance.
type Repository interface {
	Balance(ctx context.Context, identity string) (int64, error)
	Apply(ctx context.Context, identity string, delta int64, at time.Time) (int64, error)
	Append(ctx context.Context, e Entry) error
	History(ctx context.Context, identity string, limit int) ([]Entry, error)
}
