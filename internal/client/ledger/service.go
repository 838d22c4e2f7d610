// Package ledger is the single writer of Entitlement Balances. Every mutation
// for one identity runs under that identity's lock and inside one database
// transaction, and the repository refuses any update that would leave the
// balance negative.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/senselib/f8client/internal/client/repositories/ledger"
	"github.com/senselib/f8client/internal/common"
	"github.com/senselib/f8client/internal/dbx"
	"github.com/senselib/f8client/internal/logging"
)

// Entry is re-exported so callers do not need the repository package.
type Entry = ledger.Entry

// Account is a snapshot of one identity's balance.
type Account struct {
	Identity string
	Points   int64
}

// Service manages balances on top of a ledger repository.
type Service struct {
	db      *sql.DB
	dialect dbx.Dialect
	log     logging.Logger

	locks keyedMutex

	now   func() time.Time
	newID func() string
}

func NewService(db *sql.DB, dialect dbx.Dialect, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{
		db:      db,
		dialect: dialect,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

func (s *Service) repo(db dbx.DBTX) ledger.Repository {
	return ledger.NewSQLRepository(db, s.dialect)
}

// Balance returns the current balance; unknown identities have zero.
func (s *Service) Balance(ctx context.Context, identity string) (Account, error) {
	if identity == "" {
		return Account{}, common.ErrNoSession
	}
	points, err := s.repo(s.db).Balance(ctx, identity)
	if err != nil {
		return Account{}, err
	}
	return Account{Identity: identity, Points: points}, nil
}

// Deposit adds a positive amount of points.
func (s *Service) Deposit(ctx context.Context, identity string, amount int64, reference string) (Account, error) {
	if amount <= 0 {
		return Account{}, fmt.Errorf("%w: deposit must be positive, got %d", common.ErrInvalidAmount, amount)
	}
	return s.apply(ctx, identity, ledger.KindDeposit, amount, reference)
}

// Deduct charges cost points. It commits only if the balance covers the cost
// and returns common.ErrInsufficientBalance otherwise, leaving the balance
// untouched. A zero cost is a no-op that records nothing.
func (s *Service) Deduct(ctx context.Context, identity string, cost int64, reference string) (Account, error) {
	if cost < 0 {
		return Account{}, fmt.Errorf("%w: cost must not be negative, got %d", common.ErrInvalidAmount, cost)
	}
	if cost == 0 {
		return s.Balance(ctx, identity)
	}
	return s.apply(ctx, identity, ledger.KindCharge, -cost, reference)
}

// Refund gives back points previously charged.
func (s *Service) Refund(ctx context.Context, identity string, amount int64, reference string) (Account, error) {
	if amount <= 0 {
		return Account{}, fmt.Errorf("%w: refund must be positive, got %d", common.ErrInvalidAmount, amount)
	}
	return s.apply(ctx, identity, ledger.KindRefund, amount, reference)
}

// History lists the most recent entries, newest first.
func (s *Service) History(ctx context.Context, identity string, limit int) ([]Entry, error) {
	if identity == "" {
		return nil, common.ErrNoSession
	}
	return s.repo(s.db).History(ctx, identity, limit)
}

func (s *Service) apply(ctx context.Context, identity string, kind ledger.Kind, delta int64, reference string) (Account, error) {
	if identity == "" {
		return Account{}, common.ErrNoSession
	}

	unlock := s.locks.Lock(identity)
	defer unlock()

	var after int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		at := s.now()

		b, err := r.Apply(ctx, identity, delta, at)
		if err != nil {
			return err
		}
		after = b

		return r.Append(ctx, ledger.Entry{
			ID:           s.newID(),
			Identity:     identity,
			Kind:         kind,
			Amount:       delta,
			BalanceAfter: b,
			Reference:    reference,
			CreatedAt:    at,
		})
	})
	if err != nil {
		s.log.Debug(ctx, "ledger change refused", "identity", identity, "kind", kind, "delta", delta, "error", err)
		return Account{}, err
	}

	s.log.Info(ctx, "ledger change committed", "identity", identity, "kind", kind, "delta", delta, "balance", after)
	return Account{Identity: identity, Points: after}, nil
}

// keyedMutex hands out one mutex per key and drops it when the last holder
// releases it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
