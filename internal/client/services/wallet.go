package services

import (
	"context"

	"github.com/senselib/f8client/internal/client/gate"
	"github.com/senselib/f8client/internal/client/ledger"
	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/validate"
	"github.com/senselib/f8client/internal/common"
)

// WalletService exposes the Entitlement Balance of the signed-in identity
// and its remote transaction list.
type WalletService interface {
	Balance(ctx context.Context) (ledger.Account, error)
	Deposit(ctx context.Context, points int64) (ledger.Account, error)
	History(ctx context.Context, limit int) ([]ledger.Entry, error)
	Transactions(ctx context.Context, q models.PageQuery) (models.Page[models.Transaction], error)
}

// Wallet is the balance store. *ledger.Service satisfies it.
type Wallet interface {
	Balance(ctx context.Context, identity string) (ledger.Account, error)
	Deposit(ctx context.Context, identity string, amount int64, reference string) (ledger.Account, error)
	History(ctx context.Context, identity string, limit int) ([]ledger.Entry, error)
}

// TransactionStore lists backend transactions.
type TransactionStore interface {
	List(ctx context.Context, q models.PageQuery) (models.Page[models.Transaction], error)
}

type walletService struct {
	ids    gate.Identities
	wallet Wallet
	txs    TransactionStore
}

func NewWalletService(ids gate.Identities, w Wallet, txs TransactionStore) WalletService {
	return &walletService{ids: ids, wallet: w, txs: txs}
}

func (s *walletService) identity() (string, error) {
	id, ok := s.ids.Identity()
	if !ok || id.Key() == "" {
		return "", common.ErrNoSession
	}
	return id.Key(), nil
}

func (s *walletService) Balance(ctx context.Context) (ledger.Account, error) {
	id, err := s.identity()
	if err != nil {
		return ledger.Account{}, err
	}
	return s.wallet.Balance(ctx, id)
}

func (s *walletService) Deposit(ctx context.Context, points int64) (ledger.Account, error) {
	id, err := s.identity()
	if err != nil {
		return ledger.Account{}, err
	}
	if err := validate.Struct(models.Deposit{Points: points}); err != nil {
		return ledger.Account{}, err
	}
	return s.wallet.Deposit(ctx, id, points, "top-up")
}

func (s *walletService) History(ctx context.Context, limit int) ([]ledger.Entry, error) {
	id, err := s.identity()
	if err != nil {
		return nil, err
	}
	return s.wallet.History(ctx, id, limit)
}

func (s *walletService) Transactions(ctx context.Context, q models.PageQuery) (models.Page[models.Transaction], error) {
	if err := validate.Struct(q); err != nil {
		return models.Page[models.Transaction]{}, err
	}
	return s.txs.List(ctx, q)
}
