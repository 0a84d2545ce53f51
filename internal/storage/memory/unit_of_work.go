package memory

import (
	"context"

	"github.com/optima-platform/ledger/internal/repository"
)

// UnitOfWork runs a TxFunc directly against the stores. Writes made before a
// failure stay applied.
type UnitOfWork struct {
	accounts repository.AccountRepository
	txns     repository.TransactionRepository
}

// NewUnitOfWork creates a UnitOfWork over the given stores. decorate may be nil.
func NewUnitOfWork(accounts repository.AccountRepository, txns repository.TransactionRepository, decorate repository.AccountDecorator) *UnitOfWork {
	if decorate != nil {
		accounts = decorate(accounts)
	}
	return &UnitOfWork{accounts: accounts, txns: txns}
}

func (u *UnitOfWork) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	return fn(ctx, u.accounts, u.txns)
}

func (u *UnitOfWork) Atomic() bool { return false }

var _ repository.UnitOfWork = (*UnitOfWork)(nil)
