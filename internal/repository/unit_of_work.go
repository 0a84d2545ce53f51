package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/optima-platform/ledger/internal/db"
)

// TxFunc runs against repositories that share one database transaction
type TxFunc func(ctx context.Context, accounts AccountRepository, txns TransactionRepository) error

// UnitOfWork groups account and transaction writes. Postgres commits them
// together; other backends may apply them one by one.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
	// Atomic reports whether a failed fn leaves no partial writes behind.
	Atomic() bool
}

// AccountDecorator wraps the account repository handed to a TxFunc
type AccountDecorator func(AccountRepository) AccountRepository

type sqlUnitOfWork struct {
	db       *db.DB
	decorate AccountDecorator
}

// NewUnitOfWork creates a UnitOfWork backed by database transactions.
// decorate may be nil.
func NewUnitOfWork(database *db.DB, decorate AccountDecorator) UnitOfWork {
	return &sqlUnitOfWork{db: database, decorate: decorate}
}

func (u *sqlUnitOfWork) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	accounts := NewAccountRepository(tx)
	if u.decorate != nil {
		accounts = u.decorate(accounts)
	}

	if err := fn(ctx, accounts, NewTransactionRepository(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (u *sqlUnitOfWork) Atomic() bool { return true }
