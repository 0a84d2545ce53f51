package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/optima-platform/ledger/internal/db"
)

func setupMockDB(t *testing.T) (*db.DB, sqlmock.Sqlmock) {
	t.Helper()

	return db.NewMockDB(t)
}

var accountRowColumns = []string{
	"id", "email", "first_name", "last_name", "password_hash", "avatar_url",
	"balance", "initial_balance", "created_at", "updated_at",
}

var transactionRowColumns = []string{
	"id", "account_id", "amount", "direction", "description", "status",
	"metadata", "idempotency_key", "created_at",
}
