package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_Create(t *testing.T) {
	t.Run("assigns id and normalises email", func(t *testing.T) {
		database, mock := setupMockDB(t)
		repo := NewAccountRepository(database)
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
			WithArgs(sqlmock.AnyArg(), "ada@example.com", "Ada", "Lovelace", "hash", nil, "0", "0").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		account := &models.Account{
			Email:        "  Ada@Example.com ",
			FirstName:    "Ada",
			LastName:     "Lovelace",
			PasswordHash: "hash",
		}
		require.NoError(t, repo.Create(context.Background(), account))

		assert.NotEqual(t, uuid.Nil, account.ID)
		assert.Equal(t, "ada@example.com", account.Email)
		assert.Equal(t, now, account.CreatedAt)
	})

	t.Run("duplicate email", func(t *testing.T) {
		database, mock := setupMockDB(t)
		repo := NewAccountRepository(database)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO accounts")).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(context.Background(), &models.Account{Email: "ada@example.com"})
		assert.ErrorIs(t, err, models.ErrDuplicateAccount)
	})
}

func TestAccountRepository_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		database, mock := setupMockDB(t)
		repo := NewAccountRepository(database)
		id := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(accountRowColumns).
				AddRow(id.String(), "ada@example.com", "Ada", "Lovelace", "hash", "https://img/ada.png", "150.50", "100.00", now, now))

		account, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)

		assert.Equal(t, id, account.ID)
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("150.50")))
		assert.True(t, account.InitialBalance.Equal(decimal.NewFromInt(100)))
		require.NotNil(t, account.AvatarURL)
		assert.Equal(t, "https://img/ada.png", *account.AvatarURL)
	})

	t.Run("not found", func(t *testing.T) {
		database, mock := setupMockDB(t)
		repo := NewAccountRepository(database)

		mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE id = $1")).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestAccountRepository_List(t *testing.T) {
	database, mock := setupMockDB(t)
	repo := NewAccountRepository(database)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows(accountRowColumns).
			AddRow(uuid.NewString(), "b@example.com", "B", "B", "h", nil, "0", "0", now, now).
			AddRow(uuid.NewString(), "a@example.com", "A", "A", "h", nil, "10", "5", now, now))

	accounts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "b@example.com", accounts[0].Email)
	assert.Nil(t, accounts[0].AvatarURL)
}

func TestAccountRepository_AdjustBalance(t *testing.T) {
	t.Run("returns new balance", func(t *testing.T) {
		database, mock := setupMockDB(t)
		repo := NewAccountRepository(database)
		id := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("SET balance = balance + $2")).
			WithArgs(id, "-30").
			WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow("70.00"))

		balance, err := repo.AdjustBalance(context.Background(), id, decimal.NewFromInt(-30))
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.NewFromInt(70)))
	})

	t.Run("unknown account", func(t *testing.T) {
		database, mock := setupMockDB(t)
		repo := NewAccountRepository(database)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE accounts")).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.AdjustBalance(context.Background(), uuid.New(), decimal.NewFromInt(5))
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
