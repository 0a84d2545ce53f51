package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyRepository_Get(t *testing.T) {
	t.Run("miss returns nil", func(t *testing.T) {
		database, mock := setupMockDB(t)
		repo := NewIdempotencyRepository(database)

		mock.ExpectQuery(regexp.QuoteMeta("FROM idempotency_keys")).
			WithArgs("k-1", "/api/v1/me/deposits").
			WillReturnError(sql.ErrNoRows)

		cached, err := repo.Get(context.Background(), "k-1", "/api/v1/me/deposits")
		require.NoError(t, err)
		assert.Nil(t, cached)
	})

	t.Run("hit", func(t *testing.T) {
		database, mock := setupMockDB(t)
		repo := NewIdempotencyRepository(database)
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta("FROM idempotency_keys")).
			WillReturnRows(sqlmock.NewRows([]string{"key", "request_path", "response_status", "response_body", "created_at"}).
				AddRow("k-1", "/api/v1/me/deposits", 201, `{"ok":true}`, now))

		cached, err := repo.Get(context.Background(), "k-1", "/api/v1/me/deposits")
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, 201, cached.ResponseStatus)
		assert.Equal(t, `{"ok":true}`, cached.ResponseBody)
	})
}

func TestIdempotencyRepository_Store(t *testing.T) {
	database, mock := setupMockDB(t)
	repo := NewIdempotencyRepository(database)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (key, request_path) DO NOTHING")).
		WithArgs("k-1", "/p", 201, "{}", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Store(context.Background(), &models.IdempotencyKey{
		Key: "k-1", RequestPath: "/p", ResponseStatus: 201, ResponseBody: "{}", CreatedAt: now,
	})
	assert.NoError(t, err)
}

func TestRedisIdempotencyRepository(t *testing.T) {
	ctx := context.Background()
	ttl := time.Hour
	lock := 30 * time.Second
	responseKey := "idempotency:response:/api/v1/me/deposits:k-1"
	lockKey := "idempotency:lock:/api/v1/me/deposits:k-1"

	t.Run("get miss", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisIdempotencyRepository(client, ttl, lock)

		mock.ExpectGet(responseKey).RedisNil()

		cached, err := repo.Get(ctx, "k-1", "/api/v1/me/deposits")
		require.NoError(t, err)
		assert.Nil(t, cached)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store then get", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisIdempotencyRepository(client, ttl, lock)
		idemKey := &models.IdempotencyKey{
			CreatedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Key:            "k-1",
			RequestPath:    "/api/v1/me/deposits",
			ResponseBody:   `{"id":"x"}`,
			ResponseStatus: 201,
		}
		payload, err := encodeCachedResponse(idemKey)
		require.NoError(t, err)

		mock.ExpectSet(responseKey, payload, ttl).SetVal("OK")
		mock.ExpectGet(responseKey).SetVal(string(payload))

		require.NoError(t, repo.Store(ctx, idemKey))
		cached, err := repo.Get(ctx, "k-1", "/api/v1/me/deposits")
		require.NoError(t, err)
		assert.Equal(t, idemKey, cached)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock contention", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisIdempotencyRepository(client, ttl, lock)

		mock.ExpectSetNX(lockKey, "1", lock).SetVal(true)
		mock.ExpectSetNX(lockKey, "1", lock).SetVal(false)
		mock.ExpectDel(lockKey).SetVal(1)

		ok, err := repo.Acquire(ctx, "k-1", "/api/v1/me/deposits")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Acquire(ctx, "k-1", "/api/v1/me/deposits")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.NoError(t, repo.Release(ctx, "k-1", "/api/v1/me/deposits"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
