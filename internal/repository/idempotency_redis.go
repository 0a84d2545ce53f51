package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/optima-platform/ledger/internal/models"
)

const (
	redisResponsePrefix = "idempotency:response:"
	redisLockPrefix     = "idempotency:lock:"
)

// RedisIdempotencyRepository caches replayable responses in Redis with a TTL
// and guards in-flight requests with a short-lived lock.
type RedisIdempotencyRepository struct {
	client      redis.Cmdable
	ttl         time.Duration
	lockTimeout time.Duration
}

// NewRedisIdempotencyRepository creates a new RedisIdempotencyRepository
func NewRedisIdempotencyRepository(client redis.Cmdable, ttl, lockTimeout time.Duration) *RedisIdempotencyRepository {
	return &RedisIdempotencyRepository{client: client, ttl: ttl, lockTimeout: lockTimeout}
}

type cachedResponse struct {
	CreatedAt time.Time `json:"created_at"`
	Body      string    `json:"body"`
	Status    int       `json:"status"`
}

func redisKey(prefix, key, requestPath string) string {
	return prefix + requestPath + ":" + key
}

func encodeCachedResponse(idemKey *models.IdempotencyKey) ([]byte, error) {
	return json.Marshal(cachedResponse{
		CreatedAt: idemKey.CreatedAt,
		Body:      idemKey.ResponseBody,
		Status:    idemKey.ResponseStatus,
	})
}

// Get returns the cached response, or nil when the key is unseen or expired
func (r *RedisIdempotencyRepository) Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	raw, err := r.client.Get(ctx, redisKey(redisResponsePrefix, key, requestPath)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	var cached cachedResponse
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, fmt.Errorf("failed to decode idempotency key: %w", err)
	}

	return &models.IdempotencyKey{
		CreatedAt:      cached.CreatedAt,
		Key:            key,
		RequestPath:    requestPath,
		ResponseBody:   cached.Body,
		ResponseStatus: cached.Status,
	}, nil
}

// Store caches the response until the TTL elapses
func (r *RedisIdempotencyRepository) Store(ctx context.Context, idemKey *models.IdempotencyKey) error {
	payload, err := encodeCachedResponse(idemKey)
	if err != nil {
		return fmt.Errorf("failed to encode idempotency key: %w", err)
	}

	if err := r.client.Set(ctx, redisKey(redisResponsePrefix, idemKey.Key, idemKey.RequestPath), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	return nil
}

// Acquire takes the in-flight lock for key. It reports false when another
// request holds it.
func (r *RedisIdempotencyRepository) Acquire(ctx context.Context, key, requestPath string) (bool, error) {
	ok, err := r.client.SetNX(ctx, redisKey(redisLockPrefix, key, requestPath), "1", r.lockTimeout).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire idempotency lock: %w", err)
	}
	return ok, nil
}

// Release drops the in-flight lock for key
func (r *RedisIdempotencyRepository) Release(ctx context.Context, key, requestPath string) error {
	if err := r.client.Del(ctx, redisKey(redisLockPrefix, key, requestPath)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency lock: %w", err)
	}
	return nil
}
