package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/optima-platform/ledger/internal/chaos"
	"github.com/optima-platform/ledger/internal/config"
	"github.com/optima-platform/ledger/internal/db"
	"github.com/optima-platform/ledger/internal/events"
	"github.com/optima-platform/ledger/internal/events/kafka"
	"github.com/optima-platform/ledger/internal/middleware"
	"github.com/optima-platform/ledger/internal/repository"
	"github.com/optima-platform/ledger/internal/service"
	"github.com/optima-platform/ledger/internal/storage/memory"
)

// stores is the storage wiring for one storage backend
type stores struct {
	accounts    repository.AccountRepository
	txns        repository.TransactionRepository
	uow         repository.UnitOfWork
	health      service.HealthChecker
	idempotency middleware.IdempotencyRepository
	locker      middleware.IdempotencyLocker
	closers     []func() error
	logger      *slog.Logger
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	st := &stores{logger: logger}
	faults := chaos.WrapAccounts(cfg.App.BalanceWriteFailureRate)
	if faults != nil {
		logger.Warn("balance write fault injection enabled", "rate", cfg.App.BalanceWriteFailureRate)
	}

	switch cfg.Storage.Backend {
	case config.StorageBackendPostgres:
		database, err := db.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, database.Close)

		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx); err != nil {
				st.Close()
				return nil, err
			}
		}

		st.accounts = repository.NewAccountRepository(database)
		st.txns = repository.NewTransactionRepository(database)
		st.uow = repository.NewUnitOfWork(database, faults)
		st.health = database
		st.idempotency = repository.NewIdempotencyRepository(database)

	case config.StorageBackendMemory:
		accounts := memory.NewAccountStore()
		txns := memory.NewTransactionStore()
		st.accounts = accounts
		st.txns = txns
		st.uow = memory.NewUnitOfWork(accounts, txns, faults)
		st.health = accounts
		st.idempotency = memory.NewIdempotencyStore()
		logger.Warn("using in-memory storage; balance updates are not atomic and data is lost on restart")

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			st.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		st.closers = append(st.closers, client.Close)

		cache := repository.NewRedisIdempotencyRepository(client, cfg.Redis.IdempotencyTTL, cfg.Redis.LockTimeout)
		st.idempotency = cache
		st.locker = cache
		logger.Info("idempotency cache backed by redis", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.IdempotencyTTL)
	}

	return st, nil
}

// Close releases backend connections in reverse order of opening
func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Error("failed to close store", "error", err)
		}
	}
}

func openPublisher(cfg *config.Config, logger *slog.Logger) events.Publisher {
	if len(cfg.Events.Brokers) == 0 {
		logger.Info("no kafka brokers configured; ledger events are dropped")
		return events.NoopPublisher{}
	}
	logger.Info("publishing ledger events to kafka", "brokers", cfg.Events.Brokers)
	return kafka.NewPublisher(cfg.Events.Brokers)
}
