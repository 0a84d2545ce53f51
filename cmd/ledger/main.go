package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/optima-platform/ledger/internal/auth"
	"github.com/optima-platform/ledger/internal/config"
	"github.com/optima-platform/ledger/internal/handlers"
	"github.com/optima-platform/ledger/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting ledger api",
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Backend,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open stores", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	publisher := openPublisher(cfg, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("failed to close event publisher", "error", err)
		}
	}()

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := newHasher(&cfg.Auth.Argon2)

	ledger := service.NewLedgerService(st.uow, st.accounts, st.txns, publisher, logger)
	wallet := service.NewWalletService(ledger, service.FeeSchedule{
		CryptoPercent:     cfg.App.CryptoWithdrawalFeePercent,
		BankPercent:       cfg.App.BankWithdrawalFeePercent,
		MinBankWithdrawal: cfg.App.MinBankWithdrawal,
	}, logger)
	admin := service.NewAdminService(ledger, st.accounts, st.txns, logger)
	authn := service.NewAuthService(st.accounts, hasher, issuer, cfg.Auth.AdminCredentials, logger)

	if len(cfg.Auth.AdminCredentials) == 0 {
		logger.Warn("no admin credentials configured; admin login is disabled")
	}

	router, err := handlers.NewRouter(handlers.RouterDeps{
		Handler:     handlers.NewHandler(ledger, wallet, admin, authn, st.health, logger),
		Verifier:    issuer,
		Idempotency: st.idempotency,
		Locker:      st.locker,
		Config:      cfg,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func newHasher(cfg *config.Argon2Config) auth.Hasher {
	return auth.Hasher{
		Time:       uint32(cfg.Time),
		MemoryKB:   uint32(cfg.MemoryKB),
		Threads:    uint8(cfg.Threads),
		KeyLength:  uint32(cfg.KeyLength),
		SaltLength: cfg.SaltLength,
	}
}
