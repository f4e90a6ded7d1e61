package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/billraya/ewallet-backend/internal/api"
	"github.com/billraya/ewallet-backend/internal/auth"
	"github.com/billraya/ewallet-backend/internal/config"
	"github.com/billraya/ewallet-backend/internal/db"
	"github.com/billraya/ewallet-backend/internal/logger"
	"github.com/billraya/ewallet-backend/internal/metrics"
	"github.com/billraya/ewallet-backend/internal/middleware"
	"github.com/billraya/ewallet-backend/internal/repository/postgres"
	"github.com/billraya/ewallet-backend/internal/services"
	"github.com/billraya/ewallet-backend/internal/txcode"
	"github.com/billraya/ewallet-backend/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	catalogSvc := services.NewCatalogService(repos.Catalog)
	if err := catalogSvc.Load(ctx); err != nil {
		log.Error("catalog load", "err", err)
		os.Exit(1)
	}

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	userSvc := services.NewUserService(repos.Users, repos.Wallets, tm)
	walletSvc := services.NewWalletService(repos.Wallets)
	transferSvc := services.NewTransferService(services.TransferDeps{
		Users:     repos.Users,
		Wallets:   repos.Wallets,
		Txns:      repos.Transactions,
		History:   repos.TransferHistories,
		Ledger:    repos.Ledger,
		Audits:    repos.AuditLogs,
		Catalog:   catalogSvc,
		Gate:      services.NewCredentialGate(repos.Users),
		Codes:     txcode.New(),
		Pool:      wp,
		TxTimeout: cfg.TransferTimeout,
	})

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:         cfg,
		UserSvc:     userSvc,
		WalletSvc:   walletSvc,
		TransferSvc: transferSvc,
		CatalogSvc:  catalogSvc,
		AuthMW:      middleware.NewAuthMiddleware(tm),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
