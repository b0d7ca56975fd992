package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/i-mwangi/qawa-sub004/internal/adapter"
	"github.com/i-mwangi/qawa-sub004/internal/balance"
	"github.com/i-mwangi/qawa-sub004/internal/config"
	"github.com/i-mwangi/qawa-sub004/internal/ledger"
	"github.com/i-mwangi/qawa-sub004/internal/logger"
	"github.com/i-mwangi/qawa-sub004/internal/store"
	"github.com/i-mwangi/qawa-sub004/internal/sweeper"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadSweeperConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "sweeper",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Qawa sweeper")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("dsn", cfg.Database.DSN()))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store
	dataStore := store.NewPGStore(db)

	// Initialize clock adapter
	clock := adapter.NewClock()

	// Initialize ledger service
	var ledgerService ledger.Service
	if cfg.Hedera.UseMock {
		logger.WarnCtx(ctx, "Using in-process mock ledger, transfers are not real")
		ledgerService = ledger.NewMockLedger(cfg.Hedera.ExplorerURL)
	} else {
		httpClient := adapter.NewHTTPClient(cfg.Hedera.TransferTimeout)
		ledgerService = ledger.NewBridgeClient(cfg.Hedera.BridgeURL, cfg.Hedera.TokenID, httpClient)
		logger.InfoCtx(ctx, "Connected to Hedera bridge", zap.String("bridge_url", cfg.Hedera.BridgeURL))
	}

	// Initialize balance aggregator
	aggregator := balance.NewAggregator(dataStore, clock)

	// Initialize intent reconciler
	reconcilerConfig := &sweeper.IntentReconcilerConfig{
		PendingAge:     cfg.IntentReconciler.PendingAge,
		BatchSize:      cfg.IntentReconciler.BatchSize,
		WorkerPoolSize: cfg.IntentReconciler.Worker.WorkerPoolSize,
		SweepInterval:  cfg.IntentReconciler.SweepInterval,
	}
	reconciler := sweeper.NewIntentReconciler(reconcilerConfig, dataStore, ledgerService, aggregator, clock)

	logger.InfoCtx(ctx, "Initialized intent reconciler",
		zap.Duration("pending_age", cfg.IntentReconciler.PendingAge),
		zap.Int("batch_size", cfg.IntentReconciler.BatchSize),
		zap.Int("worker_pool_size", cfg.IntentReconciler.Worker.WorkerPoolSize),
		zap.Duration("sweep_interval", cfg.IntentReconciler.SweepInterval),
	)

	// Start the sweeper in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := reconciler.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		logger.ErrorCtx(ctx, err)
	}

	// Cancel context to stop the sweeper
	cancel()

	// Give the sweeper time to shut down gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()

	if err := reconciler.Stop(shutdownCtx); err != nil {
		logger.ErrorCtx(shutdownCtx, err)
	}

	logger.InfoCtx(shutdownCtx, "Sweeper stopped")
}
