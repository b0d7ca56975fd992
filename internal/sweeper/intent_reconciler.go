package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/i-mwangi/qawa-sub004/internal/adapter"
	"github.com/i-mwangi/qawa-sub004/internal/balance"
	"github.com/i-mwangi/qawa-sub004/internal/domain"
	"github.com/i-mwangi/qawa-sub004/internal/ledger"
	"github.com/i-mwangi/qawa-sub004/internal/logger"
	"github.com/i-mwangi/qawa-sub004/internal/store"
	"github.com/i-mwangi/qawa-sub004/internal/store/schema"
)

// IntentReconcilerConfig holds configuration for the intent reconciler sweeper
type IntentReconcilerConfig struct {
	PendingAge     time.Duration // Only reconcile intents older than this
	BatchSize      int           // Intents to reconcile per cycle
	WorkerPoolSize int           // Concurrent workers
	SweepInterval  time.Duration // Time to sleep between sweep cycles
}

// intentReconciler resolves transfer intents stranded in the pending state.
// An intent is left pending when the ledger call timed out or the process
// crashed between submitting the transfer and recording its outcome; the
// transfer itself may or may not have happened. The reconciler asks the
// ledger for the authoritative outcome and drives the intent to its terminal
// state, or leaves it pending when the ledger still does not know.
type intentReconciler struct {
	config     *IntentReconcilerConfig
	store      store.Store
	ledger     ledger.Service
	aggregator balance.Aggregator
	pool       pond.Pool
	clock      adapter.Clock
	running    atomic.Bool
	stopChan   chan struct{}
	stoppedCh  chan struct{}
}

// NewIntentReconciler creates a new intent reconciler sweeper
func NewIntentReconciler(
	config *IntentReconcilerConfig,
	st store.Store,
	ledgerSvc ledger.Service,
	aggregator balance.Aggregator,
	clock adapter.Clock,
) Sweeper {
	return &intentReconciler{
		config:     config,
		store:      st,
		ledger:     ledgerSvc,
		aggregator: aggregator,
		clock:      clock,
		stopChan:   make(chan struct{}),
		stoppedCh:  make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *intentReconciler) Name() string {
	return "intent-reconciler"
}

// Start begins the sweeper's main loop
func (s *intentReconciler) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh) // Signal that we've stopped
	}()

	logger.InfoCtx(ctx, "Starting intent reconciler",
		zap.Duration("pending_age", s.config.PendingAge),
		zap.Int("batch_size", s.config.BatchSize),
		zap.Int("worker_pool_size", s.config.WorkerPoolSize),
		zap.Duration("sweep_interval", s.config.SweepInterval),
	)

	// Create worker pool
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.BatchSize),
		pond.WithContext(ctx),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Intent reconciler stopping due to context cancellation", zap.Error(ctx.Err()))
			s.cleanup()
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Intent reconciler stop requested")
			s.cleanup()
			return nil
		default:
			if err := s.runSweepCycle(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, err)
					// A failing cycle must not spin the loop against the store
					s.sleep(ctx, s.config.SweepInterval)
				}
			}
		}
	}
}

// cleanup stops the worker pool and waits for in-flight reconciliations
func (s *intentReconciler) cleanup() {
	if s.pool != nil {
		s.pool.StopAndWait()
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *intentReconciler) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping intent reconciler")

	// Signal stop to the main loop
	close(s.stopChan)

	// Wait for main loop to exit, but respect context cancellation
	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Intent reconciler stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Intent reconciler stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle reconciles one batch of stale pending intents
func (s *intentReconciler) runSweepCycle(ctx context.Context) error {
	startTime := s.clock.Now()
	cutoff := startTime.Add(-s.config.PendingAge)

	intents, err := s.store.ListPendingIntentsOlderThan(ctx, cutoff, s.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list stale pending intents: %w", err)
	}

	if len(intents) == 0 {
		if !s.sleep(ctx, s.config.SweepInterval) {
			return ctx.Err() // Context canceled during sleep
		}
		return nil
	}

	logger.InfoCtx(ctx, "Found stale pending intents", zap.Int("count", len(intents)))

	var completedCount, failedCount, unknownCount atomic.Int32

	for _, intent := range intents {
		s.pool.Submit(func() {
			s.reconcileIntent(ctx, intent, &completedCount, &failedCount, &unknownCount)
		})
	}

	// Wait for all reconciliations to complete
	s.pool.StopAndWait()

	// Recreate pool for next cycle
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.BatchSize),
		pond.WithContext(ctx),
	)

	duration := s.clock.Since(startTime)
	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", duration),
		zap.Int("total_reconciled", len(intents)),
		zap.Int32("completed", completedCount.Load()),
		zap.Int32("failed", failedCount.Load()),
		zap.Int32("still_unknown", unknownCount.Load()),
	)

	if !s.sleep(ctx, s.config.SweepInterval) {
		return ctx.Err() // Context canceled during sleep
	}

	return nil
}

// sleep sleeps for the given duration but can be interrupted by context cancellation
// Returns true if sleep completed normally, false if interrupted
func (s *intentReconciler) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true // Sleep completed
	case <-ctx.Done():
		return false // Interrupted by context cancellation
	case <-s.stopChan:
		return false // Interrupted by stop signal
	}
}

// reconcileIntent resolves a single stale pending intent against the ledger
func (s *intentReconciler) reconcileIntent(ctx context.Context, intent schema.TransferIntent, completedCount, failedCount, unknownCount *atomic.Int32) {
	status, result, err := s.getTransferStatusWithRetry(ctx, intent.ID)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to query transfer status: %w", err),
			zap.String("intent_id", intent.ID),
		)
		unknownCount.Add(1)
		return
	}

	switch status {
	case ledger.TransferStatusCompleted:
		if err := s.store.CompleteTransferIntent(ctx, intent.ID, result.TxRef, result.ExplorerURL, s.clock.Now()); err != nil {
			// A concurrent resolver may have won; treat it as resolved
			if errors.Is(err, domain.ErrIntentNotPending) {
				logger.InfoCtx(ctx, "Intent already resolved", zap.String("intent_id", intent.ID))
				return
			}
			logger.ErrorCtx(ctx, fmt.Errorf("failed to complete reconciled intent: %w", err),
				zap.String("intent_id", intent.ID),
				zap.String("tx_ref", result.TxRef),
			)
			return
		}
		completedCount.Add(1)
		logger.InfoCtx(ctx, "Reconciled intent as completed",
			zap.String("intent_id", intent.ID),
			zap.String("kind", string(intent.Kind)),
			zap.String("tx_ref", result.TxRef),
		)
		s.recomputeBalance(ctx, intent)

	case ledger.TransferStatusFailed:
		if err := s.store.FailTransferIntent(ctx, intent.ID, "transfer failed on ledger", s.clock.Now()); err != nil {
			if errors.Is(err, domain.ErrIntentNotPending) {
				logger.InfoCtx(ctx, "Intent already resolved", zap.String("intent_id", intent.ID))
				return
			}
			logger.ErrorCtx(ctx, fmt.Errorf("failed to fail reconciled intent: %w", err),
				zap.String("intent_id", intent.ID),
			)
			return
		}
		failedCount.Add(1)
		logger.InfoCtx(ctx, "Reconciled intent as failed",
			zap.String("intent_id", intent.ID),
			zap.String("kind", string(intent.Kind)),
		)
		s.recomputeBalance(ctx, intent)

	case ledger.TransferStatusUnknown:
		// The ledger does not know the outcome yet. Leave the intent pending;
		// the next cycle will pick it up again.
		unknownCount.Add(1)
		logger.WarnCtx(ctx, "Transfer outcome still unknown, leaving intent pending",
			zap.String("intent_id", intent.ID),
			zap.Time("requested_at", intent.RequestedAt),
		)
	}
}

// getTransferStatusWithRetry queries the ledger with exponential backoff
func (s *intentReconciler) getTransferStatusWithRetry(ctx context.Context, transferID string) (ledger.TransferStatus, *ledger.TransferResult, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 2 * time.Minute
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5 // Add jitter to prevent thundering herd

	backoffWithContext := backoff.WithContext(b, ctx)

	var status ledger.TransferStatus
	var result *ledger.TransferResult
	operation := func() error {
		var err error
		status, result, err = s.ledger.GetTransferStatus(ctx, transferID)
		return err
	}

	if err := backoff.Retry(operation, backoffWithContext); err != nil {
		return ledger.TransferStatusUnknown, nil, err
	}

	return status, result, nil
}

// recomputeBalance refreshes the owner's snapshot after a terminal transition.
// Failure here is non-fatal: the snapshot is lazily rebuilt on the next read.
func (s *intentReconciler) recomputeBalance(ctx context.Context, intent schema.TransferIntent) {
	owner := intent.OwnerKey()
	if _, err := s.aggregator.Recompute(ctx, owner); err != nil {
		logger.WarnCtx(ctx, "Failed to recompute balance after reconciliation",
			zap.Error(err),
			zap.String("intent_id", intent.ID),
			zap.String("owner", owner.String()),
		)
	}
}
