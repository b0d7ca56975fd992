package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/i-mwangi/qawa-sub004/internal/adapter"
	"github.com/i-mwangi/qawa-sub004/internal/balance"
	"github.com/i-mwangi/qawa-sub004/internal/domain"
	"github.com/i-mwangi/qawa-sub004/internal/ledger"
	"github.com/i-mwangi/qawa-sub004/internal/logger"
	"github.com/i-mwangi/qawa-sub004/internal/store"
	"github.com/i-mwangi/qawa-sub004/internal/store/schema"
)

// WithdrawRequest asks to move part of a farmer grove's available pool out
type WithdrawRequest struct {
	FarmerAddress string
	GroveID       string
	// Amount is in decimal currency units; converted to minor units once,
	// by truncation, before any comparison or storage
	Amount decimal.Decimal
}

// ClaimRequest asks to move value out against specific unclaimed earning records.
// Partial claims are allowed: Amount may be less than the sum of the selected
// records. All selected records are settled in full regardless.
type ClaimRequest struct {
	InvestorAddress string
	EarningIDs      []uint64
	Amount          decimal.Decimal
}

// Receipt is the success payload of a withdrawal or claim
type Receipt struct {
	IntentID    string
	TxRef       string
	ExplorerURL string
	AmountMinor int64
}

// Config holds orchestrator tuning
type Config struct {
	// TransferTimeout bounds the external ledger call. Exceeding it leaves
	// the intent pending (outcome unknown) for the reconciliation sweeper.
	TransferTimeout time.Duration
	// MaxWithdrawalPercent caps a single withdrawal at this share of the
	// available balance. Risk containment, not a data constraint.
	MaxWithdrawalPercent int64
}

// Orchestrator is the only component permitted to settle earning records and
// the only caller of the external ledger transfer service. Each request walks
// validate -> intent_created -> transferring -> reconciled_{success|failure}.
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/orchestrator.go -package=mocks -mock_names=Orchestrator=MockOrchestrator
type Orchestrator interface {
	// Withdraw moves value out of a farmer grove's aggregate available pool
	Withdraw(ctx context.Context, req WithdrawRequest) (*Receipt, error)

	// Claim moves value out against an investor's selected earning records
	Claim(ctx context.Context, req ClaimRequest) (*Receipt, error)
}

type orchestrator struct {
	config     Config
	store      store.Store
	ledger     ledger.Service
	aggregator balance.Aggregator
	clock      adapter.Clock
	locks      *ownerLocks
	entropy    io.Reader
}

// New creates a withdrawal/claim orchestrator
func New(cfg Config, st store.Store, ld ledger.Service, agg balance.Aggregator, clock adapter.Clock) Orchestrator {
	if cfg.TransferTimeout == 0 {
		cfg.TransferTimeout = 30 * time.Second
	}
	if cfg.MaxWithdrawalPercent == 0 {
		cfg.MaxWithdrawalPercent = 30
	}
	return &orchestrator{
		config:     cfg,
		store:      st,
		ledger:     ld,
		aggregator: agg,
		clock:      clock,
		locks:      newOwnerLocks(),
		entropy:    ulid.DefaultEntropy(),
	}
}

// newIntentID generates a ULID: time-ordered and collision-safe under
// concurrency, unlike the timestamp+random scheme it replaces
func (o *orchestrator) newIntentID() string {
	return ulid.MustNew(ulid.Timestamp(o.clock.Now()), o.entropy).String()
}

// Withdraw implements the farmer withdrawal state machine
func (o *orchestrator) Withdraw(ctx context.Context, req WithdrawRequest) (*Receipt, error) {
	amountMinor, err := domain.ToMinorUnits(req.Amount)
	if err != nil {
		return nil, err
	}
	if amountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidAmount)
	}

	owner := domain.FarmerGroveKey(req.FarmerAddress, req.GroveID)
	if !owner.Valid() {
		return nil, fmt.Errorf("%w: invalid farmer address or grove id", domain.ErrInvalidAmount)
	}

	// Validate and create the pending intent inside the per-owner critical
	// section so two concurrent requests cannot both pass validation against
	// the same balance. The external call happens after release.
	intent, err := o.createWithdrawalIntent(ctx, owner, amountMinor)
	if err != nil {
		return nil, err
	}

	// Pre-transfer guard: an unassociated recipient fails the intent without
	// consuming the transfer service call.
	associated, err := o.ledger.CheckTokenAssociation(ctx, req.FarmerAddress)
	if err != nil {
		return nil, o.failIntent(ctx, intent.ID, fmt.Sprintf("association check failed: %v", err), err)
	}
	if !associated {
		msg := "recipient has not associated the payout token; associate the token with your account and retry"
		return nil, o.failIntent(ctx, intent.ID, msg, domain.ErrTokenAssociationRequired)
	}

	return o.executeTransfer(ctx, intent, req.FarmerAddress)
}

// createWithdrawalIntent runs validation and records the pending intent under
// the owner lock
func (o *orchestrator) createWithdrawalIntent(ctx context.Context, owner domain.OwnerKey, amountMinor int64) (*schema.TransferIntent, error) {
	lock := o.locks.get(owner.String())
	lock.Lock()
	defer lock.Unlock()

	snapshot, err := o.aggregator.Recompute(ctx, owner)
	if err != nil {
		return nil, err
	}

	// In-flight pending intents already reserve part of the pool
	pendingReserved, err := o.store.SumPendingIntents(ctx, owner)
	if err != nil {
		return nil, err
	}
	available := snapshot.AvailableMinor - pendingReserved
	if available < 0 {
		available = 0
	}

	if amountMinor > available {
		return nil, fmt.Errorf("%w: requested %s but only %s is available",
			domain.ErrInsufficientBalance,
			domain.FromMinorUnits(amountMinor), domain.FromMinorUnits(available))
	}

	maxWithdrawable, err := domain.PercentOf(available, o.config.MaxWithdrawalPercent)
	if err != nil {
		return nil, err
	}
	if amountMinor > maxWithdrawable {
		return nil, fmt.Errorf("%w: requested %s exceeds the %d%% per-request cap of %s",
			domain.ErrWithdrawalLimitExceeded,
			domain.FromMinorUnits(amountMinor), o.config.MaxWithdrawalPercent,
			domain.FromMinorUnits(maxWithdrawable))
	}

	intent := &schema.TransferIntent{
		ID:           o.newIntentID(),
		Kind:         domain.IntentKindWithdrawal,
		OwnerKind:    owner.Kind,
		OwnerAddress: owner.Address,
		GroveID:      owner.GroveID,
		AmountMinor:  amountMinor,
		Status:       domain.IntentStatusPending,
		RequestedAt:  o.clock.Now(),
	}
	if err := o.store.CreateTransferIntent(ctx, intent); err != nil {
		return nil, err
	}

	return intent, nil
}

// Claim implements the investor claim state machine
func (o *orchestrator) Claim(ctx context.Context, req ClaimRequest) (*Receipt, error) {
	amountMinor, err := domain.ToMinorUnits(req.Amount)
	if err != nil {
		return nil, err
	}
	if amountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidAmount)
	}
	if len(req.EarningIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one earning id must be selected", domain.ErrInvalidAmount)
	}

	owner := domain.InvestorKey(req.InvestorAddress)
	if !owner.Valid() {
		return nil, fmt.Errorf("%w: invalid investor address", domain.ErrInvalidAmount)
	}

	intent, err := o.createClaimIntent(ctx, owner, req.EarningIDs, amountMinor)
	if err != nil {
		return nil, err
	}

	return o.executeTransfer(ctx, intent, req.InvestorAddress)
}

// createClaimIntent validates the selected earning records and records the
// pending intent under the owner lock
func (o *orchestrator) createClaimIntent(ctx context.Context, owner domain.OwnerKey, earningIDs []uint64, amountMinor int64) (*schema.TransferIntent, error) {
	lock := o.locks.get(owner.String())
	lock.Lock()
	defer lock.Unlock()

	records, err := o.store.GetEarningsByIDs(ctx, owner.Address, earningIDs)
	if err != nil {
		return nil, err
	}
	if len(records) != len(earningIDs) {
		return nil, fmt.Errorf("%w: %d of %d selected earnings not found for %s",
			domain.ErrEarningNotFound, len(earningIDs)-len(records), len(earningIDs), owner.Address)
	}

	var selectedSum int64
	for _, rec := range records {
		if rec.Status != domain.EarningStatusDistributed {
			return nil, fmt.Errorf("%w: earning %d is %s", domain.ErrEarningNotClaimable, rec.ID, rec.Status)
		}
		if selectedSum, err = domain.AddChecked(selectedSum, rec.AmountMinor); err != nil {
			return nil, err
		}
	}

	// Records referenced by an in-flight pending claim are already committed
	// to that transfer; letting a second intent select them would fund two
	// transfers from the same records.
	reserved, err := o.store.ListPendingClaimEarningIDs(ctx, owner.Address)
	if err != nil {
		return nil, err
	}
	reservedSet := make(map[uint64]struct{}, len(reserved))
	for _, id := range reserved {
		reservedSet[id] = struct{}{}
	}
	for _, id := range earningIDs {
		if _, ok := reservedSet[id]; ok {
			return nil, fmt.Errorf("%w: earning %d is reserved by an in-flight claim", domain.ErrEarningNotClaimable, id)
		}
	}

	// Partial claims request less than the selected sum; the selected records
	// are still settled in full on success.
	if amountMinor > selectedSum {
		return nil, fmt.Errorf("%w: requested %s but selected earnings sum to %s",
			domain.ErrInsufficientBalance,
			domain.FromMinorUnits(amountMinor), domain.FromMinorUnits(selectedSum))
	}

	idsJSON, err := schema.MarshalEarningIDs(earningIDs)
	if err != nil {
		return nil, err
	}

	intent := &schema.TransferIntent{
		ID:           o.newIntentID(),
		Kind:         domain.IntentKindClaim,
		OwnerKind:    owner.Kind,
		OwnerAddress: owner.Address,
		GroveID:      owner.GroveID,
		AmountMinor:  amountMinor,
		Status:       domain.IntentStatusPending,
		EarningIDs:   idsJSON,
		RequestedAt:  o.clock.Now(),
	}
	if err := o.store.CreateTransferIntent(ctx, intent); err != nil {
		return nil, err
	}

	return intent, nil
}

// executeTransfer performs the single irrevocable external call and reconciles
// the intent to its terminal state
func (o *orchestrator) executeTransfer(ctx context.Context, intent *schema.TransferIntent, recipient string) (*Receipt, error) {
	transferCtx, cancel := context.WithTimeout(ctx, o.config.TransferTimeout)
	defer cancel()

	result, err := o.ledger.TransferValue(transferCtx, intent.ID, recipient, intent.AmountMinor)
	if err != nil {
		// A timeout means the transfer may have succeeded on the ledger.
		// The intent stays pending so the sweeper can resolve the true
		// outcome; assuming failure here could double-pay on retry.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(transferCtx.Err(), context.DeadlineExceeded) {
			logger.WarnCtx(ctx, "transfer outcome unknown, leaving intent pending",
				zap.String("intent_id", intent.ID),
				zap.Error(err))
			return nil, fmt.Errorf("%w: intent %s", domain.ErrTransferOutcomeUnknown, intent.ID)
		}
		return nil, o.failIntent(ctx, intent.ID, err.Error(), fmt.Errorf("%w: %v", domain.ErrTransferFailed, err))
	}

	completedAt := o.clock.Now()
	if err := o.store.CompleteTransferIntent(ctx, intent.ID, result.TxRef, result.ExplorerURL, completedAt); err != nil {
		// The external transfer succeeded but the local write failed. The
		// intent stays pending; the sweeper completes it from the bridge
		// record. Surfacing the error keeps the caller from assuming loss.
		logger.ErrorCtx(ctx, err,
			zap.String("intent_id", intent.ID),
			zap.String("tx_ref", result.TxRef))
		return nil, fmt.Errorf("%w: transfer succeeded (tx %s) but intent %s could not be finalized",
			domain.ErrTransferOutcomeUnknown, result.TxRef, intent.ID)
	}

	if _, err := o.aggregator.Recompute(ctx, intent.OwnerKey()); err != nil {
		// Snapshot refresh failure does not undo the completed transfer; the
		// snapshot self-heals on the next balance query.
		logger.WarnCtx(ctx, "balance recompute after transfer failed",
			zap.String("intent_id", intent.ID),
			zap.Error(err))
	}

	logger.InfoCtx(ctx, "transfer completed",
		zap.String("intent_id", intent.ID),
		zap.String("kind", string(intent.Kind)),
		zap.String("owner", intent.OwnerKey().String()),
		zap.Int64("amount_minor", intent.AmountMinor),
		zap.String("tx_ref", result.TxRef))

	return &Receipt{
		IntentID:    intent.ID,
		TxRef:       result.TxRef,
		ExplorerURL: result.ExplorerURL,
		AmountMinor: intent.AmountMinor,
	}, nil
}

// failIntent writes the terminal failed state and returns cause. When even the
// failure write fails, the intent is left pending (a stuck record the sweeper
// resolves) and the storage error is logged and attached.
func (o *orchestrator) failIntent(ctx context.Context, intentID string, message string, cause error) error {
	if err := o.store.FailTransferIntent(ctx, intentID, message, o.clock.Now()); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("intent_id", intentID))
		return fmt.Errorf("%v (intent %s left pending: %w)", cause, intentID, err)
	}
	return cause
}
