package store

import (
	"context"
	"time"

	"github.com/i-mwangi/qawa-sub004/internal/domain"
	"github.com/i-mwangi/qawa-sub004/internal/store/schema"
)

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// CreateEarningRecords appends earning records to the ledger (distribution events)
	CreateEarningRecords(ctx context.Context, records []*schema.EarningRecord) error
	// ListEarningsByOwner retrieves every earning record for an owner key
	ListEarningsByOwner(ctx context.Context, owner domain.OwnerKey) ([]schema.EarningRecord, error)
	// GetEarningsByIDs retrieves specific earning records belonging to an investor
	GetEarningsByIDs(ctx context.Context, investorAddress string, ids []uint64) ([]schema.EarningRecord, error)
	// ListUnclaimedEarnings retrieves an investor's distributed-but-unclaimed earnings
	ListUnclaimedEarnings(ctx context.Context, investorAddress string) ([]schema.EarningRecord, error)
	// ListFarmerGroveIDs retrieves the distinct grove ids a farmer has earnings for
	ListFarmerGroveIDs(ctx context.Context, farmerAddress string) ([]string, error)

	// GetBalanceSnapshot retrieves the cached snapshot for an owner, nil when absent
	GetBalanceSnapshot(ctx context.Context, owner domain.OwnerKey) (*schema.BalanceSnapshot, error)
	// UpsertBalanceSnapshot atomically inserts or overwrites the snapshot keyed by owner
	UpsertBalanceSnapshot(ctx context.Context, snapshot *schema.BalanceSnapshot) error

	// CreateTransferIntent durably records a pending intent before any external call
	CreateTransferIntent(ctx context.Context, intent *schema.TransferIntent) error
	// GetTransferIntent retrieves an intent by id, nil when absent
	GetTransferIntent(ctx context.Context, id string) (*schema.TransferIntent, error)
	// CompleteTransferIntent transitions a pending intent to completed and, in the
	// same transaction, marks the intent's earning records settled with the
	// transfer reference. Returns domain.ErrIntentNotPending when the intent has
	// already reached a terminal state, which enforces at-most-once completion.
	CompleteTransferIntent(ctx context.Context, id string, txRef string, explorerURL string, completedAt time.Time) error
	// FailTransferIntent transitions a pending intent to failed, leaving earning
	// records untouched so the funds remain available for a retry.
	FailTransferIntent(ctx context.Context, id string, errMessage string, failedAt time.Time) error
	// SumPendingIntents sums the amounts of an owner's in-flight pending intents
	SumPendingIntents(ctx context.Context, owner domain.OwnerKey) (int64, error)
	// ListPendingClaimEarningIDs retrieves the earning record ids referenced by
	// an investor's pending claim intents. Those records are reserved: a new
	// claim selecting one of them must be rejected until the intent resolves.
	ListPendingClaimEarningIDs(ctx context.Context, investorAddress string) ([]uint64, error)
	// SumCompletedWithdrawals sums an owner's completed withdrawal intent amounts
	SumCompletedWithdrawals(ctx context.Context, owner domain.OwnerKey) (int64, error)
	// ListIntentsByAddress retrieves an address's intents of a kind, newest first
	ListIntentsByAddress(ctx context.Context, kind domain.IntentKind, ownerKind domain.OwnerKind, address string) ([]schema.TransferIntent, error)
	// ListPendingIntentsOlderThan retrieves stuck pending intents for the sweeper
	ListPendingIntentsOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]schema.TransferIntent, error)
}
