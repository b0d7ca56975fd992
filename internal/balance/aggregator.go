package balance

import (
	"context"
	"fmt"
	"time"

	"github.com/i-mwangi/qawa-sub004/internal/adapter"
	"github.com/i-mwangi/qawa-sub004/internal/domain"
	"github.com/i-mwangi/qawa-sub004/internal/store"
	"github.com/i-mwangi/qawa-sub004/internal/store/schema"
)

// Aggregator derives an owner's balance buckets from their earning records
// and completed transfer intents, materializing the result as a snapshot row.
// The snapshot is a cache: recompute is idempotent and the snapshot can
// always be rebuilt from the ledger.
//
//go:generate mockgen -source=aggregator.go -destination=../mocks/aggregator.go -package=mocks -mock_names=Aggregator=MockAggregator
type Aggregator interface {
	// Recompute scans the owner's earning records, derives the balance
	// buckets and upserts the snapshot. Side-effect-free except the upsert.
	Recompute(ctx context.Context, owner domain.OwnerKey) (*schema.BalanceSnapshot, error)

	// Get returns the cached snapshot, recomputing it synchronously once when
	// absent (lazy materialization). No TTL: staleness is bounded by whether
	// a mutating operation ran since the last recompute.
	Get(ctx context.Context, owner domain.OwnerKey) (*schema.BalanceSnapshot, error)
}

type aggregator struct {
	store store.Store
	clock adapter.Clock
}

// NewAggregator creates a balance aggregator over the given store
func NewAggregator(st store.Store, clock adapter.Clock) Aggregator {
	return &aggregator{store: st, clock: clock}
}

// buckets holds the sums derived from one pass over an owner's earning records
type buckets struct {
	available          int64
	pending            int64
	monthDistributed   int64
	totalEarned        int64
	settledFromRecords int64
	unclaimedByType    map[domain.EarningType]int64
}

// monthStartUTC returns the start of the calendar month containing t, pinned
// to UTC. "This month" is always the UTC month, independent of server locale.
func monthStartUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// computeBuckets partitions earning records by status and time window using
// checked integer arithmetic. Each amount lands in exactly one primary bucket
// determined solely by status; the month window is an overlay on distributed_at.
func computeBuckets(records []schema.EarningRecord, now time.Time) (*buckets, error) {
	b := &buckets{unclaimedByType: make(map[domain.EarningType]int64)}
	monthStart := monthStartUTC(now)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var err error
	for _, rec := range records {
		if b.totalEarned, err = domain.AddChecked(b.totalEarned, rec.AmountMinor); err != nil {
			return nil, fmt.Errorf("earning record %d: %w", rec.ID, err)
		}

		switch rec.Status {
		case domain.EarningStatusPending:
			if b.pending, err = domain.AddChecked(b.pending, rec.AmountMinor); err != nil {
				return nil, fmt.Errorf("earning record %d: %w", rec.ID, err)
			}
		case domain.EarningStatusDistributed:
			if b.available, err = domain.AddChecked(b.available, rec.AmountMinor); err != nil {
				return nil, fmt.Errorf("earning record %d: %w", rec.ID, err)
			}
			if b.unclaimedByType[rec.EarningType], err = domain.AddChecked(b.unclaimedByType[rec.EarningType], rec.AmountMinor); err != nil {
				return nil, fmt.Errorf("earning record %d: %w", rec.ID, err)
			}
		case domain.EarningStatusSettled:
			if b.settledFromRecords, err = domain.AddChecked(b.settledFromRecords, rec.AmountMinor); err != nil {
				return nil, fmt.Errorf("earning record %d: %w", rec.ID, err)
			}
		}

		if rec.DistributedAt != nil {
			at := rec.DistributedAt.UTC()
			if !at.Before(monthStart) && at.Before(monthEnd) {
				if b.monthDistributed, err = domain.AddChecked(b.monthDistributed, rec.AmountMinor); err != nil {
					return nil, fmt.Errorf("earning record %d: %w", rec.ID, err)
				}
			}
		}
	}

	return b, nil
}

// Recompute scans the owner's ledger and upserts the derived snapshot
func (a *aggregator) Recompute(ctx context.Context, owner domain.OwnerKey) (*schema.BalanceSnapshot, error) {
	records, err := a.store.ListEarningsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	now := a.clock.Now()
	b, err := computeBuckets(records, now)
	if err != nil {
		return nil, err
	}

	snapshot := &schema.BalanceSnapshot{
		OwnerKind:             owner.Kind,
		OwnerAddress:          owner.Address,
		GroveID:               owner.GroveID,
		AvailableMinor:        b.available,
		PendingMinor:          b.pending,
		MonthDistributedMinor: b.monthDistributed,
		TotalEarnedMinor:      b.totalEarned,
		TotalSettledMinor:     b.settledFromRecords,
		LastCalculatedAt:      now,
	}

	switch owner.Kind {
	case domain.OwnerKindFarmer:
		// A farmer's available pool is independent of which specific records
		// funded a withdrawal: withdrawals never settle individual records,
		// so the withdrawn total comes from completed withdrawal intents and
		// is subtracted from the distributed pool.
		withdrawn, err := a.store.SumCompletedWithdrawals(ctx, owner)
		if err != nil {
			return nil, err
		}
		available := b.available - withdrawn
		if available < 0 {
			return nil, fmt.Errorf("owner %s: withdrawn %d exceeds distributed pool %d: %w",
				owner, withdrawn, b.available, domain.ErrAmountOverflow)
		}
		snapshot.AvailableMinor = available
		snapshot.TotalSettledMinor = withdrawn
	case domain.OwnerKindInvestor:
		// Claims settle specific records, so the settled bucket is derived
		// directly from record status. The per-type breakdown feeds the
		// unclaimed-earnings view and claim validation.
		snapshot.UnclaimedHarvestMinor = b.unclaimedByType[domain.EarningTypeHarvestDistribution]
		snapshot.UnclaimedPrimaryMinor = b.unclaimedByType[domain.EarningTypePrimaryMarket]
		snapshot.UnclaimedSecondaryMinor = b.unclaimedByType[domain.EarningTypeSecondaryMarket]
		snapshot.UnclaimedLPMinor = b.unclaimedByType[domain.EarningTypeLPInterest]
	}

	if err := a.store.UpsertBalanceSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Get returns the cached snapshot, lazily materializing it on first query
func (a *aggregator) Get(ctx context.Context, owner domain.OwnerKey) (*schema.BalanceSnapshot, error) {
	snapshot, err := a.store.GetBalanceSnapshot(ctx, owner)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		return snapshot, nil
	}
	return a.Recompute(ctx, owner)
}
