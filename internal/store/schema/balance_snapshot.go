package schema

import (
	"time"

	"github.com/i-mwangi/qawa-sub004/internal/domain"
)

// BalanceSnapshot represents the balance_snapshots table - a materialized,
// recomputable cache of an owner's balance buckets. Derived, never
// authoritative: it can always be rebuilt from earning records and transfer
// intents. Overwritten (not versioned) on every recompute.
//
// Invariant: AvailableMinor + PendingMinor + TotalSettledMinor == TotalEarnedMinor,
// modulo in-flight pending transfer intents.
type BalanceSnapshot struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// OwnerKind, OwnerAddress and GroveID form the upsert key
	OwnerKind    domain.OwnerKind `gorm:"column:owner_kind;not null;type:text;uniqueIndex:idx_balance_snapshots_owner,priority:1"`
	OwnerAddress string           `gorm:"column:owner_address;not null;type:text;uniqueIndex:idx_balance_snapshots_owner,priority:2"`
	GroveID      string           `gorm:"column:grove_id;not null;default:'';type:text;uniqueIndex:idx_balance_snapshots_owner,priority:3"`
	// AvailableMinor is the amount spendable right now
	AvailableMinor int64 `gorm:"column:available_minor;not null"`
	// PendingMinor is attributed but not yet distributed
	PendingMinor int64 `gorm:"column:pending_minor;not null"`
	// MonthDistributedMinor is the amount distributed in the current UTC calendar month
	MonthDistributedMinor int64 `gorm:"column:month_distributed_minor;not null"`
	// TotalEarnedMinor is the lifetime sum of all earning records
	TotalEarnedMinor int64 `gorm:"column:total_earned_minor;not null"`
	// TotalSettledMinor is the lifetime withdrawn (farmer) or claimed (investor) amount
	TotalSettledMinor int64 `gorm:"column:total_settled_minor;not null"`
	// Per-type unclaimed breakdown, populated for investors only
	UnclaimedHarvestMinor   int64 `gorm:"column:unclaimed_harvest_minor;not null;default:0"`
	UnclaimedPrimaryMinor   int64 `gorm:"column:unclaimed_primary_minor;not null;default:0"`
	UnclaimedSecondaryMinor int64 `gorm:"column:unclaimed_secondary_minor;not null;default:0"`
	UnclaimedLPMinor        int64 `gorm:"column:unclaimed_lp_minor;not null;default:0"`
	// LastCalculatedAt is the timestamp of the recompute that produced this row
	LastCalculatedAt time.Time `gorm:"column:last_calculated_at;not null;type:timestamptz"`
	// CreatedAt is the timestamp when this snapshot row was first created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this snapshot row was last overwritten
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the BalanceSnapshot model
func (BalanceSnapshot) TableName() string {
	return "balance_snapshots"
}

// OwnerKey returns the owner key this snapshot belongs to
func (s *BalanceSnapshot) OwnerKey() domain.OwnerKey {
	return domain.OwnerKey{Kind: s.OwnerKind, Address: s.OwnerAddress, GroveID: s.GroveID}
}
