package schema

import (
	"time"

	"github.com/i-mwangi/qawa-sub004/internal/domain"
)

// EarningRecord represents the earning_records table - the append-only ledger
// of revenue attributions. One row per unit of revenue attributed to a farmer
// grove (harvest distributions) or an investor (market sales, LP interest,
// harvest distributions). Rows are never deleted; they are the audit trail.
type EarningRecord struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// OwnerKind is the actor population the earning belongs to (farmer or investor)
	OwnerKind domain.OwnerKind `gorm:"column:owner_kind;not null;type:text;index:idx_earning_records_owner,priority:1"`
	// OwnerAddress is the Hedera account address of the owner
	OwnerAddress string `gorm:"column:owner_address;not null;type:text;index:idx_earning_records_owner,priority:2"`
	// GroveID identifies the coffee grove the earning was attributed to (farmers only)
	GroveID string `gorm:"column:grove_id;not null;default:'';type:text;index:idx_earning_records_owner,priority:3"`
	// EarningType is the revenue source of the record
	EarningType domain.EarningType `gorm:"column:earning_type;not null;type:text"`
	// AmountMinor is the attributed amount in integer minor units (cents)
	AmountMinor int64 `gorm:"column:amount_minor;not null"`
	// Status is the lifecycle state: pending -> distributed -> settled, monotonic
	Status domain.EarningStatus `gorm:"column:status;not null;type:text;index:idx_earning_records_status"`
	// DistributedAt is set when the earning became spendable
	DistributedAt *time.Time `gorm:"column:distributed_at;type:timestamptz"`
	// SettledAt is set when the earning was withdrawn or claimed
	SettledAt *time.Time `gorm:"column:settled_at;type:timestamptz"`
	// TransferRef is the ledger transaction reference that consumed this record
	TransferRef *string `gorm:"column:transfer_ref;type:text"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the EarningRecord model
func (EarningRecord) TableName() string {
	return "earning_records"
}
