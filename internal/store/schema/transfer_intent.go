package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/i-mwangi/qawa-sub004/internal/domain"
)

// TransferIntent represents the transfer_intents table - one row per requested
// movement of value out of the platform. Created pending before any external
// ledger call, transitioned to exactly one terminal state afterwards, immutable
// once terminal. A completed intent's amount never exceeds the available
// balance computed immediately before creation.
type TransferIntent struct {
	// ID is a ULID, sortable by creation time and collision-safe under concurrency
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Kind is withdrawal (farmer pool draw) or claim (investor record draw)
	Kind domain.IntentKind `gorm:"column:kind;not null;type:text"`
	// OwnerKind, OwnerAddress and GroveID identify the requesting owner
	OwnerKind    domain.OwnerKind `gorm:"column:owner_kind;not null;type:text;index:idx_transfer_intents_owner,priority:1"`
	OwnerAddress string           `gorm:"column:owner_address;not null;type:text;index:idx_transfer_intents_owner,priority:2"`
	GroveID      string           `gorm:"column:grove_id;not null;default:'';type:text;index:idx_transfer_intents_owner,priority:3"`
	// AmountMinor is the requested amount in integer minor units
	AmountMinor int64 `gorm:"column:amount_minor;not null"`
	// Status is pending, completed or failed
	Status domain.IntentStatus `gorm:"column:status;not null;type:text;index:idx_transfer_intents_status"`
	// EarningIDs is the set of earning record ids the intent claims against (claims only)
	EarningIDs datatypes.JSON `gorm:"column:earning_ids;type:jsonb"`
	// RequestedAt is when the intent was durably recorded, before any external call
	RequestedAt time.Time `gorm:"column:requested_at;not null;type:timestamptz"`
	// CompletedAt is when the intent reached a terminal state
	CompletedAt *time.Time `gorm:"column:completed_at;type:timestamptz"`
	// TxRef is the external ledger transaction reference (set on success)
	TxRef *string `gorm:"column:tx_ref;type:text"`
	// ExplorerURL points at the transaction on a ledger explorer (set on success)
	ExplorerURL *string `gorm:"column:explorer_url;type:text"`
	// ErrorMessage carries the failure reason (set on failure)
	ErrorMessage *string `gorm:"column:error_message;type:text"`
	// CreatedAt is the timestamp when this intent row was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this intent row was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the TransferIntent model
func (TransferIntent) TableName() string {
	return "transfer_intents"
}

// OwnerKey returns the owner key this intent belongs to
func (i *TransferIntent) OwnerKey() domain.OwnerKey {
	return domain.OwnerKey{Kind: i.OwnerKind, Address: i.OwnerAddress, GroveID: i.GroveID}
}

// MarshalEarningIDs encodes a set of earning record ids into the JSONB column value
func MarshalEarningIDs(ids []uint64) (datatypes.JSON, error) {
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal earning ids: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// UnmarshalEarningIDs decodes the JSONB column value back into earning record ids
func UnmarshalEarningIDs(raw datatypes.JSON) ([]uint64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var ids []uint64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal earning ids: %w", err)
	}
	return ids, nil
}
