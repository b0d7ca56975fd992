package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/i-mwangi/qawa-sub004/internal/domain"
	"github.com/i-mwangi/qawa-sub004/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to safe defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// ownerScope applies the owner-key predicate shared by earning, snapshot and
// intent queries. GroveID is part of the key for farmers and empty for investors.
func ownerScope(owner domain.OwnerKey) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_kind = ? AND owner_address = ? AND grove_id = ?",
			owner.Kind, owner.Address, owner.GroveID)
	}
}

// CreateEarningRecords appends earning records to the ledger
func (s *pgStore) CreateEarningRecords(ctx context.Context, records []*schema.EarningRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(records).Error; err != nil {
		return fmt.Errorf("failed to create earning records: %w", err)
	}
	return nil
}

// ListEarningsByOwner retrieves every earning record for an owner key.
// Unbounded scan: per-owner record counts are small.
func (s *pgStore) ListEarningsByOwner(ctx context.Context, owner domain.OwnerKey) ([]schema.EarningRecord, error) {
	var records []schema.EarningRecord
	err := s.db.WithContext(ctx).
		Scopes(ownerScope(owner)).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list earnings: %w", err)
	}
	return records, nil
}

// GetEarningsByIDs retrieves specific earning records belonging to an investor
func (s *pgStore) GetEarningsByIDs(ctx context.Context, investorAddress string, ids []uint64) ([]schema.EarningRecord, error) {
	if len(ids) == 0 {
		return []schema.EarningRecord{}, nil
	}

	var records []schema.EarningRecord
	err := s.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_address = ? AND id IN ?", domain.OwnerKindInvestor, investorAddress, ids).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get earnings by ids: %w", err)
	}
	return records, nil
}

// ListUnclaimedEarnings retrieves an investor's distributed-but-unclaimed earnings
func (s *pgStore) ListUnclaimedEarnings(ctx context.Context, investorAddress string) ([]schema.EarningRecord, error) {
	var records []schema.EarningRecord
	err := s.db.WithContext(ctx).
		Where("owner_kind = ? AND owner_address = ? AND status = ?",
			domain.OwnerKindInvestor, investorAddress, domain.EarningStatusDistributed).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unclaimed earnings: %w", err)
	}
	return records, nil
}

// ListFarmerGroveIDs retrieves the distinct grove ids a farmer has earnings for
func (s *pgStore) ListFarmerGroveIDs(ctx context.Context, farmerAddress string) ([]string, error) {
	var groveIDs []string
	err := s.db.WithContext(ctx).
		Model(&schema.EarningRecord{}).
		Distinct("grove_id").
		Where("owner_kind = ? AND owner_address = ?", domain.OwnerKindFarmer, farmerAddress).
		Order("grove_id ASC").
		Pluck("grove_id", &groveIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list farmer grove ids: %w", err)
	}
	return groveIDs, nil
}

// GetBalanceSnapshot retrieves the cached snapshot for an owner
func (s *pgStore) GetBalanceSnapshot(ctx context.Context, owner domain.OwnerKey) (*schema.BalanceSnapshot, error) {
	var snapshot schema.BalanceSnapshot
	err := s.db.WithContext(ctx).
		Scopes(ownerScope(owner)).
		First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get balance snapshot: %w", err)
	}
	return &snapshot, nil
}

// UpsertBalanceSnapshot atomically inserts or overwrites the snapshot keyed by owner
func (s *pgStore) UpsertBalanceSnapshot(ctx context.Context, snapshot *schema.BalanceSnapshot) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_kind"}, {Name: "owner_address"}, {Name: "grove_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"available_minor",
			"pending_minor",
			"month_distributed_minor",
			"total_earned_minor",
			"total_settled_minor",
			"unclaimed_harvest_minor",
			"unclaimed_primary_minor",
			"unclaimed_secondary_minor",
			"unclaimed_lp_minor",
			"last_calculated_at",
			"updated_at",
		}),
	}).Create(snapshot).Error
	if err != nil {
		return fmt.Errorf("failed to upsert balance snapshot: %w", err)
	}
	return nil
}

// CreateTransferIntent durably records a pending intent before any external call
func (s *pgStore) CreateTransferIntent(ctx context.Context, intent *schema.TransferIntent) error {
	if err := s.db.WithContext(ctx).Create(intent).Error; err != nil {
		return fmt.Errorf("failed to create transfer intent: %w", err)
	}
	return nil
}

// GetTransferIntent retrieves an intent by id
func (s *pgStore) GetTransferIntent(ctx context.Context, id string) (*schema.TransferIntent, error) {
	var intent schema.TransferIntent
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transfer intent: %w", err)
	}
	return &intent, nil
}

// CompleteTransferIntent transitions a pending intent to completed and marks its
// earning records settled in a single transaction. The conditional
// WHERE status = 'pending' update is the at-most-once guard: a second terminal
// transition for the same intent returns domain.ErrIntentNotPending.
func (s *pgStore) CompleteTransferIntent(ctx context.Context, id string, txRef string, explorerURL string, completedAt time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var intent schema.TransferIntent
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&intent).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrIntentNotPending
			}
			return fmt.Errorf("failed to lock transfer intent: %w", err)
		}

		res := tx.Model(&schema.TransferIntent{}).
			Where("id = ? AND status = ?", id, domain.IntentStatusPending).
			Updates(map[string]interface{}{
				"status":       domain.IntentStatusCompleted,
				"tx_ref":       txRef,
				"explorer_url": explorerURL,
				"completed_at": completedAt,
				"updated_at":   completedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to complete transfer intent: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrIntentNotPending
		}

		// Claims consume specific earning records; withdrawals draw from the
		// aggregate pool and leave records untouched.
		earningIDs, err := schema.UnmarshalEarningIDs(intent.EarningIDs)
		if err != nil {
			return err
		}
		if len(earningIDs) == 0 {
			return nil
		}

		res = tx.Model(&schema.EarningRecord{}).
			Where("id IN ? AND status = ?", earningIDs, domain.EarningStatusDistributed).
			Updates(map[string]interface{}{
				"status":       domain.EarningStatusSettled,
				"settled_at":   completedAt,
				"transfer_ref": txRef,
				"updated_at":   completedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to settle earning records: %w", res.Error)
		}
		if res.RowsAffected != int64(len(earningIDs)) {
			return fmt.Errorf("settled %d of %d earning records for intent %s: %w",
				res.RowsAffected, len(earningIDs), id, domain.ErrEarningNotClaimable)
		}

		return nil
	})
}

// FailTransferIntent transitions a pending intent to failed, leaving earning
// records untouched so the funds remain claimable on retry
func (s *pgStore) FailTransferIntent(ctx context.Context, id string, errMessage string, failedAt time.Time) error {
	res := s.db.WithContext(ctx).Model(&schema.TransferIntent{}).
		Where("id = ? AND status = ?", id, domain.IntentStatusPending).
		Updates(map[string]interface{}{
			"status":        domain.IntentStatusFailed,
			"error_message": errMessage,
			"completed_at":  failedAt,
			"updated_at":    failedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to fail transfer intent: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrIntentNotPending
	}
	return nil
}

// SumPendingIntents sums the amounts of an owner's in-flight pending intents
func (s *pgStore) SumPendingIntents(ctx context.Context, owner domain.OwnerKey) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&schema.TransferIntent{}).
		Scopes(ownerScope(owner)).
		Where("status = ?", domain.IntentStatusPending).
		Select("COALESCE(SUM(amount_minor), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum pending intents: %w", err)
	}
	return total, nil
}

// ListPendingClaimEarningIDs retrieves the earning record ids referenced by an
// investor's pending claim intents
func (s *pgStore) ListPendingClaimEarningIDs(ctx context.Context, investorAddress string) ([]uint64, error) {
	var intents []schema.TransferIntent
	err := s.db.WithContext(ctx).
		Select("earning_ids").
		Where("kind = ? AND owner_kind = ? AND owner_address = ? AND status = ?",
			domain.IntentKindClaim, domain.OwnerKindInvestor, investorAddress, domain.IntentStatusPending).
		Find(&intents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending claim earning ids: %w", err)
	}

	var ids []uint64
	for i := range intents {
		intentIDs, err := schema.UnmarshalEarningIDs(intents[i].EarningIDs)
		if err != nil {
			return nil, err
		}
		ids = append(ids, intentIDs...)
	}
	return ids, nil
}

// SumCompletedWithdrawals sums an owner's completed withdrawal intent amounts
func (s *pgStore) SumCompletedWithdrawals(ctx context.Context, owner domain.OwnerKey) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&schema.TransferIntent{}).
		Scopes(ownerScope(owner)).
		Where("kind = ? AND status = ?", domain.IntentKindWithdrawal, domain.IntentStatusCompleted).
		Select("COALESCE(SUM(amount_minor), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum completed withdrawals: %w", err)
	}
	return total, nil
}

// ListIntentsByAddress retrieves an address's intents of a kind, newest first
func (s *pgStore) ListIntentsByAddress(ctx context.Context, kind domain.IntentKind, ownerKind domain.OwnerKind, address string) ([]schema.TransferIntent, error) {
	var intents []schema.TransferIntent
	err := s.db.WithContext(ctx).
		Where("kind = ? AND owner_kind = ? AND owner_address = ?", kind, ownerKind, address).
		Order("requested_at DESC").
		Find(&intents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list intents: %w", err)
	}
	return intents, nil
}

// ListPendingIntentsOlderThan retrieves stuck pending intents for the sweeper
func (s *pgStore) ListPendingIntentsOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]schema.TransferIntent, error) {
	var intents []schema.TransferIntent
	err := s.db.WithContext(ctx).
		Where("status = ? AND requested_at < ?", domain.IntentStatusPending, cutoff).
		Order("requested_at ASC").
		Limit(limit).
		Find(&intents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending intents: %w", err)
	}
	return intents, nil
}
