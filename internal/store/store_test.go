package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i-mwangi/qawa-sub004/internal/domain"
	"github.com/i-mwangi/qawa-sub004/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// baseTime has no sub-microsecond component so it survives the timestamptz round trip
var baseTime = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func tsp(t time.Time) *time.Time {
	return &t
}

// buildEarning creates a test earning record for an owner
func buildEarning(owner domain.OwnerKey, earningType domain.EarningType, amountMinor int64, status domain.EarningStatus) *schema.EarningRecord {
	rec := &schema.EarningRecord{
		OwnerKind:    owner.Kind,
		OwnerAddress: owner.Address,
		GroveID:      owner.GroveID,
		EarningType:  earningType,
		AmountMinor:  amountMinor,
		Status:       status,
	}
	if status != domain.EarningStatusPending {
		rec.DistributedAt = tsp(baseTime.Add(-24 * time.Hour))
	}
	return rec
}

// buildIntent creates a test transfer intent for an owner
func buildIntent(id string, kind domain.IntentKind, owner domain.OwnerKey, amountMinor int64, status domain.IntentStatus, requestedAt time.Time) *schema.TransferIntent {
	return &schema.TransferIntent{
		ID:           id,
		Kind:         kind,
		OwnerKind:    owner.Kind,
		OwnerAddress: owner.Address,
		GroveID:      owner.GroveID,
		AmountMinor:  amountMinor,
		Status:       status,
		RequestedAt:  requestedAt,
	}
}

var (
	testFarmer   = domain.FarmerGroveKey("0.0.1001", "grove-7")
	testInvestor = domain.InvestorKey("0.0.2002")
)

// =============================================================================
// Earning record tests
// =============================================================================

func testEarningRecords(t *testing.T, st Store) {
	ctx := context.Background()

	otherGrove := domain.FarmerGroveKey(testFarmer.Address, "grove-8")
	records := []*schema.EarningRecord{
		buildEarning(testFarmer, domain.EarningTypeHarvestDistribution, 10000, domain.EarningStatusDistributed),
		buildEarning(testFarmer, domain.EarningTypeHarvestDistribution, 5000, domain.EarningStatusPending),
		buildEarning(otherGrove, domain.EarningTypeHarvestDistribution, 7000, domain.EarningStatusDistributed),
		buildEarning(testInvestor, domain.EarningTypePrimaryMarket, 3000, domain.EarningStatusDistributed),
	}
	require.NoError(t, st.CreateEarningRecords(ctx, records))

	// The grove id is part of the owner key: grove-8 must not leak into grove-7
	got, err := st.ListEarningsByOwner(ctx, testFarmer)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(10000), got[0].AmountMinor)
	assert.Equal(t, int64(5000), got[1].AmountMinor)

	got, err = st.ListEarningsByOwner(ctx, otherGrove)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7000), got[0].AmountMinor)

	got, err = st.ListEarningsByOwner(ctx, testInvestor)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.EarningTypePrimaryMarket, got[0].EarningType)

	// Empty input is a no-op
	require.NoError(t, st.CreateEarningRecords(ctx, nil))
}

func testGetEarningsByIDs(t *testing.T, st Store) {
	ctx := context.Background()

	records := []*schema.EarningRecord{
		buildEarning(testInvestor, domain.EarningTypePrimaryMarket, 1000, domain.EarningStatusDistributed),
		buildEarning(testInvestor, domain.EarningTypeLPInterest, 2000, domain.EarningStatusDistributed),
		buildEarning(testFarmer, domain.EarningTypeHarvestDistribution, 9000, domain.EarningStatusDistributed),
	}
	require.NoError(t, st.CreateEarningRecords(ctx, records))

	got, err := st.GetEarningsByIDs(ctx, testInvestor.Address, []uint64{records[0].ID, records[1].ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// A farmer record id does not resolve for an investor address
	got, err = st.GetEarningsByIDs(ctx, testInvestor.Address, []uint64{records[0].ID, records[2].ID})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// Unknown ids are simply absent from the result
	got, err = st.GetEarningsByIDs(ctx, testInvestor.Address, []uint64{records[0].ID, 999999})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = st.GetEarningsByIDs(ctx, testInvestor.Address, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testListUnclaimedEarnings(t *testing.T, st Store) {
	ctx := context.Background()

	records := []*schema.EarningRecord{
		buildEarning(testInvestor, domain.EarningTypePrimaryMarket, 1000, domain.EarningStatusDistributed),
		buildEarning(testInvestor, domain.EarningTypeSecondaryMarket, 2000, domain.EarningStatusPending),
		buildEarning(testInvestor, domain.EarningTypeLPInterest, 3000, domain.EarningStatusSettled),
	}
	require.NoError(t, st.CreateEarningRecords(ctx, records))

	got, err := st.ListUnclaimedEarnings(ctx, testInvestor.Address)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.EarningTypePrimaryMarket, got[0].EarningType)
}

func testListFarmerGroveIDs(t *testing.T, st Store) {
	ctx := context.Background()

	groveB := domain.FarmerGroveKey(testFarmer.Address, "grove-b")
	records := []*schema.EarningRecord{
		buildEarning(testFarmer, domain.EarningTypeHarvestDistribution, 1000, domain.EarningStatusDistributed),
		buildEarning(testFarmer, domain.EarningTypeHarvestDistribution, 2000, domain.EarningStatusDistributed),
		buildEarning(groveB, domain.EarningTypeHarvestDistribution, 3000, domain.EarningStatusDistributed),
	}
	require.NoError(t, st.CreateEarningRecords(ctx, records))

	groves, err := st.ListFarmerGroveIDs(ctx, testFarmer.Address)
	require.NoError(t, err)
	assert.Equal(t, []string{"grove-7", "grove-b"}, groves)

	groves, err = st.ListFarmerGroveIDs(ctx, "0.0.9999")
	require.NoError(t, err)
	assert.Empty(t, groves)
}

// =============================================================================
// Balance snapshot tests
// =============================================================================

func testBalanceSnapshotUpsert(t *testing.T, st Store) {
	ctx := context.Background()

	// Absent snapshot reads as nil, not an error
	got, err := st.GetBalanceSnapshot(ctx, testFarmer)
	require.NoError(t, err)
	assert.Nil(t, got)

	first := &schema.BalanceSnapshot{
		OwnerKind:        testFarmer.Kind,
		OwnerAddress:     testFarmer.Address,
		GroveID:          testFarmer.GroveID,
		AvailableMinor:   10000,
		TotalEarnedMinor: 10000,
		LastCalculatedAt: baseTime,
	}
	require.NoError(t, st.UpsertBalanceSnapshot(ctx, first))

	// Second upsert for the same owner key overwrites in place
	second := &schema.BalanceSnapshot{
		OwnerKind:         testFarmer.Kind,
		OwnerAddress:      testFarmer.Address,
		GroveID:           testFarmer.GroveID,
		AvailableMinor:    7000,
		TotalSettledMinor: 3000,
		TotalEarnedMinor:  10000,
		LastCalculatedAt:  baseTime.Add(time.Minute),
	}
	require.NoError(t, st.UpsertBalanceSnapshot(ctx, second))

	got, err = st.GetBalanceSnapshot(ctx, testFarmer)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, int64(7000), got.AvailableMinor)
	assert.Equal(t, int64(3000), got.TotalSettledMinor)

	// A different grove of the same farmer is a separate snapshot row
	otherGrove := domain.FarmerGroveKey(testFarmer.Address, "grove-8")
	require.NoError(t, st.UpsertBalanceSnapshot(ctx, &schema.BalanceSnapshot{
		OwnerKind:        otherGrove.Kind,
		OwnerAddress:     otherGrove.Address,
		GroveID:          otherGrove.GroveID,
		AvailableMinor:   500,
		LastCalculatedAt: baseTime,
	}))

	got, err = st.GetBalanceSnapshot(ctx, otherGrove)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(500), got.AvailableMinor)
}

// =============================================================================
// Transfer intent tests
// =============================================================================

func testCompleteWithdrawalIntent(t *testing.T, st Store) {
	ctx := context.Background()

	intent := buildIntent("w-1", domain.IntentKindWithdrawal, testFarmer, 30000, domain.IntentStatusPending, baseTime)
	require.NoError(t, st.CreateTransferIntent(ctx, intent))

	completedAt := baseTime.Add(time.Second)
	require.NoError(t, st.CompleteTransferIntent(ctx, "w-1", "0.0.5005@123", "https://hashscan.io/tx", completedAt))

	got, err := st.GetTransferIntent(ctx, "w-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.IntentStatusCompleted, got.Status)
	require.NotNil(t, got.TxRef)
	assert.Equal(t, "0.0.5005@123", *got.TxRef)
	require.NotNil(t, got.ExplorerURL)
	require.NotNil(t, got.CompletedAt)

	// Terminal states are immutable: a second resolution of either kind fails
	err = st.CompleteTransferIntent(ctx, "w-1", "other", "other", completedAt)
	assert.ErrorIs(t, err, domain.ErrIntentNotPending)
	err = st.FailTransferIntent(ctx, "w-1", "late failure", completedAt)
	assert.ErrorIs(t, err, domain.ErrIntentNotPending)

	total, err := st.SumCompletedWithdrawals(ctx, testFarmer)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), total)
}

func testCompleteClaimIntentSettlesEarnings(t *testing.T, st Store) {
	ctx := context.Background()

	records := []*schema.EarningRecord{
		buildEarning(testInvestor, domain.EarningTypePrimaryMarket, 6000, domain.EarningStatusDistributed),
		buildEarning(testInvestor, domain.EarningTypeLPInterest, 4000, domain.EarningStatusDistributed),
	}
	require.NoError(t, st.CreateEarningRecords(ctx, records))

	idsJSON, err := schema.MarshalEarningIDs([]uint64{records[0].ID, records[1].ID})
	require.NoError(t, err)

	intent := buildIntent("c-1", domain.IntentKindClaim, testInvestor, 10000, domain.IntentStatusPending, baseTime)
	intent.EarningIDs = idsJSON
	require.NoError(t, st.CreateTransferIntent(ctx, intent))

	completedAt := baseTime.Add(time.Second)
	require.NoError(t, st.CompleteTransferIntent(ctx, "c-1", "0.0.5005@456", "https://hashscan.io/tx", completedAt))

	// Both selected records are settled and stamped with the transfer reference
	got, err := st.ListEarningsByOwner(ctx, testInvestor)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, rec := range got {
		assert.Equal(t, domain.EarningStatusSettled, rec.Status)
		require.NotNil(t, rec.TransferRef)
		assert.Equal(t, "0.0.5005@456", *rec.TransferRef)
		require.NotNil(t, rec.SettledAt)
	}

	// Nothing unclaimed remains
	unclaimed, err := st.ListUnclaimedEarnings(ctx, testInvestor.Address)
	require.NoError(t, err)
	assert.Empty(t, unclaimed)

	err = st.CompleteTransferIntent(ctx, "c-1", "other", "other", completedAt)
	assert.ErrorIs(t, err, domain.ErrIntentNotPending)
}

func testCompleteClaimIntentRejectsConsumedEarnings(t *testing.T, st Store) {
	ctx := context.Background()

	records := []*schema.EarningRecord{
		buildEarning(testInvestor, domain.EarningTypePrimaryMarket, 6000, domain.EarningStatusDistributed),
		buildEarning(testInvestor, domain.EarningTypeLPInterest, 4000, domain.EarningStatusSettled),
	}
	require.NoError(t, st.CreateEarningRecords(ctx, records))

	idsJSON, err := schema.MarshalEarningIDs([]uint64{records[0].ID, records[1].ID})
	require.NoError(t, err)

	intent := buildIntent("c-2", domain.IntentKindClaim, testInvestor, 10000, domain.IntentStatusPending, baseTime)
	intent.EarningIDs = idsJSON
	require.NoError(t, st.CreateTransferIntent(ctx, intent))

	// One of the selected records was already consumed: the whole transition
	// rolls back, including the intent status
	err = st.CompleteTransferIntent(ctx, "c-2", "tx", "url", baseTime.Add(time.Second))
	assert.ErrorIs(t, err, domain.ErrEarningNotClaimable)

	got, err := st.GetTransferIntent(ctx, "c-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.IntentStatusPending, got.Status)

	first, err := st.GetEarningsByIDs(ctx, testInvestor.Address, []uint64{records[0].ID})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, domain.EarningStatusDistributed, first[0].Status)
}

func testCompleteMissingIntent(t *testing.T, st Store) {
	ctx := context.Background()

	err := st.CompleteTransferIntent(ctx, "no-such-intent", "tx", "url", baseTime)
	assert.ErrorIs(t, err, domain.ErrIntentNotPending)
}

func testFailTransferIntent(t *testing.T, st Store) {
	ctx := context.Background()

	records := []*schema.EarningRecord{
		buildEarning(testInvestor, domain.EarningTypePrimaryMarket, 6000, domain.EarningStatusDistributed),
	}
	require.NoError(t, st.CreateEarningRecords(ctx, records))

	idsJSON, err := schema.MarshalEarningIDs([]uint64{records[0].ID})
	require.NoError(t, err)

	intent := buildIntent("c-3", domain.IntentKindClaim, testInvestor, 6000, domain.IntentStatusPending, baseTime)
	intent.EarningIDs = idsJSON
	require.NoError(t, st.CreateTransferIntent(ctx, intent))

	failedAt := baseTime.Add(time.Second)
	require.NoError(t, st.FailTransferIntent(ctx, "c-3", "node unavailable", failedAt))

	got, err := st.GetTransferIntent(ctx, "c-3")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.IntentStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "node unavailable", *got.ErrorMessage)

	// Failure leaves the earning record claimable for a retry
	unclaimed, err := st.ListUnclaimedEarnings(ctx, testInvestor.Address)
	require.NoError(t, err)
	assert.Len(t, unclaimed, 1)

	err = st.FailTransferIntent(ctx, "c-3", "again", failedAt)
	assert.ErrorIs(t, err, domain.ErrIntentNotPending)
	err = st.CompleteTransferIntent(ctx, "c-3", "tx", "url", failedAt)
	assert.ErrorIs(t, err, domain.ErrIntentNotPending)
}

func testSumPendingIntents(t *testing.T, st Store) {
	ctx := context.Background()

	intents := []*schema.TransferIntent{
		buildIntent("p-1", domain.IntentKindWithdrawal, testFarmer, 1000, domain.IntentStatusPending, baseTime),
		buildIntent("p-2", domain.IntentKindWithdrawal, testFarmer, 2000, domain.IntentStatusPending, baseTime),
		buildIntent("p-3", domain.IntentKindWithdrawal, testFarmer, 4000, domain.IntentStatusCompleted, baseTime),
		buildIntent("p-4", domain.IntentKindWithdrawal, testFarmer, 8000, domain.IntentStatusFailed, baseTime),
		buildIntent("p-5", domain.IntentKindClaim, testInvestor, 16000, domain.IntentStatusPending, baseTime),
	}
	for _, intent := range intents {
		require.NoError(t, st.CreateTransferIntent(ctx, intent))
	}

	total, err := st.SumPendingIntents(ctx, testFarmer)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), total)

	total, err = st.SumPendingIntents(ctx, testInvestor)
	require.NoError(t, err)
	assert.Equal(t, int64(16000), total)

	// No intents at all sums to zero
	total, err = st.SumPendingIntents(ctx, domain.InvestorKey("0.0.9999"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func testListPendingClaimEarningIDs(t *testing.T, st Store) {
	ctx := context.Background()

	records := []*schema.EarningRecord{
		buildEarning(testInvestor, domain.EarningTypePrimaryMarket, 6000, domain.EarningStatusDistributed),
		buildEarning(testInvestor, domain.EarningTypeLPInterest, 4000, domain.EarningStatusDistributed),
		buildEarning(testInvestor, domain.EarningTypeSecondaryMarket, 2000, domain.EarningStatusDistributed),
	}
	require.NoError(t, st.CreateEarningRecords(ctx, records))

	// Pending claim reserves its records; completed and failed claims do not
	pendingIDs, err := schema.MarshalEarningIDs([]uint64{records[0].ID, records[1].ID})
	require.NoError(t, err)
	pending := buildIntent("r-1", domain.IntentKindClaim, testInvestor, 10000, domain.IntentStatusPending, baseTime)
	pending.EarningIDs = pendingIDs
	require.NoError(t, st.CreateTransferIntent(ctx, pending))

	failedIDs, err := schema.MarshalEarningIDs([]uint64{records[2].ID})
	require.NoError(t, err)
	failed := buildIntent("r-2", domain.IntentKindClaim, testInvestor, 2000, domain.IntentStatusFailed, baseTime)
	failed.EarningIDs = failedIDs
	require.NoError(t, st.CreateTransferIntent(ctx, failed))

	// Pending withdrawals carry no earning ids and must not contribute
	require.NoError(t, st.CreateTransferIntent(ctx,
		buildIntent("r-3", domain.IntentKindWithdrawal, testFarmer, 1000, domain.IntentStatusPending, baseTime)))

	ids, err := st.ListPendingClaimEarningIDs(ctx, testInvestor.Address)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{records[0].ID, records[1].ID}, ids)

	ids, err = st.ListPendingClaimEarningIDs(ctx, "0.0.9999")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func testListPendingIntentsOlderThan(t *testing.T, st Store) {
	ctx := context.Background()

	intents := []*schema.TransferIntent{
		buildIntent("s-1", domain.IntentKindWithdrawal, testFarmer, 1000, domain.IntentStatusPending, baseTime.Add(-10*time.Minute)),
		buildIntent("s-2", domain.IntentKindClaim, testInvestor, 2000, domain.IntentStatusPending, baseTime.Add(-5*time.Minute)),
		buildIntent("s-3", domain.IntentKindWithdrawal, testFarmer, 3000, domain.IntentStatusPending, baseTime),
		buildIntent("s-4", domain.IntentKindWithdrawal, testFarmer, 4000, domain.IntentStatusCompleted, baseTime.Add(-10*time.Minute)),
	}
	for _, intent := range intents {
		require.NoError(t, st.CreateTransferIntent(ctx, intent))
	}

	// Only pending intents requested before the cutoff, oldest first
	got, err := st.ListPendingIntentsOlderThan(ctx, baseTime.Add(-time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s-1", got[0].ID)
	assert.Equal(t, "s-2", got[1].ID)

	// The limit bounds the batch
	got, err = st.ListPendingIntentsOlderThan(ctx, baseTime.Add(-time.Minute), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s-1", got[0].ID)
}

func testListIntentsByAddress(t *testing.T, st Store) {
	ctx := context.Background()

	intents := []*schema.TransferIntent{
		buildIntent("h-1", domain.IntentKindWithdrawal, testFarmer, 1000, domain.IntentStatusCompleted, baseTime.Add(-2*time.Hour)),
		buildIntent("h-2", domain.IntentKindWithdrawal, testFarmer, 2000, domain.IntentStatusFailed, baseTime.Add(-time.Hour)),
		buildIntent("h-3", domain.IntentKindWithdrawal, testFarmer, 3000, domain.IntentStatusPending, baseTime),
		buildIntent("h-4", domain.IntentKindClaim, testInvestor, 4000, domain.IntentStatusCompleted, baseTime),
	}
	for _, intent := range intents {
		require.NoError(t, st.CreateTransferIntent(ctx, intent))
	}

	got, err := st.ListIntentsByAddress(ctx, domain.IntentKindWithdrawal, domain.OwnerKindFarmer, testFarmer.Address)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"h-3", "h-2", "h-1"}, []string{got[0].ID, got[1].ID, got[2].ID})

	got, err = st.ListIntentsByAddress(ctx, domain.IntentKindClaim, domain.OwnerKindInvestor, testInvestor.Address)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "h-4", got[0].ID)
}

// =============================================================================
// Test Runner
// =============================================================================

// RunStoreTests runs the store test suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"EarningRecords", testEarningRecords},
		{"GetEarningsByIDs", testGetEarningsByIDs},
		{"ListUnclaimedEarnings", testListUnclaimedEarnings},
		{"ListFarmerGroveIDs", testListFarmerGroveIDs},
		{"BalanceSnapshotUpsert", testBalanceSnapshotUpsert},
		{"CompleteWithdrawalIntent", testCompleteWithdrawalIntent},
		{"CompleteClaimIntentSettlesEarnings", testCompleteClaimIntentSettlesEarnings},
		{"CompleteClaimIntentRejectsConsumedEarnings", testCompleteClaimIntentRejectsConsumedEarnings},
		{"CompleteMissingIntent", testCompleteMissingIntent},
		{"FailTransferIntent", testFailTransferIntent},
		{"SumPendingIntents", testSumPendingIntents},
		{"ListPendingClaimEarningIDs", testListPendingClaimEarningIDs},
		{"ListPendingIntentsOlderThan", testListPendingIntentsOlderThan},
		{"ListIntentsByAddress", testListIntentsByAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
