package orchestrator_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i-mwangi/qawa-sub004/internal/domain"
	"github.com/i-mwangi/qawa-sub004/internal/ledger"
	"github.com/i-mwangi/qawa-sub004/internal/logger"
	"github.com/i-mwangi/qawa-sub004/internal/mocks"
	"github.com/i-mwangi/qawa-sub004/internal/orchestrator"
	"github.com/i-mwangi/qawa-sub004/internal/store/schema"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

const (
	farmerAddress   = "0.0.1001"
	investorAddress = "0.0.2002"
	groveID         = "grove-7"
)

type orchestratorMocks struct {
	ctrl       *gomock.Controller
	store      *mocks.MockStore
	ledger     *mocks.MockLedgerService
	aggregator *mocks.MockAggregator
	clock      *mocks.MockClock
	orch       orchestrator.Orchestrator
}

func setupOrchestrator(t *testing.T) *orchestratorMocks {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	ld := mocks.NewMockLedgerService(ctrl)
	agg := mocks.NewMockAggregator(ctrl)
	clock := mocks.NewMockClock(ctrl)

	clock.EXPECT().Now().Return(testNow).AnyTimes()

	return &orchestratorMocks{
		ctrl:       ctrl,
		store:      st,
		ledger:     ld,
		aggregator: agg,
		clock:      clock,
		orch: orchestrator.New(orchestrator.Config{
			TransferTimeout:      30 * time.Second,
			MaxWithdrawalPercent: 30,
		}, st, ld, agg, clock),
	}
}

// expectWithdrawValidation wires the snapshot and pending-intent reads that
// precede intent creation
func (m *orchestratorMocks) expectWithdrawValidation(owner domain.OwnerKey, availableMinor, pendingMinor int64) {
	m.aggregator.EXPECT().Recompute(gomock.Any(), owner).
		Return(&schema.BalanceSnapshot{
			OwnerKind:      owner.Kind,
			OwnerAddress:   owner.Address,
			GroveID:        owner.GroveID,
			AvailableMinor: availableMinor,
		}, nil)
	m.store.EXPECT().SumPendingIntents(gomock.Any(), owner).Return(pendingMinor, nil)
}

func TestWithdrawSuccess(t *testing.T) {
	m := setupOrchestrator(t)
	owner := domain.FarmerGroveKey(farmerAddress, groveID)

	// Available $1000, request $300 (exactly the 30% cap)
	m.expectWithdrawValidation(owner, 100000, 0)

	var createdIntent *schema.TransferIntent
	m.store.EXPECT().CreateTransferIntent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, intent *schema.TransferIntent) error {
			createdIntent = intent
			return nil
		})

	m.ledger.EXPECT().CheckTokenAssociation(gomock.Any(), farmerAddress).Return(true, nil)
	m.ledger.EXPECT().TransferValue(gomock.Any(), gomock.Any(), farmerAddress, int64(30000)).
		Return(&ledger.TransferResult{TxRef: "0.0.5005@123", ExplorerURL: "https://hashscan.io/tx"}, nil).
		Times(1)
	m.store.EXPECT().CompleteTransferIntent(gomock.Any(), gomock.Any(), "0.0.5005@123", "https://hashscan.io/tx", testNow).
		Return(nil)
	m.aggregator.EXPECT().Recompute(gomock.Any(), owner).Return(&schema.BalanceSnapshot{}, nil)

	receipt, err := m.orch.Withdraw(context.Background(), orchestrator.WithdrawRequest{
		FarmerAddress: farmerAddress,
		GroveID:       groveID,
		Amount:        decimal.NewFromInt(300),
	})
	require.NoError(t, err)

	require.NotNil(t, createdIntent)
	assert.Equal(t, domain.IntentKindWithdrawal, createdIntent.Kind)
	assert.Equal(t, domain.IntentStatusPending, createdIntent.Status)
	assert.Equal(t, int64(30000), createdIntent.AmountMinor)
	assert.Equal(t, createdIntent.ID, receipt.IntentID)
	assert.Equal(t, "0.0.5005@123", receipt.TxRef)
	assert.Equal(t, int64(30000), receipt.AmountMinor)
}

func TestWithdrawExceedsCap(t *testing.T) {
	m := setupOrchestrator(t)
	owner := domain.FarmerGroveKey(farmerAddress, groveID)

	// Available $1000, request $400: within balance but above the 30% cap
	m.expectWithdrawValidation(owner, 100000, 0)

	_, err := m.orch.Withdraw(context.Background(), orchestrator.WithdrawRequest{
		FarmerAddress: farmerAddress,
		GroveID:       groveID,
		Amount:        decimal.NewFromInt(400),
	})
	assert.ErrorIs(t, err, domain.ErrWithdrawalLimitExceeded)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	m := setupOrchestrator(t)
	owner := domain.FarmerGroveKey(farmerAddress, groveID)

	m.expectWithdrawValidation(owner, 10000, 0)

	_, err := m.orch.Withdraw(context.Background(), orchestrator.WithdrawRequest{
		FarmerAddress: farmerAddress,
		GroveID:       groveID,
		Amount:        decimal.NewFromInt(200),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestWithdrawPendingIntentsReserveBalance(t *testing.T) {
	m := setupOrchestrator(t)
	owner := domain.FarmerGroveKey(farmerAddress, groveID)

	// $1000 available but $800 already reserved by in-flight intents:
	// the effective pool is $200 and the cap is $60
	m.expectWithdrawValidation(owner, 100000, 80000)

	_, err := m.orch.Withdraw(context.Background(), orchestrator.WithdrawRequest{
		FarmerAddress: farmerAddress,
		GroveID:       groveID,
		Amount:        decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrWithdrawalLimitExceeded)
}

func TestWithdrawInvalidAmount(t *testing.T) {
	m := setupOrchestrator(t)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := m.orch.Withdraw(context.Background(), orchestrator.WithdrawRequest{
			FarmerAddress: farmerAddress,
			GroveID:       groveID,
			Amount:        amount,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
}

func TestWithdrawInvalidOwner(t *testing.T) {
	m := setupOrchestrator(t)

	_, err := m.orch.Withdraw(context.Background(), orchestrator.WithdrawRequest{
		FarmerAddress: "not-an-address",
		GroveID:       groveID,
		Amount:        decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestWithdrawAssociationRequired(t *testing.T) {
	m := setupOrchestrator(t)
	owner := domain.FarmerGroveKey(farmerAddress, groveID)

	m.expectWithdrawValidation(owner, 100000, 0)
	m.store.EXPECT().CreateTransferIntent(gomock.Any(), gomock.Any()).Return(nil)

	// Unassociated recipient fails the intent before the transfer call:
	// TransferValue must never be invoked
	m.ledger.EXPECT().CheckTokenAssociation(gomock.Any(), farmerAddress).Return(false, nil)
	m.store.EXPECT().FailTransferIntent(gomock.Any(), gomock.Any(), gomock.Any(), testNow).Return(nil)

	_, err := m.orch.Withdraw(context.Background(), orchestrator.WithdrawRequest{
		FarmerAddress: farmerAddress,
		GroveID:       groveID,
		Amount:        decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrTokenAssociationRequired)
}

func TestWithdrawTransferFailureLeavesBalanceClaimable(t *testing.T) {
	m := setupOrchestrator(t)
	owner := domain.FarmerGroveKey(farmerAddress, groveID)

	m.expectWithdrawValidation(owner, 100000, 0)
	m.store.EXPECT().CreateTransferIntent(gomock.Any(), gomock.Any()).Return(nil)
	m.ledger.EXPECT().CheckTokenAssociation(gomock.Any(), farmerAddress).Return(true, nil)
	m.ledger.EXPECT().TransferValue(gomock.Any(), gomock.Any(), farmerAddress, int64(10000)).
		Return(nil, errors.New("insufficient payer balance"))

	// The intent is failed; no completion, no settlement
	m.store.EXPECT().FailTransferIntent(gomock.Any(), gomock.Any(), gomock.Any(), testNow).Return(nil)

	_, err := m.orch.Withdraw(context.Background(), orchestrator.WithdrawRequest{
		FarmerAddress: farmerAddress,
		GroveID:       groveID,
		Amount:        decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrTransferFailed)
}

func TestWithdrawTimeoutLeavesIntentPending(t *testing.T) {
	m := setupOrchestrator(t)
	owner := domain.FarmerGroveKey(farmerAddress, groveID)

	m.expectWithdrawValidation(owner, 100000, 0)
	m.store.EXPECT().CreateTransferIntent(gomock.Any(), gomock.Any()).Return(nil)
	m.ledger.EXPECT().CheckTokenAssociation(gomock.Any(), farmerAddress).Return(true, nil)
	m.ledger.EXPECT().TransferValue(gomock.Any(), gomock.Any(), farmerAddress, int64(10000)).
		Return(nil, context.DeadlineExceeded)

	// No FailTransferIntent: the outcome is unknown and the sweeper resolves it
	_, err := m.orch.Withdraw(context.Background(), orchestrator.WithdrawRequest{
		FarmerAddress: farmerAddress,
		GroveID:       groveID,
		Amount:        decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrTransferOutcomeUnknown)
}

func TestClaimSuccessSettlesSelectedRecords(t *testing.T) {
	m := setupOrchestrator(t)
	owner := domain.InvestorKey(investorAddress)

	records := []schema.EarningRecord{
		{ID: 11, OwnerKind: domain.OwnerKindInvestor, OwnerAddress: investorAddress,
			AmountMinor: 6000, Status: domain.EarningStatusDistributed},
		{ID: 12, OwnerKind: domain.OwnerKindInvestor, OwnerAddress: investorAddress,
			AmountMinor: 4000, Status: domain.EarningStatusDistributed},
	}

	m.store.EXPECT().GetEarningsByIDs(gomock.Any(), investorAddress, []uint64{11, 12}).Return(records, nil)
	m.store.EXPECT().ListPendingClaimEarningIDs(gomock.Any(), investorAddress).Return(nil, nil)

	var createdIntent *schema.TransferIntent
	m.store.EXPECT().CreateTransferIntent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, intent *schema.TransferIntent) error {
			createdIntent = intent
			return nil
		})

	m.ledger.EXPECT().TransferValue(gomock.Any(), gomock.Any(), investorAddress, int64(10000)).
		Return(&ledger.TransferResult{TxRef: "0.0.5005@456", ExplorerURL: "https://hashscan.io/tx"}, nil).
		Times(1)
	m.store.EXPECT().CompleteTransferIntent(gomock.Any(), gomock.Any(), "0.0.5005@456", "https://hashscan.io/tx", testNow).
		Return(nil)
	m.aggregator.EXPECT().Recompute(gomock.Any(), owner).Return(&schema.BalanceSnapshot{}, nil)

	receipt, err := m.orch.Claim(context.Background(), orchestrator.ClaimRequest{
		InvestorAddress: investorAddress,
		EarningIDs:      []uint64{11, 12},
		Amount:          decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	require.NotNil(t, createdIntent)
	assert.Equal(t, domain.IntentKindClaim, createdIntent.Kind)
	ids, err := schema.UnmarshalEarningIDs(createdIntent.EarningIDs)
	require.NoError(t, err)
	assert.Equal(t, []uint64{11, 12}, ids)
	assert.Equal(t, int64(10000), receipt.AmountMinor)
}

func TestClaimPartialAmountAllowed(t *testing.T) {
	m := setupOrchestrator(t)
	owner := domain.InvestorKey(investorAddress)

	records := []schema.EarningRecord{
		{ID: 11, AmountMinor: 6000, Status: domain.EarningStatusDistributed},
		{ID: 12, AmountMinor: 4000, Status: domain.EarningStatusDistributed},
	}

	m.store.EXPECT().GetEarningsByIDs(gomock.Any(), investorAddress, []uint64{11, 12}).Return(records, nil)
	m.store.EXPECT().ListPendingClaimEarningIDs(gomock.Any(), investorAddress).Return(nil, nil)
	m.store.EXPECT().CreateTransferIntent(gomock.Any(), gomock.Any()).Return(nil)
	m.ledger.EXPECT().TransferValue(gomock.Any(), gomock.Any(), investorAddress, int64(2500)).
		Return(&ledger.TransferResult{TxRef: "tx", ExplorerURL: "url"}, nil)
	m.store.EXPECT().CompleteTransferIntent(gomock.Any(), gomock.Any(), "tx", "url", testNow).Return(nil)
	m.aggregator.EXPECT().Recompute(gomock.Any(), owner).Return(&schema.BalanceSnapshot{}, nil)

	// Requesting less than the selected sum is allowed; the selected records
	// are still settled in full by the store transition
	receipt, err := m.orch.Claim(context.Background(), orchestrator.ClaimRequest{
		InvestorAddress: investorAddress,
		EarningIDs:      []uint64{11, 12},
		Amount:          decimal.NewFromFloat(25),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), receipt.AmountMinor)
}

func TestClaimEarningNotFound(t *testing.T) {
	m := setupOrchestrator(t)

	// Only one of the two selected records exists for this investor
	records := []schema.EarningRecord{
		{ID: 11, AmountMinor: 6000, Status: domain.EarningStatusDistributed},
	}
	m.store.EXPECT().GetEarningsByIDs(gomock.Any(), investorAddress, []uint64{11, 99}).Return(records, nil)

	_, err := m.orch.Claim(context.Background(), orchestrator.ClaimRequest{
		InvestorAddress: investorAddress,
		EarningIDs:      []uint64{11, 99},
		Amount:          decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrEarningNotFound)
}

func TestClaimRejectsNonDistributedRecords(t *testing.T) {
	m := setupOrchestrator(t)

	for _, status := range []domain.EarningStatus{domain.EarningStatusPending, domain.EarningStatusSettled} {
		records := []schema.EarningRecord{
			{ID: 11, AmountMinor: 6000, Status: status},
		}
		m.store.EXPECT().GetEarningsByIDs(gomock.Any(), investorAddress, []uint64{11}).Return(records, nil)

		_, err := m.orch.Claim(context.Background(), orchestrator.ClaimRequest{
			InvestorAddress: investorAddress,
			EarningIDs:      []uint64{11},
			Amount:          decimal.NewFromInt(10),
		})
		assert.ErrorIs(t, err, domain.ErrEarningNotClaimable)
	}
}

func TestClaimAmountExceedsSelection(t *testing.T) {
	m := setupOrchestrator(t)

	records := []schema.EarningRecord{
		{ID: 11, AmountMinor: 6000, Status: domain.EarningStatusDistributed},
	}
	m.store.EXPECT().GetEarningsByIDs(gomock.Any(), investorAddress, []uint64{11}).Return(records, nil)
	m.store.EXPECT().ListPendingClaimEarningIDs(gomock.Any(), investorAddress).Return(nil, nil)

	_, err := m.orch.Claim(context.Background(), orchestrator.ClaimRequest{
		InvestorAddress: investorAddress,
		EarningIDs:      []uint64{11},
		Amount:          decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestClaimRequiresSelection(t *testing.T) {
	m := setupOrchestrator(t)

	_, err := m.orch.Claim(context.Background(), orchestrator.ClaimRequest{
		InvestorAddress: investorAddress,
		EarningIDs:      nil,
		Amount:          decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestClaimFailureThenRetrySucceeds(t *testing.T) {
	m := setupOrchestrator(t)
	owner := domain.InvestorKey(investorAddress)

	records := []schema.EarningRecord{
		{ID: 11, AmountMinor: 6000, Status: domain.EarningStatusDistributed},
	}

	// First attempt: ledger rejects, intent failed, records untouched
	m.store.EXPECT().GetEarningsByIDs(gomock.Any(), investorAddress, []uint64{11}).Return(records, nil)
	m.store.EXPECT().ListPendingClaimEarningIDs(gomock.Any(), investorAddress).Return(nil, nil)
	m.store.EXPECT().CreateTransferIntent(gomock.Any(), gomock.Any()).Return(nil)
	m.ledger.EXPECT().TransferValue(gomock.Any(), gomock.Any(), investorAddress, int64(6000)).
		Return(nil, errors.New("node unavailable"))
	m.store.EXPECT().FailTransferIntent(gomock.Any(), gomock.Any(), gomock.Any(), testNow).Return(nil)

	_, err := m.orch.Claim(context.Background(), orchestrator.ClaimRequest{
		InvestorAddress: investorAddress,
		EarningIDs:      []uint64{11},
		Amount:          decimal.NewFromInt(60),
	})
	require.ErrorIs(t, err, domain.ErrTransferFailed)

	// Second attempt: records are still distributed and claimable
	m.store.EXPECT().GetEarningsByIDs(gomock.Any(), investorAddress, []uint64{11}).Return(records, nil)
	m.store.EXPECT().ListPendingClaimEarningIDs(gomock.Any(), investorAddress).Return(nil, nil)
	m.store.EXPECT().CreateTransferIntent(gomock.Any(), gomock.Any()).Return(nil)
	m.ledger.EXPECT().TransferValue(gomock.Any(), gomock.Any(), investorAddress, int64(6000)).
		Return(&ledger.TransferResult{TxRef: "tx-2", ExplorerURL: "url"}, nil)
	m.store.EXPECT().CompleteTransferIntent(gomock.Any(), gomock.Any(), "tx-2", "url", testNow).Return(nil)
	m.aggregator.EXPECT().Recompute(gomock.Any(), owner).Return(&schema.BalanceSnapshot{}, nil)

	receipt, err := m.orch.Claim(context.Background(), orchestrator.ClaimRequest{
		InvestorAddress: investorAddress,
		EarningIDs:      []uint64{11},
		Amount:          decimal.NewFromInt(60),
	})
	require.NoError(t, err)
	assert.Equal(t, "tx-2", receipt.TxRef)
}

func TestClaimRejectsRecordsReservedByPendingClaim(t *testing.T) {
	m := setupOrchestrator(t)

	records := []schema.EarningRecord{
		{ID: 11, AmountMinor: 6000, Status: domain.EarningStatusDistributed},
	}

	// First claim: the ledger call times out and the intent stays pending
	m.store.EXPECT().GetEarningsByIDs(gomock.Any(), investorAddress, []uint64{11}).Return(records, nil)
	m.store.EXPECT().ListPendingClaimEarningIDs(gomock.Any(), investorAddress).Return(nil, nil)
	m.store.EXPECT().CreateTransferIntent(gomock.Any(), gomock.Any()).Return(nil)
	m.ledger.EXPECT().TransferValue(gomock.Any(), gomock.Any(), investorAddress, int64(6000)).
		Return(nil, context.DeadlineExceeded).
		Times(1)

	_, err := m.orch.Claim(context.Background(), orchestrator.ClaimRequest{
		InvestorAddress: investorAddress,
		EarningIDs:      []uint64{11},
		Amount:          decimal.NewFromInt(60),
	})
	require.ErrorIs(t, err, domain.ErrTransferOutcomeUnknown)

	// Second claim on the same record: it is reserved by the in-flight intent
	// and cannot fund another transfer
	m.store.EXPECT().GetEarningsByIDs(gomock.Any(), investorAddress, []uint64{11}).Return(records, nil)
	m.store.EXPECT().ListPendingClaimEarningIDs(gomock.Any(), investorAddress).Return([]uint64{11}, nil)

	_, err = m.orch.Claim(context.Background(), orchestrator.ClaimRequest{
		InvestorAddress: investorAddress,
		EarningIDs:      []uint64{11},
		Amount:          decimal.NewFromInt(60),
	})
	assert.ErrorIs(t, err, domain.ErrEarningNotClaimable)
}

func TestWithdrawCompleteWriteFailureSurfacesUnknownOutcome(t *testing.T) {
	m := setupOrchestrator(t)
	owner := domain.FarmerGroveKey(farmerAddress, groveID)

	m.expectWithdrawValidation(owner, 100000, 0)
	m.store.EXPECT().CreateTransferIntent(gomock.Any(), gomock.Any()).Return(nil)
	m.ledger.EXPECT().CheckTokenAssociation(gomock.Any(), farmerAddress).Return(true, nil)
	m.ledger.EXPECT().TransferValue(gomock.Any(), gomock.Any(), farmerAddress, int64(10000)).
		Return(&ledger.TransferResult{TxRef: "tx", ExplorerURL: "url"}, nil)
	m.store.EXPECT().CompleteTransferIntent(gomock.Any(), gomock.Any(), "tx", "url", testNow).
		Return(errors.New("connection reset"))

	// The transfer happened but could not be recorded: outcome unknown, the
	// intent stays pending for the sweeper
	_, err := m.orch.Withdraw(context.Background(), orchestrator.WithdrawRequest{
		FarmerAddress: farmerAddress,
		GroveID:       groveID,
		Amount:        decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, domain.ErrTransferOutcomeUnknown)
}
