package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/i-mwangi/qawa-sub004/internal/domain"
	"github.com/i-mwangi/qawa-sub004/internal/store/schema"
)

// WithdrawRequest is the body of POST /api/farmer/withdraw
type WithdrawRequest struct {
	FarmerAddress string          `json:"farmerAddress" binding:"required"`
	GroveID       string          `json:"groveId" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// ClaimRequest is the body of POST /api/investor/claim
type ClaimRequest struct {
	InvestorAddress string          `json:"investorAddress" binding:"required"`
	EarningIDs      []uint64        `json:"earningIds" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
}

// WithdrawResponse is the success payload of a withdrawal
type WithdrawResponse struct {
	WithdrawalID    string          `json:"withdrawalId"`
	TransactionHash string          `json:"transactionHash"`
	ExplorerURL     string          `json:"explorerUrl"`
	Amount          decimal.Decimal `json:"amount"`
}

// ClaimResponse is the success payload of a claim
type ClaimResponse struct {
	ClaimID         string          `json:"claimId"`
	TransactionHash string          `json:"transactionHash"`
	ExplorerURL     string          `json:"explorerUrl"`
	Amount          decimal.Decimal `json:"amount"`
}

// BalanceDTO is one owner balance snapshot rendered with decimal amounts
type BalanceDTO struct {
	OwnerAddress     string          `json:"ownerAddress"`
	GroveID          string          `json:"groveId,omitempty"`
	Available        decimal.Decimal `json:"available"`
	Pending          decimal.Decimal `json:"pending"`
	MonthDistributed decimal.Decimal `json:"monthDistributed"`
	TotalEarned      decimal.Decimal `json:"totalEarned"`
	TotalSettled     decimal.Decimal `json:"totalSettled"`
	LastCalculatedAt time.Time       `json:"lastCalculatedAt"`
}

// InvestorBalanceDTO extends the balance with the per-type unclaimed breakdown
type InvestorBalanceDTO struct {
	BalanceDTO
	UnclaimedHarvest    decimal.Decimal `json:"unclaimedHarvest"`
	UnclaimedPrimary    decimal.Decimal `json:"unclaimedPrimary"`
	UnclaimedSecondary  decimal.Decimal `json:"unclaimedSecondary"`
	UnclaimedLPInterest decimal.Decimal `json:"unclaimedLpInterest"`
}

// FarmerBalancesResponse lists a farmer's balances across all their groves
type FarmerBalancesResponse struct {
	FarmerAddress string       `json:"farmerAddress"`
	Balances      []BalanceDTO `json:"balances"`
}

// EarningDTO is one earning record rendered with a decimal amount
type EarningDTO struct {
	ID            uint64          `json:"id"`
	EarningType   string          `json:"earningType"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	GroveID       string          `json:"groveId,omitempty"`
	DistributedAt *time.Time      `json:"distributedAt,omitempty"`
	SettledAt     *time.Time      `json:"settledAt,omitempty"`
}

// UnclaimedEarningsResponse groups an investor's unclaimed earnings by type
type UnclaimedEarningsResponse struct {
	InvestorAddress string                  `json:"investorAddress"`
	Total           decimal.Decimal         `json:"total"`
	ByType          map[string][]EarningDTO `json:"byType"`
}

// IntentDTO is one withdrawal or claim in an owner's history
type IntentDTO struct {
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	GroveID         string          `json:"groveId,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status"`
	EarningIDs      []uint64        `json:"earningIds,omitempty"`
	RequestedAt     time.Time       `json:"requestedAt"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty"`
	TransactionHash *string         `json:"transactionHash,omitempty"`
	ExplorerURL     *string         `json:"explorerUrl,omitempty"`
	ErrorMessage    *string         `json:"errorMessage,omitempty"`
}

// IntentHistoryResponse lists an owner's withdrawals or claims, newest first
type IntentHistoryResponse struct {
	Address string      `json:"address"`
	Intents []IntentDTO `json:"intents"`
}

// toBalanceDTO maps a snapshot row to its API shape
func toBalanceDTO(s *schema.BalanceSnapshot) BalanceDTO {
	return BalanceDTO{
		OwnerAddress:     s.OwnerAddress,
		GroveID:          s.GroveID,
		Available:        domain.FromMinorUnits(s.AvailableMinor),
		Pending:          domain.FromMinorUnits(s.PendingMinor),
		MonthDistributed: domain.FromMinorUnits(s.MonthDistributedMinor),
		TotalEarned:      domain.FromMinorUnits(s.TotalEarnedMinor),
		TotalSettled:     domain.FromMinorUnits(s.TotalSettledMinor),
		LastCalculatedAt: s.LastCalculatedAt,
	}
}

// toInvestorBalanceDTO maps an investor snapshot including the unclaimed breakdown
func toInvestorBalanceDTO(s *schema.BalanceSnapshot) InvestorBalanceDTO {
	return InvestorBalanceDTO{
		BalanceDTO:          toBalanceDTO(s),
		UnclaimedHarvest:    domain.FromMinorUnits(s.UnclaimedHarvestMinor),
		UnclaimedPrimary:    domain.FromMinorUnits(s.UnclaimedPrimaryMinor),
		UnclaimedSecondary:  domain.FromMinorUnits(s.UnclaimedSecondaryMinor),
		UnclaimedLPInterest: domain.FromMinorUnits(s.UnclaimedLPMinor),
	}
}

// toEarningDTO maps an earning record row to its API shape
func toEarningDTO(r *schema.EarningRecord) EarningDTO {
	return EarningDTO{
		ID:            r.ID,
		EarningType:   string(r.EarningType),
		Amount:        domain.FromMinorUnits(r.AmountMinor),
		Status:        string(r.Status),
		GroveID:       r.GroveID,
		DistributedAt: r.DistributedAt,
		SettledAt:     r.SettledAt,
	}
}

// toIntentDTO maps a transfer intent row to its API shape
func toIntentDTO(i *schema.TransferIntent) (IntentDTO, error) {
	earningIDs, err := schema.UnmarshalEarningIDs(i.EarningIDs)
	if err != nil {
		return IntentDTO{}, err
	}

	return IntentDTO{
		ID:              i.ID,
		Kind:            string(i.Kind),
		GroveID:         i.GroveID,
		Amount:          domain.FromMinorUnits(i.AmountMinor),
		Status:          string(i.Status),
		EarningIDs:      earningIDs,
		RequestedAt:     i.RequestedAt,
		CompletedAt:     i.CompletedAt,
		TransactionHash: i.TxRef,
		ExplorerURL:     i.ExplorerURL,
		ErrorMessage:    i.ErrorMessage,
	}, nil
}
