package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/i-mwangi/qawa-sub004/internal/balance"
	"github.com/i-mwangi/qawa-sub004/internal/domain"
	"github.com/i-mwangi/qawa-sub004/internal/orchestrator"
	"github.com/i-mwangi/qawa-sub004/internal/store"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetFarmerBalances retrieves a farmer's balances across all their groves
	// GET /api/farmer/balance/:address
	GetFarmerBalances(c *gin.Context)

	// GetFarmerGroveBalance retrieves a farmer's balance for one grove
	// GET /api/farmer/balance/:address/grove/:groveId
	GetFarmerGroveBalance(c *gin.Context)

	// Withdraw moves value out of a farmer grove's available pool
	// POST /api/farmer/withdraw
	Withdraw(c *gin.Context)

	// GetWithdrawalHistory retrieves a farmer's withdrawals, newest first
	// GET /api/farmer/withdrawals/:address
	GetWithdrawalHistory(c *gin.Context)

	// GetInvestorBalance retrieves an investor's aggregated balance
	// GET /api/investor/balance/:address
	GetInvestorBalance(c *gin.Context)

	// GetUnclaimedEarnings retrieves an investor's unclaimed earnings grouped by type
	// GET /api/investor/earnings/unclaimed/:address
	GetUnclaimedEarnings(c *gin.Context)

	// Claim moves value out against an investor's selected earning records
	// POST /api/investor/claim
	Claim(c *gin.Context)

	// GetClaimHistory retrieves an investor's claims, newest first
	// GET /api/investor/claims/:address
	GetClaimHistory(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store        store.Store
	aggregator   balance.Aggregator
	orchestrator orchestrator.Orchestrator
}

// NewHandler creates a new REST API handler
func NewHandler(st store.Store, agg balance.Aggregator, orch orchestrator.Orchestrator) Handler {
	return &handler{
		store:        st,
		aggregator:   agg,
		orchestrator: orch,
	}
}

// GetFarmerBalances retrieves a farmer's balances across all their groves
func (h *handler) GetFarmerBalances(c *gin.Context) {
	address := c.Param("address")
	if !domain.IsValidAccountAddress(address) {
		respondBadRequest(c, "Invalid account address")
		return
	}

	groveIDs, err := h.store.ListFarmerGroveIDs(c.Request.Context(), address)
	if err != nil {
		respondInternalError(c, err, "Failed to list farmer groves")
		return
	}

	balances := make([]BalanceDTO, 0, len(groveIDs))
	for _, groveID := range groveIDs {
		snapshot, err := h.aggregator.Get(c.Request.Context(), domain.FarmerGroveKey(address, groveID))
		if err != nil {
			respondInternalError(c, err, "Failed to get farmer balance")
			return
		}
		balances = append(balances, toBalanceDTO(snapshot))
	}

	c.JSON(http.StatusOK, FarmerBalancesResponse{
		FarmerAddress: address,
		Balances:      balances,
	})
}

// GetFarmerGroveBalance retrieves a farmer's balance for one grove
func (h *handler) GetFarmerGroveBalance(c *gin.Context) {
	address := c.Param("address")
	if !domain.IsValidAccountAddress(address) {
		respondBadRequest(c, "Invalid account address")
		return
	}

	groveID := c.Param("groveId")
	if groveID == "" {
		respondBadRequest(c, "Grove id is required")
		return
	}

	snapshot, err := h.aggregator.Get(c.Request.Context(), domain.FarmerGroveKey(address, groveID))
	if err != nil {
		respondInternalError(c, err, "Failed to get farmer balance")
		return
	}

	c.JSON(http.StatusOK, toBalanceDTO(snapshot))
}

// Withdraw moves value out of a farmer grove's available pool
func (h *handler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	receipt, err := h.orchestrator.Withdraw(c.Request.Context(), orchestrator.WithdrawRequest{
		FarmerAddress: req.FarmerAddress,
		GroveID:       req.GroveID,
		Amount:        req.Amount,
	})
	if err != nil {
		respondDomainError(c, err, "Failed to process withdrawal")
		return
	}

	c.JSON(http.StatusOK, WithdrawResponse{
		WithdrawalID:    receipt.IntentID,
		TransactionHash: receipt.TxRef,
		ExplorerURL:     receipt.ExplorerURL,
		Amount:          domain.FromMinorUnits(receipt.AmountMinor),
	})
}

// GetWithdrawalHistory retrieves a farmer's withdrawals, newest first
func (h *handler) GetWithdrawalHistory(c *gin.Context) {
	h.intentHistory(c, domain.IntentKindWithdrawal, domain.OwnerKindFarmer)
}

// GetInvestorBalance retrieves an investor's aggregated balance
func (h *handler) GetInvestorBalance(c *gin.Context) {
	address := c.Param("address")
	if !domain.IsValidAccountAddress(address) {
		respondBadRequest(c, "Invalid account address")
		return
	}

	snapshot, err := h.aggregator.Get(c.Request.Context(), domain.InvestorKey(address))
	if err != nil {
		respondInternalError(c, err, "Failed to get investor balance")
		return
	}

	c.JSON(http.StatusOK, toInvestorBalanceDTO(snapshot))
}

// GetUnclaimedEarnings retrieves an investor's unclaimed earnings grouped by type
func (h *handler) GetUnclaimedEarnings(c *gin.Context) {
	address := c.Param("address")
	if !domain.IsValidAccountAddress(address) {
		respondBadRequest(c, "Invalid account address")
		return
	}

	records, err := h.store.ListUnclaimedEarnings(c.Request.Context(), address)
	if err != nil {
		respondInternalError(c, err, "Failed to list unclaimed earnings")
		return
	}

	byType := make(map[string][]EarningDTO)
	var total int64
	for i := range records {
		rec := &records[i]
		byType[string(rec.EarningType)] = append(byType[string(rec.EarningType)], toEarningDTO(rec))
		if total, err = domain.AddChecked(total, rec.AmountMinor); err != nil {
			respondInternalError(c, err, "Failed to sum unclaimed earnings")
			return
		}
	}

	c.JSON(http.StatusOK, UnclaimedEarningsResponse{
		InvestorAddress: address,
		Total:           domain.FromMinorUnits(total),
		ByType:          byType,
	})
}

// Claim moves value out against an investor's selected earning records
func (h *handler) Claim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	receipt, err := h.orchestrator.Claim(c.Request.Context(), orchestrator.ClaimRequest{
		InvestorAddress: req.InvestorAddress,
		EarningIDs:      req.EarningIDs,
		Amount:          req.Amount,
	})
	if err != nil {
		respondDomainError(c, err, "Failed to process claim")
		return
	}

	c.JSON(http.StatusOK, ClaimResponse{
		ClaimID:         receipt.IntentID,
		TransactionHash: receipt.TxRef,
		ExplorerURL:     receipt.ExplorerURL,
		Amount:          domain.FromMinorUnits(receipt.AmountMinor),
	})
}

// GetClaimHistory retrieves an investor's claims, newest first
func (h *handler) GetClaimHistory(c *gin.Context) {
	h.intentHistory(c, domain.IntentKindClaim, domain.OwnerKindInvestor)
}

// intentHistory renders an address's withdrawal or claim history
func (h *handler) intentHistory(c *gin.Context, kind domain.IntentKind, ownerKind domain.OwnerKind) {
	address := c.Param("address")
	if !domain.IsValidAccountAddress(address) {
		respondBadRequest(c, "Invalid account address")
		return
	}

	intents, err := h.store.ListIntentsByAddress(c.Request.Context(), kind, ownerKind, address)
	if err != nil {
		respondInternalError(c, err, "Failed to list transfer history")
		return
	}

	dtos := make([]IntentDTO, 0, len(intents))
	for i := range intents {
		dto, err := toIntentDTO(&intents[i])
		if err != nil {
			respondInternalError(c, err, "Failed to render transfer history")
			return
		}
		dtos = append(dtos, dto)
	}

	c.JSON(http.StatusOK, IntentHistoryResponse{
		Address: address,
		Intents: dtos,
	})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "qawa-api",
	})
}
