package ledger

import (
	"context"
	"fmt"

	"github.com/i-mwangi/qawa-sub004/internal/adapter"
	"github.com/i-mwangi/qawa-sub004/internal/domain"
)

// bridgeAssociationResponse is the bridge's token association check payload
type bridgeAssociationResponse struct {
	Address    string `json:"address"`
	TokenID    string `json:"token_id"`
	Associated bool   `json:"associated"`
}

// bridgeTransferRequest is the bridge's transfer submission payload.
// TransferID is the idempotency key: the bridge executes each id at most once.
type bridgeTransferRequest struct {
	TransferID  string `json:"transfer_id"`
	Recipient   string `json:"recipient"`
	TokenID     string `json:"token_id"`
	AmountMinor int64  `json:"amount_minor"`
}

// bridgeTransferResponse is the bridge's transfer outcome payload
type bridgeTransferResponse struct {
	Status      string `json:"status"`
	TxRef       string `json:"tx_ref"`
	ExplorerURL string `json:"explorer_url"`
	Error       string `json:"error"`
}

// bridgeClient implements Service against a Hedera bridge/relay REST API.
// The bridge owns keys and SDK plumbing; this client only speaks its HTTP contract.
type bridgeClient struct {
	baseURL    string
	tokenID    string
	httpClient adapter.HTTPClient
}

// NewBridgeClient creates a ledger service backed by a Hedera bridge REST API
func NewBridgeClient(baseURL string, tokenID string, httpClient adapter.HTTPClient) Service {
	return &bridgeClient{
		baseURL:    baseURL,
		tokenID:    tokenID,
		httpClient: httpClient,
	}
}

// CheckTokenAssociation reports whether the address has associated the payout token
func (c *bridgeClient) CheckTokenAssociation(ctx context.Context, address string) (bool, error) {
	url := fmt.Sprintf("%s/v1/associations/%s/%s", c.baseURL, address, c.tokenID)

	var resp bridgeAssociationResponse
	if err := c.httpClient.Get(ctx, url, &resp); err != nil {
		return false, fmt.Errorf("failed to check token association for %s: %w", address, err)
	}

	return resp.Associated, nil
}

// TransferValue submits a transfer to the bridge. The bridge deduplicates on
// transfer_id, so HTTP-level retries inside the adapter cannot double-spend.
func (c *bridgeClient) TransferValue(ctx context.Context, transferID string, recipient string, amountMinor int64) (*TransferResult, error) {
	url := fmt.Sprintf("%s/v1/transfers", c.baseURL)

	req := bridgeTransferRequest{
		TransferID:  transferID,
		Recipient:   recipient,
		TokenID:     c.tokenID,
		AmountMinor: amountMinor,
	}

	var resp bridgeTransferResponse
	if err := c.httpClient.PostJSON(ctx, url, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to submit transfer %s: %w", transferID, err)
	}

	if resp.Status != string(TransferStatusCompleted) {
		if resp.Error != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrTransferFailed, resp.Error)
		}
		return nil, domain.ErrTransferFailed
	}

	return &TransferResult{TxRef: resp.TxRef, ExplorerURL: resp.ExplorerURL}, nil
}

// GetTransferStatus queries the terminal state of a previously submitted transfer
func (c *bridgeClient) GetTransferStatus(ctx context.Context, transferID string) (TransferStatus, *TransferResult, error) {
	url := fmt.Sprintf("%s/v1/transfers/%s", c.baseURL, transferID)

	var resp bridgeTransferResponse
	if err := c.httpClient.Get(ctx, url, &resp); err != nil {
		return TransferStatusUnknown, nil, fmt.Errorf("failed to get transfer status for %s: %w", transferID, err)
	}

	switch resp.Status {
	case string(TransferStatusCompleted):
		return TransferStatusCompleted, &TransferResult{TxRef: resp.TxRef, ExplorerURL: resp.ExplorerURL}, nil
	case string(TransferStatusFailed):
		return TransferStatusFailed, nil, nil
	default:
		return TransferStatusUnknown, nil, nil
	}
}
