package ledger

import "context"

// TransferStatus is the bridge-reported state of a transfer, keyed by the
// intent id the platform submitted as idempotency key.
type TransferStatus string

const (
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusFailed    TransferStatus = "failed"
	// TransferStatusUnknown means the bridge has no terminal record yet;
	// the intent must stay pending.
	TransferStatusUnknown TransferStatus = "unknown"
)

// TransferResult carries the outcome of a successful value movement
type TransferResult struct {
	TxRef       string
	ExplorerURL string
}

// Service is the opaque external ledger the platform moves value through.
// The production implementation talks to a Hedera bridge over HTTP; dev and
// tests use the in-process mock. Implementations must treat transferID as an
// idempotency key: resubmitting the same id never moves value twice.
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=Service=MockLedgerService
type Service interface {
	// CheckTokenAssociation reports whether the address has associated the
	// payout token with its account, a precondition for receiving transfers
	CheckTokenAssociation(ctx context.Context, address string) (bool, error)

	// TransferValue moves amountMinor to the recipient. The single point of
	// irrevocable external effect; invoked at most once per transfer intent.
	TransferValue(ctx context.Context, transferID string, recipient string, amountMinor int64) (*TransferResult, error)

	// GetTransferStatus queries the terminal state of a previously submitted
	// transfer by its intent id. Used by the reconciliation sweeper.
	GetTransferStatus(ctx context.Context, transferID string) (TransferStatus, *TransferResult, error)
}
