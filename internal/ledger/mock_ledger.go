package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// mockLedger is the development implementation of Service. It treats every
// address as associated and mints uuid transaction references, remembering
// outcomes by transfer id so status queries behave like the real bridge.
type mockLedger struct {
	explorerBaseURL string

	mu      sync.Mutex
	results map[string]*TransferResult
}

// NewMockLedger creates the development ledger service
func NewMockLedger(explorerBaseURL string) Service {
	return &mockLedger{
		explorerBaseURL: explorerBaseURL,
		results:         make(map[string]*TransferResult),
	}
}

func (m *mockLedger) CheckTokenAssociation(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func (m *mockLedger) TransferValue(_ context.Context, transferID string, _ string, _ int64) (*TransferResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Idempotent on transfer id, like the real bridge
	if result, ok := m.results[transferID]; ok {
		return result, nil
	}

	txRef := uuid.NewString()
	result := &TransferResult{
		TxRef:       txRef,
		ExplorerURL: fmt.Sprintf("%s/transactions/%s", m.explorerBaseURL, txRef),
	}
	m.results[transferID] = result

	return result, nil
}

func (m *mockLedger) GetTransferStatus(_ context.Context, transferID string) (TransferStatus, *TransferResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if result, ok := m.results[transferID]; ok {
		return TransferStatusCompleted, result, nil
	}
	return TransferStatusUnknown, nil, nil
}
