package handoff

import (
	"context"
	"sync"

	"litgo/pkg/schema"
)

// MemoryLedger is a process-local receipt ledger for tests and the demo
// driver.
type MemoryLedger struct {
	mu       sync.Mutex
	receipts map[string]schema.HandoffReceipt
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{receipts: make(map[string]schema.HandoffReceipt)}
}

// Find implements ReceiptLedger. Returns nil when no receipt exists.
func (l *MemoryLedger) Find(_ context.Context, protocolNumber string) (*schema.HandoffReceipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r, ok := l.receipts[protocolNumber]; ok {
		receipt := r
		return &receipt, nil
	}
	return nil, nil
}

// Record implements ReceiptLedger.
func (l *MemoryLedger) Record(_ context.Context, receipt *schema.HandoffReceipt) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.receipts[receipt.ProtocolNumber] = *receipt
	return nil
}

// MockPublisher captures published records for assertions.
type MockPublisher struct {
	mu        sync.Mutex
	Err       error
	Published []*schema.SynthesisRecord
}

// Publish implements AssignmentPublisher.
func (p *MockPublisher) Publish(_ context.Context, record *schema.SynthesisRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Published = append(p.Published, record)
	return nil
}

// Count returns the number of successful publishes.
func (p *MockPublisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Published)
}
