// Package handoff delivers completed syntheses to the case-assignment
// collaborator. Delivery is idempotent per protocol number: re-dispatching
// the same synthesis returns the original receipt and publishes nothing.
package handoff

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"litgo/pkg/schema"
)

// AssignmentPublisher is the downstream collaborator that routes a synthesis
// to a lawyer. Implementations must treat the record as immutable.
type AssignmentPublisher interface {
	Publish(ctx context.Context, record *schema.SynthesisRecord) error
}

// ReceiptLedger records issued receipts keyed by protocol number. It is the
// source of truth for deduplication.
type ReceiptLedger interface {
	Find(ctx context.Context, protocolNumber string) (*schema.HandoffReceipt, error)
	Record(ctx context.Context, receipt *schema.HandoffReceipt) error
}

// Dispatcher coordinates publish-then-record delivery. A ledger hit
// short-circuits before the publisher is ever called.
type Dispatcher struct {
	publisher AssignmentPublisher
	ledger    ReceiptLedger
	now       func() time.Time

	mu sync.Mutex
}

// NewDispatcher creates a dispatcher. A nil now function uses the wall clock.
func NewDispatcher(publisher AssignmentPublisher, ledger ReceiptLedger, now func() time.Time) *Dispatcher {
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{publisher: publisher, ledger: ledger, now: now}
}

// Dispatch hands a completed session's synthesis to the assignment
// collaborator exactly once. Subsequent calls for the same protocol number
// return the original receipt.
func (d *Dispatcher) Dispatch(ctx context.Context, session *schema.TriageSession) (*schema.HandoffReceipt, error) {
	if session.State != schema.StateCompleted || session.Synthesis == nil {
		return nil, fmt.Errorf("session %s is not completed", session.ID)
	}

	// Serialize per-dispatcher so a concurrent duplicate cannot slip between
	// the ledger check and the record.
	d.mu.Lock()
	defer d.mu.Unlock()

	existing, err := d.ledger.Find(ctx, session.Synthesis.ProtocolNumber)
	if err != nil {
		return nil, fmt.Errorf("check receipt ledger: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	if err := d.publisher.Publish(ctx, session.Synthesis); err != nil {
		return nil, fmt.Errorf("publish synthesis %s: %w", session.Synthesis.ProtocolNumber, err)
	}

	receipt := &schema.HandoffReceipt{
		Token:          uuid.NewString(),
		ProtocolNumber: session.Synthesis.ProtocolNumber,
		AcknowledgedAt: d.now().UTC(),
	}
	if err := d.ledger.Record(ctx, receipt); err != nil {
		return nil, fmt.Errorf("record receipt %s: %w", receipt.ProtocolNumber, err)
	}
	return receipt, nil
}
