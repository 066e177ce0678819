package store

import (
	"context"
	"database/sql"
	"fmt"

	"litgo/pkg/schema"
)

// ReceiptLedger persists handoff receipts keyed by protocol number. The
// primary key on protocol_number enforces at-most-one receipt per synthesis.
type ReceiptLedger struct {
	db *DB
}

// NewReceiptLedger creates a ReceiptLedger.
func NewReceiptLedger(db *DB) *ReceiptLedger {
	return &ReceiptLedger{db: db}
}

// Find returns the receipt for a protocol number, or nil if none exists.
func (l *ReceiptLedger) Find(ctx context.Context, protocolNumber string) (*schema.HandoffReceipt, error) {
	query := `SELECT token, protocol_number, acknowledged_at FROM handoffs WHERE protocol_number = ?`

	var receipt schema.HandoffReceipt
	err := l.db.QueryRowContext(ctx, query, protocolNumber).Scan(
		&receipt.Token,
		&receipt.ProtocolNumber,
		&receipt.AcknowledgedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find receipt: %w", err)
	}
	return &receipt, nil
}

// Record stores a newly issued receipt.
func (l *ReceiptLedger) Record(ctx context.Context, receipt *schema.HandoffReceipt) error {
	query := `INSERT INTO handoffs (protocol_number, token, acknowledged_at) VALUES (?, ?, ?)`

	_, err := l.db.ExecContext(ctx, query,
		receipt.ProtocolNumber,
		receipt.Token,
		receipt.AcknowledgedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record receipt: %w", err)
	}
	return nil
}
