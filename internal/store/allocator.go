package store

import (
	"context"
	"fmt"
)

// ProtocolAllocator issues per-year protocol sequence numbers backed by the
// protocol_sequence table. The upsert is atomic, so concurrent sessions
// never receive the same number and the sequence survives restarts.
type ProtocolAllocator struct {
	db *DB
}

// NewProtocolAllocator creates an allocator over an open database.
func NewProtocolAllocator(db *DB) *ProtocolAllocator {
	return &ProtocolAllocator{db: db}
}

// Next returns the next sequence number for the given year, starting at 1.
func (a *ProtocolAllocator) Next(ctx context.Context, year int) (int64, error) {
	query := `
		INSERT INTO protocol_sequence (year, next) VALUES (?, 1)
		ON CONFLICT(year) DO UPDATE SET next = next + 1
		RETURNING next
	`

	var seq int64
	if err := a.db.QueryRowContext(ctx, query, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to allocate protocol sequence: %w", err)
	}
	return seq, nil
}
