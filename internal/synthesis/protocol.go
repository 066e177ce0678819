package synthesis

import (
	"context"
	"sync"
)

// ProtocolAllocator hands out monotonic per-year sequence numbers for
// protocol generation. The sequence is the only state shared across
// concurrent sessions, so allocation must be serialized.
type ProtocolAllocator interface {
	Next(ctx context.Context, year int) (int64, error)
}

// MemoryAllocator is a process-local allocator. Suitable for tests and the
// demo driver; deployments that must survive restarts use the store-backed
// allocator.
type MemoryAllocator struct {
	mu   sync.Mutex
	next map[int]int64
}

// NewMemoryAllocator creates an in-memory allocator starting at 1 per year.
func NewMemoryAllocator() *MemoryAllocator {
	return &MemoryAllocator{next: make(map[int]int64)}
}

// Next implements ProtocolAllocator.
func (a *MemoryAllocator) Next(_ context.Context, year int) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next[year]++
	return a.next[year], nil
}
