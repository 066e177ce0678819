package core

import (
	"context"
	"errors"
	"sync"

	"litgo/pkg/schema"
)

// ErrSessionNotFound is returned by the in-memory store for unknown IDs.
var ErrSessionNotFound = errors.New("session not found")

// MemorySessionStore is a process-local SessionStore for tests and the demo
// driver. Sessions are deep-copied on both save and load.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*schema.TriageSession
}

// NewMemorySessionStore creates an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*schema.TriageSession)}
}

// Save implements SessionStore.
func (s *MemorySessionStore) Save(_ context.Context, sess *schema.TriageSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// Load implements SessionStore.
func (s *MemorySessionStore) Load(_ context.Context, id string) (*schema.TriageSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess.Clone(), nil
}

// Delete implements SessionStore.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}
