package capture

import "sync"

// Store is the engine's read-only view of captured exchanges. Snapshot must
// return exchanges in strict insertion order and must be safe to call while
// the session collaborator keeps appending.
type Store interface {
	Snapshot() []*Exchange
}

// MemoryStore is an append-only, insertion-ordered exchange store. One writer
// (the recorder) and any number of readers.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Exchange
	nextSeq int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append adds an exchange and assigns its sequence number. Returns the
// assigned sequence.
func (s *MemoryStore) Append(ex *Exchange) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ex.Seq = s.nextSeq
	s.nextSeq++
	s.entries = append(s.entries, ex)
	return ex.Seq
}

// Snapshot returns a defensive copy of the entry slice in insertion order.
// The exchanges themselves are shared: their request-side fields are fixed
// at append time, and response completion is published atomically via
// Exchange.SetResponse, so readers never see a half-built exchange.
func (s *MemoryStore) Snapshot() []*Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Exchange, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of captured exchanges.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
