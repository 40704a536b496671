// Package roster maintains the politician directory behind the picker: a
// paginated pull of the candidate directory, reduced to one clean record per
// candidate and cached for a day.
package roster

import (
	"context"
	"sync"
	"time"

	"fundwatch/internal/domain"
)

// Store caches the full roster. Get reports a miss once the stored value is
// older than the store's freshness window.
type Store interface {
	Get(ctx context.Context, now time.Time) ([]domain.Politician, bool, error)
	Set(ctx context.Context, politicians []domain.Politician, now time.Time) error
}

// MemoryStore keeps the roster in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	value    []domain.Politician
	storedAt time.Time
	filled   bool
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl}
}

func (m *MemoryStore) Get(_ context.Context, now time.Time) ([]domain.Politician, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.filled || now.Sub(m.storedAt) >= m.ttl {
		return nil, false, nil
	}
	return clonePoliticians(m.value), true, nil
}

func (m *MemoryStore) Set(_ context.Context, politicians []domain.Politician, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = clonePoliticians(politicians)
	m.storedAt = now
	m.filled = true
	return nil
}

func clonePoliticians(in []domain.Politician) []domain.Politician {
	out := make([]domain.Politician, len(in))
	copy(out, in)
	return out
}
