package records

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps tables in process. Loads and saves copy, so callers
// never share rows with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]*Table)}
}

func (s *MemoryStore) LoadTable(ctx context.Context, name string) (*Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[name]
	if !ok {
		return nil, fmt.Errorf("records: memory load %s: %w", name, ErrTableNotFound)
	}
	return t.Clone(), nil
}

func (s *MemoryStore) SaveTable(ctx context.Context, name string, t *Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = t.Clone()
	return nil
}
