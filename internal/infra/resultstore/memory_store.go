package resultstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/destiny/internal/domain/analysis"
	"github.com/yanqian/destiny/pkg/util"
)

type entry struct {
	result    analysis.Result
	expiresAt time.Time
}

// MemoryStore is an in-process result cache for tests, the CLI and dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     util.Clock
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     util.SystemClock,
	}
}

// Get implements analysis.Store.
func (s *MemoryStore) Get(_ context.Context, fingerprint string) (analysis.Result, bool, error) {
	if fingerprint == "" {
		return analysis.Result{}, false, nil
	}
	s.mu.RLock()
	e, ok := s.entries[fingerprint]
	s.mu.RUnlock()
	if !ok {
		return analysis.Result{}, false, nil
	}
	if s.expired(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, fingerprint)
		s.mu.Unlock()
		return analysis.Result{}, false, nil
	}
	return e.result, true, nil
}

// Set caches a result; a non-positive ttl never expires.
func (s *MemoryStore) Set(_ context.Context, fingerprint string, result analysis.Result, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.entries[fingerprint] = entry{result: result, expiresAt: exp}
	return nil
}

// Delete implements analysis.Store.
func (s *MemoryStore) Delete(_ context.Context, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, fingerprint)
	return nil
}

// Len reports how many entries are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) expired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ analysis.Store = (*MemoryStore)(nil)
