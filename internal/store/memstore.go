package store

import (
	"fmt"
	"slices"
	"sync"
)

// MemStore implements Store in memory. `serve --ephemeral` uses it for
// per-process history.
type MemStore struct {
	mu   sync.RWMutex
	runs map[int64]*Run
	next int64
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{runs: make(map[int64]*Run)}
}

// SaveRun stores a copy of run.
func (s *MemStore) SaveRun(run *Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if run.CreatedAt == "" {
		run.CreatedAt = nowUTC()
	}
	s.next++
	run.ID = s.next
	cp := *run
	cp.Attempts = slices.Clone(run.Attempts)
	s.runs[cp.ID] = &cp
	return cp.ID, nil
}

// GetRun returns a copy of the stored run.
func (s *MemStore) GetRun(id int64) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("get run %d: %w", id, ErrNotFound)
	}
	cp := *r
	cp.Attempts = slices.Clone(r.Attempts)
	return &cp, nil
}

// ListRuns returns runs newest first, without attempts.
func (s *MemStore) ListRuns(limit int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Run, 0, len(s.runs))
	for _, r := range s.runs {
		cp := *r
		cp.Attempts = nil
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *Run) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }
