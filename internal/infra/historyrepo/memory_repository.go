package historyrepo

import (
	"context"
	"sync"

	"github.com/fasalmitra/crop-advisor/internal/domain/advisor"
)

// MemoryRepository keeps recommendation history in process memory for
// tests and database-less deployments.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []advisor.HistoryEntry
	cap     int
}

// NewMemoryRepository constructs the repository. It retains at most cap
// entries, oldest evicted first; cap <= 0 means 500.
func NewMemoryRepository(cap int) *MemoryRepository {
	if cap <= 0 {
		cap = 500
	}
	return &MemoryRepository{cap: cap}
}

// Record appends one recommendation pass.
func (r *MemoryRepository) Record(_ context.Context, entry advisor.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	if len(r.entries) > r.cap {
		r.entries = r.entries[len(r.entries)-r.cap:]
	}
	return nil
}

// Recent returns the latest passes, newest first.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]advisor.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]advisor.HistoryEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

var _ advisor.HistoryRepository = (*MemoryRepository)(nil)
