package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"tcubridge/internal/observability"
)

// InMemoryStore keeps call records in process. Used by tests, dry runs and
// deployments without a database.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []observability.CallRecord
	limit   int
}

// NewInMemoryStore keeps at most limit records, dropping the oldest. A limit
// of zero keeps everything.
func NewInMemoryStore(limit int) *InMemoryStore {
	return &InMemoryStore{limit: limit}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

func (s *InMemoryStore) Record(_ context.Context, rec observability.CallRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if s.limit > 0 && len(s.records) > s.limit {
		s.records = append([]observability.CallRecord(nil), s.records[len(s.records)-s.limit:]...)
	}
	return nil
}

// All returns every record in arrival order.
func (s *InMemoryStore) All() []observability.CallRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]observability.CallRecord{}, s.records...)
}

// Recent returns the newest records first.
func (s *InMemoryStore) Recent(_ context.Context, limit int) ([]observability.CallRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]observability.CallRecord{}, s.records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) Summary(_ context.Context, since time.Time) (observability.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := observability.Summary{Since: since, ByOutcome: map[observability.Outcome]int{}}
	var total time.Duration
	for _, r := range s.records {
		if r.StartedAt.Before(since) {
			continue
		}
		sum.Total++
		sum.ByOutcome[r.Outcome]++
		total += r.Duration
		if r.Duration > sum.MaxDuration {
			sum.MaxDuration = r.Duration
		}
	}
	if sum.Total > 0 {
		sum.AvgDuration = total / time.Duration(sum.Total)
	}
	return sum, nil
}
