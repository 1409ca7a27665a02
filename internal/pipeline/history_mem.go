package pipeline

import (
	"context"
	"sync"
	"time"
)

// MemHistoryMaxRecords and MemHistoryMaxAge bound MemHistoryStore's
// retention: the most recent 10,000 records or 7 days, whichever limit is
// hit first. Execution records have unbounded per-record size (arbitrary
// action result messages), so unlike a pure ring buffer this store also
// enforces a hard count cap rather than relying on duration alone.
const (
	MemHistoryMaxRecords = 10_000
	MemHistoryMaxAge     = 7 * 24 * time.Hour
)

// MemHistoryStore is an in-memory, per-process HistoryStore. Records are
// kept in a single slice ordered by append time; eviction happens lazily on
// append, trimming from the front (oldest first).
type MemHistoryStore struct {
	mu   sync.Mutex
	recs []ExecutionRecord
}

// NewMemHistoryStore returns an empty, ready-to-use MemHistoryStore.
func NewMemHistoryStore() *MemHistoryStore {
	return &MemHistoryStore{}
}

func (s *MemHistoryStore) AppendHistory(_ context.Context, rec ExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	s.evictLocked()
	return nil
}

func (s *MemHistoryStore) evictLocked() {
	cutoff := time.Now().UTC().Add(-MemHistoryMaxAge)
	start := 0
	for start < len(s.recs) && s.recs[start].FinishedAt.Before(cutoff) {
		start++
	}
	if start > 0 {
		s.recs = append([]ExecutionRecord(nil), s.recs[start:]...)
	}
	if over := len(s.recs) - MemHistoryMaxRecords; over > 0 {
		s.recs = append([]ExecutionRecord(nil), s.recs[over:]...)
	}
}

func (s *MemHistoryStore) History(_ context.Context, pipelineID string, limit, offset int) ([]ExecutionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]ExecutionRecord, 0, len(s.recs))
	for i := len(s.recs) - 1; i >= 0; i-- {
		r := s.recs[i]
		if pipelineID != "" && r.PipelineID != pipelineID {
			continue
		}
		filtered = append(filtered, r)
	}
	return paginate(filtered, limit, offset), nil
}

var _ HistoryStore = (*MemHistoryStore)(nil)
