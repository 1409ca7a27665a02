package pipeline

import (
	"context"
)

// HistoryStore persists ExecutionRecords (append-only) and serves paginated
// reads. Retention is bounded; see the two implementations for the bound
// each enforces.
type HistoryStore interface {
	AppendHistory(ctx context.Context, rec ExecutionRecord) error
	History(ctx context.Context, pipelineID string, limit, offset int) ([]ExecutionRecord, error)
}

// paginate applies a limit/offset window over recs, already in
// newest-first order.
func paginate(recs []ExecutionRecord, limit, offset int) []ExecutionRecord {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(recs) {
		return []ExecutionRecord{}
	}
	end := len(recs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]ExecutionRecord, end-offset)
	copy(out, recs[offset:end])
	return out
}
