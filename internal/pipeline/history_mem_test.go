package pipeline

import (
	"context"
	"testing"
	"time"
)

func TestMemHistoryStoreAppendAndFilterByPipeline(t *testing.T) {
	s := NewMemHistoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	records := []ExecutionRecord{
		{ExecutionID: "1", PipelineID: "p1", FinishedAt: now, Outcome: OutcomeMatched},
		{ExecutionID: "2", PipelineID: "p2", FinishedAt: now, Outcome: OutcomeMatched},
		{ExecutionID: "3", PipelineID: "p1", FinishedAt: now, Outcome: OutcomeErrored},
	}
	for _, r := range records {
		if err := s.AppendHistory(ctx, r); err != nil {
			t.Fatalf("AppendHistory: %v", err)
		}
	}

	got, err := s.History(ctx, "p1", 0, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records for p1, got %d", len(got))
	}
	// Newest first.
	if got[0].ExecutionID != "3" || got[1].ExecutionID != "1" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestMemHistoryStoreEvictsByCount(t *testing.T) {
	s := NewMemHistoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < MemHistoryMaxRecords+50; i++ {
		_ = s.AppendHistory(ctx, ExecutionRecord{
			ExecutionID: time.Now().UTC().String(),
			PipelineID:  "p1",
			FinishedAt:  now,
		})
	}
	if len(s.recs) != MemHistoryMaxRecords {
		t.Fatalf("expected eviction to cap at %d records, got %d", MemHistoryMaxRecords, len(s.recs))
	}
}

func TestMemHistoryStorePagination(t *testing.T) {
	s := NewMemHistoryStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = s.AppendHistory(ctx, ExecutionRecord{ExecutionID: string(rune('a' + i)), PipelineID: "p1", FinishedAt: time.Now().UTC()})
	}
	page, err := s.History(ctx, "p1", 2, 1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected page of 2, got %d", len(page))
	}
}
