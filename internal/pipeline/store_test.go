package pipeline

import (
	"context"
	"testing"
)

func TestMemStoreSnapshotOrderingAndReload(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	pipelines := []Pipeline{
		{ID: "b", Priority: 10, Enabled: true},
		{ID: "a", Priority: 10, Enabled: true},
		{ID: "z", Priority: 5, Enabled: true},
		{ID: "disabled", Priority: 1, Enabled: false},
	}
	for _, p := range pipelines {
		if err := s.Upsert(ctx, p); err != nil {
			t.Fatalf("Upsert(%s): %v", p.ID, err)
		}
	}

	if got := s.Snapshot(); len(got) != 0 {
		t.Fatalf("expected empty snapshot before Reload, got %d", len(got))
	}

	if err := s.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	snap := s.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 enabled pipelines in snapshot, got %d", len(snap))
	}
	wantOrder := []string{"z", "a", "b"}
	for i, want := range wantOrder {
		if snap[i].ID != want {
			t.Fatalf("snapshot[%d] = %s, want %s (priority asc, id asc tiebreak)", i, snap[i].ID, want)
		}
	}
}

func TestMemStoreUpsertIsIdempotent(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()
	p := Pipeline{ID: "p1", Name: "welcome", Priority: 100, Enabled: true}

	if err := s.Upsert(ctx, p); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	if err := s.Upsert(ctx, p); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	got, err := s.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "welcome" || got.Priority != 100 {
		t.Fatalf("unexpected state after idempotent upsert: %+v", got)
	}
	all, err := s.ListPipelines(ctx, true)
	if err != nil {
		t.Fatalf("ListPipelines: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one pipeline after duplicate upsert, got %d", len(all))
	}
}

func TestMemStoreDeleteNotFound(t *testing.T) {
	s := NewMemStore()
	if err := s.Delete(context.Background(), "nope"); err == nil {
		t.Fatal("expected error deleting nonexistent pipeline")
	}
}
