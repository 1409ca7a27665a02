package pipeline

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/atomic"

	"github.com/kittynxr/maowbot/internal/apperr"
)

// Store is the pipeline repository contract. Reload atomically swaps the
// Snapshot() the pipeline executor reads from; it must be called after any
// mutating call whose effect the executor should observe (the facade calls
// it automatically after Upsert/Delete).
type Store interface {
	ListPipelines(ctx context.Context, includeDisabled bool) ([]Pipeline, error)
	Get(ctx context.Context, id string) (Pipeline, error)
	Upsert(ctx context.Context, p Pipeline) error
	Delete(ctx context.Context, id string) error
	Reload(ctx context.Context) error
	// Snapshot returns the current sorted, enabled-only pipeline list. It is
	// safe to call concurrently with any other Store method.
	Snapshot() []Pipeline
}

// MemStore is an in-memory Store. Mutations go through a mutex-guarded map;
// the read-hot path (Snapshot, used by the executor on every event) is a
// copy-on-write atomic.Pointer so it never blocks on the map's mutex.
type MemStore struct {
	mu   sync.Mutex
	byID map[string]Pipeline

	snapshot atomic.Pointer[[]Pipeline]
}

// NewMemStore returns an empty, ready-to-use MemStore.
func NewMemStore() *MemStore {
	s := &MemStore{byID: make(map[string]Pipeline)}
	empty := make([]Pipeline, 0)
	s.snapshot.Store(&empty)
	return s
}

func (s *MemStore) ListPipelines(_ context.Context, includeDisabled bool) ([]Pipeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Pipeline, 0, len(s.byID))
	for _, p := range s.byID {
		if !includeDisabled && !p.Enabled {
			continue
		}
		out = append(out, p.Clone())
	}
	sortPipelines(out)
	return out, nil
}

func (s *MemStore) Get(_ context.Context, id string) (Pipeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return Pipeline{}, apperr.New(apperr.KindNotFound, "pipeline not found")
	}
	return p.Clone(), nil
}

func (s *MemStore) Upsert(_ context.Context, p Pipeline) error {
	if p.ID == "" {
		return apperr.New(apperr.KindInvalidInput, "pipeline id is required")
	}
	s.mu.Lock()
	s.byID[p.ID] = p.Clone()
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return apperr.New(apperr.KindNotFound, "pipeline not found")
	}
	delete(s.byID, id)
	return nil
}

// Reload rebuilds the sorted, enabled-only snapshot and atomically installs
// it. The executor's in-flight events keep seeing the snapshot they started
// against; only events dispatched after this call observe the new one.
func (s *MemStore) Reload(_ context.Context) error {
	s.mu.Lock()
	out := make([]Pipeline, 0, len(s.byID))
	for _, p := range s.byID {
		if p.Enabled {
			out = append(out, p.Clone())
		}
	}
	s.mu.Unlock()

	sortPipelines(out)
	s.snapshot.Store(&out)
	return nil
}

func (s *MemStore) Snapshot() []Pipeline {
	return *s.snapshot.Load()
}

func sortPipelines(p []Pipeline) {
	sort.Slice(p, func(i, j int) bool {
		if p[i].Priority != p[j].Priority {
			return p[i].Priority < p[j].Priority
		}
		return p[i].ID < p[j].ID
	})
}

var _ Store = (*MemStore)(nil)
