package executor_test

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/executor"
	"github.com/kittynxr/maowbot/internal/pipeline"
	"github.com/kittynxr/maowbot/internal/registry"

	_ "github.com/kittynxr/maowbot/internal/registry/actions"
	_ "github.com/kittynxr/maowbot/internal/registry/filters"
)

// flakyAction fails its first failUntil calls then succeeds, counting total
// invocations so tests can assert retry behavior.
type flakyAction struct {
	registry.BaseAction
	failUntil int32
	calls     int32
}

func (a *flakyAction) Configure(json.RawMessage) error { return nil }

func (a *flakyAction) Execute(*registry.ActionContext) (registry.ActionExecResult, error) {
	n := atomic.AddInt32(&a.calls, 1)
	if n <= a.failUntil {
		return registry.ActionExecResult{}, assertErr
	}
	return registry.ActionExecResult{Outcome: registry.ActionSuccess}, nil
}

var assertErr = errTest("flaky action call failed")

type errTest string

func (e errTest) Error() string { return string(e) }

func init() {
	registry.RegisterAction("test_flaky_succeeds_on_third", func() registry.Action { return &flakyAction{failUntil: 2} })
	registry.RegisterAction("test_flaky_always_fails", func() registry.Action { return &flakyAction{failUntil: 1000} })
}

func newStore(p pipeline.Pipeline) pipeline.Store {
	s := pipeline.NewMemStore()
	_ = s.Upsert(context.Background(), p)
	_ = s.Reload(context.Background())
	return s
}

func TestExecutorCooldownFilterSkipsSecondEventWithinWindow(t *testing.T) {
	p := pipeline.Pipeline{
		ID:       "p1",
		Priority: 100,
		Enabled:  true,
		Filters: []pipeline.FilterBinding{
			{ID: "f1", TypeKey: "cooldown_filter", Order: 0, Required: true,
				Config: mustJSON(t, map[string]any{"cooldown_seconds": 3600, "per_user": true})},
		},
		Actions: []pipeline.ActionBinding{
			{ID: "a1", TypeKey: "log_action", Order: 0,
				Config: mustJSON(t, map[string]any{"level": "info", "prefix": "welcome"})},
		},
	}
	store := newStore(p)
	history := pipeline.NewMemHistoryStore()
	ex := &executor.Executor{Store: store, History: history}

	ev := event.NewChatMessage(event.PlatformTwitchIRC, "#c", "alice", "alice", "hi", nil)

	ex.Dispatch(context.Background(), ev)
	ex.Dispatch(context.Background(), ev)

	recs, err := history.History(context.Background(), "p1", 0, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 execution records, got %d", len(recs))
	}
	// newest first
	if recs[0].Outcome != pipeline.OutcomeSkippedByFilter {
		t.Fatalf("expected second dispatch to be skipped by filter, got %v", recs[0].Outcome)
	}
	if recs[1].Outcome != pipeline.OutcomeMatched {
		t.Fatalf("expected first dispatch to match, got %v", recs[1].Outcome)
	}
}

func TestExecutorActionRetriesThenSucceeds(t *testing.T) {
	p := pipeline.Pipeline{
		ID:       "p1",
		Priority: 100,
		Enabled:  true,
		Actions: []pipeline.ActionBinding{
			{ID: "a1", TypeKey: "test_flaky_succeeds_on_third", Order: 0,
				RetryCount: 2, RetryDelayMs: 10, TimeoutMs: 50},
		},
	}
	store := newStore(p)
	history := pipeline.NewMemHistoryStore()
	ex := &executor.Executor{Store: store, History: history}

	ex.Dispatch(context.Background(), event.NewSystemTick())

	recs, err := history.History(context.Background(), "p1", 0, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 execution record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Outcome != pipeline.OutcomeMatched {
		t.Fatalf("expected matched, got %v", rec.Outcome)
	}
	if len(rec.ActionResults) != 1 || rec.ActionResults[0].Outcome != pipeline.ActionSuccess {
		t.Fatalf("expected one successful action result, got %+v", rec.ActionResults)
	}
	if rec.ActionResults[0].DurationMs < 20 {
		t.Fatalf("expected duration_ms >= 20 (two retry delays of 10ms), got %d", rec.ActionResults[0].DurationMs)
	}
}

func TestExecutorStopOnErrorAbortsLaterPipelines(t *testing.T) {
	failing := pipeline.Pipeline{
		ID:          "p1",
		Priority:    1,
		Enabled:     true,
		StopOnError: true,
		Actions: []pipeline.ActionBinding{
			{ID: "a1", TypeKey: "test_flaky_always_fails", Order: 0,
				RetryCount: 2, RetryDelayMs: 1, TimeoutMs: 50},
		},
	}
	later := pipeline.Pipeline{
		ID:       "p2",
		Priority: 2,
		Enabled:  true,
		Actions: []pipeline.ActionBinding{
			{ID: "a1", TypeKey: "log_action", Order: 0,
				Config: mustJSON(t, map[string]any{"level": "info", "prefix": "x"})},
		},
	}
	store := pipeline.NewMemStore()
	_ = store.Upsert(context.Background(), failing)
	_ = store.Upsert(context.Background(), later)
	_ = store.Reload(context.Background())

	history := pipeline.NewMemHistoryStore()
	ex := &executor.Executor{Store: store, History: history}

	ex.Dispatch(context.Background(), event.NewSystemTick())

	recs, err := history.History(context.Background(), "", 0, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected exactly 1 execution record (p2 must not run), got %d", len(recs))
	}
	if recs[0].PipelineID != "p1" || recs[0].Outcome != pipeline.OutcomeErrored {
		t.Fatalf("expected p1 errored record, got %+v", recs[0])
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
