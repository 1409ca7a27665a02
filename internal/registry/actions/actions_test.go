package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/registry"
)

type fakeOutbound struct {
	timeoutCalls int
	lastUserID   string
}

func (f *fakeOutbound) SendChatMessage(context.Context, event.Platform, string, string, string) error {
	return nil
}

func (f *fakeOutbound) TimeoutUser(_ context.Context, _ event.Platform, _, _, userID string, _ time.Duration, _ string) error {
	f.timeoutCalls++
	f.lastUserID = userID
	return nil
}

func (f *fakeOutbound) AddDiscordRole(context.Context, string, string, string, string) error    { return nil }
func (f *fakeOutbound) RemoveDiscordRole(context.Context, string, string, string, string) error { return nil }
func (f *fakeOutbound) SetOBSScene(context.Context, string, string) error                       { return nil }
func (f *fakeOutbound) ToggleOBSSource(context.Context, string, string, string, registry.OBSToggleMode) error {
	return nil
}
func (f *fakeOutbound) SendOSCParameter(context.Context, string, string, any) error { return nil }

var _ registry.Outbound = (*fakeOutbound)(nil)

func newActionContext(ev event.Event, ob registry.Outbound) *registry.ActionContext {
	return &registry.ActionContext{
		EventContext: registry.EventContext{Context: context.Background(), Outbound: ob},
		Event:        ev,
		Scratch:      make(map[string]any),
	}
}

func TestTwitchTimeoutActionExecutesWithUserID(t *testing.T) {
	a := &TwitchTimeoutAction{}
	cfg, _ := json.Marshal(twitchTimeoutConfig{Channel: "#c", DurationSeconds: 30})
	if err := a.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	ob := &fakeOutbound{}
	ev := event.NewChatMessage(event.PlatformTwitchIRC, "#c", "u1", "alice", "spam", nil)
	res, err := a.Execute(newActionContext(ev, ob))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Outcome != registry.ActionSuccess {
		t.Fatalf("expected success, got %v", res.Outcome)
	}
	if ob.timeoutCalls != 1 || ob.lastUserID != "u1" {
		t.Fatalf("expected one timeout call for u1, got calls=%d user=%s", ob.timeoutCalls, ob.lastUserID)
	}
}

func TestTwitchTimeoutActionSkipsWithoutUserID(t *testing.T) {
	a := &TwitchTimeoutAction{}
	cfg, _ := json.Marshal(twitchTimeoutConfig{Channel: "#c", DurationSeconds: 30})
	if err := a.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	ob := &fakeOutbound{}
	ev := event.NewSystemTick()
	res, err := a.Execute(newActionContext(ev, ob))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Outcome != registry.ActionSkipped {
		t.Fatalf("expected skipped, got %v", res.Outcome)
	}
	if ob.timeoutCalls != 0 {
		t.Fatalf("expected no outbound call, got %d", ob.timeoutCalls)
	}
}

func TestWebhookActionRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := &WebhookAction{}
	cfg, _ := json.Marshal(webhookActionConfig{URL: srv.URL})
	if err := a.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	ev := event.NewSystemTick()
	res, err := a.Execute(newActionContext(ev, &fakeOutbound{}))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Outcome != registry.ActionSuccess {
		t.Fatalf("expected success, got %v", res.Outcome)
	}
	if attempts != 2 {
		t.Fatalf("expected exactly 2 attempts (fail then succeed), got %d", attempts)
	}
}
