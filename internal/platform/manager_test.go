package platform

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
)

type countingRuntime struct {
	starts    int32
	connected atomic.Bool
	chatText  atomic.Value
}

func (r *countingRuntime) Start(context.Context) error {
	atomic.AddInt32(&r.starts, 1)
	r.connected.Store(true)
	return nil
}
func (r *countingRuntime) Stop(context.Context) error {
	r.connected.Store(false)
	return nil
}
func (r *countingRuntime) IsConnected() bool { return r.connected.Load() }

func (r *countingRuntime) SendChat(_ context.Context, _, text string) error {
	r.chatText.Store(text)
	return nil
}
func (r *countingRuntime) Timeout(context.Context, string, string, time.Duration, string) error {
	return nil
}
func (r *countingRuntime) JoinChannel(context.Context, string) error  { return nil }
func (r *countingRuntime) PartChannel(context.Context, string) error  { return nil }
func (r *countingRuntime) AddRole(context.Context, string, string, string) error    { return nil }
func (r *countingRuntime) RemoveRole(context.Context, string, string, string) error { return nil }
func (r *countingRuntime) SetScene(context.Context, string) error { return nil }
func (r *countingRuntime) ToggleSource(context.Context, string, string, ToggleMode) error {
	return nil
}
func (r *countingRuntime) SendOSC(context.Context, string, any) error { return nil }

var _ Runtime = (*countingRuntime)(nil)

func TestManagerStartIsIdempotentAndCoalesces(t *testing.T) {
	m := NewManager()
	rt := &countingRuntime{}
	key := Key{Platform: event.PlatformTwitchIRC, Account: "bot"}
	m.Register(key, rt)

	const n = 20
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() { errs <- m.Start(context.Background(), key) }()
	}
	for i := 0; i < n; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("Start: %v", err)
		}
	}

	if !m.IsConnected(key) {
		t.Fatal("expected runtime to be connected after Start")
	}
	// singleflight coalesces concurrent callers into very few underlying
	// Start calls; well under n regardless of scheduling.
	if atomic.LoadInt32(&rt.starts) >= n {
		t.Fatalf("expected coalesced starts, got %d calls for %d concurrent callers", rt.starts, n)
	}

	if err := m.Start(context.Background(), key); err != nil {
		t.Fatalf("Start on already-connected runtime: %v", err)
	}
}

func TestManagerStartUnknownAccountReturnsPlatformError(t *testing.T) {
	m := NewManager()
	err := m.Start(context.Background(), Key{Platform: event.PlatformDiscord, Account: "ghost"})
	if err == nil {
		t.Fatal("expected error for unregistered account")
	}
	if apperr.KindOf(err) != apperr.KindPlatform {
		t.Fatalf("expected KindPlatform, got %v", apperr.KindOf(err))
	}
}

type staticAutostart struct{ rows []AutostartRow }

func (s staticAutostart) ListAutostart(context.Context) ([]AutostartRow, error) { return s.rows, nil }

func TestManagerAutostartStartsOnlyEnabledRowsConcurrently(t *testing.T) {
	m := NewManager()
	a := &countingRuntime{}
	b := &countingRuntime{}
	keyA := Key{Platform: event.PlatformTwitchIRC, Account: "a"}
	keyB := Key{Platform: event.PlatformDiscord, Account: "b"}
	m.Register(keyA, a)
	m.Register(keyB, b)

	store := staticAutostart{rows: []AutostartRow{
		{Platform: event.PlatformTwitchIRC, Account: "a", Enabled: true},
		{Platform: event.PlatformDiscord, Account: "b", Enabled: false},
	}}

	if err := m.AutostartFrom(context.Background(), store); err != nil {
		t.Fatalf("AutostartFrom: %v", err)
	}
	if !a.IsConnected() {
		t.Fatal("expected enabled account a to be started")
	}
	if b.IsConnected() {
		t.Fatal("expected disabled account b to stay stopped")
	}
}

func TestManagerSendChatMessageDispatchesToRegisteredRuntime(t *testing.T) {
	m := NewManager()
	rt := &countingRuntime{}
	key := Key{Platform: event.PlatformTwitchIRC, Account: "bot"}
	m.Register(key, rt)

	if err := m.SendChatMessage(context.Background(), event.PlatformTwitchIRC, "bot", "#c", "hello"); err != nil {
		t.Fatalf("SendChatMessage: %v", err)
	}
	if got, _ := rt.chatText.Load().(string); got != "hello" {
		t.Fatalf("expected chat text %q, got %q", "hello", got)
	}
}
