package pluginsvc

import (
	"context"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc/metadata"

	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/eventbus"
	"github.com/kittynxr/maowbot/internal/registry"
	"github.com/kittynxr/maowbot/internal/rpc"
)

// fakeStream is a minimal in-memory rpc.PluginServiceSessionServer: inbound
// envelopes are fed via a channel, outbound sends are captured in a slice.
type fakeStream struct {
	ctx context.Context
	in  chan *rpc.Envelope

	mu  sync.Mutex
	out []*rpc.Envelope
}

func newFakeStream() *fakeStream {
	return &fakeStream{ctx: context.Background(), in: make(chan *rpc.Envelope, 16)}
}

func (f *fakeStream) push(env *rpc.Envelope) { f.in <- env }

func (f *fakeStream) Send(env *rpc.Envelope) error {
	f.mu.Lock()
	f.out = append(f.out, env)
	f.mu.Unlock()
	return nil
}

func (f *fakeStream) Recv() (*rpc.Envelope, error) {
	env, ok := <-f.in
	if !ok {
		return nil, context.Canceled
	}
	return env, nil
}

func (f *fakeStream) sent() []*rpc.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*rpc.Envelope, len(f.out))
	copy(out, f.out)
	return out
}

func (f *fakeStream) Context() context.Context            { return f.ctx }
func (f *fakeStream) SetHeader(metadata.MD) error          { return nil }
func (f *fakeStream) SendHeader(metadata.MD) error         { return nil }
func (f *fakeStream) SetTrailer(metadata.MD)               {}
func (f *fakeStream) SendMsg(m any) error                  { return nil }
func (f *fakeStream) RecvMsg(m any) error                  { return nil }

var _ rpc.PluginServiceSessionServer = (*fakeStream)(nil)

type noopOutbound struct{}

func (noopOutbound) SendChatMessage(context.Context, event.Platform, string, string, string) error {
	return nil
}
func (noopOutbound) TimeoutUser(context.Context, event.Platform, string, string, string, time.Duration, string) error {
	return nil
}
func (noopOutbound) AddDiscordRole(context.Context, string, string, string, string) error    { return nil }
func (noopOutbound) RemoveDiscordRole(context.Context, string, string, string, string) error { return nil }
func (noopOutbound) SetOBSScene(context.Context, string, string) error                       { return nil }
func (noopOutbound) ToggleOBSSource(context.Context, string, string, string, registry.OBSToggleMode) error {
	return nil
}
func (noopOutbound) SendOSCParameter(context.Context, string, string, any) error { return nil }

var _ registry.Outbound = noopOutbound{}

func waitForKind(t *testing.T, fs *fakeStream, kind rpc.EnvelopeKind, timeout time.Duration) *rpc.Envelope {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, env := range fs.sent() {
			if env.Kind == kind {
				return env
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for envelope kind %q, got %+v", kind, fs.sent())
	return nil
}

func TestSessionHappyPathGrantsCapabilitiesAndForwardsChat(t *testing.T) {
	bus := eventbus.New()
	svc := NewService(Config{BotName: "maowbot", Bus: bus})

	fs := newFakeStream()
	done := make(chan error, 1)
	go func() { done <- svc.Session(fs) }()

	fs.push(&rpc.Envelope{Kind: rpc.KindHello, Hello: &rpc.Hello{PluginName: "overlay"}})
	waitForKind(t, fs, rpc.KindWelcome, time.Second)

	fs.push(&rpc.Envelope{Kind: rpc.KindRequestCapabilities, RequestCapabilities: &rpc.RequestCapabilities{
		Requested: []rpc.Capability{rpc.CapReceiveChatEvents},
	}})
	capResp := waitForKind(t, fs, rpc.KindCapabilityResponse, time.Second)
	if len(capResp.CapabilityResponse.Granted) != 1 || capResp.CapabilityResponse.Granted[0] != rpc.CapReceiveChatEvents {
		t.Fatalf("expected ReceiveChatEvents granted, got %+v", capResp.CapabilityResponse)
	}

	// give the bus-forwarding goroutine a moment to subscribe before publishing
	time.Sleep(20 * time.Millisecond)
	bus.Publish(event.NewChatMessage(event.PlatformTwitchIRC, "#chan", "u1", "viewer", "hello", nil))

	chatEnv := waitForKind(t, fs, rpc.KindChatMessage, time.Second)
	if chatEnv.ChatMessage.Text != "hello" || chatEnv.ChatMessage.Channel != "#chan" {
		t.Fatalf("unexpected forwarded chat message: %+v", chatEnv.ChatMessage)
	}

	fs.push(&rpc.Envelope{Kind: rpc.KindShutdown, Shutdown: &rpc.Shutdown{Reason: "done"}})
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Session returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("session did not terminate after shutdown")
	}
}

func TestSessionWrongPassphraseSendsAuthError(t *testing.T) {
	svc := NewService(Config{BotName: "maowbot", Passphrase: "secret", Outbound: noopOutbound{}})

	fs := newFakeStream()
	done := make(chan error, 1)
	go func() { done <- svc.Session(fs) }()

	fs.push(&rpc.Envelope{Kind: rpc.KindHello, Hello: &rpc.Hello{PluginName: "overlay", Passphrase: "wrong"}})
	waitForKind(t, fs, rpc.KindAuthError, time.Second)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Session returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("session did not terminate after auth error")
	}
}

func TestSessionUnsupportedRunningRequestAnsweredWithErrorNotTermination(t *testing.T) {
	svc := NewService(Config{BotName: "maowbot", Outbound: noopOutbound{}})
	fs := newFakeStream()
	go func() { _ = svc.Session(fs) }()

	fs.push(&rpc.Envelope{Kind: rpc.KindHello, Hello: &rpc.Hello{PluginName: "overlay"}})
	waitForKind(t, fs, rpc.KindWelcome, time.Second)
	fs.push(&rpc.Envelope{Kind: rpc.KindRequestCapabilities, RequestCapabilities: &rpc.RequestCapabilities{}})
	waitForKind(t, fs, rpc.KindCapabilityResponse, time.Second)

	// SendChat without SendChat capability granted: answered, session stays up.
	fs.push(&rpc.Envelope{Kind: rpc.KindSendChat, SendChat: &rpc.SendChat{Channel: "#c", Text: "hi"}})
	errEnv := waitForKind(t, fs, rpc.KindErrorResponse, time.Second)
	if errEnv.ErrorResponse.InReplyTo != rpc.KindSendChat {
		t.Fatalf("expected error response for send_chat, got %+v", errEnv.ErrorResponse)
	}

	if svc.ActiveSessionCount() != 1 {
		t.Fatalf("expected session still running, active count = %d", svc.ActiveSessionCount())
	}
}
