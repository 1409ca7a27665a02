package pluginsvc

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/eventbus"
	"github.com/kittynxr/maowbot/internal/rpc"
)

// fakeSharedPlugin is an in-process stand-in for a loaded .so's "Plugin"
// symbol: it records every envelope the Running phase hands it.
type fakeSharedPlugin struct {
	name         string
	passphrase   string
	capabilities []rpc.Capability

	mu       sync.Mutex
	received []*rpc.Envelope
}

func (p *fakeSharedPlugin) Name() string                             { return p.name }
func (p *fakeSharedPlugin) Passphrase() string                       { return p.passphrase }
func (p *fakeSharedPlugin) RequestedCapabilities() []rpc.Capability   { return p.capabilities }
func (p *fakeSharedPlugin) HandleEnvelope(env *rpc.Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received = append(p.received, env)
}

func (p *fakeSharedPlugin) receivedKinds() []rpc.EnvelopeKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]rpc.EnvelopeKind, len(p.received))
	for i, env := range p.received {
		out[i] = env.Kind
	}
	return out
}

var _ SharedPlugin = (*fakeSharedPlugin)(nil)

func TestRunSharedForwardsChatEventsAfterNegotiation(t *testing.T) {
	bus := eventbus.New()
	svc := NewService(Config{BotName: "maowbot", Bus: bus})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sp := &fakeSharedPlugin{name: "dynlib-overlay", capabilities: []rpc.Capability{rpc.CapReceiveChatEvents}}
	done := make(chan error, 1)
	go func() { done <- svc.RunShared(ctx, sp) }()

	deadline := time.Now().Add(time.Second)
	for svc.ActiveSessionCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if svc.ActiveSessionCount() != 1 {
		t.Fatalf("expected dynlib session to register as active, count = %d", svc.ActiveSessionCount())
	}

	bus.Publish(event.NewChatMessage(event.PlatformTwitchIRC, "#chan", "u1", "viewer", "hi", nil))

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		for _, k := range sp.receivedKinds() {
			if k == rpc.KindChatMessage {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("dynlib plugin never received a forwarded chat message, got %+v", sp.receivedKinds())
}

func TestRunSharedWrongPassphraseReturnsError(t *testing.T) {
	svc := NewService(Config{BotName: "maowbot", Passphrase: "secret"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sp := &fakeSharedPlugin{name: "dynlib-overlay", passphrase: "wrong"}
	err := svc.RunShared(ctx, sp)
	if err == nil {
		t.Fatal("expected RunShared to fail on wrong passphrase")
	}
}
