// Package pluginsvc implements the gRPC plugin session: the per-connection
// state machine (AwaitingHello -> HelloReceived -> CapabilityNegotiation ->
// Running -> Terminated, with an AuthError branch out of HelloReceived),
// capability-gated event forwarding, and backpressure-based session
// termination.
package pluginsvc

import (
	"sync"
	"time"

	"github.com/kittynxr/maowbot/internal/eventbus"
	"github.com/kittynxr/maowbot/internal/registry"
	"github.com/kittynxr/maowbot/internal/rpc"
)

const (
	defaultHelloTimeout           = 10 * time.Second
	defaultBackpressureThreshold  = 10000
)

// CapabilityPolicy decides which requested capabilities a plugin is granted.
type CapabilityPolicy interface {
	Evaluate(pluginName string, requested []rpc.Capability) (granted []rpc.Capability, denied []rpc.DenialReason)
}

// AllowAllPolicy grants every requested capability unconditionally. Useful
// for single-operator deployments where every connected plugin is trusted
// by construction (it ran the passphrase check to get this far).
type AllowAllPolicy struct{}

func (AllowAllPolicy) Evaluate(_ string, requested []rpc.Capability) ([]rpc.Capability, []rpc.DenialReason) {
	granted := make([]rpc.Capability, len(requested))
	copy(granted, requested)
	return granted, nil
}

// Config parameterizes a Service.
type Config struct {
	BotName    string
	Version    string
	Passphrase string // "" disables passphrase verification

	HelloTimeout          time.Duration // default 10s
	BackpressureThreshold int           // default 10000

	Policy   CapabilityPolicy // default AllowAllPolicy
	Outbound registry.Outbound
	Bus      *eventbus.Bus
	Store    *Store
}

func (c Config) helloTimeout() time.Duration {
	if c.HelloTimeout <= 0 {
		return defaultHelloTimeout
	}
	return c.HelloTimeout
}

func (c Config) backpressureThreshold() int {
	if c.BackpressureThreshold <= 0 {
		return defaultBackpressureThreshold
	}
	return c.BackpressureThreshold
}

func (c Config) policy() CapabilityPolicy {
	if c.Policy == nil {
		return AllowAllPolicy{}
	}
	return c.Policy
}

// Service implements rpc.PluginServiceServer: one Session call per plugin
// connection, each driven by its own session state machine.
type Service struct {
	rpc.UnimplementedPluginServiceServer

	cfg Config

	startedAt time.Time
	mu        sync.Mutex
	active    map[string]*session
}

// NewService returns a ready-to-use Service.
func NewService(cfg Config) *Service {
	return &Service{
		cfg:       cfg,
		startedAt: time.Now(),
		active:    make(map[string]*session),
	}
}

// Session implements rpc.PluginServiceServer.
func (s *Service) Session(stream rpc.PluginServiceSessionServer) error {
	sess := newSession(s, stream)
	return sess.run()
}

func (s *Service) registerActive(sess *session) {
	s.mu.Lock()
	s.active[sess.name] = sess
	s.mu.Unlock()
}

func (s *Service) unregisterActive(sess *session) {
	s.mu.Lock()
	if s.active[sess.name] == sess {
		delete(s.active, sess.name)
	}
	s.mu.Unlock()
}

// ActiveSessionCount returns the number of sessions currently in Running.
func (s *Service) ActiveSessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// ForceDisconnect ends the named plugin's running session, if any, sending
// ForceDisconnect{reason} before tearing down the stream. Returns false if
// no session with that name is currently running.
func (s *Service) ForceDisconnect(name, reason string) bool {
	s.mu.Lock()
	sess, ok := s.active[name]
	s.mu.Unlock()
	if !ok {
		return false
	}
	sess.enqueue(&rpc.Envelope{Kind: rpc.KindForceDisconnect, ForceDisconnect: &rpc.ForceDisconnect{Reason: reason}})
	if sess.cancel != nil {
		sess.cancel()
	}
	return true
}

func (s *Service) statusResponse() *rpc.StatusResponse {
	return &rpc.StatusResponse{
		Uptime:         time.Since(s.startedAt),
		ActiveSessions: s.ActiveSessionCount(),
		Version:        s.cfg.Version,
	}
}

var _ rpc.PluginServiceServer = (*Service)(nil)
