package pluginsvc

import (
	"context"
	"io"
	"sync"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/eventbus"
	"github.com/kittynxr/maowbot/internal/logging"
	"github.com/kittynxr/maowbot/internal/rpc"
)

// State is the plugin session state machine's current phase.
type State string

const (
	StateAwaitingHello         State = "awaiting_hello"
	StateHelloReceived         State = "hello_received"
	StateCapabilityNegotiation State = "capability_negotiation"
	StateRunning               State = "running"
	StateAuthError             State = "auth_error"
	StateTerminated            State = "terminated"
)

// session drives one plugin connection through AwaitingHello ->
// HelloReceived -> CapabilityNegotiation -> Running -> Terminated (or the
// AuthError branch out of HelloReceived).
type session struct {
	svc    *Service
	stream rpc.PluginServiceSessionServer

	name    string
	state   State
	granted map[rpc.Capability]bool

	out    *outboundQueue
	cancel context.CancelFunc

	forceOnce sync.Once
}

func newSession(svc *Service, stream rpc.PluginServiceSessionServer) *session {
	return &session{
		svc:     svc,
		stream:  stream,
		state:   StateAwaitingHello,
		granted: make(map[rpc.Capability]bool),
		out:     newOutboundQueue(),
	}
}

// run executes the full state machine for one stream; its error return is
// the stream's final gRPC status.
func (s *session) run() error {
	env, err := s.recvWithTimeout(s.svc.cfg.helloTimeout())
	if err != nil {
		return err
	}
	if env.Kind != rpc.KindHello || env.Hello == nil {
		return status.Error(codes.FailedPrecondition, "pluginsvc: expected hello as first message")
	}
	s.name = env.Hello.PluginName
	s.state = StateHelloReceived

	if denyReason, ok := s.checkAuth(env.Hello); !ok {
		s.state = StateAuthError
		_ = s.send(&rpc.Envelope{Kind: rpc.KindAuthError, AuthError: &rpc.AuthError{Reason: denyReason}})
		s.state = StateTerminated
		return nil
	}

	if err := s.send(&rpc.Envelope{Kind: rpc.KindWelcome, Welcome: &rpc.Welcome{BotName: s.svc.cfg.BotName}}); err != nil {
		return err
	}

	s.state = StateCapabilityNegotiation
	if err := s.negotiateCapabilities(); err != nil {
		return err
	}

	s.state = StateRunning
	s.svc.registerActive(s)
	defer s.svc.unregisterActive(s)

	err = s.runLoop()
	s.state = StateTerminated
	return err
}

// checkAuth verifies the passphrase (when one is configured) and the plugin
// store's disabled flag. The returned reason is only meaningful when ok is
// false.
func (s *session) checkAuth(hello *rpc.Hello) (reason string, ok bool) {
	if s.svc.cfg.Passphrase != "" && hello.Passphrase != s.svc.cfg.Passphrase {
		return "invalid passphrase", false
	}
	if s.svc.cfg.Store != nil && s.svc.cfg.Store.IsDisabled(s.name) {
		return "plugin disabled", false
	}
	return "", true
}

// negotiateCapabilities waits for RequestCapabilities, answering any other
// message kind with a non-terminating ErrorResponse — the same tolerance
// Running grants unsupported requests, since only the happy path out of
// this state is well-defined.
func (s *session) negotiateCapabilities() error {
	for {
		env, err := s.recvBlocking()
		if err != nil {
			return err
		}
		if env.Kind == rpc.KindRequestCapabilities && env.RequestCapabilities != nil {
			granted, denied := s.svc.cfg.policy().Evaluate(s.name, env.RequestCapabilities.Requested)
			for _, c := range granted {
				s.granted[c] = true
			}
			return s.send(&rpc.Envelope{
				Kind:               rpc.KindCapabilityResponse,
				CapabilityResponse: &rpc.CapabilityResponse{Granted: granted, Denied: denied},
			})
		}
		if err := s.send(&rpc.Envelope{
			Kind:          rpc.KindErrorResponse,
			ErrorResponse: &rpc.ErrorResponse{InReplyTo: env.Kind, Message: "expected request_capabilities"},
		}); err != nil {
			return err
		}
	}
}

// runLoop is the Running phase: a reader goroutine (this one), a writer
// goroutine draining s.out, and a bus-forwarding goroutine, all torn down
// together via ctx cancellation.
func (s *session) runLoop() error {
	ctx, cancel := context.WithCancel(s.stream.Context())
	s.cancel = cancel
	defer cancel()

	writerDone := make(chan error, 1)
	go func() { writerDone <- s.writeLoop(ctx) }()

	if s.svc.cfg.Bus != nil && len(s.granted) > 0 {
		recv := s.svc.cfg.Bus.Subscribe(0)
		defer s.svc.cfg.Bus.Unsubscribe(recv)
		go s.forwardBusEvents(ctx, recv)
	}

	for {
		env, err := s.stream.Recv()
		if err != nil {
			cancel()
			<-writerDone
			if err == io.EOF {
				return nil
			}
			return err
		}

		terminate, herr := s.handleRunning(ctx, env)
		if herr != nil {
			cancel()
			<-writerDone
			return herr
		}
		if terminate {
			cancel()
			<-writerDone
			return nil
		}
	}
}

func (s *session) handleRunning(ctx context.Context, env *rpc.Envelope) (terminate bool, err error) {
	switch env.Kind {
	case rpc.KindLogMessage:
		if env.LogMessage != nil {
			logging.Logger().Sugar().Infow("plugin log", "plugin", s.name, "level", env.LogMessage.Level, "message", env.LogMessage.Message)
		}
		return false, nil

	case rpc.KindRequestStatus:
		s.enqueue(&rpc.Envelope{Kind: rpc.KindStatusResponse, StatusResponse: s.svc.statusResponse()})
		return false, nil

	case rpc.KindSendChat:
		if !s.granted[rpc.CapSendChat] || env.SendChat == nil {
			s.enqueue(errorResponseFor(env.Kind, "send_chat not granted"))
			return false, nil
		}
		req := env.SendChat
		if err := s.svc.cfg.Outbound.SendChatMessage(ctx, req.Platform, req.Account, req.Channel, req.Text); err != nil {
			s.enqueue(errorResponseFor(env.Kind, err.Error()))
		}
		return false, nil

	case rpc.KindSwitchScene:
		if !s.granted[rpc.CapSceneManagement] || env.SwitchScene == nil {
			s.enqueue(errorResponseFor(env.Kind, "scene_management not granted"))
			return false, nil
		}
		req := env.SwitchScene
		if err := s.svc.cfg.Outbound.SetOBSScene(ctx, req.Account, req.Scene); err != nil {
			s.enqueue(errorResponseFor(env.Kind, err.Error()))
		}
		return false, nil

	case rpc.KindShutdown:
		return true, nil

	default:
		s.enqueue(errorResponseFor(env.Kind, "unsupported request"))
		return false, nil
	}
}

func (s *session) forwardBusEvents(ctx context.Context, recv eventbus.Receiver) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-recv.Shutdown:
			return
		case ev, ok := <-recv.C:
			if !ok {
				return
			}
			s.forwardOne(ev)
		}
	}
}

func (s *session) forwardOne(ev event.Event) {
	if cm, ok := ev.(event.ChatMessage); ok {
		if !s.granted[rpc.CapReceiveChatEvents] {
			return
		}
		s.enqueue(&rpc.Envelope{
			Kind: rpc.KindChatMessage,
			ChatMessage: &rpc.ChatMessagePayload{
				Platform: cm.Plat(),
				Channel:  cm.Channel,
				UserID:   cm.UserID,
				UserName: cm.UserName,
				Text:     cm.Text,
				Time:     cm.Time(),
			},
		})
		return
	}

	if !s.granted[rpc.CapSceneManagement] {
		return
	}
	s.enqueue(&rpc.Envelope{
		Kind: rpc.KindPlatformEvent,
		PlatformEvent: &rpc.PlatformEventPayload{
			Kind:     ev.Kind(),
			Platform: ev.Plat(),
			Time:     ev.Time(),
			Metadata: ev.Meta(),
		},
	})
}

// enqueue pushes env onto the outbound queue. A queue depth past the
// configured backpressure threshold means the writer cannot keep up, so
// the session is considered dead and torn down.
func (s *session) enqueue(env *rpc.Envelope) {
	depth := s.out.push(env)
	if depth > s.svc.cfg.backpressureThreshold() {
		s.forceOnce.Do(func() {
			logging.Logger().Sugar().Warnw("pluginsvc: session exceeded backpressure threshold, terminating",
				"plugin", s.name, "depth", depth)
			if s.cancel != nil {
				s.cancel()
			}
		})
	}
}

func errorResponseFor(kind rpc.EnvelopeKind, msg string) *rpc.Envelope {
	return &rpc.Envelope{Kind: rpc.KindErrorResponse, ErrorResponse: &rpc.ErrorResponse{InReplyTo: kind, Message: msg}}
}

func (s *session) writeLoop(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.out.close()
	}()
	for {
		env, ok := s.out.pop()
		if !ok {
			return nil
		}
		if err := s.stream.Send(env); err != nil {
			return err
		}
	}
}

// send writes directly to the stream; only safe before runLoop starts its
// writer goroutine, i.e. during the handshake and capability negotiation
// where exactly one goroutine touches the stream.
func (s *session) send(env *rpc.Envelope) error {
	return s.stream.Send(env)
}

func (s *session) recvBlocking() (*rpc.Envelope, error) {
	return s.stream.Recv()
}

// recvWithTimeout adds an idle deadline to a single Recv call. The bidi
// stream's own context has no per-message deadline, so this spawns a
// one-shot goroutine and races it against a timer — the standard way to
// bound a blocking call that offers no native cancellation hook.
func (s *session) recvWithTimeout(d time.Duration) (*rpc.Envelope, error) {
	type result struct {
		env *rpc.Envelope
		err error
	}
	ch := make(chan result, 1)
	go func() {
		env, err := s.stream.Recv()
		ch <- result{env, err}
	}()

	select {
	case r := <-ch:
		return r.env, r.err
	case <-time.After(d):
		return nil, status.Error(codes.DeadlineExceeded, "pluginsvc: no hello received within idle timeout")
	case <-s.stream.Context().Done():
		return nil, s.stream.Context().Err()
	}
}
