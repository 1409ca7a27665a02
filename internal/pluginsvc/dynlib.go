package pluginsvc

import (
	"context"
	"fmt"
	"plugin"

	"google.golang.org/grpc/metadata"

	"github.com/kittynxr/maowbot/internal/rpc"
)

// SharedPlugin is the in-process counterpart of a gRPC-connected plugin: the
// contract a dynlib (.so) plugin's exported "Plugin" symbol must satisfy to
// drive a Running session without an actual network stream.
type SharedPlugin interface {
	Name() string
	Passphrase() string
	RequestedCapabilities() []rpc.Capability
	HandleEnvelope(env *rpc.Envelope)
}

// LoadShared opens a Go plugin built with -buildmode=plugin and looks up its
// exported "Plugin" symbol, which must implement SharedPlugin.
func LoadShared(path string) (SharedPlugin, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	sym, err := p.Lookup("Plugin")
	if err != nil {
		return nil, err
	}
	sp, ok := sym.(SharedPlugin)
	if !ok {
		return nil, fmt.Errorf("pluginsvc: %s's Plugin symbol does not implement SharedPlugin", path)
	}
	return sp, nil
}

// inprocStream implements rpc.PluginServiceSessionServer over two
// unbuffered channels instead of a network connection, so the same session
// state machine in session.go drives a dynlib plugin exactly as it drives a
// gRPC one. toPlugin carries server->plugin envelopes (what a real client
// would Recv); fromPlugin carries plugin->server envelopes (what a real
// client would Send).
type inprocStream struct {
	ctx        context.Context
	toPlugin   chan *rpc.Envelope
	fromPlugin chan *rpc.Envelope
}

func newInprocStream(ctx context.Context) *inprocStream {
	return &inprocStream{
		ctx:        ctx,
		toPlugin:   make(chan *rpc.Envelope),
		fromPlugin: make(chan *rpc.Envelope),
	}
}

func (s *inprocStream) Send(env *rpc.Envelope) error {
	select {
	case s.toPlugin <- env:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

func (s *inprocStream) Recv() (*rpc.Envelope, error) {
	select {
	case env := <-s.fromPlugin:
		return env, nil
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	}
}

func (s *inprocStream) Context() context.Context     { return s.ctx }
func (s *inprocStream) SetHeader(metadata.MD) error  { return nil }
func (s *inprocStream) SendHeader(metadata.MD) error { return nil }
func (s *inprocStream) SetTrailer(metadata.MD)       {}

func (s *inprocStream) SendMsg(m any) error {
	env, ok := m.(*rpc.Envelope)
	if !ok {
		return fmt.Errorf("pluginsvc: inprocStream.SendMsg: unexpected type %T", m)
	}
	return s.Send(env)
}

func (s *inprocStream) RecvMsg(m any) error {
	dst, ok := m.(*rpc.Envelope)
	if !ok {
		return fmt.Errorf("pluginsvc: inprocStream.RecvMsg: unexpected type %T", m)
	}
	env, err := s.Recv()
	if err != nil {
		return err
	}
	*dst = *env
	return nil
}

var _ rpc.PluginServiceSessionServer = (*inprocStream)(nil)

// RunShared drives a dynlib-transport Plugin Session for a loaded
// SharedPlugin in-process: it plays the plugin's side of Hello,
// CapabilityNegotiation and Running against an inprocStream while
// Service.Session runs the ordinary state machine on the other end.
// Blocks until the session ends or ctx is cancelled.
func (s *Service) RunShared(ctx context.Context, sp SharedPlugin) error {
	stream := newInprocStream(ctx)

	sessionErr := make(chan error, 1)
	go func() { sessionErr <- s.Session(stream) }()

	sendAsPlugin := func(env *rpc.Envelope) error {
		select {
		case stream.fromPlugin <- env:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	recvFromServer := func() (*rpc.Envelope, error) {
		select {
		case env := <-stream.toPlugin:
			return env, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := sendAsPlugin(&rpc.Envelope{
		Kind:  rpc.KindHello,
		Hello: &rpc.Hello{PluginName: sp.Name(), Passphrase: sp.Passphrase()},
	}); err != nil {
		return err
	}

	helloReply, err := recvFromServer()
	if err != nil {
		return err
	}
	if helloReply.Kind == rpc.KindAuthError {
		reason := ""
		if helloReply.AuthError != nil {
			reason = helloReply.AuthError.Reason
		}
		return fmt.Errorf("pluginsvc: dynlib plugin %q rejected: %s", sp.Name(), reason)
	}

	if err := sendAsPlugin(&rpc.Envelope{
		Kind:                rpc.KindRequestCapabilities,
		RequestCapabilities: &rpc.RequestCapabilities{Requested: sp.RequestedCapabilities()},
	}); err != nil {
		return err
	}
	if _, err := recvFromServer(); err != nil { // CapabilityResponse
		return err
	}

	for {
		env, err := recvFromServer()
		if err != nil {
			<-sessionErr
			return err
		}
		if env.Kind == rpc.KindShutdown || env.Kind == rpc.KindForceDisconnect {
			return <-sessionErr
		}
		sp.HandleEnvelope(env)
	}
}
