// Package controlplane exposes the thin gRPC facade over the event pipeline
// engine, the credential lifecycle manager and the platform manager, plus
// the plugin runtime's bidi-stream session endpoint, behind one
// *grpc.Server registering both ControlService and PluginService.
package controlplane

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/kittynxr/maowbot/internal/logging"
	"github.com/kittynxr/maowbot/internal/pluginsvc"
	"github.com/kittynxr/maowbot/internal/rpc"
)

// Config parameterizes the control-plane server.
type Config struct {
	ListenAddr string
	TLSConfig  *tls.Config // nil serves plaintext
	Auth       AuthConfig
}

// Server bundles the ControlService facade and the PluginService runtime
// behind a single *grpc.Server listening on one address.
type Server struct {
	cfg     Config
	facade  *Facade
	plugins *pluginsvc.Service
	grpcSrv *grpc.Server
}

// New wires facade and plugins onto a fresh *grpc.Server. Call
// ListenAndServe to start serving.
func New(cfg Config, facade *Facade, plugins *pluginsvc.Service) *Server {
	s := &Server{cfg: cfg, facade: facade, plugins: plugins}

	var opts []grpc.ServerOption
	if cfg.TLSConfig != nil {
		opts = append(opts, grpc.Creds(credentials.NewTLS(cfg.TLSConfig)))
	}
	authn := newAuthenticator(cfg.Auth)
	opts = append(opts, grpc.ChainUnaryInterceptor(authn.UnaryInterceptor()))

	s.grpcSrv = grpc.NewServer(opts...)
	rpc.RegisterControlServiceServer(s.grpcSrv, facade)
	rpc.RegisterPluginServiceServer(s.grpcSrv, plugins)
	return s
}

// ListenAndServe blocks, serving until ctx is cancelled, then drains
// in-flight RPCs before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		stopped := make(chan struct{})
		go func() {
			s.grpcSrv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(30 * time.Second):
			logging.Logger().Sugar().Warn("control-plane: graceful stop timed out, forcing")
			s.grpcSrv.Stop()
		}
	}()

	logging.Logger().Sugar().Infow("control-plane: listening", "addr", s.cfg.ListenAddr)
	return s.grpcSrv.Serve(ln)
}
