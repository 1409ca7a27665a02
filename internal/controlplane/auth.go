package controlplane

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/kittynxr/maowbot/pkg/auth"
)

// AuthConfig implements bearer/JWT precedence: a JWT verifier, when
// configured, takes precedence over a static shared token.
type AuthConfig struct {
	StaticToken string // "" disables static-token auth
	JWTSecret   []byte // nil disables JWT auth
	JWTIssuer   string
}

type authenticator struct {
	cfg      AuthConfig
	verifier *auth.Verifier
}

func newAuthenticator(cfg AuthConfig) *authenticator {
	a := &authenticator{cfg: cfg}
	if len(cfg.JWTSecret) > 0 {
		a.verifier = auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	}
	return a
}

func (a *authenticator) validate(token string) error {
	token = strings.TrimPrefix(token, "Bearer ")
	if a.verifier != nil {
		_, err := a.verifier.ParseAndVerify(token)
		if err != nil {
			return status.Error(codes.Unauthenticated, "invalid token")
		}
		return nil
	}
	if a.cfg.StaticToken == "" {
		return nil
	}
	if token != a.cfg.StaticToken {
		return status.Error(codes.Unauthenticated, "invalid token")
	}
	return nil
}

func (a *authenticator) fromContext(ctx context.Context) error {
	if a.verifier == nil && a.cfg.StaticToken == "" {
		return nil
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok || len(md.Get("authorization")) == 0 {
		return status.Error(codes.Unauthenticated, "missing authorization metadata")
	}
	return a.validate(md.Get("authorization")[0])
}

// UnaryInterceptor enforces auth on every ControlService RPC.
func (a *authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if err := a.fromContext(ctx); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}
