// Binary entrypoint for the maowbotd control plane. It wires together the
// event bus, the pipeline executor, the credential manager, the platform
// manager and the gRPC control-plane facade, then serves until a signal
// tells it to stop.
package main

import (
	"context"
	"crypto/tls"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kittynxr/maowbot/internal/controlplane"
	"github.com/kittynxr/maowbot/internal/credential"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/eventbus"
	"github.com/kittynxr/maowbot/internal/executor"
	"github.com/kittynxr/maowbot/internal/logging"
	"github.com/kittynxr/maowbot/internal/metrics"
	"github.com/kittynxr/maowbot/internal/pipeline"
	"github.com/kittynxr/maowbot/internal/platform"
	"github.com/kittynxr/maowbot/internal/pluginsvc"

	// Built-in filters and actions self-register via init().
	_ "github.com/kittynxr/maowbot/internal/registry/actions"
	_ "github.com/kittynxr/maowbot/internal/registry/filters"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := loadConfig()

	lg, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("zap: %v", err)
	}
	logging.Set(lg)
	defer lg.Sync()

	if cfg.EncryptionKey == "" {
		lg.Fatal("missing required -encryption-key")
	}
	keyBytes, err := hex.DecodeString(cfg.EncryptionKey)
	if err != nil {
		lg.Fatal("encryption-key must be hex-encoded", zap.Error(err))
	}
	encryptor, err := credential.NewAEADEncryptor(keyBytes)
	if err != nil {
		lg.Fatal("constructing encryptor", zap.Error(err))
	}

	bus := eventbus.New()
	pipelines := pipeline.NewMemStore()
	history := newHistoryStore(cfg, lg)
	platforms := platform.NewManager()
	credStore := credential.NewMemStore()
	credentials := credential.NewManager(credStore, encryptor, bus)
	credentials.Start(context.Background())
	defer credentials.Stop()

	exec := &executor.Executor{
		Store:      pipelines,
		History:    history,
		Outbound:   platforms,
		Credential: credentialGetter{credentials},
		Users:      noopUserLookup{},
		Workers:    cfg.Workers,
	}

	pluginStore, err := pluginsvc.NewStore(cfg.PluginStore)
	if err != nil {
		lg.Fatal("loading plugin store", zap.Error(err))
	}
	plugins := pluginsvc.NewService(pluginsvc.Config{
		BotName:  "maowbotd",
		Version:  "dev",
		Outbound: platforms,
		Bus:      bus,
		Store:    pluginStore,
	})

	facade := &controlplane.Facade{
		Pipelines:  pipelines,
		History:    history,
		Credential: credentials,
		Platform:   platforms,
	}

	var tlsCfg *tls.Config
	if cfg.TLSCert != "" && cfg.TLSKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			lg.Fatal("load cert", zap.Error(err))
		}
		tlsCfg = &tls.Config{Certificates: []tls.Certificate{cert}}
	}

	srv := controlplane.New(controlplane.Config{
		ListenAddr: cfg.ListenAddr,
		TLSConfig:  tlsCfg,
		Auth: controlplane.AuthConfig{
			StaticToken: cfg.AuthToken,
			JWTSecret:   []byte(cfg.JWTSecret),
			JWTIssuer:   cfg.JWTIssuer,
		},
	}, facade, plugins)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		lg.Info("signal received, shutting down")
		cancel()
	}()

	go exec.Run(ctx, bus)

	for _, path := range strings.Split(cfg.DynlibPlugins, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		sp, err := pluginsvc.LoadShared(path)
		if err != nil {
			lg.Error("loading dynlib plugin", zap.String("path", path), zap.Error(err))
			continue
		}
		go func(sp pluginsvc.SharedPlugin, path string) {
			if err := plugins.RunShared(ctx, sp); err != nil && ctx.Err() == nil {
				lg.Warn("dynlib plugin session ended", zap.String("path", path), zap.Error(err))
			}
		}(sp, path)
	}

	if cfg.HTTPListen != "" {
		startHTTP(ctx, cfg.HTTPListen, lg)
	}

	if err := srv.ListenAndServe(ctx); err != nil {
		lg.Fatal("serve", zap.Error(err))
	}
	lg.Info("goodbye")
}

func newHistoryStore(cfg config, lg *zap.Logger) pipeline.HistoryStore {
	if cfg.RedisAddr == "" {
		return pipeline.NewMemHistoryStore()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	lg.Info("using redis execution history", zap.String("addr", cfg.RedisAddr))
	return pipeline.NewRedisHistoryStore(client, "maowbot:history:")
}

func startHTTP(ctx context.Context, addr string, lg *zap.Logger) {
	metrics.Register()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	httpSrv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = httpSrv.Close()
	}()
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Warn("http listener error", zap.Error(err))
		}
	}()
	lg.Info("http listener started", zap.String("addr", addr))
}

// credentialGetter adapts credential.Manager to registry.CredentialGetter:
// filters/actions only ever need the decrypted primary token, never the
// full Credential, and never an error they can't act on (a lookup failure
// just means "no credential," per the interface's (token, ok) shape).
type credentialGetter struct {
	mgr *credential.Manager
}

func (g credentialGetter) GetCredential(ctx context.Context, platform event.Platform, accountLabel string) (string, bool) {
	cred, err := g.mgr.Get(ctx, platform, accountLabel)
	if err != nil {
		return "", false
	}
	return cred.PrimaryToken, true
}

// noopUserLookup is the default registry.UserLookup: this repo carries no
// user-role/level database of its own, so user_role_filter/user_level_filter
// fall back to whatever the event's own Metadata already carries.
type noopUserLookup struct{}

func (noopUserLookup) RolesFor(context.Context, event.Platform, string) []string { return nil }
func (noopUserLookup) LevelFor(context.Context, event.Platform, string) int      { return 0 }
