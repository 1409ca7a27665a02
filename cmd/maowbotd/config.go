// Flag/env parsing for the maowbotd binary: flags take precedence, then
// MAOWBOT_-prefixed environment variables via viper, then the defaults
// below.
package main

import (
	"flag"

	"github.com/spf13/viper"
)

type config struct {
	ListenAddr    string
	TLSCert       string
	TLSKey        string
	AuthToken     string
	JWTSecret     string
	JWTIssuer     string
	EncryptionKey string // 32 raw bytes, hex-encoded
	PluginStore   string // path to the plugin enable/disable JSON file
	Workers       int
	RedisAddr     string // empty uses the in-memory history store
	HTTPListen    string // /healthz + /metrics, empty disables
	DynlibPlugins string // comma-separated .so paths loaded via pluginsvc.LoadShared
}

func defaultConfig() config {
	return config{
		ListenAddr:  ":4717",
		PluginStore: "maowbotd-plugins.json",
		Workers:     0,
		HTTPListen:  ":8081",
	}
}

// loadConfig parses flags and env vars once during program start. Precedence
// is flags > env > defaults: env vars are applied over the defaults first,
// then only the flags the caller actually passed on the command line are
// applied over that, so an unset flag never clobbers an env override.
func loadConfig() config {
	cfg := defaultConfig()

	v := viper.New()
	v.SetEnvPrefix("MAOWBOT")
	v.AutomaticEnv()

	if s := v.GetString("LISTEN"); s != "" {
		cfg.ListenAddr = s
	}
	if s := v.GetString("AUTH_TOKEN"); s != "" {
		cfg.AuthToken = s
	}
	if s := v.GetString("JWT_SECRET"); s != "" {
		cfg.JWTSecret = s
	}
	if s := v.GetString("JWT_ISSUER"); s != "" {
		cfg.JWTIssuer = s
	}
	if s := v.GetString("ENCRYPTION_KEY"); s != "" {
		cfg.EncryptionKey = s
	}
	if s := v.GetString("PLUGIN_STORE"); s != "" {
		cfg.PluginStore = s
	}
	if s := v.GetString("REDIS_ADDR"); s != "" {
		cfg.RedisAddr = s
	}
	if s := v.GetString("HTTP_LISTEN"); s != "" {
		cfg.HTTPListen = s
	}
	if s := v.GetString("DYNLIB_PLUGINS"); s != "" {
		cfg.DynlibPlugins = s
	}

	listen := flag.String("listen", cfg.ListenAddr, "gRPC listen address (host:port)")
	tlsCert := flag.String("tls-cert", cfg.TLSCert, "TLS certificate file (PEM); empty serves plaintext")
	tlsKey := flag.String("tls-key", cfg.TLSKey, "TLS key file (PEM)")
	authToken := flag.String("auth-token", cfg.AuthToken, "Static bearer token required of control-plane callers (optional)")
	jwtSecret := flag.String("jwt-secret", cfg.JWTSecret, "HMAC secret for JWT-authenticated callers (optional, takes precedence over auth-token)")
	jwtIssuer := flag.String("jwt-issuer", cfg.JWTIssuer, "Expected JWT issuer claim")
	encKey := flag.String("encryption-key", cfg.EncryptionKey, "Hex-encoded 32-byte credential encryption key (required)")
	pluginStore := flag.String("plugin-store", cfg.PluginStore, "Path to the plugin enable/disable state file")
	workers := flag.Int("workers", cfg.Workers, "Pipeline executor worker pool size (0 uses the CPU count)")
	redisAddr := flag.String("redis-addr", cfg.RedisAddr, "Redis address for execution history (empty uses the in-memory store)")
	httpListen := flag.String("http-listen", cfg.HTTPListen, "HTTP listen address for /healthz and /metrics (empty disables)")
	dynlibPlugins := flag.String("dynlib-plugins", cfg.DynlibPlugins, "Comma-separated .so paths to load as dynlib-transport plugin sessions")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["listen"] {
		cfg.ListenAddr = *listen
	}
	if set["tls-cert"] {
		cfg.TLSCert = *tlsCert
	}
	if set["tls-key"] {
		cfg.TLSKey = *tlsKey
	}
	if set["auth-token"] {
		cfg.AuthToken = *authToken
	}
	if set["jwt-secret"] {
		cfg.JWTSecret = *jwtSecret
	}
	if set["jwt-issuer"] {
		cfg.JWTIssuer = *jwtIssuer
	}
	if set["encryption-key"] {
		cfg.EncryptionKey = *encKey
	}
	if set["plugin-store"] {
		cfg.PluginStore = *pluginStore
	}
	if set["workers"] {
		cfg.Workers = *workers
	}
	if set["redis-addr"] {
		cfg.RedisAddr = *redisAddr
	}
	if set["http-listen"] {
		cfg.HTTPListen = *httpListen
	}
	if set["dynlib-plugins"] {
		cfg.DynlibPlugins = *dynlibPlugins
	}

	if cfg.Workers < 0 {
		cfg.Workers = 0
	}
	return cfg
}
