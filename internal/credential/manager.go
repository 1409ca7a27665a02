package credential

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/eventbus"
	"github.com/kittynxr/maowbot/internal/logging"
	"github.com/kittynxr/maowbot/internal/metrics"
	"github.com/kittynxr/maowbot/internal/util"
)

// SweepInterval is how often the refresh sweeper wakes up.
const SweepInterval = 300 * time.Second

// RefreshWindow is how far ahead of expiry a credential becomes eligible for
// proactive refresh.
const RefreshWindow = 10 * time.Minute

// NeedsReauthMetadataKey is the PluginEvent/metadata key the manager stamps
// onto the NeedsReauth bus event for the affected credential.
const NeedsReauthMetadataKey = "credential_id"

// Manager owns one Authenticator per platform and orchestrates the full
// credential lifecycle: auth flows, scheduled refresh, revoke.
type Manager struct {
	store     Store
	encryptor Encryptor
	bus       *eventbus.Bus

	authMu sync.RWMutex
	auths  map[event.Platform]Authenticator

	sf singleflight.Group

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewManager constructs a Manager. Call Start to launch the background
// refresh sweeper and Stop to terminate it.
func NewManager(store Store, encryptor Encryptor, bus *eventbus.Bus) *Manager {
	return &Manager{
		store:     store,
		encryptor: encryptor,
		bus:       bus,
		auths:     make(map[event.Platform]Authenticator),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// RegisterAuthenticator wires platform's Authenticator. Must be called
// before Start.
func (m *Manager) RegisterAuthenticator(platform event.Platform, a Authenticator) {
	m.authMu.Lock()
	defer m.authMu.Unlock()
	m.auths[platform] = a
}

func (m *Manager) authenticatorFor(platform event.Platform) (Authenticator, error) {
	m.authMu.RLock()
	defer m.authMu.RUnlock()
	a, ok := m.auths[platform]
	if !ok {
		return nil, apperr.New(apperr.KindInvalidCredential, "no authenticator registered for platform "+string(platform))
	}
	return a, nil
}

// Start launches the background sweeper. Safe to call once.
func (m *Manager) Start(ctx context.Context) {
	go m.sweepLoop(ctx)
}

// Stop signals the sweeper to exit and waits for it to do so.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}

func (m *Manager) sweepLoop(ctx context.Context) {
	defer close(m.done)
	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()
	recv := m.bus.Subscribe(1)
	defer m.bus.Unsubscribe(recv)
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stop:
			return
		case <-recv.Shutdown:
			return
		case <-ticker.C:
			m.sweepOnce(ctx)
		}
	}
}

func (m *Manager) sweepOnce(ctx context.Context) {
	expiring, err := m.store.ListExpiring(ctx, RefreshWindow)
	if err != nil {
		logging.Logger().Sugar().Errorw("credential sweep: listing expiring credentials failed", "error", err)
		return
	}
	for _, cred := range expiring {
		cred := cred
		if cred.NeedsReauth(time.Now().UTC()) {
			m.publishNeedsReauth(cred)
			continue
		}
		if cred.Kind != KindOAuth2 || cred.RefreshToken == "" {
			m.publishNeedsReauth(cred)
			continue
		}
		if _, err := m.RefreshCredential(ctx, cred.Platform, cred.AccountLabel); err != nil {
			logging.Logger().Sugar().Warnw("credential sweep: refresh failed", "platform", cred.Platform, "account", cred.AccountLabel, "error", err)
		}
	}
}

func (m *Manager) publishNeedsReauth(cred Credential) {
	e := event.PluginEvent{Plugin: "credential-manager", Payload: map[string]any{
		"kind":               "needs_reauth",
		NeedsReauthMetadataKey: cred.ID.String(),
		"platform":           string(cred.Platform),
		"account_label":      cred.AccountLabel,
	}}
	m.bus.Publish(e)
}

// BeginAuth starts an auth flow for platform/label and returns the Prompt the
// caller must satisfy (e.g. render a browser redirect URL).
func (m *Manager) BeginAuth(ctx context.Context, platform event.Platform, isBot bool, label string) (Prompt, error) {
	a, err := m.authenticatorFor(platform)
	if err != nil {
		return Prompt{}, err
	}
	return a.BeginAuth(ctx, isBot, label)
}

// CompleteAuth finishes an auth flow, encrypts the resulting credential's
// token fields, and persists it.
func (m *Manager) CompleteAuth(ctx context.Context, platform event.Platform, resp AuthenticationResponse) (Credential, error) {
	a, err := m.authenticatorFor(platform)
	if err != nil {
		return Credential{}, err
	}
	cred, err := a.CompleteAuth(ctx, resp)
	if err != nil {
		return Credential{}, err
	}
	cred.ID = util.NewUUID()
	cred.UserID = util.NewUUID()
	enc, err := m.encryptFields(cred)
	if err != nil {
		return Credential{}, err
	}
	if err := m.store.Store(ctx, enc); err != nil {
		return Credential{}, apperr.Wrap(apperr.KindRepository, "persisting new credential", err)
	}
	return m.decryptFields(enc)
}

// ListCredentials returns metadata for every stored credential (optionally
// filtered to one platform), without decrypting token fields — the
// control-plane facade's ListCredentials RPC only ever reports status and
// expiry, never the token itself.
func (m *Manager) ListCredentials(ctx context.Context, platform event.Platform) ([]Credential, error) {
	return m.store.ListAll(ctx, platform)
}

// Get returns the decrypted credential for platform/account.
func (m *Manager) Get(ctx context.Context, platform event.Platform, accountLabel string) (Credential, error) {
	enc, err := m.store.Get(ctx, platform, accountLabel)
	if err != nil {
		return Credential{}, err
	}
	return m.decryptFields(enc)
}

// RefreshCredential refreshes platform/account's credential, coalescing
// concurrent calls for the same key onto a single authenticator round trip:
// at most one in-flight refresh per credential.
func (m *Manager) RefreshCredential(ctx context.Context, platform event.Platform, accountLabel string) (Credential, error) {
	key := string(platform) + "/" + accountLabel
	v, err, _ := m.sf.Do(key, func() (any, error) {
		cred, err := m.Get(ctx, platform, accountLabel)
		if err != nil {
			metrics.CredentialRefreshTotal.WithLabelValues(string(platform), "not_found").Inc()
			return Credential{}, err
		}
		a, err := m.authenticatorFor(platform)
		if err != nil {
			metrics.CredentialRefreshTotal.WithLabelValues(string(platform), "no_authenticator").Inc()
			return Credential{}, err
		}
		refreshed, err := a.Refresh(ctx, cred)
		if err != nil {
			metrics.CredentialRefreshTotal.WithLabelValues(string(platform), "error").Inc()
			return Credential{}, err
		}
		enc, err := m.encryptFields(refreshed)
		if err != nil {
			metrics.CredentialRefreshTotal.WithLabelValues(string(platform), "encrypt_error").Inc()
			return Credential{}, err
		}
		if err := m.store.Update(ctx, enc); err != nil {
			metrics.CredentialRefreshTotal.WithLabelValues(string(platform), "store_error").Inc()
			return Credential{}, apperr.Wrap(apperr.KindRepository, "persisting refreshed credential", err)
		}
		metrics.CredentialRefreshTotal.WithLabelValues(string(platform), "ok").Inc()
		return m.decryptFields(enc)
	})
	if err != nil {
		return Credential{}, err
	}
	return v.(Credential), nil
}

// Revoke calls the authenticator's revoke hook (best-effort) then deletes
// the stored credential.
func (m *Manager) Revoke(ctx context.Context, platform event.Platform, accountLabel string) error {
	cred, err := m.Get(ctx, platform, accountLabel)
	if err != nil {
		return err
	}
	if a, aerr := m.authenticatorFor(platform); aerr == nil {
		if err := a.Revoke(ctx, cred); err != nil {
			logging.Logger().Sugar().Warnw("credential revoke: authenticator revoke failed, deleting locally anyway", "platform", platform, "account", accountLabel, "error", err)
		}
	}
	return m.store.Delete(ctx, platform, accountLabel)
}

// IsValid delegates to the platform's authenticator (falling back to the
// credential's own expiry check if no authenticator performs deeper
// validation).
func (m *Manager) IsValid(ctx context.Context, cred Credential) bool {
	if a, err := m.authenticatorFor(cred.Platform); err == nil {
		return a.IsValid(ctx, cred)
	}
	return cred.IsValid(time.Now().UTC())
}

func (m *Manager) encryptFields(cred Credential) (Credential, error) {
	out := cred
	if cred.PrimaryToken != "" {
		ct, err := m.encryptor.Encrypt([]byte(cred.PrimaryToken))
		if err != nil {
			return Credential{}, err
		}
		out.PrimaryToken = ct
	}
	if cred.RefreshToken != "" {
		ct, err := m.encryptor.Encrypt([]byte(cred.RefreshToken))
		if err != nil {
			return Credential{}, err
		}
		out.RefreshToken = ct
	}
	if cred.AdditionalData != "" {
		ct, err := m.encryptor.Encrypt([]byte(cred.AdditionalData))
		if err != nil {
			return Credential{}, err
		}
		out.AdditionalData = ct
	}
	return out, nil
}

func (m *Manager) decryptFields(cred Credential) (Credential, error) {
	out := cred
	if cred.PrimaryToken != "" {
		pt, err := m.encryptor.Decrypt(cred.PrimaryToken)
		if err != nil {
			return Credential{}, err
		}
		out.PrimaryToken = string(pt)
	}
	if cred.RefreshToken != "" {
		pt, err := m.encryptor.Decrypt(cred.RefreshToken)
		if err != nil {
			return Credential{}, err
		}
		out.RefreshToken = string(pt)
	}
	if cred.AdditionalData != "" {
		pt, err := m.encryptor.Decrypt(cred.AdditionalData)
		if err != nil {
			return Credential{}, err
		}
		out.AdditionalData = string(pt)
	}
	return out, nil
}
