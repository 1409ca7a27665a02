package platform

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/logging"
	"github.com/kittynxr/maowbot/internal/registry"
)

// Manager owns the (platform, account) -> Runtime map and is the concrete
// type satisfying registry.Outbound: actions call through Manager, Manager
// dispatches to whichever Runtime is registered for the target account.
type Manager struct {
	mu       sync.RWMutex
	runtimes map[Key]Runtime

	startSF singleflight.Group
	stopSF  singleflight.Group
}

// NewManager returns an empty, ready-to-use Manager.
func NewManager() *Manager {
	return &Manager{runtimes: make(map[Key]Runtime)}
}

// Register installs (or replaces) the Runtime for key. Safe to call while
// the manager is in use; a replaced Runtime is not stopped by Register —
// callers that want a clean swap should Stop the old one first.
func (m *Manager) Register(key Key, rt Runtime) {
	m.mu.Lock()
	m.runtimes[key] = rt
	m.mu.Unlock()
}

// Unregister removes the Runtime for key without stopping it.
func (m *Manager) Unregister(key Key) {
	m.mu.Lock()
	delete(m.runtimes, key)
	m.mu.Unlock()
}

func (m *Manager) get(key Key) (Runtime, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rt, ok := m.runtimes[key]
	return rt, ok
}

// Start starts the Runtime registered for key. Idempotent: a Runtime that
// reports IsConnected() true is left alone. Concurrent Start calls for the
// same key coalesce onto a single underlying Start via singleflight.
func (m *Manager) Start(ctx context.Context, key Key) error {
	rt, ok := m.get(key)
	if !ok {
		return apperr.New(apperr.KindPlatform, fmt.Sprintf("no such account: %s/%s", key.Platform, key.Account))
	}
	if rt.IsConnected() {
		return nil
	}
	_, err, _ := m.startSF.Do(sfKey(key), func() (any, error) {
		return nil, rt.Start(ctx)
	})
	return err
}

// Stop stops the Runtime registered for key, coalescing concurrent calls
// the same way Start does.
func (m *Manager) Stop(ctx context.Context, key Key) error {
	rt, ok := m.get(key)
	if !ok {
		return apperr.New(apperr.KindPlatform, fmt.Sprintf("no such account: %s/%s", key.Platform, key.Account))
	}
	_, err, _ := m.stopSF.Do(sfKey(key), func() (any, error) {
		return nil, rt.Stop(ctx)
	})
	return err
}

// IsConnected reports whether the Runtime for key is connected. A missing
// Runtime is reported as not connected rather than an error.
func (m *Manager) IsConnected(key Key) bool {
	rt, ok := m.get(key)
	return ok && rt.IsConnected()
}

// Keys returns every (platform, account) key currently registered, in no
// particular order. Used by the control-plane facade's ListAccounts RPC,
// which asks IsConnected separately for each key.
func (m *Manager) Keys() []Key {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Key, 0, len(m.runtimes))
	for k := range m.runtimes {
		out = append(out, k)
	}
	return out
}

// Autostart has no AutostartStore to read: it starts nothing and returns
// nil. AutostartFrom is the variant that starts accounts.
func (m *Manager) Autostart(ctx context.Context) error {
	return m.autostart(ctx, nil)
}

// AutostartFrom starts every enabled row returned by store concurrently,
// logging (not aborting) individual failures. Rows whose key has no
// registered Runtime fail Start and are logged and skipped the same way.
func (m *Manager) AutostartFrom(ctx context.Context, store AutostartStore) error {
	return m.autostart(ctx, store)
}

func (m *Manager) autostart(ctx context.Context, store AutostartStore) error {
	if store == nil {
		return nil
	}
	rows, err := store.ListAutostart(ctx)
	if err != nil {
		return apperr.Wrap(apperr.KindRepository, "platform: listing autostart rows", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, row := range rows {
		row := row
		if !row.Enabled {
			continue
		}
		g.Go(func() error {
			key := Key{Platform: row.Platform, Account: row.Account}
			if err := m.Start(gctx, key); err != nil {
				logging.Logger().Sugar().Warnw("platform: autostart failed for account, continuing",
					"platform", row.Platform, "account", row.Account, "error", err)
			}
			return nil
		})
	}
	return g.Wait()
}

func sfKey(key Key) string {
	return string(key.Platform) + "/" + key.Account
}

func (m *Manager) runtimeFor(platform event.Platform, account string) (Runtime, error) {
	rt, ok := m.get(Key{Platform: platform, Account: account})
	if !ok {
		return nil, apperr.New(apperr.KindPlatform, fmt.Sprintf("no such account: %s/%s", platform, account))
	}
	return rt, nil
}

// SendChatMessage implements registry.Outbound.
func (m *Manager) SendChatMessage(ctx context.Context, platform event.Platform, account, channel, text string) error {
	rt, err := m.runtimeFor(platform, account)
	if err != nil {
		return err
	}
	return rt.SendChat(ctx, channel, text)
}

// TimeoutUser implements registry.Outbound.
func (m *Manager) TimeoutUser(ctx context.Context, platform event.Platform, account, channel, userID string, duration time.Duration, reason string) error {
	rt, err := m.runtimeFor(platform, account)
	if err != nil {
		return err
	}
	return rt.Timeout(ctx, channel, userID, duration, reason)
}

// AddDiscordRole implements registry.Outbound.
func (m *Manager) AddDiscordRole(ctx context.Context, account, guildID, userID, roleID string) error {
	rt, err := m.runtimeFor(event.PlatformDiscord, account)
	if err != nil {
		return err
	}
	return rt.AddRole(ctx, guildID, userID, roleID)
}

// RemoveDiscordRole implements registry.Outbound.
func (m *Manager) RemoveDiscordRole(ctx context.Context, account, guildID, userID, roleID string) error {
	rt, err := m.runtimeFor(event.PlatformDiscord, account)
	if err != nil {
		return err
	}
	return rt.RemoveRole(ctx, guildID, userID, roleID)
}

// SetOBSScene implements registry.Outbound.
func (m *Manager) SetOBSScene(ctx context.Context, account, sceneName string) error {
	rt, err := m.runtimeFor(event.PlatformOBS, account)
	if err != nil {
		return err
	}
	return rt.SetScene(ctx, sceneName)
}

// ToggleOBSSource implements registry.Outbound.
func (m *Manager) ToggleOBSSource(ctx context.Context, account, sceneName, sourceName string, mode registry.OBSToggleMode) error {
	rt, err := m.runtimeFor(event.PlatformOBS, account)
	if err != nil {
		return err
	}
	return rt.ToggleSource(ctx, sceneName, sourceName, ToggleMode(mode))
}

// SendOSCParameter implements registry.Outbound.
func (m *Manager) SendOSCParameter(ctx context.Context, account, address string, value any) error {
	rt, err := m.runtimeFor(event.PlatformVRChatOSC, account)
	if err != nil {
		return err
	}
	return rt.SendOSC(ctx, address, value)
}

var _ registry.Outbound = (*Manager)(nil)
