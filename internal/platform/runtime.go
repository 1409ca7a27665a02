// Package platform owns the (platform, account) -> runtime map every
// outbound action call and every autostart pass goes through.
package platform

import (
	"context"
	"time"

	"github.com/kittynxr/maowbot/internal/event"
)

// Key identifies one connected account on one platform, e.g.
// (twitch-irc, "mybotaccount").
type Key struct {
	Platform event.Platform
	Account  string
}

// Runtime is the narrow contract an out-of-scope protocol adapter (IRC,
// EventSub, Discord, VRChat OSC, OBS WebSocket) must satisfy to be managed
// by Manager. Actual wire-level implementations are outside this repo's
// scope; this interface is what the control plane dispatches through.
type Runtime interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsConnected() bool

	SendChat(ctx context.Context, channel, text string) error
	Timeout(ctx context.Context, channel, userID string, duration time.Duration, reason string) error
	JoinChannel(ctx context.Context, channel string) error
	PartChannel(ctx context.Context, channel string) error
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	SetScene(ctx context.Context, sceneName string) error
	ToggleSource(ctx context.Context, sceneName, sourceName string, mode ToggleMode) error
	SendOSC(ctx context.Context, address string, value any) error
}

// ToggleMode mirrors registry.OBSToggleMode without importing registry (the
// dependency direction is platform -> registry, for the Outbound assertion
// in manager.go, never the reverse).
type ToggleMode string

const (
	ToggleShow   ToggleMode = "show"
	ToggleHide   ToggleMode = "hide"
	ToggleToggle ToggleMode = "toggle"
)

// AutostartRow is one row of the autostart repository contract: which
// (platform, account) pairs should be started automatically on process
// bring-up.
type AutostartRow struct {
	Platform event.Platform
	Account  string
	Enabled  bool
}

// AutostartStore lists the rows Autostart reads. A real implementation
// would back this with a database table; tests and small deployments can
// use a static slice.
type AutostartStore interface {
	ListAutostart(ctx context.Context) ([]AutostartRow, error)
}
