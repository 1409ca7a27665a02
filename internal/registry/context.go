package registry

import (
	"context"
	"time"

	"github.com/kittynxr/maowbot/internal/event"
)

// Outbound is the narrow surface actions need to reach external platforms.
// It is satisfied by internal/platform.Manager; actions hold only this
// interface, never the whole manager, keeping the dependency direction
// registry -> (interfaces only), platform -> registry (for the compile-time
// assertion), never registry -> platform.
type Outbound interface {
	SendChatMessage(ctx context.Context, platform event.Platform, account, channel, text string) error
	TimeoutUser(ctx context.Context, platform event.Platform, account, channel, userID string, duration time.Duration, reason string) error
	AddDiscordRole(ctx context.Context, account, guildID, userID, roleID string) error
	RemoveDiscordRole(ctx context.Context, account, guildID, userID, roleID string) error
	SetOBSScene(ctx context.Context, account, sceneName string) error
	ToggleOBSSource(ctx context.Context, account, sceneName, sourceName string, mode OBSToggleMode) error
	SendOSCParameter(ctx context.Context, account, address string, value any) error
}

// OBSToggleMode is obs_source_toggle's show/hide/toggle discriminant.
type OBSToggleMode string

const (
	OBSShow   OBSToggleMode = "show"
	OBSHide   OBSToggleMode = "hide"
	OBSToggle OBSToggleMode = "toggle"
)

// CredentialGetter lets filters/actions look up a decrypted credential by
// platform/account without depending on the whole credential.Manager type.
type CredentialGetter interface {
	GetCredential(ctx context.Context, platform event.Platform, accountLabel string) (token string, ok bool)
}

// UserLookup resolves a platform user id to whatever role/level metadata the
// control plane tracks for them. Built-in filters (user_role_filter,
// user_level_filter) use it when the event's own Metadata doesn't already
// carry the answer.
type UserLookup interface {
	RolesFor(ctx context.Context, platform event.Platform, userID string) []string
	LevelFor(ctx context.Context, platform event.Platform, userID string) int
}

// EventContext bundles the read-only, shared-across-filters services the
// executor builds once per inbound event.
type EventContext struct {
	Context    context.Context
	Now        time.Time
	Outbound   Outbound
	Credential CredentialGetter
	Users      UserLookup
	// Cache holds intermediate computation shared across filters/actions for
	// this one event (e.g. a parsed role list), keyed by filter-chosen name.
	Cache map[string]any
}

// ActionContext extends EventContext with the event under evaluation and a
// mutable per-event scratch map actions can use to pass data to later
// actions in the same pipeline run.
type ActionContext struct {
	EventContext
	Event   event.Event
	Scratch map[string]any
}
