// Package event defines the normalized event model: a closed set of variants
// every platform runtime publishes into the event bus and every pipeline
// filter/action reads from. The set is closed by design — extensibility is
// via the Metadata map only, never by inventing ad-hoc variants at runtime.
package event

import "time"

// Platform identifies the originating (or target) external system.
type Platform string

const (
	PlatformTwitchIRC     Platform = "twitch-irc"
	PlatformTwitchEventSub Platform = "twitch-eventsub"
	PlatformDiscord        Platform = "discord"
	PlatformVRChatOSC      Platform = "vrchat-osc"
	PlatformOBS            Platform = "obs"
	PlatformSystem         Platform = "system"
	PlatformPlugin         Platform = "plugin"
)

// Well-known Metadata keys. Unknown keys are ignored by filters/actions that
// don't recognize them — this is the system's only extension point.
const (
	MetaUserID         = "user_id"
	MetaRoles          = "roles"
	MetaLevel          = "level"
	MetaDiscordUserID  = "discord_user_id"
	MetaRewardTitle    = "reward_title"
	MetaMessageID      = "message_id"
)

// Metadata carries platform-specific fields not promoted to a struct field.
// Values are whatever encoding/json would produce from the source payload —
// typically string, float64, bool, []any, or map[string]any.
type Metadata map[string]any

// Event is the tagged-union contract. Variants are immutable once published;
// Kind lets callers type-switch or dispatch without reflection.
type Event interface {
	Kind() string
	Plat() Platform
	Time() time.Time
	Meta() Metadata
}

// base is embedded by every concrete variant to avoid repeating the three
// common fields and their accessors.
type base struct {
	Platform  Platform  `json:"platform"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  Metadata  `json:"metadata,omitempty"`
}

func (b base) Plat() Platform   { return b.Platform }
func (b base) Time() time.Time  { return b.Timestamp }
func (b base) Meta() Metadata {
	if b.Metadata == nil {
		return Metadata{}
	}
	return b.Metadata
}

// ChatMessage is a normalized chat line from any chat-capable platform.
type ChatMessage struct {
	base
	Channel  string `json:"channel"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Text     string `json:"text"`
}

func (ChatMessage) Kind() string { return "chat.message" }

// NewChatMessage constructs a ChatMessage with the base fields populated.
func NewChatMessage(platform Platform, channel, userID, userName, text string, meta Metadata) ChatMessage {
	return ChatMessage{
		base:     base{Platform: platform, Timestamp: time.Now().UTC(), Metadata: meta},
		Channel:  channel,
		UserID:   userID,
		UserName: userName,
		Text:     text,
	}
}

// StreamOnline signals a channel has gone live.
type StreamOnline struct {
	base
	Channel   string     `json:"channel"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

func (StreamOnline) Kind() string { return "stream.online" }

// StreamOffline signals a channel has stopped streaming.
type StreamOffline struct {
	base
	Channel string `json:"channel"`
}

func (StreamOffline) Kind() string { return "stream.offline" }

// ChannelPointRedeem is a channel-point reward redemption (Twitch and
// platforms with an equivalent reward model).
type ChannelPointRedeem struct {
	base
	Channel  string  `json:"channel"`
	RewardID string  `json:"reward_id"`
	UserID   string  `json:"user_id"`
	Input    *string `json:"input,omitempty"`
}

func (ChannelPointRedeem) Kind() string { return "channel.point_redeem" }

// Subscription is a new or renewed subscription.
type Subscription struct {
	base
	Channel string `json:"channel"`
	UserID  string `json:"user_id"`
	Tier    string `json:"tier,omitempty"`
	Months  int    `json:"months,omitempty"`
}

func (Subscription) Kind() string { return "channel.subscription" }

// Cheer is a bits cheer event.
type Cheer struct {
	base
	Channel string `json:"channel"`
	UserID  string `json:"user_id"`
	Bits    int    `json:"bits"`
	Text    string `json:"text,omitempty"`
}

func (Cheer) Kind() string { return "channel.cheer" }

// Raid is an incoming raid from another channel.
type Raid struct {
	base
	Channel     string `json:"channel"`
	FromChannel string `json:"from_channel"`
	Viewers     int    `json:"viewers"`
}

func (Raid) Kind() string { return "channel.raid" }

// Follow is a new follower.
type Follow struct {
	base
	Channel string `json:"channel"`
	UserID  string `json:"user_id"`
}

func (Follow) Kind() string { return "channel.follow" }

// SystemTick is an internal heartbeat event, used by time_window_filter and
// similar filters that need to evaluate on a cadence rather than on traffic.
type SystemTick struct {
	base
}

func (SystemTick) Kind() string { return "system.tick" }

// NewSystemTick returns a SystemTick stamped with the current time.
func NewSystemTick() SystemTick {
	return SystemTick{base{Platform: PlatformSystem, Timestamp: time.Now().UTC()}}
}

// PluginEvent carries an opaque payload injected by a connected plugin.
type PluginEvent struct {
	base
	Plugin  string `json:"plugin"`
	Payload any    `json:"payload"`
}

func (PluginEvent) Kind() string { return "plugin.event" }

// Channel extracts the channel field from whichever concrete Event variant
// carries one; returns "" for variants without a channel.
func Channel(ev Event) string {
	switch e := ev.(type) {
	case ChatMessage:
		return e.Channel
	case StreamOnline:
		return e.Channel
	case StreamOffline:
		return e.Channel
	case ChannelPointRedeem:
		return e.Channel
	case Subscription:
		return e.Channel
	case Cheer:
		return e.Channel
	case Raid:
		return e.Channel
	case Follow:
		return e.Channel
	default:
		return ""
	}
}

// UserID extracts the acting user's id, falling back to the Metadata
// user_id key for variants without a dedicated field.
func UserID(ev Event) string {
	switch e := ev.(type) {
	case ChatMessage:
		return e.UserID
	case ChannelPointRedeem:
		return e.UserID
	case Subscription:
		return e.UserID
	case Cheer:
		return e.UserID
	case Follow:
		return e.UserID
	}
	if v, ok := ev.Meta()[MetaUserID]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Text extracts chat text, empty for non-chat variants.
func Text(ev Event) string {
	if cm, ok := ev.(ChatMessage); ok {
		return cm.Text
	}
	return ""
}

var (
	_ Event = ChatMessage{}
	_ Event = StreamOnline{}
	_ Event = StreamOffline{}
	_ Event = ChannelPointRedeem{}
	_ Event = Subscription{}
	_ Event = Cheer{}
	_ Event = Raid{}
	_ Event = Follow{}
	_ Event = SystemTick{}
	_ Event = PluginEvent{}
)
