// Package filters provides the built-in Filter implementations registered
// at startup: platform_filter, channel_filter, user_role_filter,
// user_level_filter, message_pattern_filter, message_length_filter,
// time_window_filter, cooldown_filter.
package filters

import (
	"github.com/kittynxr/maowbot/internal/event"
)

func channelOf(ev event.Event) string { return event.Channel(ev) }

func userIDOf(ev event.Event) string { return event.UserID(ev) }

func textOf(ev event.Event) string { return event.Text(ev) }
