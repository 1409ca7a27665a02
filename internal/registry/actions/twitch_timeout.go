package actions

import (
	"encoding/json"
	"time"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/registry"
)

func init() {
	registry.RegisterAction("twitch_timeout", func() registry.Action { return &TwitchTimeoutAction{} })
}

// TwitchTimeoutAction times out a user on a Twitch channel via the platform
// manager's outbound interface.
type TwitchTimeoutAction struct {
	registry.BaseAction
	Account         string
	Channel         string
	DurationSeconds int
	Reason          string
}

type twitchTimeoutConfig struct {
	Account         string `json:"account"`
	Channel         string `json:"channel"`
	DurationSeconds int    `json:"duration_seconds"`
	Reason          string `json:"reason"`
}

func (a *TwitchTimeoutAction) Configure(config json.RawMessage) error {
	var cfg twitchTimeoutConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "twitch_timeout: invalid config", err)
	}
	if cfg.Channel == "" || cfg.DurationSeconds <= 0 {
		return apperr.New(apperr.KindConfig, "twitch_timeout: channel and duration_seconds are required")
	}
	a.Account, a.Channel, a.DurationSeconds, a.Reason = cfg.Account, cfg.Channel, cfg.DurationSeconds, cfg.Reason
	return nil
}

func (a *TwitchTimeoutAction) Execute(actx *registry.ActionContext) (registry.ActionExecResult, error) {
	userID := userIDFromActionContext(actx)
	if userID == "" {
		return skipped("no user id on event")
	}
	if actx.Outbound == nil {
		return registry.ActionExecResult{}, apperr.New(apperr.KindPlatform, "twitch_timeout: no outbound dispatcher configured")
	}
	err := actx.Outbound.TimeoutUser(actx.Context, event.PlatformTwitchIRC, a.Account, a.Channel, userID, time.Duration(a.DurationSeconds)*time.Second, a.Reason)
	if err != nil {
		return registry.ActionExecResult{}, apperr.Wrap(apperr.KindPlatform, "twitch_timeout: outbound call failed", err)
	}
	return ok(nil)
}

var _ registry.Action = (*TwitchTimeoutAction)(nil)
