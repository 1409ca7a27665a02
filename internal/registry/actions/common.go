// Package actions provides the built-in Action implementations registered
// at startup: log_action, twitch_timeout, discord_role_add,
// discord_role_remove, obs_scene_change, obs_source_toggle, osc_trigger, and
// the additive webhook_action.
package actions

import (
	"encoding/json"

	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/registry"
)

func userIDFromActionContext(actx *registry.ActionContext) string {
	return event.UserID(actx.Event)
}

func ok(detail json.RawMessage) (registry.ActionExecResult, error) {
	return registry.ActionExecResult{Outcome: registry.ActionSuccess, Detail: detail}, nil
}

func skipped(reason string) (registry.ActionExecResult, error) {
	detail, _ := json.Marshal(map[string]string{"reason": reason})
	return registry.ActionExecResult{Outcome: registry.ActionSkipped, Detail: detail}, nil
}
