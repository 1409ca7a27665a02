package actions

import (
	"encoding/json"
	"time"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/registry"
)

func init() {
	registry.RegisterAction("osc_trigger", func() registry.Action { return &OSCTriggerAction{} })
}

// OSCTriggerAction either sets an OSC parameter directly or fires a
// referenced toggle id for an optional duration before reverting.
type OSCTriggerAction struct {
	registry.BaseAction
	Account     string
	Address     string
	Value       any
	ToggleID    string
	DurationMs  int
}

type oscTriggerConfig struct {
	Account    string `json:"account"`
	Address    string `json:"address,omitempty"`
	Value      any    `json:"value,omitempty"`
	ToggleID   string `json:"toggle_id,omitempty"`
	DurationMs int    `json:"duration_ms,omitempty"`
}

func (a *OSCTriggerAction) Configure(config json.RawMessage) error {
	var cfg oscTriggerConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "osc_trigger: invalid config", err)
	}
	if cfg.Address == "" && cfg.ToggleID == "" {
		return apperr.New(apperr.KindConfig, "osc_trigger: either address or toggle_id is required")
	}
	a.Account, a.Address, a.Value, a.ToggleID, a.DurationMs = cfg.Account, cfg.Address, cfg.Value, cfg.ToggleID, cfg.DurationMs
	return nil
}

func (a *OSCTriggerAction) Execute(actx *registry.ActionContext) (registry.ActionExecResult, error) {
	if a.Address != "" {
		if err := actx.Outbound.SendOSCParameter(actx.Context, a.Account, a.Address, a.Value); err != nil {
			return registry.ActionExecResult{}, apperr.Wrap(apperr.KindPlatform, "osc_trigger: outbound call failed", err)
		}
		return ok(nil)
	}

	// Referenced-toggle mode: the toggle_id's address/on-value mapping is
	// resolved by the platform runtime itself; we send true then, if a
	// duration is set, schedule the revert without blocking the action.
	if err := actx.Outbound.SendOSCParameter(actx.Context, a.Account, a.ToggleID, true); err != nil {
		return registry.ActionExecResult{}, apperr.Wrap(apperr.KindPlatform, "osc_trigger: outbound call failed", err)
	}
	if a.DurationMs > 0 {
		go func(account, toggleID string, d time.Duration) {
			time.Sleep(d)
			_ = actx.Outbound.SendOSCParameter(actx.Context, account, toggleID, false)
		}(a.Account, a.ToggleID, time.Duration(a.DurationMs)*time.Millisecond)
	}
	return ok(nil)
}

var _ registry.Action = (*OSCTriggerAction)(nil)
