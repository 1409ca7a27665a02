package actions

import (
	"encoding/json"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/registry"
)

func init() {
	registry.RegisterAction("obs_scene_change", func() registry.Action { return &OBSSceneChangeAction{} })
	registry.RegisterAction("obs_source_toggle", func() registry.Action { return &OBSSourceToggleAction{} })
}

// OBSSceneChangeAction switches the configured OBS account to a named scene.
type OBSSceneChangeAction struct {
	registry.BaseAction
	Account string
	Scene   string
}

type obsSceneChangeConfig struct {
	Account string `json:"account"`
	Scene   string `json:"scene"`
}

func (a *OBSSceneChangeAction) Configure(config json.RawMessage) error {
	var cfg obsSceneChangeConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "obs_scene_change: invalid config", err)
	}
	if cfg.Scene == "" {
		return apperr.New(apperr.KindConfig, "obs_scene_change: scene is required")
	}
	a.Account, a.Scene = cfg.Account, cfg.Scene
	return nil
}

func (a *OBSSceneChangeAction) Execute(actx *registry.ActionContext) (registry.ActionExecResult, error) {
	if err := actx.Outbound.SetOBSScene(actx.Context, a.Account, a.Scene); err != nil {
		return registry.ActionExecResult{}, apperr.Wrap(apperr.KindPlatform, "obs_scene_change: outbound call failed", err)
	}
	return ok(nil)
}

// OBSSourceToggleAction shows, hides, or toggles a source within a scene.
type OBSSourceToggleAction struct {
	registry.BaseAction
	Account string
	Scene   string
	Source  string
	Mode    registry.OBSToggleMode
}

type obsSourceToggleConfig struct {
	Account string `json:"account"`
	Scene   string `json:"scene"`
	Source  string `json:"source"`
	Mode    string `json:"mode"` // "show" | "hide" | "toggle"
}

func (a *OBSSourceToggleAction) Configure(config json.RawMessage) error {
	var cfg obsSourceToggleConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "obs_source_toggle: invalid config", err)
	}
	if cfg.Scene == "" || cfg.Source == "" {
		return apperr.New(apperr.KindConfig, "obs_source_toggle: scene and source are required")
	}
	mode := registry.OBSToggleMode(cfg.Mode)
	switch mode {
	case registry.OBSShow, registry.OBSHide, registry.OBSToggle:
	default:
		return apperr.New(apperr.KindConfig, "obs_source_toggle: mode must be show, hide, or toggle")
	}
	a.Account, a.Scene, a.Source, a.Mode = cfg.Account, cfg.Scene, cfg.Source, mode
	return nil
}

func (a *OBSSourceToggleAction) Execute(actx *registry.ActionContext) (registry.ActionExecResult, error) {
	if err := actx.Outbound.ToggleOBSSource(actx.Context, a.Account, a.Scene, a.Source, a.Mode); err != nil {
		return registry.ActionExecResult{}, apperr.Wrap(apperr.KindPlatform, "obs_source_toggle: outbound call failed", err)
	}
	return ok(nil)
}

var (
	_ registry.Action = (*OBSSceneChangeAction)(nil)
	_ registry.Action = (*OBSSourceToggleAction)(nil)
)
