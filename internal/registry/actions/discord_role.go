package actions

import (
	"encoding/json"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/registry"
)

func init() {
	registry.RegisterAction("discord_role_add", func() registry.Action { return &DiscordRoleAddAction{} })
	registry.RegisterAction("discord_role_remove", func() registry.Action { return &DiscordRoleRemoveAction{} })
}

type discordRoleConfig struct {
	Account string `json:"account"`
	GuildID string `json:"guild_id"`
	RoleID  string `json:"role_id"`
}

func (c discordRoleConfig) validate(kind string) error {
	if c.GuildID == "" || c.RoleID == "" {
		return apperr.New(apperr.KindConfig, kind+": guild_id and role_id are required")
	}
	return nil
}

// DiscordRoleAddAction grants a Discord role to the acting user.
type DiscordRoleAddAction struct {
	registry.BaseAction
	cfg discordRoleConfig
}

func (a *DiscordRoleAddAction) Configure(config json.RawMessage) error {
	if err := json.Unmarshal(config, &a.cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "discord_role_add: invalid config", err)
	}
	return a.cfg.validate("discord_role_add")
}

func (a *DiscordRoleAddAction) Execute(actx *registry.ActionContext) (registry.ActionExecResult, error) {
	userID := userIDFromActionContext(actx)
	if userID == "" {
		return skipped("no user id on event")
	}
	if err := actx.Outbound.AddDiscordRole(actx.Context, a.cfg.Account, a.cfg.GuildID, userID, a.cfg.RoleID); err != nil {
		return registry.ActionExecResult{}, apperr.Wrap(apperr.KindPlatform, "discord_role_add: outbound call failed", err)
	}
	return ok(nil)
}

// DiscordRoleRemoveAction revokes a Discord role from the acting user.
type DiscordRoleRemoveAction struct {
	registry.BaseAction
	cfg discordRoleConfig
}

func (a *DiscordRoleRemoveAction) Configure(config json.RawMessage) error {
	if err := json.Unmarshal(config, &a.cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "discord_role_remove: invalid config", err)
	}
	return a.cfg.validate("discord_role_remove")
}

func (a *DiscordRoleRemoveAction) Execute(actx *registry.ActionContext) (registry.ActionExecResult, error) {
	userID := userIDFromActionContext(actx)
	if userID == "" {
		return skipped("no user id on event")
	}
	if err := actx.Outbound.RemoveDiscordRole(actx.Context, a.cfg.Account, a.cfg.GuildID, userID, a.cfg.RoleID); err != nil {
		return registry.ActionExecResult{}, apperr.Wrap(apperr.KindPlatform, "discord_role_remove: outbound call failed", err)
	}
	return ok(nil)
}

var (
	_ registry.Action = (*DiscordRoleAddAction)(nil)
	_ registry.Action = (*DiscordRoleRemoveAction)(nil)
)
