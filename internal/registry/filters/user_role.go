package filters

import (
	"encoding/json"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/registry"
)

func init() {
	registry.RegisterFilter("user_role_filter", func() registry.Filter { return &UserRoleFilter{} })
}

// UserRoleFilter passes events where the acting user has at least one of
// the configured roles. Roles come from the event's "roles" metadata key
// when present, otherwise from the injected UserLookup.
type UserRoleFilter struct {
	Required map[string]struct{}
}

type userRoleFilterConfig struct {
	Roles []string `json:"roles"`
}

func (f *UserRoleFilter) Configure(config json.RawMessage) error {
	var cfg userRoleFilterConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "user_role_filter: invalid config", err)
	}
	if len(cfg.Roles) == 0 {
		return apperr.New(apperr.KindConfig, "user_role_filter: roles must not be empty")
	}
	f.Required = make(map[string]struct{}, len(cfg.Roles))
	for _, r := range cfg.Roles {
		f.Required[r] = struct{}{}
	}
	return nil
}

func (f *UserRoleFilter) Apply(ctx *registry.EventContext, ev event.Event) (registry.FilterResult, error) {
	roles := rolesOf(ctx, ev)
	for _, r := range roles {
		if _, ok := f.Required[r]; ok {
			return registry.FilterResult{Outcome: registry.Pass}, nil
		}
	}
	return registry.FilterResult{Outcome: registry.Reject}, nil
}

func rolesOf(ctx *registry.EventContext, ev event.Event) []string {
	if raw, ok := ev.Meta()[event.MetaRoles]; ok {
		if list, ok := raw.([]string); ok {
			return list
		}
		if list, ok := raw.([]any); ok {
			out := make([]string, 0, len(list))
			for _, v := range list {
				if s, ok := v.(string); ok {
					out = append(out, s)
				}
			}
			return out
		}
	}
	if ctx != nil && ctx.Users != nil {
		uid := userIDOf(ev)
		if uid != "" {
			return ctx.Users.RolesFor(ctx.Context, ev.Plat(), uid)
		}
	}
	return nil
}

var _ registry.Filter = (*UserRoleFilter)(nil)
