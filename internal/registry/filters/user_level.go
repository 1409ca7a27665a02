package filters

import (
	"encoding/json"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/registry"
	"github.com/kittynxr/maowbot/internal/registry/filters/condition"
)

func init() {
	registry.RegisterFilter("user_level_filter", func() registry.Filter { return &UserLevelFilter{} })
}

// UserLevelFilter passes events whose acting user's level satisfies a
// single comparison expression, e.g. "level >= 3".
type UserLevelFilter struct {
	predicate condition.Predicate
}

type userLevelFilterConfig struct {
	Expression string `json:"expression"`
}

func (f *UserLevelFilter) Configure(config json.RawMessage) error {
	var cfg userLevelFilterConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "user_level_filter: invalid config", err)
	}
	pred, err := condition.Compile(cfg.Expression)
	if err != nil {
		return apperr.Wrap(apperr.KindConfig, "user_level_filter: bad expression", err)
	}
	f.predicate = pred
	return nil
}

func (f *UserLevelFilter) Apply(ctx *registry.EventContext, ev event.Event) (registry.FilterResult, error) {
	level := levelOf(ctx, ev)
	if f.predicate(map[string]float64{"level": level}) {
		return registry.FilterResult{Outcome: registry.Pass}, nil
	}
	return registry.FilterResult{Outcome: registry.Reject}, nil
}

func levelOf(ctx *registry.EventContext, ev event.Event) float64 {
	if raw, ok := ev.Meta()[event.MetaLevel]; ok {
		switch v := raw.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
	}
	if ctx != nil && ctx.Users != nil {
		uid := userIDOf(ev)
		if uid != "" {
			return float64(ctx.Users.LevelFor(ctx.Context, ev.Plat(), uid))
		}
	}
	return 0
}

var _ registry.Filter = (*UserLevelFilter)(nil)
