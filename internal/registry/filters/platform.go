package filters

import (
	"encoding/json"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/registry"
)

func init() {
	registry.RegisterFilter("platform_filter", func() registry.Filter { return &PlatformFilter{} })
}

// PlatformFilter passes events whose Platform is in the configured set.
type PlatformFilter struct {
	Platforms map[event.Platform]struct{}
}

type platformFilterConfig struct {
	Platforms []string `json:"platforms"`
}

func (f *PlatformFilter) Configure(config json.RawMessage) error {
	var cfg platformFilterConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "platform_filter: invalid config", err)
	}
	if len(cfg.Platforms) == 0 {
		return apperr.New(apperr.KindConfig, "platform_filter: platforms must not be empty")
	}
	f.Platforms = make(map[event.Platform]struct{}, len(cfg.Platforms))
	for _, p := range cfg.Platforms {
		f.Platforms[event.Platform(p)] = struct{}{}
	}
	return nil
}

func (f *PlatformFilter) Apply(_ *registry.EventContext, ev event.Event) (registry.FilterResult, error) {
	if _, ok := f.Platforms[ev.Plat()]; ok {
		return registry.FilterResult{Outcome: registry.Pass}, nil
	}
	return registry.FilterResult{Outcome: registry.Reject}, nil
}

var _ registry.Filter = (*PlatformFilter)(nil)
