package filters

import (
	"encoding/json"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/registry"
)

func init() {
	registry.RegisterFilter("channel_filter", func() registry.Filter { return &ChannelFilter{} })
}

// ChannelFilter passes events whose channel is in the configured set.
// Events without a channel field always reject.
type ChannelFilter struct {
	Channels map[string]struct{}
}

type channelFilterConfig struct {
	Channels []string `json:"channels"`
}

func (f *ChannelFilter) Configure(config json.RawMessage) error {
	var cfg channelFilterConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "channel_filter: invalid config", err)
	}
	if len(cfg.Channels) == 0 {
		return apperr.New(apperr.KindConfig, "channel_filter: channels must not be empty")
	}
	f.Channels = make(map[string]struct{}, len(cfg.Channels))
	for _, c := range cfg.Channels {
		f.Channels[c] = struct{}{}
	}
	return nil
}

func (f *ChannelFilter) Apply(_ *registry.EventContext, ev event.Event) (registry.FilterResult, error) {
	ch := channelOf(ev)
	if ch == "" {
		return registry.FilterResult{Outcome: registry.Reject}, nil
	}
	if _, ok := f.Channels[ch]; ok {
		return registry.FilterResult{Outcome: registry.Pass}, nil
	}
	return registry.FilterResult{Outcome: registry.Reject}, nil
}

var _ registry.Filter = (*ChannelFilter)(nil)
