package filters

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/registry"
)

func init() {
	registry.RegisterFilter("message_length_filter", func() registry.Filter { return &MessageLengthFilter{} })
}

// MessageLengthFilter passes ChatMessage events whose text rune count falls
// within [min, max] (max <= 0 means unbounded).
type MessageLengthFilter struct {
	Min, Max int
}

type messageLengthFilterConfig struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (f *MessageLengthFilter) Configure(config json.RawMessage) error {
	var cfg messageLengthFilterConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "message_length_filter: invalid config", err)
	}
	if cfg.Min < 0 || (cfg.Max > 0 && cfg.Max < cfg.Min) {
		return apperr.New(apperr.KindConfig, "message_length_filter: invalid min/max")
	}
	f.Min, f.Max = cfg.Min, cfg.Max
	return nil
}

func (f *MessageLengthFilter) Apply(_ *registry.EventContext, ev event.Event) (registry.FilterResult, error) {
	text := textOf(ev)
	n := utf8.RuneCountInString(text)
	if n < f.Min {
		return registry.FilterResult{Outcome: registry.Reject}, nil
	}
	if f.Max > 0 && n > f.Max {
		return registry.FilterResult{Outcome: registry.Reject}, nil
	}
	return registry.FilterResult{Outcome: registry.Pass}, nil
}

var _ registry.Filter = (*MessageLengthFilter)(nil)
