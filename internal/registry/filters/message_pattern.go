package filters

import (
	"encoding/json"
	"regexp"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/registry"
)

func init() {
	registry.RegisterFilter("message_pattern_filter", func() registry.Filter { return &MessagePatternFilter{} })
}

// MessagePatternFilter passes ChatMessage events whose text matches the
// configured regex list, combined with any/all semantics.
type MessagePatternFilter struct {
	patterns []*regexp.Regexp
	matchAny bool
}

type messagePatternFilterConfig struct {
	Patterns        []string `json:"patterns"`
	MatchAny        bool     `json:"match_any"`
	CaseInsensitive bool     `json:"case_insensitive"`
}

func (f *MessagePatternFilter) Configure(config json.RawMessage) error {
	var cfg messagePatternFilterConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "message_pattern_filter: invalid config", err)
	}
	if len(cfg.Patterns) == 0 {
		return apperr.New(apperr.KindConfig, "message_pattern_filter: patterns must not be empty")
	}
	f.patterns = make([]*regexp.Regexp, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		if cfg.CaseInsensitive {
			p = "(?i)" + p
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return apperr.Wrap(apperr.KindConfig, "message_pattern_filter: invalid pattern "+p, err)
		}
		f.patterns = append(f.patterns, re)
	}
	f.matchAny = cfg.MatchAny
	return nil
}

func (f *MessagePatternFilter) Apply(_ *registry.EventContext, ev event.Event) (registry.FilterResult, error) {
	text := textOf(ev)
	if text == "" {
		return registry.FilterResult{Outcome: registry.Reject}, nil
	}
	if f.matchAny {
		for _, re := range f.patterns {
			if re.MatchString(text) {
				return registry.FilterResult{Outcome: registry.Pass}, nil
			}
		}
		return registry.FilterResult{Outcome: registry.Reject}, nil
	}
	for _, re := range f.patterns {
		if !re.MatchString(text) {
			return registry.FilterResult{Outcome: registry.Reject}, nil
		}
	}
	return registry.FilterResult{Outcome: registry.Pass}, nil
}

var _ registry.Filter = (*MessagePatternFilter)(nil)
