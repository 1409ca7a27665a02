package filters

import (
	"encoding/json"
	"time"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/registry"
)

func init() {
	registry.RegisterFilter("time_window_filter", func() registry.Filter { return &TimeWindowFilter{} })
}

// TimeWindowFilter passes events whose evaluation time (EventContext.Now)
// falls within [start_hour, end_hour) in the configured named timezone,
// restricted to an optional weekday mask. A window that wraps past
// midnight (start_hour > end_hour) is supported.
type TimeWindowFilter struct {
	loc           *time.Location
	startHour     int
	endHour       int
	weekdayMask   uint8 // bit i (0=Sunday) set means that weekday is allowed; 0 means "all days"
}

type timeWindowFilterConfig struct {
	Timezone    string `json:"timezone"`
	StartHour   int    `json:"start_hour"`
	EndHour     int    `json:"end_hour"`
	WeekdayMask uint8  `json:"weekday_mask,omitempty"`
}

func (f *TimeWindowFilter) Configure(config json.RawMessage) error {
	var cfg timeWindowFilterConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "time_window_filter: invalid config", err)
	}
	if cfg.StartHour < 0 || cfg.StartHour > 23 || cfg.EndHour < 0 || cfg.EndHour > 23 {
		return apperr.New(apperr.KindConfig, "time_window_filter: start_hour/end_hour must be 0-23")
	}
	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return apperr.Wrap(apperr.KindConfig, "time_window_filter: invalid timezone "+tz, err)
	}
	f.loc = loc
	f.startHour = cfg.StartHour
	f.endHour = cfg.EndHour
	f.weekdayMask = cfg.WeekdayMask
	return nil
}

func (f *TimeWindowFilter) Apply(ctx *registry.EventContext, _ event.Event) (registry.FilterResult, error) {
	now := time.Now().UTC()
	if ctx != nil && !ctx.Now.IsZero() {
		now = ctx.Now
	}
	local := now.In(f.loc)

	if f.weekdayMask != 0 {
		bit := uint8(1) << uint(local.Weekday())
		if f.weekdayMask&bit == 0 {
			return registry.FilterResult{Outcome: registry.Reject}, nil
		}
	}

	hour := local.Hour()
	var inWindow bool
	if f.startHour <= f.endHour {
		inWindow = hour >= f.startHour && hour < f.endHour
	} else {
		// Wraps past midnight, e.g. 22 -> 4.
		inWindow = hour >= f.startHour || hour < f.endHour
	}
	if inWindow {
		return registry.FilterResult{Outcome: registry.Pass}, nil
	}
	return registry.FilterResult{Outcome: registry.Reject}, nil
}

var _ registry.Filter = (*TimeWindowFilter)(nil)
