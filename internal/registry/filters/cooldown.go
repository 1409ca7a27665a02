package filters

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/registry"
)

func init() {
	registry.RegisterFilter("cooldown_filter", func() registry.Filter { return NewCooldownFilter() })
}

// cooldownEvictThreshold triggers eviction of stale entries once the map
// grows past this size, rather than on every Apply call.
const cooldownEvictThreshold = 1000

// cooldownEvictAge removes entries untouched for longer than this when the
// map is over threshold.
const cooldownEvictAge = time.Hour

// CooldownFilter passes at most once per key per cooldown window, where the
// key is platform plus optional channel plus optional user (whichever of
// channel/user the config opts into).
type CooldownFilter struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time

	cooldown   time.Duration
	perChannel bool
	perUser    bool
}

// NewCooldownFilter returns a CooldownFilter with a default cooldown of 60s,
// overridden by Configure.
func NewCooldownFilter() *CooldownFilter {
	return &CooldownFilter{lastSeen: make(map[string]time.Time), cooldown: 60 * time.Second}
}

type cooldownFilterConfig struct {
	CooldownSeconds int  `json:"cooldown_seconds"`
	PerChannel      bool `json:"per_channel"`
	PerUser         bool `json:"per_user"`
}

func (f *CooldownFilter) Configure(config json.RawMessage) error {
	var cfg cooldownFilterConfig
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return apperr.Wrap(apperr.KindConfig, "cooldown_filter: invalid config", err)
		}
	}
	if cfg.CooldownSeconds > 0 {
		f.cooldown = time.Duration(cfg.CooldownSeconds) * time.Second
	}
	f.perChannel = cfg.PerChannel
	f.perUser = cfg.PerUser
	return nil
}

func (f *CooldownFilter) key(ev event.Event) string {
	k := string(ev.Plat())
	if f.perChannel {
		k += "|" + channelOf(ev)
	}
	if f.perUser {
		k += "|" + userIDOf(ev)
	}
	return k
}

func (f *CooldownFilter) Apply(ctx *registry.EventContext, ev event.Event) (registry.FilterResult, error) {
	now := time.Now().UTC()
	if ctx != nil && !ctx.Now.IsZero() {
		now = ctx.Now
	}
	key := f.key(ev)

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.lastSeen) > cooldownEvictThreshold {
		f.evictLocked(now)
	}

	if last, ok := f.lastSeen[key]; ok && now.Sub(last) < f.cooldown {
		return registry.FilterResult{Outcome: registry.Reject}, nil
	}
	f.lastSeen[key] = now
	return registry.FilterResult{Outcome: registry.Pass}, nil
}

func (f *CooldownFilter) evictLocked(now time.Time) {
	for k, t := range f.lastSeen {
		if now.Sub(t) > cooldownEvictAge {
			delete(f.lastSeen, k)
		}
	}
}

var _ registry.Filter = (*CooldownFilter)(nil)
