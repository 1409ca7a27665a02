package filters

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/registry"
)

func mustConfigure(t *testing.T, f registry.Filter, cfg any) {
	t.Helper()
	raw, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := f.Configure(raw); err != nil {
		t.Fatalf("Configure: %v", err)
	}
}

func TestMessagePatternAndLengthCompose(t *testing.T) {
	pattern := &MessagePatternFilter{}
	mustConfigure(t, pattern, messagePatternFilterConfig{
		Patterns: []string{"^!roll", "^!flip"}, MatchAny: true, CaseInsensitive: true,
	})
	length := &MessageLengthFilter{}
	mustConfigure(t, length, messageLengthFilterConfig{Min: 2, Max: 20})

	ok := event.NewChatMessage(event.PlatformTwitchIRC, "#c", "u1", "alice", "!ROLL 3d6", nil)
	res, err := pattern.Apply(nil, ok)
	if err != nil || res.Outcome != registry.Pass {
		t.Fatalf("expected pattern pass for %q, got %+v err=%v", ok.Text, res, err)
	}
	res, err = length.Apply(nil, ok)
	if err != nil || res.Outcome != registry.Pass {
		t.Fatalf("expected length pass for %q, got %+v err=%v", ok.Text, res, err)
	}

	tooLong := event.NewChatMessage(event.PlatformTwitchIRC, "#c", "u1", "alice", "!roll this is way too long for the filter", nil)
	res, err = length.Apply(nil, tooLong)
	if err != nil || res.Outcome != registry.Reject {
		t.Fatalf("expected length reject for long message, got %+v err=%v", res, err)
	}
}

func TestCooldownFilterTiming(t *testing.T) {
	f := NewCooldownFilter()
	mustConfigure(t, f, cooldownFilterConfig{CooldownSeconds: 5, PerUser: true})

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ev := event.NewChatMessage(event.PlatformTwitchIRC, "#c", "u1", "alice", "hi", nil)

	ctx := &registry.EventContext{Now: base}
	res, err := f.Apply(ctx, ev)
	if err != nil || res.Outcome != registry.Pass {
		t.Fatalf("expected first Apply to pass, got %+v err=%v", res, err)
	}

	ctx.Now = base.Add(2 * time.Second)
	res, err = f.Apply(ctx, ev)
	if err != nil || res.Outcome != registry.Reject {
		t.Fatalf("expected Apply within cooldown to reject, got %+v err=%v", res, err)
	}

	ctx.Now = base.Add(5 * time.Second)
	res, err = f.Apply(ctx, ev)
	if err != nil || res.Outcome != registry.Pass {
		t.Fatalf("expected Apply at cooldown boundary to pass, got %+v err=%v", res, err)
	}
}

func TestPlatformFilterRejectsUnconfiguredPlatform(t *testing.T) {
	f := &PlatformFilter{}
	mustConfigure(t, f, platformFilterConfig{Platforms: []string{string(event.PlatformDiscord)}})

	ev := event.NewChatMessage(event.PlatformTwitchIRC, "#c", "u1", "alice", "hi", nil)
	res, err := f.Apply(nil, ev)
	if err != nil || res.Outcome != registry.Reject {
		t.Fatalf("expected reject for mismatched platform, got %+v err=%v", res, err)
	}
}

func TestUserLevelFilter(t *testing.T) {
	f := &UserLevelFilter{}
	mustConfigure(t, f, userLevelFilterConfig{Expression: "level >= 3"})

	ev := event.NewChatMessage(event.PlatformTwitchIRC, "#c", "u1", "alice", "hi", event.Metadata{event.MetaLevel: float64(5)})
	res, err := f.Apply(nil, ev)
	if err != nil || res.Outcome != registry.Pass {
		t.Fatalf("expected pass for level 5 >= 3, got %+v err=%v", res, err)
	}

	low := event.NewChatMessage(event.PlatformTwitchIRC, "#c", "u1", "alice", "hi", event.Metadata{event.MetaLevel: float64(1)})
	res, err = f.Apply(nil, low)
	if err != nil || res.Outcome != registry.Reject {
		t.Fatalf("expected reject for level 1 >= 3, got %+v err=%v", res, err)
	}
}
