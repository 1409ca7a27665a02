package actions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/registry"
	"github.com/kittynxr/maowbot/internal/util"
)

func init() {
	registry.RegisterAction("webhook_action", func() registry.Action { return &WebhookAction{client: http.DefaultClient} })
}

// WebhookAction is additive beyond the enumerated built-in action types: it
// POSTs the event and pipeline metadata as JSON to an arbitrary URL, for
// integrations none of the other named action types cover directly.
type WebhookAction struct {
	registry.BaseAction
	URL     string
	Headers map[string]string
	client  *http.Client
}

type webhookActionConfig struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

func (a *WebhookAction) Configure(config json.RawMessage) error {
	var cfg webhookActionConfig
	if err := json.Unmarshal(config, &cfg); err != nil {
		return apperr.Wrap(apperr.KindConfig, "webhook_action: invalid config", err)
	}
	if cfg.URL == "" {
		return apperr.New(apperr.KindConfig, "webhook_action: url is required")
	}
	a.URL, a.Headers = cfg.URL, cfg.Headers
	if a.client == nil {
		a.client = http.DefaultClient
	}
	return nil
}

func (a *WebhookAction) Execute(actx *registry.ActionContext) (registry.ActionExecResult, error) {
	body, err := json.Marshal(map[string]any{
		"event_kind": actx.Event.Kind(),
		"platform":   actx.Event.Plat(),
		"metadata":   actx.Event.Meta(),
	})
	if err != nil {
		return registry.ActionExecResult{}, apperr.Wrap(apperr.KindInternal, "webhook_action: marshaling payload", err)
	}

	bo := util.NewBackoff()
	bo.Base = 50 * time.Millisecond
	bo.Max = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequestWithContext(actx.Context, http.MethodPost, a.URL, bytes.NewReader(body))
		if err != nil {
			return registry.ActionExecResult{}, apperr.Wrap(apperr.KindConfig, "webhook_action: building request", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range a.Headers {
			req.Header.Set(k, v)
		}
		resp, err := a.client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode < 300 {
				return ok(nil)
			}
			lastErr = apperr.New(apperr.KindPlatform, "webhook_action: non-2xx response")
		} else {
			lastErr = apperr.Wrap(apperr.KindPlatform, "webhook_action: request failed", err)
		}
		if attempt < 2 {
			time.Sleep(bo.Next())
		}
	}
	return registry.ActionExecResult{}, lastErr
}

var _ registry.Action = (*WebhookAction)(nil)
