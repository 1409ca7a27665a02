package actions

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/logging"
	"github.com/kittynxr/maowbot/internal/registry"
)

func init() {
	registry.RegisterAction("log_action", func() registry.Action { return &LogAction{} })
}

// LogAction writes a structured log line at a configured level, optionally
// prefixed. It never fails — it's meant for pipeline debugging.
type LogAction struct {
	registry.BaseAction
	Level  string
	Prefix string
}

type logActionConfig struct {
	Level  string `json:"level"`
	Prefix string `json:"prefix"`
}

func (a *LogAction) Configure(config json.RawMessage) error {
	var cfg logActionConfig
	if len(config) > 0 {
		if err := json.Unmarshal(config, &cfg); err != nil {
			return apperr.Wrap(apperr.KindConfig, "log_action: invalid config", err)
		}
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	a.Level = cfg.Level
	a.Prefix = cfg.Prefix
	return nil
}

func (a *LogAction) Execute(actx *registry.ActionContext) (registry.ActionExecResult, error) {
	msg := a.Prefix
	if msg == "" {
		msg = "pipeline log_action"
	}
	fields := []zap.Field{zap.String("event_kind", actx.Event.Kind())}
	switch a.Level {
	case "debug":
		logging.Logger().Debug(msg, fields...)
	case "warn":
		logging.Logger().Warn(msg, fields...)
	case "error":
		logging.Logger().Error(msg, fields...)
	default:
		logging.Logger().Info(msg, fields...)
	}
	return ok(nil)
}

var _ registry.Action = (*LogAction)(nil)
