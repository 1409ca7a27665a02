// Package registry holds the two parallel type_key -> factory registries for
// filters and actions, plus the interfaces built-in and third-party filter
// and action implementations must satisfy. Registration happens at startup
// via built-in packages' init() functions (see internal/registry/filters and
// internal/registry/actions); the registries are immutable thereafter.
package registry

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kittynxr/maowbot/internal/event"
)

// FilterOutcome is what Filter.Apply returns before negation is applied by
// the caller.
type FilterOutcome int

const (
	Pass FilterOutcome = iota
	Reject
	Transform
)

// FilterResult is Filter.Apply's full return value. TransformedEvent is only
// meaningful when Outcome == Transform.
type FilterResult struct {
	Outcome          FilterOutcome
	TransformedEvent event.Event
}

// Filter is a pure predicate (possibly stateful, e.g. cooldowns) evaluated
// against one event.
type Filter interface {
	Configure(config json.RawMessage) error
	Apply(ctx *EventContext, ev event.Event) (FilterResult, error)
}

// ActionExecResult is Action.Execute's return value.
type ActionExecResult struct {
	Outcome ActionOutcome
	Detail  json.RawMessage
}

// ActionOutcome mirrors pipeline.ActionOutcome without importing the
// pipeline package, so action implementations depend on registry alone.
// internal/executor converts between the two when recording history.
type ActionOutcome string

const (
	ActionSuccess ActionOutcome = "success"
	ActionSkipped ActionOutcome = "skipped"
	ActionError   ActionOutcome = "error"
)

// Action is a side-effecting operation against an external platform.
type Action interface {
	Configure(config json.RawMessage) error
	Execute(actx *ActionContext) (ActionExecResult, error)
	// IsParallelizable reports whether the executor may run this action
	// concurrently with siblings in the same pipeline. Default false for
	// types that don't override it (see BaseAction).
	IsParallelizable() bool
}

// BaseAction gives concrete action types a default non-parallelizable
// IsParallelizable so they only override it when they actually support
// concurrent execution.
type BaseAction struct{}

func (BaseAction) IsParallelizable() bool { return false }

// FilterFactory produces a fresh, unconfigured Filter instance.
type FilterFactory func() Filter

// ActionFactory produces a fresh, unconfigured Action instance.
type ActionFactory func() Action

var (
	filterMu  sync.RWMutex
	filters   = make(map[string]FilterFactory)

	actionMu sync.RWMutex
	actions  = make(map[string]ActionFactory)
)

// RegisterFilter adds a factory under type_key. Duplicate registration
// panics to surface a programmer error (duplicate built-in names) early,
// the same way the plugin registry it's modeled on does.
func RegisterFilter(typeKey string, f FilterFactory) {
	filterMu.Lock()
	defer filterMu.Unlock()
	if _, exists := filters[typeKey]; exists {
		panic(fmt.Sprintf("registry: duplicate filter type_key %q", typeKey))
	}
	filters[typeKey] = f
}

// RegisterAction adds a factory under type_key. See RegisterFilter for the
// duplicate-registration policy.
func RegisterAction(typeKey string, f ActionFactory) {
	actionMu.Lock()
	defer actionMu.Unlock()
	if _, exists := actions[typeKey]; exists {
		panic(fmt.Sprintf("registry: duplicate action type_key %q", typeKey))
	}
	actions[typeKey] = f
}

// NewFilter instantiates and configures a Filter for typeKey. Unknown
// typeKey is reported via ok=false so callers (the pipeline loader) can
// treat it as a load error scoped to the one pipeline, not a global failure.
func NewFilter(typeKey string, config json.RawMessage) (Filter, bool, error) {
	filterMu.RLock()
	f, ok := filters[typeKey]
	filterMu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	inst := f()
	if err := inst.Configure(config); err != nil {
		return nil, true, err
	}
	return inst, true, nil
}

// NewAction instantiates and configures an Action for typeKey. See NewFilter
// for the unknown-typeKey contract.
func NewAction(typeKey string, config json.RawMessage) (Action, bool, error) {
	actionMu.RLock()
	f, ok := actions[typeKey]
	actionMu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	inst := f()
	if err := inst.Configure(config); err != nil {
		return nil, true, err
	}
	return inst, true, nil
}

// KnownFilterTypes returns the registered filter type_keys, for diagnostics.
func KnownFilterTypes() []string {
	filterMu.RLock()
	defer filterMu.RUnlock()
	out := make([]string, 0, len(filters))
	for k := range filters {
		out = append(out, k)
	}
	return out
}

// KnownActionTypes returns the registered action type_keys, for diagnostics.
func KnownActionTypes() []string {
	actionMu.RLock()
	defer actionMu.RUnlock()
	out := make([]string, 0, len(actions))
	for k := range actions {
		out = append(out, k)
	}
	return out
}
