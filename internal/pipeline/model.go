// Package pipeline holds the pipeline/filter/action data model, the
// pipeline repository contract, and the two execution-history backends
// (in-memory and Redis).
package pipeline

import (
	"encoding/json"
	"time"
)

// FilterBinding configures one filter instance inside a Pipeline.
type FilterBinding struct {
	ID       string          `json:"id"`
	TypeKey  string          `json:"type_key"`
	Config   json.RawMessage `json:"config,omitempty"`
	Order    int             `json:"order"`
	Negated  bool            `json:"negated"`
	Required bool            `json:"required"`
}

// ActionBinding configures one action instance inside a Pipeline.
type ActionBinding struct {
	ID              string          `json:"id"`
	TypeKey         string          `json:"type_key"`
	Config          json.RawMessage `json:"config,omitempty"`
	Order           int             `json:"order"`
	ContinueOnError bool            `json:"continue_on_error"`
	IsAsync         bool            `json:"is_async"`
	TimeoutMs       int             `json:"timeout_ms"`
	RetryCount      int             `json:"retry_count"`
	RetryDelayMs    int             `json:"retry_delay_ms"`
}

// Pipeline is an ordered sequence of filters followed by actions, evaluated
// against each event. Pipelines are sorted globally by (Priority asc, ID
// asc) for deterministic evaluation order.
type Pipeline struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Priority     int32           `json:"priority"`
	Enabled      bool            `json:"enabled"`
	StopOnMatch  bool            `json:"stop_on_match"`
	StopOnError  bool            `json:"stop_on_error"`
	Filters      []FilterBinding `json:"filters"`
	Actions      []ActionBinding `json:"actions"`
}

// Clone returns a deep copy so callers can't mutate store-internal state.
func (p Pipeline) Clone() Pipeline {
	out := p
	out.Filters = append([]FilterBinding(nil), p.Filters...)
	out.Actions = append([]ActionBinding(nil), p.Actions...)
	return out
}

// Outcome is the terminal state of one pipeline's handling of one event.
type Outcome string

const (
	OutcomeMatched         Outcome = "matched"
	OutcomeSkippedByFilter Outcome = "skipped_by_filter"
	OutcomeErrored         Outcome = "errored"
)

// ActionOutcome is the terminal state of one action execution.
type ActionOutcome string

const (
	ActionSuccess ActionOutcome = "success"
	ActionSkipped ActionOutcome = "skipped"
	ActionError   ActionOutcome = "error"
)

// ActionResult records one action's outcome within an ExecutionRecord.
type ActionResult struct {
	ActionID   string        `json:"action_id"`
	Outcome    ActionOutcome `json:"outcome"`
	Message    string        `json:"message,omitempty"`
	DurationMs int64         `json:"duration_ms"`
}

// ExecutionRecord is an append-only entry describing one pipeline's handling
// of one event.
type ExecutionRecord struct {
	ExecutionID      string         `json:"execution_id"`
	PipelineID       string         `json:"pipeline_id"`
	EventFingerprint string         `json:"event_fingerprint"`
	StartedAt        time.Time      `json:"started_at"`
	FinishedAt       time.Time      `json:"finished_at"`
	Outcome          Outcome        `json:"outcome"`
	ActionResults    []ActionResult `json:"action_results,omitempty"`
}
