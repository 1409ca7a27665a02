package rpc

import (
	"time"

	"github.com/kittynxr/maowbot/internal/event"
)

// PageRequest carries the facade's opaque-cursor pagination input, shared
// across every List* RPC.
type PageRequest struct {
	PageSize  int    `json:"page_size,omitempty"`
	PageToken string `json:"page_token,omitempty"`
}

// PageResponse carries the cursor to fetch the next page, empty when the
// caller has reached the end.
type PageResponse struct {
	NextPageToken string `json:"next_page_token,omitempty"`
}

// --- Credential Lifecycle Manager facade ---

type ListCredentialsRequest struct {
	PageRequest
	Platform event.Platform `json:"platform,omitempty"`
}

type CredentialSummary struct {
	CredentialID string         `json:"credential_id"`
	UserID       string         `json:"user_id"`
	Platform     event.Platform `json:"platform"`
	Account      string         `json:"account"`
	Status       string         `json:"status"`
	ExpiresAt    *time.Time     `json:"expires_at,omitempty"`
}

type ListCredentialsResponse struct {
	PageResponse
	Credentials []CredentialSummary `json:"credentials"`
}

type RefreshCredentialRequest struct {
	CredentialID string `json:"credential_id"`
}

type RefreshCredentialResponse struct {
	Credential CredentialSummary `json:"credential"`
}

type RevokeCredentialRequest struct {
	CredentialID string `json:"credential_id"`
}

type RevokeCredentialResponse struct{}

// --- Pipeline / Event Pipeline Engine facade ---

type ListPipelinesRequest struct {
	PageRequest
}

type PipelineSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Enabled  bool   `json:"enabled"`
}

type ListPipelinesResponse struct {
	PageResponse
	Pipelines []PipelineSummary `json:"pipelines"`
}

type GetPipelineRequest struct {
	ID string `json:"id"`
}

// PipelineDefinition is the wire form of pipeline.Pipeline, kept separate
// from the storage model so the facade's validation layer has a seam to
// reject malformed requests before they ever reach the store.
type PipelineDefinition struct {
	ID          string                  `json:"id,omitempty"`
	Name        string                  `json:"name"`
	Priority    int                     `json:"priority"`
	Enabled     bool                    `json:"enabled"`
	StopOnMatch bool                    `json:"stop_on_match"`
	StopOnError bool                    `json:"stop_on_error"`
	Filters     []FilterBindingWire     `json:"filters"`
	Actions     []ActionBindingWire     `json:"actions"`
}

type FilterBindingWire struct {
	Type     string          `json:"type"`
	Order    int             `json:"order"`
	Negate   bool            `json:"negate"`
	Required bool            `json:"required"`
	Config   map[string]any  `json:"config,omitempty"`
}

type ActionBindingWire struct {
	Type         string         `json:"type"`
	Order        int            `json:"order"`
	IsAsync      bool           `json:"is_async"`
	RetryCount   int            `json:"retry_count"`
	RetryDelayMs int            `json:"retry_delay_ms"`
	TimeoutMs    int            `json:"timeout_ms"`
	Config       map[string]any `json:"config,omitempty"`
}

type GetPipelineResponse struct {
	Pipeline PipelineDefinition `json:"pipeline"`
}

type UpsertPipelineRequest struct {
	Pipeline PipelineDefinition `json:"pipeline"`
}

type UpsertPipelineResponse struct {
	Pipeline PipelineDefinition `json:"pipeline"`
}

type DeletePipelineRequest struct {
	ID string `json:"id"`
}

type DeletePipelineResponse struct{}

type AddFilterRequest struct {
	PipelineID string            `json:"pipeline_id"`
	Filter     FilterBindingWire `json:"filter"`
}

type AddFilterResponse struct {
	Pipeline PipelineDefinition `json:"pipeline"`
}

type AddActionRequest struct {
	PipelineID string            `json:"pipeline_id"`
	Action     ActionBindingWire `json:"action"`
}

type AddActionResponse struct {
	Pipeline PipelineDefinition `json:"pipeline"`
}

type ListExecutionHistoryRequest struct {
	PageRequest
	PipelineID string `json:"pipeline_id,omitempty"`
}

type ExecutionRecordSummary struct {
	ExecutionID string    `json:"execution_id"`
	PipelineID  string    `json:"pipeline_id"`
	Outcome     string    `json:"outcome"`
	StartedAt   time.Time `json:"started_at"`
	DurationMs  int64     `json:"duration_ms"`
}

type ListExecutionHistoryResponse struct {
	PageResponse
	Records []ExecutionRecordSummary `json:"records"`
}

// --- Platform Manager facade ---

type ListAccountsRequest struct {
	PageRequest
}

type AccountSummary struct {
	Platform    event.Platform `json:"platform"`
	Account     string         `json:"account"`
	Connected   bool           `json:"connected"`
	AutoStarted bool           `json:"auto_started"`
}

type ListAccountsResponse struct {
	PageResponse
	Accounts []AccountSummary `json:"accounts"`
}

type StartAccountRequest struct {
	Platform event.Platform `json:"platform"`
	Account  string         `json:"account"`
}

type StartAccountResponse struct{}

type StopAccountRequest struct {
	Platform event.Platform `json:"platform"`
	Account  string         `json:"account"`
}

type StopAccountResponse struct{}
