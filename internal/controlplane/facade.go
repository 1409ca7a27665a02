package controlplane

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/credential"
	"github.com/kittynxr/maowbot/internal/pipeline"
	"github.com/kittynxr/maowbot/internal/platform"
	"github.com/kittynxr/maowbot/internal/rpc"
	"github.com/kittynxr/maowbot/internal/util"
)

// Facade implements rpc.ControlServiceServer: a thin translation layer over
// the engine, the credential manager and the platform manager. Each method
// calls only the owning component's public API (the pipeline mutations call
// Upsert or Delete, then Reload, then read the stored result back);
// validation and pagination windowing happen here, never business logic.
type Facade struct {
	rpc.UnimplementedControlServiceServer

	Pipelines  pipeline.Store
	History    pipeline.HistoryStore
	Credential *credential.Manager
	Platform   *platform.Manager
	Autostart  platform.AutostartStore // optional; nil means AutoStarted is always false
}

var _ rpc.ControlServiceServer = (*Facade)(nil)

// --- Credential Lifecycle Manager facade ---

func (f *Facade) ListCredentials(ctx context.Context, req *rpc.ListCredentialsRequest) (*rpc.ListCredentialsResponse, error) {
	all, err := f.Credential.ListCredentials(ctx, req.Platform)
	if err != nil {
		return nil, toStatus(err)
	}
	offset, err := decodeCursor(req.PageToken)
	if err != nil {
		return nil, toStatus(err)
	}
	size := effectivePageSize(req.PageSize)
	window := windowCredentials(all, offset, size)

	out := make([]rpc.CredentialSummary, len(window))
	for i, c := range window {
		out[i] = credentialSummary(c)
	}
	return &rpc.ListCredentialsResponse{
		PageResponse: rpc.PageResponse{NextPageToken: pageWindow(offset, size, len(window), len(all))},
		Credentials:  out,
	}, nil
}

func windowCredentials(all []credential.Credential, offset, size int) []credential.Credential {
	if offset >= len(all) {
		return nil
	}
	end := offset + size
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func credentialSummary(c credential.Credential) rpc.CredentialSummary {
	status := "valid"
	now := time.Now().UTC()
	switch {
	case c.NeedsReauth(now):
		status = "needs_reauth"
	case !c.IsValid(now):
		status = "expired"
	}
	return rpc.CredentialSummary{
		CredentialID: c.ID.String(),
		UserID:       c.UserID.String(),
		Platform:     c.Platform,
		Account:      c.AccountLabel,
		Status:       status,
		ExpiresAt:    c.ExpiresAt,
	}
}

func (f *Facade) RefreshCredential(ctx context.Context, req *rpc.RefreshCredentialRequest) (*rpc.RefreshCredentialResponse, error) {
	platformAcct, err := f.findCredential(ctx, req.CredentialID)
	if err != nil {
		return nil, toStatus(err)
	}
	refreshed, err := f.Credential.RefreshCredential(ctx, platformAcct.Platform, platformAcct.AccountLabel)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.RefreshCredentialResponse{Credential: credentialSummary(refreshed)}, nil
}

func (f *Facade) RevokeCredential(ctx context.Context, req *rpc.RevokeCredentialRequest) (*rpc.RevokeCredentialResponse, error) {
	cred, err := f.findCredential(ctx, req.CredentialID)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := f.Credential.Revoke(ctx, cred.Platform, cred.AccountLabel); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.RevokeCredentialResponse{}, nil
}

// findCredential resolves an opaque credential_id to its (platform, account)
// key by scanning ListCredentials — the store is keyed by (platform,
// account), not by credential ID, so this is the facade's own lookup, not a
// Store method.
func (f *Facade) findCredential(ctx context.Context, id string) (credential.Credential, error) {
	if _, err := util.ParseUUID(id); err != nil {
		return credential.Credential{}, apperr.New(apperr.KindInvalidInput, "malformed credential_id")
	}
	all, err := f.Credential.ListCredentials(ctx, "")
	if err != nil {
		return credential.Credential{}, err
	}
	for _, c := range all {
		if c.ID.String() == id {
			return c, nil
		}
	}
	return credential.Credential{}, apperr.New(apperr.KindNotFound, "credential not found")
}

// --- Pipeline / Event Pipeline Engine facade ---

func (f *Facade) ListPipelines(ctx context.Context, req *rpc.ListPipelinesRequest) (*rpc.ListPipelinesResponse, error) {
	all, err := f.Pipelines.ListPipelines(ctx, true)
	if err != nil {
		return nil, toStatus(err)
	}
	offset, err := decodeCursor(req.PageToken)
	if err != nil {
		return nil, toStatus(err)
	}
	size := effectivePageSize(req.PageSize)
	window := windowPipelines(all, offset, size)

	out := make([]rpc.PipelineSummary, len(window))
	for i, p := range window {
		out[i] = rpc.PipelineSummary{ID: p.ID, Name: p.Name, Priority: int(p.Priority), Enabled: p.Enabled}
	}
	return &rpc.ListPipelinesResponse{
		PageResponse: rpc.PageResponse{NextPageToken: pageWindow(offset, size, len(window), len(all))},
		Pipelines:    out,
	}, nil
}

func windowPipelines(all []pipeline.Pipeline, offset, size int) []pipeline.Pipeline {
	if offset >= len(all) {
		return nil
	}
	end := offset + size
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (f *Facade) GetPipeline(ctx context.Context, req *rpc.GetPipelineRequest) (*rpc.GetPipelineResponse, error) {
	p, err := f.Pipelines.Get(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.GetPipelineResponse{Pipeline: toPipelineWire(p)}, nil
}

func (f *Facade) UpsertPipeline(ctx context.Context, req *rpc.UpsertPipelineRequest) (*rpc.UpsertPipelineResponse, error) {
	p, err := fromPipelineWire(req.Pipeline)
	if err != nil {
		return nil, toStatus(err)
	}
	if p.Name == "" {
		return nil, toStatus(apperr.New(apperr.KindInvalidInput, "pipeline name is required"))
	}
	if p.ID == "" {
		p.ID = util.NewUUID().String()
	}
	if err := f.Pipelines.Upsert(ctx, p); err != nil {
		return nil, toStatus(err)
	}
	if err := f.Pipelines.Reload(ctx); err != nil {
		return nil, toStatus(err)
	}
	stored, err := f.Pipelines.Get(ctx, p.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.UpsertPipelineResponse{Pipeline: toPipelineWire(stored)}, nil
}

func (f *Facade) DeletePipeline(ctx context.Context, req *rpc.DeletePipelineRequest) (*rpc.DeletePipelineResponse, error) {
	if err := f.Pipelines.Delete(ctx, req.ID); err != nil {
		return nil, toStatus(err)
	}
	if err := f.Pipelines.Reload(ctx); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.DeletePipelineResponse{}, nil
}

func (f *Facade) AddFilter(ctx context.Context, req *rpc.AddFilterRequest) (*rpc.AddFilterResponse, error) {
	p, err := f.Pipelines.Get(ctx, req.PipelineID)
	if err != nil {
		return nil, toStatus(err)
	}
	binding, err := fromFilterWire(req.Filter)
	if err != nil {
		return nil, toStatus(err)
	}
	binding.ID = util.NewUUID().String()
	p.Filters = append(p.Filters, binding)
	if err := f.Pipelines.Upsert(ctx, p); err != nil {
		return nil, toStatus(err)
	}
	if err := f.Pipelines.Reload(ctx); err != nil {
		return nil, toStatus(err)
	}
	stored, err := f.Pipelines.Get(ctx, p.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.AddFilterResponse{Pipeline: toPipelineWire(stored)}, nil
}

func (f *Facade) AddAction(ctx context.Context, req *rpc.AddActionRequest) (*rpc.AddActionResponse, error) {
	p, err := f.Pipelines.Get(ctx, req.PipelineID)
	if err != nil {
		return nil, toStatus(err)
	}
	binding, err := fromActionWire(req.Action)
	if err != nil {
		return nil, toStatus(err)
	}
	binding.ID = util.NewUUID().String()
	p.Actions = append(p.Actions, binding)
	if err := f.Pipelines.Upsert(ctx, p); err != nil {
		return nil, toStatus(err)
	}
	if err := f.Pipelines.Reload(ctx); err != nil {
		return nil, toStatus(err)
	}
	stored, err := f.Pipelines.Get(ctx, p.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.AddActionResponse{Pipeline: toPipelineWire(stored)}, nil
}

func (f *Facade) ListExecutionHistory(ctx context.Context, req *rpc.ListExecutionHistoryRequest) (*rpc.ListExecutionHistoryResponse, error) {
	offset, err := decodeCursor(req.PageToken)
	if err != nil {
		return nil, toStatus(err)
	}
	size := effectivePageSize(req.PageSize)
	recs, err := f.History.History(ctx, req.PipelineID, size, offset)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]rpc.ExecutionRecordSummary, len(recs))
	for i, r := range recs {
		out[i] = rpc.ExecutionRecordSummary{
			ExecutionID: r.ExecutionID,
			PipelineID:  r.PipelineID,
			Outcome:     string(r.Outcome),
			StartedAt:   r.StartedAt,
			DurationMs:  r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
		}
	}
	next := ""
	if len(recs) == size {
		next = encodeCursor(offset + size)
	}
	return &rpc.ListExecutionHistoryResponse{
		PageResponse: rpc.PageResponse{NextPageToken: next},
		Records:      out,
	}, nil
}

// --- wire <-> storage translation ---
//
// pipeline.FilterBinding.Negated and rpc.FilterBindingWire.Negate disagree on
// name (the two types are kept deliberately separate — see the doc comment
// on PipelineDefinition), so the mapping below is explicit field by field
// rather than any form of reflection-based copy.

func toPipelineWire(p pipeline.Pipeline) rpc.PipelineDefinition {
	filters := make([]rpc.FilterBindingWire, len(p.Filters))
	for i, b := range p.Filters {
		filters[i] = rpc.FilterBindingWire{
			Type:     b.TypeKey,
			Order:    b.Order,
			Negate:   b.Negated,
			Required: b.Required,
			Config:   configToMap(b.Config),
		}
	}
	actions := make([]rpc.ActionBindingWire, len(p.Actions))
	for i, b := range p.Actions {
		actions[i] = rpc.ActionBindingWire{
			Type:         b.TypeKey,
			Order:        b.Order,
			IsAsync:      b.IsAsync,
			RetryCount:   b.RetryCount,
			RetryDelayMs: b.RetryDelayMs,
			TimeoutMs:    b.TimeoutMs,
			Config:       configToMap(b.Config),
		}
	}
	return rpc.PipelineDefinition{
		ID:          p.ID,
		Name:        p.Name,
		Priority:    int(p.Priority),
		Enabled:     p.Enabled,
		StopOnMatch: p.StopOnMatch,
		StopOnError: p.StopOnError,
		Filters:     filters,
		Actions:     actions,
	}
}

func fromPipelineWire(d rpc.PipelineDefinition) (pipeline.Pipeline, error) {
	filters := make([]pipeline.FilterBinding, len(d.Filters))
	for i, w := range d.Filters {
		b, err := fromFilterWire(w)
		if err != nil {
			return pipeline.Pipeline{}, err
		}
		filters[i] = b
	}
	actions := make([]pipeline.ActionBinding, len(d.Actions))
	for i, w := range d.Actions {
		b, err := fromActionWire(w)
		if err != nil {
			return pipeline.Pipeline{}, err
		}
		actions[i] = b
	}
	return pipeline.Pipeline{
		ID:          d.ID,
		Name:        d.Name,
		Priority:    int32(d.Priority),
		Enabled:     d.Enabled,
		StopOnMatch: d.StopOnMatch,
		StopOnError: d.StopOnError,
		Filters:     filters,
		Actions:     actions,
	}, nil
}

func fromFilterWire(w rpc.FilterBindingWire) (pipeline.FilterBinding, error) {
	if w.Type == "" {
		return pipeline.FilterBinding{}, apperr.New(apperr.KindInvalidInput, "filter type is required")
	}
	cfg, err := configFromMap(w.Config)
	if err != nil {
		return pipeline.FilterBinding{}, err
	}
	return pipeline.FilterBinding{
		TypeKey:  w.Type,
		Order:    w.Order,
		Negated:  w.Negate,
		Required: w.Required,
		Config:   cfg,
	}, nil
}

func fromActionWire(w rpc.ActionBindingWire) (pipeline.ActionBinding, error) {
	if w.Type == "" {
		return pipeline.ActionBinding{}, apperr.New(apperr.KindInvalidInput, "action type is required")
	}
	cfg, err := configFromMap(w.Config)
	if err != nil {
		return pipeline.ActionBinding{}, err
	}
	return pipeline.ActionBinding{
		TypeKey:      w.Type,
		Order:        w.Order,
		IsAsync:      w.IsAsync,
		TimeoutMs:    w.TimeoutMs,
		RetryCount:   w.RetryCount,
		RetryDelayMs: w.RetryDelayMs,
		Config:       cfg,
	}, nil
}

func configToMap(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func configFromMap(m map[string]any) (json.RawMessage, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "marshaling config", err)
	}
	return raw, nil
}

// --- Platform Manager facade ---

func (f *Facade) ListAccounts(ctx context.Context, req *rpc.ListAccountsRequest) (*rpc.ListAccountsResponse, error) {
	keys := f.Platform.Keys()
	autostarted := f.autostartSet(ctx)

	offset, err := decodeCursor(req.PageToken)
	if err != nil {
		return nil, toStatus(err)
	}
	size := effectivePageSize(req.PageSize)
	window := windowKeys(keys, offset, size)

	out := make([]rpc.AccountSummary, len(window))
	for i, k := range window {
		out[i] = rpc.AccountSummary{
			Platform:    k.Platform,
			Account:     k.Account,
			Connected:   f.Platform.IsConnected(k),
			AutoStarted: autostarted[k],
		}
	}
	return &rpc.ListAccountsResponse{
		PageResponse: rpc.PageResponse{NextPageToken: pageWindow(offset, size, len(window), len(keys))},
		Accounts:     out,
	}, nil
}

func (f *Facade) autostartSet(ctx context.Context) map[platform.Key]bool {
	set := make(map[platform.Key]bool)
	if f.Autostart == nil {
		return set
	}
	rows, err := f.Autostart.ListAutostart(ctx)
	if err != nil {
		return set
	}
	for _, r := range rows {
		if r.Enabled {
			set[platform.Key{Platform: r.Platform, Account: r.Account}] = true
		}
	}
	return set
}

func windowKeys(keys []platform.Key, offset, size int) []platform.Key {
	if offset >= len(keys) {
		return nil
	}
	end := offset + size
	if end > len(keys) {
		end = len(keys)
	}
	return keys[offset:end]
}

func (f *Facade) StartAccount(ctx context.Context, req *rpc.StartAccountRequest) (*rpc.StartAccountResponse, error) {
	if req.Account == "" {
		return nil, toStatus(apperr.New(apperr.KindInvalidInput, "account is required"))
	}
	key := platform.Key{Platform: req.Platform, Account: req.Account}
	if err := f.Platform.Start(ctx, key); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.StartAccountResponse{}, nil
}

func (f *Facade) StopAccount(ctx context.Context, req *rpc.StopAccountRequest) (*rpc.StopAccountResponse, error) {
	if req.Account == "" {
		return nil, toStatus(apperr.New(apperr.KindInvalidInput, "account is required"))
	}
	key := platform.Key{Platform: req.Platform, Account: req.Account}
	if err := f.Platform.Stop(ctx, key); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.StopAccountResponse{}, nil
}
