package executor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/eventbus"
	"github.com/kittynxr/maowbot/internal/logging"
	"github.com/kittynxr/maowbot/internal/metrics"
	"github.com/kittynxr/maowbot/internal/pipeline"
	"github.com/kittynxr/maowbot/internal/registry"
	"github.com/kittynxr/maowbot/internal/util"
)

// Executor runs the match/filter/action loop: on every event, iterate
// the current pipeline snapshot in (priority asc, id asc) order, evaluate
// each pipeline's filters, execute its actions, and append one
// ExecutionRecord per pipeline touched.
//
// Distinct events are processed concurrently on a bounded worker pool;
// within one event, pipelines run sequentially to preserve stop_on_match /
// stop_on_error semantics.
type Executor struct {
	Store   pipeline.Store
	History pipeline.HistoryStore

	Outbound   registry.Outbound
	Credential registry.CredentialGetter
	Users      registry.UserLookup

	// Workers bounds concurrent event dispatch; 0 uses runtime.NumCPU().
	Workers int

	// Tracer, if non-nil, wraps each dispatch in a linked span. Nil disables
	// tracing (tests, or builds without an exporter configured).
	Tracer trace.Tracer

	compiledMu sync.Mutex
	compiled   map[string]*compiledPipeline

	wg   sync.WaitGroup
	sem  chan struct{}
	once sync.Once
}

// compiledPipeline caches instantiated, stateful Filter/Action instances for
// one pipeline definition. Filters like cooldown_filter hold in-memory state
// (last-fired timestamps) that must survive across events as long as the
// pipeline definition itself hasn't changed; recompiling on every dispatch
// would silently reset that state every time.
type compiledPipeline struct {
	hash    string
	filters []compiledFilter
	actions []compiledAction
}

type compiledFilter struct {
	binding pipeline.FilterBinding
	filter  registry.Filter
}

type compiledAction struct {
	binding pipeline.ActionBinding
	action  registry.Action
}

func (e *Executor) init() {
	e.once.Do(func() {
		workers := e.Workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		if workers < 1 {
			workers = 1
		}
		e.sem = make(chan struct{}, workers)
		e.compiled = make(map[string]*compiledPipeline)
		if e.Tracer == nil {
			e.Tracer = otel.Tracer("maowbot/executor")
		}
	})
}

// Run subscribes to bus and dispatches every event it receives until the
// bus is shut down or ctx is canceled. Each event is dispatched on a pool
// goroutine; Run itself blocks until shutdown.
func (e *Executor) Run(ctx context.Context, bus *eventbus.Bus) {
	e.init()
	recv := bus.Subscribe(0)
	defer bus.Unsubscribe(recv)

	for {
		select {
		case <-ctx.Done():
			e.wg.Wait()
			return
		case <-recv.Shutdown:
			e.wg.Wait()
			return
		case ev := <-recv.C:
			e.sem <- struct{}{}
			e.wg.Add(1)
			go func(ev event.Event) {
				defer e.wg.Done()
				defer func() { <-e.sem }()
				e.Dispatch(ctx, ev)
			}(ev)
		}
	}
}

// Stop waits for all in-flight dispatches to finish.
func (e *Executor) Stop() {
	e.wg.Wait()
}

// Dispatch runs one event through the current pipeline snapshot. It is safe
// to call directly (tests do), bypassing Run/the bus.
func (e *Executor) Dispatch(ctx context.Context, ev event.Event) {
	e.init()

	fingerprint := fingerprintOf(ev)
	ctx, span := StartLinkedSpan(ctx, e.Tracer, "pipeline.dispatch", fingerprint)
	defer span.End()

	ectx := &registry.EventContext{
		Context:    ctx,
		Now:        time.Now().UTC(),
		Outbound:   e.Outbound,
		Credential: e.Credential,
		Users:      e.Users,
		Cache:      make(map[string]any),
	}

	for _, p := range e.Store.Snapshot() {
		outcome, results := e.runPipeline(ectx, p, ev, fingerprint)
		metrics.PipelineExecutionsTotal.WithLabelValues(string(outcome)).Inc()

		rec := pipeline.ExecutionRecord{
			ExecutionID:      util.MustNew(),
			PipelineID:       p.ID,
			EventFingerprint: fingerprint,
			StartedAt:        ectx.Now,
			FinishedAt:       time.Now().UTC(),
			Outcome:          outcome,
			ActionResults:    results,
		}
		if err := e.History.AppendHistory(ctx, rec); err != nil {
			logging.Logger().Sugar().Warnw("executor: failed to append execution history",
				"pipeline_id", p.ID, "error", err)
		}

		matched := false
		for _, r := range results {
			if r.Outcome == pipeline.ActionSuccess {
				matched = true
				break
			}
		}
		if matched && p.StopOnMatch {
			return
		}
		if outcome == pipeline.OutcomeErrored && p.StopOnError {
			return
		}
	}
}

// runPipeline evaluates one pipeline's filters then actions against ev.
func (e *Executor) runPipeline(ectx *registry.EventContext, p pipeline.Pipeline, ev event.Event, fingerprint string) (pipeline.Outcome, []pipeline.ActionResult) {
	cp, err := e.getCompiled(p)
	if err != nil {
		logging.Logger().Sugar().Errorw("executor: pipeline failed to compile, skipping",
			"pipeline_id", p.ID, "error", err)
		return pipeline.OutcomeErrored, nil
	}

	current := ev
	for _, cf := range cp.filters {
		res, err := cf.filter.Apply(ectx, current)
		if err != nil {
			logging.Logger().Sugar().Warnw("executor: filter errored, treating as reject",
				"pipeline_id", p.ID, "filter_id", cf.binding.ID, "error", err)
			res = registry.FilterResult{Outcome: registry.Reject}
		}

		outcome := res.Outcome
		if cf.binding.Negated {
			switch outcome {
			case registry.Pass:
				outcome = registry.Reject
			case registry.Reject:
				outcome = registry.Pass
			}
		}

		switch outcome {
		case registry.Pass:
			continue
		case registry.Transform:
			if res.TransformedEvent != nil {
				current = res.TransformedEvent
			}
			continue
		case registry.Reject:
			if cf.binding.Required {
				return pipeline.OutcomeSkippedByFilter, nil
			}
			continue
		}
	}

	results := make([]pipeline.ActionResult, len(cp.actions))
	var asyncWG sync.WaitGroup
	var resultsMu sync.Mutex

	abortErrored := false
	for i, ca := range cp.actions {
		actx := &registry.ActionContext{
			EventContext: *ectx,
			Event:        current,
			Scratch:      make(map[string]any),
		}

		if ca.binding.IsAsync {
			asyncWG.Add(1)
			go func(idx int, ca compiledAction) {
				defer asyncWG.Done()
				r := e.executeWithRetry(actx, ca.binding, ca.action)
				resultsMu.Lock()
				results[idx] = r
				resultsMu.Unlock()
			}(i, ca)
			continue
		}

		r := e.executeWithRetry(actx, ca.binding, ca.action)
		results[i] = r
		if r.Outcome == pipeline.ActionError && !ca.binding.ContinueOnError {
			abortErrored = true
			break
		}
	}
	asyncWG.Wait()

	// Trim any unused trailing slots left by an early abort.
	trimmed := results[:0]
	for _, r := range results {
		if r.ActionID == "" {
			continue
		}
		trimmed = append(trimmed, r)
	}

	if abortErrored {
		return pipeline.OutcomeErrored, trimmed
	}
	return pipeline.OutcomeMatched, trimmed
}

// executeWithRetry runs one action to completion, honoring timeout_ms,
// retry_count, and retry_delay_ms. DurationMs covers every attempt,
// including inter-attempt sleeps, so retried-then-succeeded actions report
// the full wall-clock cost.
func (e *Executor) executeWithRetry(actx *registry.ActionContext, binding pipeline.ActionBinding, action registry.Action) pipeline.ActionResult {
	start := time.Now()
	attempts := binding.RetryCount + 1

	var lastErr error
	var lastOutcome registry.ActionOutcome
	var lastDetail []byte

	for attempt := 0; attempt < attempts; attempt++ {
		callCtx := actx.Context
		var cancel context.CancelFunc
		if binding.TimeoutMs > 0 {
			callCtx, cancel = context.WithTimeout(actx.Context, time.Duration(binding.TimeoutMs)*time.Millisecond)
		}

		callActx := *actx
		callActx.Context = callCtx
		res, err := action.Execute(&callActx)
		if cancel != nil {
			cancel()
		}

		if err == nil {
			lastOutcome, lastDetail, lastErr = res.Outcome, res.Detail, nil
			break
		}
		lastErr = err
		lastOutcome = registry.ActionError

		if attempt < attempts-1 {
			time.Sleep(time.Duration(binding.RetryDelayMs) * time.Millisecond)
		}
	}

	out := pipeline.ActionResult{
		ActionID:   binding.ID,
		DurationMs: time.Since(start).Milliseconds(),
	}
	switch {
	case lastErr != nil:
		out.Outcome = pipeline.ActionError
		out.Message = string(apperr.KindOf(lastErr)) + ": " + lastErr.Error()
	case lastOutcome == registry.ActionSkipped:
		out.Outcome = pipeline.ActionSkipped
		out.Message = string(lastDetail)
	default:
		out.Outcome = pipeline.ActionSuccess
	}
	return out
}

// getCompiled returns the cached compiled pipeline for p, recompiling only
// if p's definition has changed since the last compile (detected by a
// content hash, not identity, since Snapshot returns fresh clones).
func (e *Executor) getCompiled(p pipeline.Pipeline) (*compiledPipeline, error) {
	h := hashPipeline(p)

	e.compiledMu.Lock()
	if cp, ok := e.compiled[p.ID]; ok && cp.hash == h {
		e.compiledMu.Unlock()
		return cp, nil
	}
	e.compiledMu.Unlock()

	sortedFilters := append([]pipeline.FilterBinding(nil), p.Filters...)
	sort.Slice(sortedFilters, func(i, j int) bool { return sortedFilters[i].Order < sortedFilters[j].Order })
	sortedActions := append([]pipeline.ActionBinding(nil), p.Actions...)
	sort.Slice(sortedActions, func(i, j int) bool { return sortedActions[i].Order < sortedActions[j].Order })

	cp := &compiledPipeline{hash: h}
	for _, fb := range sortedFilters {
		f, ok, err := registry.NewFilter(fb.TypeKey, fb.Config)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindConfig, fmt.Sprintf("pipeline %s: filter %s", p.ID, fb.ID), err)
		}
		if !ok {
			return nil, apperr.New(apperr.KindConfig, fmt.Sprintf("pipeline %s: unknown filter type_key %q", p.ID, fb.TypeKey))
		}
		cp.filters = append(cp.filters, compiledFilter{binding: fb, filter: f})
	}
	for _, ab := range sortedActions {
		a, ok, err := registry.NewAction(ab.TypeKey, ab.Config)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindConfig, fmt.Sprintf("pipeline %s: action %s", p.ID, ab.ID), err)
		}
		if !ok {
			return nil, apperr.New(apperr.KindConfig, fmt.Sprintf("pipeline %s: unknown action type_key %q", p.ID, ab.TypeKey))
		}
		cp.actions = append(cp.actions, compiledAction{binding: ab, action: a})
	}

	e.compiledMu.Lock()
	e.compiled[p.ID] = cp
	e.compiledMu.Unlock()
	return cp, nil
}

func hashPipeline(p pipeline.Pipeline) string {
	b, _ := json.Marshal(p)
	sum := fnv.New64a()
	sum.Write(b)
	return fmt.Sprintf("%x", sum.Sum64())
}

// fingerprintOf derives a stable-enough identifier for one event instance,
// used to correlate its ExecutionRecords with the OTel span covering its
// dispatch.
func fingerprintOf(ev event.Event) string {
	b, _ := json.Marshal(ev)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}
