// Package executor implements the pipeline match/filter/action loop: the
// heart of the control plane, turning bus events into ExecutionRecords.
package executor

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const attrFingerprintKey = "maowbot.event_fingerprint"

// StartLinkedSpan starts a child span of the span in ctx (or a root span if
// ctx has none) and attaches the dispatch's event fingerprint as an
// attribute, so traces can be cross-referenced with the execution history
// rows the same fingerprint is stamped on.
func StartLinkedSpan(ctx context.Context, tracer trace.Tracer, name, fingerprint string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	opts = append(opts, trace.WithAttributes(attribute.String(attrFingerprintKey, fingerprint)))
	return tracer.Start(ctx, name, opts...)
}
