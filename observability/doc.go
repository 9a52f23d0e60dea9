// Package observability wires OpenTelemetry tracing and metrics into
// tabkit stream passes and HTTP handlers.
//
// Tracing and metrics export over OTLP/HTTP once InitTracer and InitMeter
// have installed global providers; until then spans and instruments are
// no-ops.
//
//	ctx, pass := observability.StartPass(ctx, metrics, observability.SpanRecipeApply,
//	    attribute.String(observability.AttrRecipe, name))
//	n, err := csvio.Write(ctx, w, observability.CountRows(metrics, name)(stream))
//	pass.End(ctx, n, err)
package observability
