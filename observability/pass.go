package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/tabkit/errors"
)

// Pass status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Pass tracks one traced and timed pass over a stream.
type Pass struct {
	operation string
	span      trace.Span
	metrics   *Metrics
	start     time.Time
}

// StartPass opens a span named after operation and starts the pass clock.
// metrics may be nil.
func StartPass(ctx context.Context, metrics *Metrics, operation string, attrs ...attribute.KeyValue) (context.Context, *Pass) {
	ctx, span := StartSpan(ctx, operation, trace.WithAttributes(attrs...))
	return ctx, &Pass{
		operation: operation,
		span:      span,
		metrics:   metrics,
		start:     time.Now(),
	}
}

// End closes the span and records the pass. rows is the number of data
// rows produced before err, if any.
func (p *Pass) End(ctx context.Context, rows int, err error) {
	status := StatusOK
	p.span.SetAttributes(attribute.Int(AttrRows, rows))
	if err != nil {
		status = StatusError
		code := ErrorCode(err)
		p.span.RecordError(err)
		p.span.SetStatus(codes.Error, err.Error())
		p.span.SetAttributes(attribute.String(AttrErrorCode, code))
		p.metrics.RecordError(ctx, code, p.operation)
	}
	p.span.SetAttributes(attribute.String(AttrStatus, status))
	p.span.End()
	p.metrics.RecordPass(ctx, p.operation, status, time.Since(p.start))
}

// Duration returns the elapsed time since the pass started.
func (p *Pass) Duration() time.Duration {
	return time.Since(p.start)
}

// ErrorCode returns the application error code carried by err, or
// INTERNAL_ERROR.
func ErrorCode(err error) string {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return string(appErr.Code)
	}
	return string(apperrors.ErrCodeInternal)
}
