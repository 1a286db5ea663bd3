// Package obs provides the tracing boundary around the capsule core's two
// hot paths: facade operations called from HTTP, and the unlock sweep
// called from the scheduler. Neither of those packages imports otel
// directly; they accept a *Tracer and start spans through it, so the
// dependency stays isolated to this package and its fx wiring.
package obs

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps a trace.Tracer with the one operation callers need: start a
// span, run the function, record any error onto the span.
type Tracer struct {
	tracer trace.Tracer
}

func NewTracer() *Tracer {
	return &Tracer{tracer: otel.Tracer("timecapsule")}
}

// Span runs fn inside a new child span named name, recording fn's error (if
// any) as an error event on the span before returning it unchanged. The
// span's status is not set.
func (t *Tracer) Span(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := t.tracer.Start(ctx, name)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// NewProvider builds the process-wide TracerProvider. There is no exporter
// configured by default (spans are created and sampled but not shipped
// anywhere) — wiring an OTLP exporter is an operational decision left to
// deployment config, not hardcoded here.
func NewProvider() (*sdktrace.TracerProvider, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(attribute.String("service.name", "timecapsule")),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)
	return tp, nil
}
