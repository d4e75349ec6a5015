// Package tracing wires OpenTelemetry into the application.
//
//	shutdown, err := tracing.InitTracer(ctx, "mysite", 1.0)
//	defer shutdown(ctx)
//
//	ctx, span := tracing.StartSpan(ctx, "question.LatestPublished")
//	defer span.End()
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "mysite"

// tracer is the global tracer instance for the polls application.
var tracer = otel.Tracer(instrumentationName)

// GetTracer returns the global tracer for creating spans.
func GetTracer() trace.Tracer {
	return tracer
}

// InitTracer installs an SDK tracer provider with the given sampling ratio
// and W3C trace-context propagation. Spans are recorded in-process; no
// exporter is configured, so they only surface through the X-Trace-Id
// header and log correlation.
func InitTracer(ctx context.Context, serviceName string, sampleRatio float64) (func(context.Context) error, error) {
	if sampleRatio < 0 || sampleRatio > 1 {
		return nil, fmt.Errorf("init tracer: sample ratio %v out of range [0,1]", sampleRatio)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	))
	if err != nil {
		return nil, fmt.Errorf("init tracer: resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	tracer = tp.Tracer(instrumentationName)

	return tp.Shutdown, nil
}

// StartSpan starts an internal span as a child of any span in ctx.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordError marks the span as failed. A nil error is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
