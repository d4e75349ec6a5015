package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useRecorder installs an in-memory exporter for the duration of the test.
func useRecorder(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	prev := tracer
	tracer = tp.Tracer(instrumentationName)
	t.Cleanup(func() {
		tracer = prev
		otel.SetTracerProvider(sdktrace.NewTracerProvider())
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())
	})
	return exporter, tp
}

func attrValue(span tracetest.SpanStub, key string) (string, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value.Emit(), true
		}
	}
	return "", false
}

func TestMiddleware_NamesSpanAfterRoutePattern(t *testing.T) {
	exporter, tp := useRecorder(t)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /polls/{id}/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Middleware(mux).ServeHTTP(rr, httptest.NewRequest("GET", "/polls/42/", nil))
	_ = tp.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "GET /polls/{id}/" {
		t.Errorf("span name = %q, want route pattern", spans[0].Name)
	}
	if got, _ := attrValue(spans[0], "http.path"); got != "/polls/42/" {
		t.Errorf("http.path = %q", got)
	}
	if got, _ := attrValue(spans[0], "http.status_code"); got != "200" {
		t.Errorf("http.status_code = %q", got)
	}
	if len(rr.Header().Get(TraceIDHeader)) != 32 {
		t.Errorf("X-Trace-Id = %q, want 32 hex chars", rr.Header().Get(TraceIDHeader))
	}
}

func TestMiddleware_UnmatchedRouteKeepsPath(t *testing.T) {
	exporter, tp := useRecorder(t)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	Middleware(h).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nope", nil))
	_ = tp.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "GET /nope" {
		t.Fatalf("unexpected spans: %+v", spans)
	}
	if _, ok := attrValue(spans[0], "error"); ok {
		t.Error("4xx must not be marked as error")
	}
}

func TestMiddleware_PropagatesTraceContext(t *testing.T) {
	exporter, tp := useRecorder(t)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest("GET", "/polls/", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	Middleware(h).ServeHTTP(httptest.NewRecorder(), req)
	_ = tp.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].SpanContext.TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace id = %s", got)
	}
}

func TestMiddleware_MarksErrorSpansFor5xx(t *testing.T) {
	exporter, tp := useRecorder(t)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	Middleware(h).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/polls/1/vote/", nil))
	_ = tp.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got, ok := attrValue(spans[0], "error"); !ok || got != "true" {
		t.Error("expected error attribute for 5xx response")
	}
}

func TestStartSpan_RecordError(t *testing.T) {
	exporter, tp := useRecorder(t)

	_, span := StartSpan(context.Background(), "question.Get")
	RecordError(span, nil)
	RecordError(span, errors.New("boom"))
	span.End()
	_ = tp.ForceFlush(context.Background())

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error || spans[0].Status.Description != "boom" {
		t.Errorf("status = %+v", spans[0].Status)
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("expected 1 error event, got %d", len(spans[0].Events))
	}
}

func TestInitTracer(t *testing.T) {
	t.Cleanup(func() {
		tracer = otel.Tracer(instrumentationName)
		otel.SetTracerProvider(sdktrace.NewTracerProvider())
	})

	if _, err := InitTracer(context.Background(), "mysite", 1.5); err == nil {
		t.Error("expected error for ratio > 1")
	}

	shutdown, err := InitTracer(context.Background(), "mysite", 1.0)
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	_, span := StartSpan(context.Background(), "check")
	if !span.SpanContext().IsSampled() {
		t.Error("ratio 1.0 must sample every span")
	}
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}
