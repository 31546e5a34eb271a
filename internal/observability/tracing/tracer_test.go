package tracing

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestStartSpan_RecordsAttributes(t *testing.T) {
	// Arrange
	exporter := setupTestTracer(t)

	// Act
	_, span := StartSpan(context.Background(), "dispatch.query",
		attribute.String("query.name", "Finance News"))
	span.End()

	// Assert
	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "dispatch.query" {
		t.Errorf("expected span name 'dispatch.query', got %q", spans[0].Name)
	}
	if spans[0].InstrumentationScope.Name != TracerName {
		t.Errorf("expected scope %q, got %q", TracerName, spans[0].InstrumentationScope.Name)
	}

	found := false
	for _, attr := range spans[0].Attributes {
		if attr.Key == "query.name" && attr.Value.AsString() == "Finance News" {
			found = true
		}
	}
	if !found {
		t.Error("expected query.name attribute on span")
	}
}

func TestRecordError(t *testing.T) {
	exporter := setupTestTracer(t)

	_, span := StartSpan(context.Background(), "failing")
	RecordError(span, errors.New("boom"))
	span.End()

	_, okSpan := StartSpan(context.Background(), "ok")
	RecordError(okSpan, nil)
	okSpan.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status.Code)
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected an exception event on the failing span")
	}
	if spans[1].Status.Code != codes.Unset {
		t.Errorf("expected unset status, got %v", spans[1].Status.Code)
	}
}
