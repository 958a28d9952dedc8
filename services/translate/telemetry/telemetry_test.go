// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("OTEL_METRICS_EXPORTER", "")
	cfg := DefaultConfig()

	if cfg.ServiceName != "js2py" {
		t.Errorf("ServiceName = %q, want %q", cfg.ServiceName, "js2py")
	}
	if cfg.TraceExporter != ExporterNone {
		t.Errorf("TraceExporter = %q, want %q", cfg.TraceExporter, ExporterNone)
	}
	if cfg.MetricExporter != ExporterPrometheus {
		t.Errorf("MetricExporter = %q, want %q", cfg.MetricExporter, ExporterPrometheus)
	}
	if cfg.OTLPEndpoint == "" {
		t.Error("OTLPEndpoint is empty")
	}
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "stdout")
	if got := DefaultConfig().TraceExporter; got != "stdout" {
		t.Errorf("TraceExporter = %q, want stdout", got)
	}
}

func TestInit_NilContext(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	_, err := Init(nil, DefaultConfig())
	if !errors.Is(err, ErrNilContext) {
		t.Errorf("Init(nil) error = %v, want %v", err, ErrNilContext)
	}
}

func TestInit_NoExporters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = ExporterNone
	cfg.MetricExporter = ExporterNone

	shutdown, err := Init(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}

func TestInit_UnknownExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = "zipkin"

	_, err := Init(context.Background(), cfg)
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("Init() error = %v, want %v", err, ErrUnknownExporter)
	}

	cfg.TraceExporter = ExporterNone
	cfg.MetricExporter = "statsd"
	_, err = Init(context.Background(), cfg)
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("Init() error = %v, want %v", err, ErrUnknownExporter)
	}
}

func TestInit_PrometheusServesMetrics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = ExporterNone
	cfg.MetricExporter = ExporterPrometheus

	ctx := context.Background()
	shutdown, err := Init(ctx, cfg)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer shutdown(ctx)

	m, err := NewMetrics(otel.Meter("js2py-test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	m.RecordTranslation(ctx, "ok", 0.01)

	handler := MetricsHandler()
	if handler == nil {
		t.Fatal("MetricsHandler() = nil")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "js2py_translations_total") {
		t.Errorf("metrics output missing js2py_translations_total:\n%s", body)
	}
}

func TestNewMetrics_Noop(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	ctx := context.Background()
	m.RecordTranslation(ctx, "ok", 0.1)
	m.RecordCacheLookup(ctx, "hit")
	m.RecordHTTPRequest(ctx, http.MethodPost, "/v1/js2py/translate", 200, 0.1)
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordTranslation(ctx, "ok", 0.1)
	m.RecordCacheLookup(ctx, "miss")
	m.RecordHTTPRequest(ctx, http.MethodGet, "/", 200, 0.1)
}

func TestTraceHelpers(t *testing.T) {
	ctx := context.Background()
	if TraceID(ctx) != "" || SpanID(ctx) != "" {
		t.Error("expected empty IDs without a span")
	}

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(ctx)
	ctx, span := tp.Tracer("test").Start(ctx, "op")
	defer span.End()

	if len(TraceID(ctx)) != 32 {
		t.Errorf("TraceID = %q", TraceID(ctx))
	}
	if len(SpanID(ctx)) != 16 {
		t.Errorf("SpanID = %q", SpanID(ctx))
	}

	var buf bytes.Buffer
	logger := LoggerWithTrace(ctx, slog.New(slog.NewTextHandler(&buf, nil)))
	logger.Info("hello")
	if !strings.Contains(buf.String(), "trace_id="+TraceID(ctx)) {
		t.Errorf("log line missing trace_id: %s", buf.String())
	}

	RecordError(span, errors.New("boom"))
	RecordError(nil, errors.New("ignored"))
	RecordError(span, nil)
}
