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
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the js2py service instruments. All names use the "js2py_"
// prefix.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// TranslationsTotal counts translations by status.
	TranslationsTotal metric.Int64Counter

	// TranslationDuration records end-to-end translation time in seconds.
	TranslationDuration metric.Float64Histogram

	// CacheLookupsTotal counts cache lookups by result (hit, miss, error).
	CacheLookupsTotal metric.Int64Counter

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal metric.Int64Counter

	// HTTPRequestDuration records HTTP request time in seconds.
	HTTPRequestDuration metric.Float64Histogram
}

// NewMetrics registers all instruments with meter.
//
// Example:
//
//	metrics, err := telemetry.NewMetrics(otel.Meter("js2py"))
//	if err != nil {
//	    return fmt.Errorf("create metrics: %w", err)
//	}
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.TranslationsTotal, err = meter.Int64Counter(
		"js2py_translations_total",
		metric.WithDescription("Total translations"),
		metric.WithUnit("{translation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create translations_total: %w", err)
	}

	m.TranslationDuration, err = meter.Float64Histogram(
		"js2py_translation_duration_seconds",
		metric.WithDescription("Translation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5),
	)
	if err != nil {
		return nil, fmt.Errorf("create translation_duration: %w", err)
	}

	m.CacheLookupsTotal, err = meter.Int64Counter(
		"js2py_cache_lookups_total",
		metric.WithDescription("Translation cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cache_lookups_total: %w", err)
	}

	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"js2py_http_requests_total",
		metric.WithDescription("Total HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create http_requests_total: %w", err)
	}

	m.HTTPRequestDuration, err = meter.Float64Histogram(
		"js2py_http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	if err != nil {
		return nil, fmt.Errorf("create http_request_duration: %w", err)
	}

	return m, nil
}

// RecordTranslation records one translation. A nil receiver is a no-op.
func (m *Metrics) RecordTranslation(ctx context.Context, status string, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.TranslationsTotal.Add(ctx, 1, attrs)
	m.TranslationDuration.Record(ctx, seconds, attrs)
}

// RecordCacheLookup records a cache lookup result. A nil receiver is a no-op.
func (m *Metrics) RecordCacheLookup(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.CacheLookupsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordHTTPRequest records one HTTP request. A nil receiver is a no-op.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, seconds, attrs)
}
