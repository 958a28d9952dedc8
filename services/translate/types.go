// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package translate

// TranslateRequest is the request for POST /v1/js2py/translate.
type TranslateRequest struct {
	// Source is the JavaScript text. Required.
	Source string `json:"source" binding:"required"`

	// FilePath names the source in error messages. Optional.
	FilePath string `json:"file_path" binding:"omitempty,max=4096"`
}

// TranslateResponse is the response for POST /v1/js2py/translate.
type TranslateResponse struct {
	// Output is the generated Python text.
	Output string `json:"output"`

	// RequestID echoes X-Request-ID or the generated ID.
	RequestID string `json:"request_id"`

	// DurationMs is the server-side translation time.
	DurationMs int64 `json:"duration_ms"`

	// Cached is true when the output came from the translation cache.
	Cached bool `json:"cached"`
}

// HealthResponse is the response for GET /v1/js2py/health.
type HealthResponse struct {
	// Status is "healthy".
	Status string `json:"status"`

	// Version is the service version.
	Version string `json:"version"`

	// CacheEnabled reports whether a translation cache is attached.
	CacheEnabled bool `json:"cache_enabled"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code.
	Code string `json:"code,omitempty"`

	// Kind is the construct kind for UNSUPPORTED_CONSTRUCT.
	Kind string `json:"kind,omitempty"`

	// Line and Column locate the failure when known (1-based).
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`

	// RequestID echoes the request ID.
	RequestID string `json:"request_id,omitempty"`
}
