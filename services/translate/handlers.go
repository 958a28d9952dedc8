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

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/js2py/services/translate/ast"
	"github.com/AleutianAI/js2py/services/translate/translator"
)

// Handlers contains the HTTP handlers for the translation service.
type Handlers struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandlers creates handlers for the given service. A nil logger uses
// slog.Default.
func NewHandlers(svc *Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{svc: svc, logger: logger}
}

// HandleTranslate handles POST /v1/js2py/translate.
//
// Request Body:
//
//	TranslateRequest
//
// Response:
//
//	200 OK: TranslateResponse
//	400 Bad Request: Invalid body, invalid UTF-8, or oversized source
//	422 Unprocessable Entity: Syntax error, unsupported construct, or
//	    output that failed verification
//	500 Internal Server Error: Anything else
func (h *Handlers) HandleTranslate(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := h.logger.With("request_id", requestID, "handler", "HandleTranslate")

	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "Invalid request body",
			Code:      CodeInvalidRequest,
			RequestID: requestID,
		})
		return
	}

	res, err := h.svc.TranslateSource(c.Request.Context(), []byte(req.Source), req.FilePath)
	if err != nil {
		status, body := errorResponse(err)
		body.RequestID = requestID
		if status >= http.StatusInternalServerError {
			logger.Error("Translation failed", "error", err)
		} else {
			logger.Info("Translation rejected", "code", body.Code, "error", err)
		}
		c.JSON(status, body)
		return
	}

	logger.Info("Translated",
		"file_path", req.FilePath,
		"bytes", len(req.Source),
		"cached", res.Cached,
		"duration_ms", res.Duration.Milliseconds())

	c.JSON(http.StatusOK, TranslateResponse{
		Output:     res.Output,
		RequestID:  requestID,
		DurationMs: res.Duration.Milliseconds(),
		Cached:     res.Cached,
	})
}

// errorResponse maps a service error to a status code and body.
func errorResponse(err error) (int, ErrorResponse) {
	var unsupported *translator.UnsupportedError
	var parseErr *ast.ParseError

	switch {
	case errors.As(err, &unsupported):
		body := ErrorResponse{
			Error: err.Error(),
			Code:  CodeUnsupportedConstruct,
			Kind:  unsupported.Kind,
		}
		if unsupported.Pos.IsValid() {
			body.Line = unsupported.Pos.Line
			body.Column = unsupported.Pos.Column
		}
		return http.StatusUnprocessableEntity, body

	case errors.Is(err, ErrVerifyFailed):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: CodeVerifyFailed}

	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:  err.Error(),
			Code:   CodeParseFailed,
			Line:   parseErr.Line,
			Column: parseErr.Column,
		}

	case errors.Is(err, ast.ErrInvalidContent):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidContent}

	case errors.Is(err, ast.ErrFileTooLarge):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeFileTooLarge}

	case errors.Is(err, ErrNotSource):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: CodeInvalidRequest}

	default:
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: CodeTranslateFailed}
	}
}

// HandleHealth handles GET /v1/js2py/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:       "healthy",
		Version:      ServiceVersion,
		CacheEnabled: h.svc.CacheEnabled(),
	})
}

// getOrCreateRequestID gets or creates a request ID.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
