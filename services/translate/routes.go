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
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/js2py/services/translate/telemetry"
)

// RegisterRoutes registers the js2py routes with the router.
//
// Description:
//
//	Registers all /v1/js2py/* endpoints with the given Gin router group.
//	The metrics route is registered only when metricsHandler is non-nil.
//
// Endpoints:
//
//	POST /v1/js2py/translate - Translate JavaScript source
//	GET  /v1/js2py/health    - Health check
//	GET  /v1/js2py/metrics   - Prometheus metrics
//
// Example:
//
//	svc := translate.NewService(translate.DefaultServiceConfig(), translate.Deps{})
//	handlers := translate.NewHandlers(svc, logger)
//
//	v1 := router.Group("/v1")
//	translate.RegisterRoutes(v1, handlers, telemetry.MetricsHandler())
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers, metricsHandler http.Handler) {
	js2py := rg.Group("/js2py")
	{
		js2py.POST("/translate", handlers.HandleTranslate)
		js2py.GET("/health", handlers.HandleHealth)

		if metricsHandler != nil {
			js2py.GET("/metrics", gin.WrapH(metricsHandler))
		}
	}
}

// RouterConfig configures NewRouter.
type RouterConfig struct {
	// ServiceName names the otelgin tracer.
	ServiceName string

	// RequestsPerSecond and Burst configure rate limiting for /translate.
	// A zero RequestsPerSecond disables limiting.
	RequestsPerSecond float64
	Burst             int

	// Debug enables gin's request logger.
	Debug bool

	// MetricsHandler serves /v1/js2py/metrics when non-nil.
	MetricsHandler http.Handler

	// Metrics records request metrics when non-nil.
	Metrics *telemetry.Metrics
}

// NewRouter builds a gin engine with recovery, tracing, metrics, and rate
// limiting, and registers the js2py routes under /v1.
func NewRouter(cfg RouterConfig, handlers *Handlers) *gin.Engine {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "js2py"
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Debug {
		router.Use(gin.Logger())
	}
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(MetricsMiddleware(cfg.Metrics))

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	v1 := router.Group("/v1")
	v1.Use(limitTranslate(limiter))
	RegisterRoutes(v1, handlers, cfg.MetricsHandler)
	return router
}

// limitTranslate applies the rate limiter to POST /v1/js2py/translate only.
func limitTranslate(limiter *rate.Limiter) gin.HandlerFunc {
	limit := RateLimitMiddleware(limiter)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost && c.FullPath() == "/v1/js2py/translate" {
			limit(c)
			return
		}
		c.Next()
	}
}
