// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/AleutianAI/js2py/services/translate"
	"github.com/AleutianAI/js2py/services/translate/telemetry"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	var host string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the translation HTTP API",
		Long: `Starts an HTTP server with POST /v1/js2py/translate, GET /v1/js2py/health
and, when the prometheus exporter is active, GET /v1/js2py/metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&port, "port", 12220, "port to listen on (overrides config)")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "address to bind (overrides config)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	tcfg := a.cfg.Telemetry
	tcfg.ServiceVersion = translate.ServiceVersion
	shutdownTelemetry, err := telemetry.Init(ctx, tcfg)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			a.logger.Warn("telemetry shutdown", "error", err)
		}
	}()

	metrics, err := telemetry.NewMetrics(otel.Meter(tcfg.ServiceName))
	if err != nil {
		return fmt.Errorf("create metrics: %w", err)
	}

	svc, closeSvc := a.newService(metrics)
	defer closeSvc()

	if a.cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := translate.NewRouter(translate.RouterConfig{
		ServiceName:       tcfg.ServiceName,
		RequestsPerSecond: a.cfg.Server.RequestsPerSecond,
		Burst:             a.cfg.Server.Burst,
		Debug:             a.cfg.Server.Debug,
		MetricsHandler:    telemetry.MetricsHandler(),
		Metrics:           metrics,
	}, translate.NewHandlers(svc, a.logger.Slog()))

	addr := net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting js2py server", "address", addr, "version", translate.ServiceVersion)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down js2py server")
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
