// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() is invalid: %v", err)
	}
	if cfg.Translator.Indent != "  " {
		t.Errorf("Translator.Indent = %q, want two spaces", cfg.Translator.Indent)
	}
	if !cfg.Verify {
		t.Error("Verify should default to true")
	}
	if cfg.Server.Port != 12220 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_EmptyFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Translator.Indent != "  " {
		t.Errorf("Translator.Indent = %q", cfg.Translator.Indent)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
translator:
  indent: "    "
  wrapper_names: [Decimal]
output:
  dir: build/py
cache:
  enabled: false
  ttl: 1h
server:
  port: 9000
  requests_per_second: 0
logging:
  level: debug
  json: true
workers: 2
verify: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Translator.Indent != "    " {
		t.Errorf("Translator.Indent = %q", cfg.Translator.Indent)
	}
	if len(cfg.Translator.WrapperNames) != 1 || cfg.Translator.WrapperNames[0] != "Decimal" {
		t.Errorf("Translator.WrapperNames = %v", cfg.Translator.WrapperNames)
	}
	if cfg.Output.Dir != "build/py" {
		t.Errorf("Output.Dir = %q", cfg.Output.Dir)
	}
	if cfg.Cache.Enabled || cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Port != 9000 || cfg.Server.RequestsPerSecond != 0 {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.Burst != 100 {
		t.Errorf("unset Server.Burst lost its default: %d", cfg.Server.Burst)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.JSON {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Workers != 2 || cfg.Verify {
		t.Errorf("Workers = %d, Verify = %v", cfg.Workers, cfg.Verify)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "translater:\n  indent: \"  \"\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown key")
	}
	if !strings.Contains(err.Error(), "translater") {
		t.Errorf("error does not name the key: %v", err)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  port: 70000\n"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
	if !strings.Contains(err.Error(), "server.port") {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"tab indent", func(c *Config) { c.Translator.Indent = "\t" }, ""},
		{"four spaces", func(c *Config) { c.Translator.Indent = "    " }, ""},
		{"empty indent", func(c *Config) { c.Translator.Indent = "" }, "translator.indent"},
		{"two tabs", func(c *Config) { c.Translator.Indent = "\t\t" }, "translator.indent"},
		{"mixed indent", func(c *Config) { c.Translator.Indent = " \t" }, "translator.indent"},
		{"blank wrapper", func(c *Config) { c.Translator.WrapperNames = []string{""} }, "wrappernames"},
		{"dotted wrapper", func(c *Config) { c.Translator.WrapperNames = []string{"a.b"} }, "wrappernames"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"warning level", func(c *Config) { c.Logging.Level = "warning" }, ""},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"negative rate", func(c *Config) { c.Server.RequestsPerSecond = -1 }, "server.requestspersecond"},
		{"bad exporter", func(c *Config) { c.Telemetry.TraceExporter = "jaeger" }, "telemetry.traceexporter"},
		{"cache without path", func(c *Config) { c.Cache.Path = "" }, "cache.path"},
		{"in-memory cache without path", func(c *Config) {
			c.Cache.Path = ""
			c.Cache.InMemory = true
		}, ""},
		{"disabled cache without path", func(c *Config) {
			c.Cache.Path = ""
			c.Cache.Enabled = false
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() error = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	want := DefaultConfig()
	want.Translator.Indent = "\t"
	want.Cache.TTL = 90 * time.Minute

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Translator.Indent != "\t" || got.Cache.TTL != 90*time.Minute {
		t.Errorf("round trip lost values: indent %q ttl %v", got.Translator.Indent, got.Cache.TTL)
	}
}

func TestTranslatorOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Translator.Indent = "    "
	cfg.Translator.WrapperNames = []string{"Decimal"}

	if got := len(cfg.TranslatorOptions()); got != 2 {
		t.Fatalf("len(TranslatorOptions()) = %d, want 2", got)
	}

	cfg.Translator.WrapperNames = nil
	if got := len(cfg.TranslatorOptions()); got != 1 {
		t.Errorf("nil wrapper names should keep the translator defaults, got %d options", got)
	}
}
