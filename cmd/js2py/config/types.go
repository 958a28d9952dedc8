// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates the js2py YAML configuration file.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/AleutianAI/js2py/services/translate/telemetry"
	"github.com/AleutianAI/js2py/services/translate/translator"
)

// DefaultFileName is the config file looked up in the working directory
// when --config is not given.
const DefaultFileName = "js2py.yaml"

// Config is the top-level js2py configuration.
type Config struct {
	Translator TranslatorConfig `yaml:"translator"`
	Output     OutputConfig     `yaml:"output"`
	Cache      CacheConfig      `yaml:"cache"`
	Server     ServerConfig     `yaml:"server"`
	Telemetry  telemetry.Config `yaml:"telemetry"`
	Logging    LoggingConfig    `yaml:"logging"`

	// Workers bounds concurrent file translations. Zero means one per CPU.
	Workers int `yaml:"workers" validate:"gte=0,lte=256"`

	// Verify re-parses generated Python and rejects output with syntax
	// errors.
	Verify bool `yaml:"verify"`
}

// TranslatorConfig maps onto translator options.
type TranslatorConfig struct {
	// Indent is one indent unit: one or more spaces, or a single tab.
	Indent string `yaml:"indent" validate:"indentunit"`

	// WrapperNames are the numeric wrapper classes to unwrap.
	WrapperNames []string `yaml:"wrapper_names" validate:"dive,required,excludesall= .()"`
}

// OutputConfig controls where convert and watch write files.
type OutputConfig struct {
	// Dir receives generated files. Empty writes next to each source.
	Dir string `yaml:"dir"`

	// SkipDirs are directory names never walked.
	SkipDirs []string `yaml:"skip_dirs" validate:"dive,required"`
}

// CacheConfig configures the translation cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`

	// Path is the badger directory. Required when Enabled and not InMemory.
	Path string `yaml:"path"`

	InMemory bool `yaml:"in_memory"`

	// TTL expires entries. Zero keeps them forever.
	TTL time.Duration `yaml:"ttl" validate:"gte=0"`

	// GCInterval runs value log GC periodically. Zero disables it.
	GCInterval time.Duration `yaml:"gc_interval" validate:"gte=0"`
}

// ServerConfig configures js2py serve.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`

	// RequestsPerSecond limits /translate. Zero disables limiting.
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`
	Burst             int     `yaml:"burst" validate:"gte=0"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`

	// Debug enables gin debug mode and request logging.
	Debug bool `yaml:"debug"`
}

// LoggingConfig configures pkg/logging.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`

	// Dir enables JSON file logging.
	Dir  string `yaml:"dir"`
	JSON bool   `yaml:"json"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	opts := translator.DefaultOptions()
	return Config{
		Translator: TranslatorConfig{
			Indent:       opts.Indent,
			WrapperNames: opts.WrapperNames,
		},
		Output: OutputConfig{
			SkipDirs: []string{".git", "node_modules"},
		},
		Cache: CacheConfig{
			Enabled:    true,
			Path:       defaultCachePath(),
			TTL:        7 * 24 * time.Hour,
			GCInterval: 10 * time.Minute,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              12220,
			RequestsPerSecond: 50,
			Burst:             100,
			ShutdownTimeout:   10 * time.Second,
		},
		Telemetry: telemetry.DefaultConfig(),
		Logging: LoggingConfig{
			Level: "info",
		},
		Workers: runtime.NumCPU(),
		Verify:  true,
	}
}

// TranslatorOptions converts the translator section to translator options.
func (c Config) TranslatorOptions() []translator.Option {
	opts := []translator.Option{translator.WithIndent(c.Translator.Indent)}
	if c.Translator.WrapperNames != nil {
		opts = append(opts, translator.WithWrapperNames(c.Translator.WrapperNames...))
	}
	return opts
}

// defaultCachePath is ~/.js2py/cache, or a temp directory without a home.
func defaultCachePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "js2py")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".js2py", "cache")
	}
	return filepath.Join(os.TempDir(), "js2py-cache")
}
