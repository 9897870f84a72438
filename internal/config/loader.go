// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied before the file and the environment are merged.
const (
	DefaultListenAddr        = ":8080"
	DefaultMetricsListenAddr = ":9090"
	DefaultConfigWriteRPM    = 30
	DefaultEventsSubject     = "greetd.config"
	DefaultTracingExporter   = "grpc"
	DefaultTracingEndpoint   = "localhost:4317"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath: configPath,
		version:    version,
	}
}

// Path returns the config file path, or "" when the loader is ENV-only.
func (l *Loader) Path() string {
	if l == nil {
		return ""
	}
	return l.configPath
}

// Load loads configuration with precedence: ENV > File > Defaults
// It enforces Strict Validated Order: Parse File (Strict) -> Apply Env -> Validate
func (l *Loader) Load() (AppConfig, error) {
	cfg := AppConfig{}

	// 1. Set defaults
	l.setDefaults(&cfg)

	// 2. Load from file (if provided)
	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	// 3. Override with environment variables (highest priority)
	mergeEnvConfig(&cfg)

	// 4. Version from binary
	cfg.Version = l.version

	// 5. Validate final configuration
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	cfg.Prefix = strings.TrimSpace(cfg.Prefix)

	return cfg, nil
}

func (l *Loader) setDefaults(cfg *AppConfig) {
	cfg.Prefix = DefaultPrefix
	cfg.PrefixSource = SourceDefault
	cfg.LogLevel = "info"
	cfg.APIListenAddr = DefaultListenAddr
	cfg.MetricsListenAddr = DefaultMetricsListenAddr
	cfg.ConfigWriteRPM = DefaultConfigWriteRPM
	cfg.Events.Subject = DefaultEventsSubject
	cfg.Tracing.Exporter = DefaultTracingExporter
	cfg.Tracing.Endpoint = DefaultTracingEndpoint
	cfg.Tracing.SamplingRate = 1.0
}

func mergeFileConfig(cfg *AppConfig, fc *FileConfig) {
	if fc.Hello != nil {
		cfg.Prefix = *fc.Hello
		cfg.PrefixSource = SourceFile
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.API.ListenAddr != "" {
		cfg.APIListenAddr = fc.API.ListenAddr
	}
	if fc.API.ConfigWriteRPM != 0 {
		cfg.ConfigWriteRPM = fc.API.ConfigWriteRPM
	}
	if fc.Metrics.ListenAddr != "" {
		cfg.MetricsListenAddr = fc.Metrics.ListenAddr
	}
	cfg.PersistUpdates = fc.PersistUpdates

	if fc.Events.NATSURL != "" {
		cfg.Events.NATSURL = fc.Events.NATSURL
	}
	if fc.Events.Subject != "" {
		cfg.Events.Subject = fc.Events.Subject
	}
	cfg.Events.AcceptRemote = fc.Events.AcceptRemote

	cfg.Tracing.Enabled = fc.Tracing.Enabled
	if fc.Tracing.Exporter != "" {
		cfg.Tracing.Exporter = fc.Tracing.Exporter
	}
	if fc.Tracing.Endpoint != "" {
		cfg.Tracing.Endpoint = fc.Tracing.Endpoint
	}
	if fc.Tracing.SamplingRate != nil {
		cfg.Tracing.SamplingRate = *fc.Tracing.SamplingRate
	}
}

func mergeEnvConfig(cfg *AppConfig) {
	if v, ok := os.LookupEnv(EnvPrefix); ok && v != "" {
		cfg.Prefix = v
		cfg.PrefixSource = SourceEnv
	}
	cfg.LogLevel = ParseString(EnvLogLevel, cfg.LogLevel)
	cfg.APIListenAddr = ParseString(EnvListen, cfg.APIListenAddr)
	cfg.MetricsListenAddr = ParseString(EnvMetricsListen, cfg.MetricsListenAddr)
	cfg.ConfigWriteRPM = ParseInt(EnvConfigWriteRPM, cfg.ConfigWriteRPM)
	cfg.Events.NATSURL = ParseString(EnvNATSURL, cfg.Events.NATSURL)
	cfg.Tracing.Enabled = ParseBool(EnvTracingEnabled, cfg.Tracing.Enabled)
	cfg.Tracing.Endpoint = ParseString(EnvTracingEndpoint, cfg.Tracing.Endpoint)
	cfg.Tracing.SamplingRate = ParseFloat(EnvTracingSamplingRate, cfg.Tracing.SamplingRate)
}

// LoadFileConfig loads a YAML config file without applying defaults or env overrides.
func LoadFileConfig(path string) (*FileConfig, error) {
	return NewLoader(path, "").loadFile(path)
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}
