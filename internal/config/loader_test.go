// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the loader reads so the host environment
// cannot leak into expectations.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvPrefix, EnvLogLevel, EnvListen, EnvMetricsListen, EnvConfigWriteRPM,
		EnvNATSURL, EnvTracingEnabled, EnvTracingEndpoint, EnvTracingSamplingRate,
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func defaultConfig() AppConfig {
	return AppConfig{
		Prefix:            DefaultPrefix,
		PrefixSource:      SourceDefault,
		LogLevel:          "info",
		Version:           "test",
		APIListenAddr:     DefaultListenAddr,
		ConfigWriteRPM:    DefaultConfigWriteRPM,
		MetricsListenAddr: DefaultMetricsListenAddr,
		Events:            EventsConfig{Subject: DefaultEventsSubject},
		Tracing: TracingConfig{
			Exporter:     DefaultTracingExporter,
			Endpoint:     DefaultTracingEndpoint,
			SamplingRate: 1.0,
		},
	}
}

func TestLoader_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewLoader("", "test").Load()
	require.NoError(t, err)

	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
hello: Hola
logLevel: debug
api:
  listenAddr: "127.0.0.1:8081"
  configWriteRPM: 5
metrics:
  listenAddr: "127.0.0.1:9091"
persistUpdates: true
events:
  natsURL: "nats://127.0.0.1:4222"
  subject: greetings.config
  acceptRemote: true
tracing:
  enabled: true
  exporter: http
  endpoint: "collector:4318"
  samplingRate: 0.25
`)

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)

	want := AppConfig{
		Prefix:            "Hola",
		PrefixSource:      SourceFile,
		LogLevel:          "debug",
		Version:           "test",
		APIListenAddr:     "127.0.0.1:8081",
		ConfigWriteRPM:    5,
		MetricsListenAddr: "127.0.0.1:9091",
		PersistUpdates:    true,
		Events: EventsConfig{
			NATSURL:      "nats://127.0.0.1:4222",
			Subject:      "greetings.config",
			AcceptRemote: true,
		},
		Tracing: TracingConfig{
			Enabled:      true,
			Exporter:     "http",
			Endpoint:     "collector:4318",
			SamplingRate: 0.25,
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "hello: Hola\n")

	t.Setenv(EnvPrefix, "Servus")
	t.Setenv(EnvListen, ":18080")
	t.Setenv(EnvTracingEnabled, "yes")

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)
	assert.Equal(t, "Servus", cfg.Prefix)
	assert.Equal(t, SourceEnv, cfg.PrefixSource)
	assert.Equal(t, ":18080", cfg.APIListenAddr)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestLoader_EnvNumericOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "api:\n  configWriteRPM: 5\ntracing:\n  samplingRate: 0.5\n")

	t.Setenv(EnvConfigWriteRPM, "120")
	t.Setenv(EnvTracingSamplingRate, "0.1")

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.ConfigWriteRPM)
	assert.InDelta(t, 0.1, cfg.Tracing.SamplingRate, 1e-9)

	t.Setenv(EnvConfigWriteRPM, "lots")
	cfg, err = NewLoader(path, "test").Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.ConfigWriteRPM, "invalid values fall back to the file")
}

func TestLoader_ZeroSamplingRateFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "tracing:\n  enabled: true\n  samplingRate: 0\n")

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.Tracing.SamplingRate)

	writeFile(t, path, "tracing:\n  enabled: true\n")
	cfg, err = NewLoader(path, "test").Load()
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Tracing.SamplingRate)
}

func TestLoader_EmptyFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "")

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultPrefix, cfg.Prefix)
	assert.Equal(t, SourceDefault, cfg.PrefixSource)
}

func TestLoader_ExplicitEmptyPrefixRejected(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "hello: \"\"\n")

	_, err := NewLoader(path, "test").Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration), "got %v", err)
}

func TestLoader_UnknownFieldRejected(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "hello: Hola\ngreeting: Hi\n")

	_, err := NewLoader(path, "test").Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownConfigField), "got %v", err)
}

func TestLoader_MultipleDocumentsRejected(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "hello: Hola\n---\nhello: Hi\n")

	_, err := NewLoader(path, "test").Load()
	assert.ErrorContains(t, err, "multiple documents")
}

func TestLoader_UnsupportedExtension(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	writeFile(t, path, "{}")

	_, err := NewLoader(path, "test").Load()
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestLoader_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"), "test").Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
}

func TestLoader_Path(t *testing.T) {
	var nilLoader *Loader
	assert.Empty(t, nilLoader.Path())
	assert.Equal(t, "/etc/greetd/config.yaml", NewLoader("/etc/greetd/config.yaml", "").Path())
}
