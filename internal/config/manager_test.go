// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SavePrefix_CreatesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, NewManager(path).SavePrefix("Hola"))

	fc, err := LoadFileConfig(path)
	require.NoError(t, err)
	require.NotNil(t, fc.Hello)
	assert.Equal(t, "Hola", *fc.Hello)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestManager_SavePrefix_PreservesOtherSettings(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
hello: Hello
logLevel: debug
api:
  listenAddr: "127.0.0.1:8081"
events:
  natsURL: "nats://127.0.0.1:4222"
`)

	require.NoError(t, NewManager(path).SavePrefix("Hola"))

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)
	assert.Equal(t, "Hola", cfg.Prefix)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:8081", cfg.APIListenAddr)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Events.NATSURL)
}

func TestManager_SavePrefix_BrokenFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknownKey: 1\n")

	err := NewManager(path).SavePrefix("Hola")
	require.Error(t, err)

	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "unknownKey: 1\n", string(data), "broken file must be left untouched")
}

func TestManager_SavePrefix_KeepsComments(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `# greetd configuration
hello: Hello # greeting prefix
api:
  # loopback only
  listenAddr: "127.0.0.1:8081"
`)

	require.NoError(t, NewManager(path).SavePrefix("Hola"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# greetd configuration")
	assert.Contains(t, content, "# greeting prefix")
	assert.Contains(t, content, "# loopback only")
	assert.Contains(t, content, "hello: Hola")

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)
	assert.Equal(t, "Hola", cfg.Prefix)
	assert.Equal(t, "127.0.0.1:8081", cfg.APIListenAddr)
}

func TestManager_SavePrefix_AddsMissingKey(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "logLevel: warn\n")

	// Values that would otherwise parse as other YAML types stay strings.
	require.NoError(t, NewManager(path).SavePrefix("true"))

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)
	assert.Equal(t, "true", cfg.Prefix)
	assert.Equal(t, SourceFile, cfg.PrefixSource)
	assert.Equal(t, "warn", cfg.LogLevel)
}
