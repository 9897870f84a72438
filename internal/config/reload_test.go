// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T, content string) (*Store, string) {
	t.Helper()
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, content)

	loader := NewLoader(path, "test")
	initial, err := loader.Load()
	require.NoError(t, err)
	return NewStore(initial, loader), path
}

func TestStore_Reload_Success(t *testing.T) {
	store, path := newFileStore(t, "hello: Hello\n")
	assert.Equal(t, SourceFile, store.Current().Source)

	writeFile(t, path, "hello: Hola\n")
	require.NoError(t, store.Reload(context.Background()))

	assert.Equal(t, "Hola", store.Get())
	assert.Equal(t, SourceFile, store.Current().Source)
	assert.Equal(t, uint64(2), store.Current().Epoch)
}

func TestStore_Reload_UnchangedIsNoop(t *testing.T) {
	store, _ := newFileStore(t, "hello: Hola\n")
	before := store.Current()

	require.NoError(t, store.Reload(context.Background()))
	assert.Same(t, before, store.Current())
}

func TestStore_Reload_ValidationFailureKeepsPrefix(t *testing.T) {
	store, path := newFileStore(t, "hello: Hola\n")

	writeFile(t, path, "hello: \"  \"\n")
	err := store.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration), "got %v", err)
	assert.Equal(t, "Hola", store.Get())
}

func TestStore_Reload_MissingKeyRejected(t *testing.T) {
	store, path := newFileStore(t, "hello: Hola\n")

	writeFile(t, path, "logLevel: debug\n")
	err := store.Reload(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration), "got %v", err)
	assert.Equal(t, "Hola", store.Get())
}

func TestStore_Reload_ParseErrorKeepsPrefix(t *testing.T) {
	store, path := newFileStore(t, "hello: Hola\n")

	writeFile(t, path, "hello: [unterminated\n")
	require.Error(t, store.Reload(context.Background()))
	assert.Equal(t, "Hola", store.Get())
}

func TestStore_Reload_Unavailable(t *testing.T) {
	store := NewStore(AppConfig{}, nil)
	err := store.Reload(context.Background())
	assert.True(t, errors.Is(err, ErrReloadUnavailable))

	store = NewStore(AppConfig{}, NewLoader("", "test"))
	assert.True(t, errors.Is(store.Reload(context.Background()), ErrReloadUnavailable))
}

func TestStore_StartWatcher_NoFileIsNoop(t *testing.T) {
	store := NewStore(AppConfig{}, NewLoader("", "test"))
	require.NoError(t, store.StartWatcher(context.Background()))
	store.Stop()
}

func TestStore_StartWatcher_ReloadsOnWrite(t *testing.T) {
	store, path := newFileStore(t, "hello: Hello\n")
	updates, cancelSub := store.Subscribe(4)
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.StartWatcher(ctx))
	defer store.Stop()

	writeFile(t, path, "hello: Hola\n")

	select {
	case snap := <-updates:
		assert.Equal(t, "Hola", snap.Prefix)
		assert.Equal(t, SourceFile, snap.Source)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher reload")
	}
	assert.Equal(t, "Hola", store.Get())
}

func TestStore_StartWatcher_ReloadsOnAtomicReplace(t *testing.T) {
	store, path := newFileStore(t, "hello: Hello\n")
	updates, cancelSub := store.Subscribe(4)
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.StartWatcher(ctx))
	defer store.Stop()

	require.NoError(t, NewManager(path).SavePrefix("Bonjour"))

	select {
	case snap := <-updates:
		assert.Equal(t, "Bonjour", snap.Prefix)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher reload")
	}
}

func TestStore_StartWatcher_IgnoresOtherFiles(t *testing.T) {
	store, path := newFileStore(t, "hello: Hello\n")
	updates, cancelSub := store.Subscribe(4)
	defer cancelSub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.StartWatcher(ctx))
	defer store.Stop()

	writeFile(t, filepath.Join(filepath.Dir(path), "other.yaml"), "hello: Hola\n")

	select {
	case snap := <-updates:
		t.Fatalf("unexpected reload %+v", snap)
	case <-time.After(2 * reloadDebounce):
	}
	assert.Equal(t, "Hello", store.Get())
}
