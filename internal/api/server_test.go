// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ManuGH/greetd/internal/config"
	"github.com/ManuGH/greetd/internal/greeting"
	"github.com/ManuGH/greetd/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type testEnv struct {
	store  *config.Store
	server *Server
	path   string
}

func newTestEnv(t *testing.T, fileContent string, persist bool) *testEnv {
	t.Helper()
	t.Setenv(config.EnvPrefix, "")

	var loader *config.Loader
	var path string
	if fileContent != "" {
		path = filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(fileContent), 0o600))
		loader = config.NewLoader(path, "test")
	}

	initial := config.AppConfig{}
	if loader != nil {
		cfg, err := loader.Load()
		require.NoError(t, err)
		initial = cfg
	}
	store := config.NewStore(initial, loader)

	hm := health.NewManager("test")
	hm.RegisterChecker(health.NewConfigChecker(store))

	deps := Deps{
		Store:          store,
		Greeter:        greeting.NewService(store),
		Health:         hm,
		ConfigWriteRPM: 1000,
	}
	if persist {
		deps.Persister = config.NewManager(path)
	}
	srv, err := New(deps)
	require.NoError(t, err)
	return &testEnv{store: store, server: srv, path: path}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
	_, err = New(Deps{Store: config.NewStore(config.AppConfig{}, nil)})
	assert.Error(t, err)
}

func TestHello_DefaultThenUpdated(t *testing.T) {
	env := newTestEnv(t, "", false)

	rec := env.do(t, http.MethodGet, PathHello+"?name=Bob", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello Bob.", decode[HelloResponse](t, rec).Greeting)

	rec = env.do(t, http.MethodPut, PathConfig, `{"prefix":"Hola"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decode[ConfigResponse](t, rec)
	assert.Equal(t, "Hola", cfg.Prefix)
	assert.Equal(t, uint64(2), cfg.Epoch)
	assert.Equal(t, config.SourceAPI, cfg.Source)
	assert.Nil(t, cfg.Persisted)

	rec = env.do(t, http.MethodGet, PathHello+"?name=Bob", "")
	assert.Equal(t, "Hola Bob.", decode[HelloResponse](t, rec).Greeting)
}

func TestHello_EmptyName(t *testing.T) {
	env := newTestEnv(t, "", false)

	rec := env.do(t, http.MethodGet, PathHello, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidArgument, decode[ErrorResponse](t, rec).Error)
}

func TestPutConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty prefix", `{"prefix":""}`, CodeInvalidConfiguration},
		{"whitespace prefix", `{"prefix":"   "}`, CodeInvalidConfiguration},
		{"missing prefix", `{}`, CodeInvalidConfiguration},
		{"malformed json", `{"prefix":`, CodeInvalidRequest},
		{"unknown field", `{"prefix":"Hola","extra":1}`, CodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "", false)

			rec := env.do(t, http.MethodPut, PathConfig, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, rec).Error)
			assert.Equal(t, config.DefaultPrefix, env.store.Get())
			assert.Equal(t, uint64(1), env.store.Current().Epoch)
		})
	}
}

func TestGetAndDeleteConfig(t *testing.T) {
	env := newTestEnv(t, "", false)
	require.NoError(t, env.store.Update("Hola"))

	rec := env.do(t, http.MethodGet, PathConfig, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hola", decode[ConfigResponse](t, rec).Prefix)

	rec = env.do(t, http.MethodDelete, PathConfig, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decode[ConfigResponse](t, rec)
	assert.Equal(t, config.DefaultPrefix, cfg.Prefix)
	assert.Equal(t, config.SourceDefault, cfg.Source)
	assert.Equal(t, uint64(3), cfg.Epoch)
}

func TestReload_Unavailable(t *testing.T) {
	env := newTestEnv(t, "", false)

	rec := env.do(t, http.MethodPost, PathReload, "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, CodeReloadUnavailable, decode[ErrorResponse](t, rec).Error)
}

func TestReload_FromFile(t *testing.T) {
	env := newTestEnv(t, "hello: Hola\n", false)
	assert.Equal(t, "Hola", env.store.Get())

	require.NoError(t, os.WriteFile(env.path, []byte("hello: Bonjour\n"), 0o600))
	rec := env.do(t, http.MethodPost, PathReload, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decode[ConfigResponse](t, rec)
	assert.Equal(t, "Bonjour", cfg.Prefix)
	assert.Equal(t, config.SourceFile, cfg.Source)

	require.NoError(t, os.WriteFile(env.path, []byte("hello: \"\"\n"), 0o600))
	rec = env.do(t, http.MethodPost, PathReload, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeInvalidConfiguration, decode[ErrorResponse](t, rec).Error)
	assert.Equal(t, "Bonjour", env.store.Get())
}

func TestPutConfig_Persists(t *testing.T) {
	env := newTestEnv(t, "hello: Hola\npersistUpdates: true\n", true)

	rec := env.do(t, http.MethodPut, PathConfig, `{"prefix":"Salut"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decode[ConfigResponse](t, rec)
	require.NotNil(t, cfg.Persisted)
	assert.True(t, *cfg.Persisted)

	fc, err := config.LoadFileConfig(env.path)
	require.NoError(t, err)
	require.NotNil(t, fc.Hello)
	assert.Equal(t, "Salut", *fc.Hello)
	assert.True(t, fc.PersistUpdates)
}

func TestPutConfig_ConcurrentWritesPersistLatest(t *testing.T) {
	env := newTestEnv(t, "hello: Hola\npersistUpdates: true\n", true)

	for round := 0; round < 20; round++ {
		var g errgroup.Group
		for i := 0; i < 32; i++ {
			body := fmt.Sprintf(`{"prefix":"P%d"}`, i)
			g.Go(func() error {
				if rec := env.do(t, http.MethodPut, PathConfig, body); rec.Code != http.StatusOK {
					return fmt.Errorf("status %d", rec.Code)
				}
				return nil
			})
		}
		require.NoError(t, g.Wait())

		fc, err := config.LoadFileConfig(env.path)
		require.NoError(t, err)
		require.NotNil(t, fc.Hello)
		require.Equal(t, env.store.Get(), *fc.Hello, "round %d", round)
	}
}

type failingPersister struct{}

func (failingPersister) SavePrefix(string) error { return errors.New("disk full") }

func TestPutConfig_PersistFailureKeepsUpdate(t *testing.T) {
	store := config.NewStore(config.AppConfig{}, nil)
	srv, err := New(Deps{Store: store, Greeter: greeting.NewService(store), Persister: failingPersister{}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, PathConfig, strings.NewReader(`{"prefix":"Hola"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decode[ConfigResponse](t, rec)
	require.NotNil(t, cfg.Persisted)
	assert.False(t, *cfg.Persisted)
	assert.Equal(t, "Hola", store.Get())
}

func TestConfigWrites_RateLimited(t *testing.T) {
	store := config.NewStore(config.AppConfig{}, nil)
	srv, err := New(Deps{Store: store, Greeter: greeting.NewService(store), ConfigWriteRPM: 2})
	require.NoError(t, err)

	put := func() int {
		req := httptest.NewRequest(http.MethodPut, PathConfig, strings.NewReader(`{"prefix":"Hola"}`))
		req.RemoteAddr = "10.0.0.1:4000"
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, put())
	assert.Equal(t, http.StatusOK, put())
	assert.Equal(t, http.StatusTooManyRequests, put())

	// Reads are not limited.
	req := httptest.NewRequest(http.MethodGet, PathHello+"?name=Bob", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t, "", false)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, PathHealth, "").Code)
	rec := env.do(t, http.MethodGet, PathReady, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[health.ReadinessResponse](t, rec).Ready)
}

func TestUnknownRoutes(t *testing.T) {
	env := newTestEnv(t, "", false)

	rec := env.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodPost, PathHello, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestClassify(t *testing.T) {
	status, code := classify(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, CodeInternal, code)
}
