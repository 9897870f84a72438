// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api exposes the greeting and configuration operations over HTTP.
package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/ManuGH/greetd/internal/api/middleware"
	"github.com/ManuGH/greetd/internal/health"
	"github.com/go-chi/chi/v5"
)

// Route paths.
const (
	PathHello  = "/api/v1/hello"
	PathConfig = "/api/v1/config"
	PathReload = "/api/v1/config/reload"
	PathSpec   = "/api/v1/openapi.yaml"
	PathHealth = "/healthz"
	PathReady  = "/readyz"
)

// maxBodyBytes bounds config request bodies.
const maxBodyBytes = 4 << 10

// Server serves the HTTP API.
type Server struct {
	store     ConfigStore
	greeter   Greeter
	persister PrefixPersister
	health    *health.Manager

	// writeMu orders apply and persist of API config writes.
	writeMu sync.Mutex

	handler http.Handler
}

// New builds a Server from deps. Store and Greeter are required.
func New(deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("api: config store is required")
	}
	if deps.Greeter == nil {
		return nil, errors.New("api: greeter is required")
	}
	hm := deps.Health
	if hm == nil {
		hm = health.NewManager("")
	}

	s := &Server{
		store:     deps.Store,
		greeter:   deps.Greeter,
		persister: deps.Persister,
		health:    hm,
	}
	s.handler = s.routes(deps)
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(deps Deps) http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:  true,
		TracingService: deps.TracingService,
		EnableLogging:  true,
	})

	r.Get(PathHealth, s.health.ServeHealth)
	r.Get(PathReady, s.health.ServeReady)

	r.Get(PathHello, s.handleHello)
	r.Get(PathConfig, s.handleGetConfig)
	r.Get(PathSpec, handleOpenAPI)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ConfigWriteRateLimit(deps.ConfigWriteRPM))
		r.Put(PathConfig, s.handlePutConfig)
		r.Delete(PathConfig, s.handleDeleteConfig)
		r.Post(PathReload, s.handleReload)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method_not_allowed"})
	})

	return r
}
