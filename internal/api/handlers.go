// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ManuGH/greetd/internal/config"
	"github.com/ManuGH/greetd/internal/log"
	"github.com/ManuGH/greetd/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// HelloResponse is the body of a successful greeting.
type HelloResponse struct {
	Greeting string `json:"greeting"`
}

// ConfigRequest is the body of PUT /api/v1/config.
type ConfigRequest struct {
	Prefix *string `json:"prefix"`
}

// ConfigResponse reports the applied snapshot. Persisted is set only when
// updates are written back to the config file.
type ConfigResponse struct {
	config.Snapshot
	Persisted *bool `json:"persisted,omitempty"`
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	greeting, err := s.greeter.SayHello(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HelloResponse{Greeting: greeting})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	snap := *s.store.Current()
	annotate(r, snap)
	writeJSON(w, http.StatusOK, ConfigResponse{Snapshot: snap})
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: CodeInvalidRequest, Detail: err.Error()})
		return
	}
	if req.Prefix == nil {
		writeError(w, fmt.Errorf("%w: prefix is required", config.ErrInvalidConfiguration))
		return
	}

	s.writeMu.Lock()
	snap, err := s.store.UpdateFrom(*req.Prefix, config.SourceAPI)
	if err != nil {
		s.writeMu.Unlock()
		writeError(w, err)
		return
	}
	resp := s.persist(r, snap)
	s.writeMu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	s.writeMu.Lock()
	resp := s.persist(r, s.store.Reset())
	s.writeMu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

// persist writes snap's prefix back to the config file when enabled.
// A failed write leaves the in-memory update in effect. Callers hold
// writeMu so the file follows the same order as the store.
func (s *Server) persist(r *http.Request, snap config.Snapshot) ConfigResponse {
	annotate(r, snap)
	resp := ConfigResponse{Snapshot: snap}
	if s.persister == nil {
		return resp
	}

	ok := true
	if err := s.persister.SavePrefix(snap.Prefix); err != nil {
		ok = false
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Warn().
			Err(err).
			Str(log.FieldEvent, "config.persist_failed").
			Uint64(log.FieldEpoch, snap.Epoch).
			Msg("applied prefix could not be written to the config file")
	}
	resp.Persisted = &ok
	return resp
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reload(r.Context()); err != nil {
		if !errors.Is(err, config.ErrReloadUnavailable) {
			logger := log.WithComponentFromContext(r.Context(), "config")
			logger.Warn().
				Err(err).
				Str(log.FieldEvent, "config.reload_failed").
				Msg("config reload failed")
		}
		writeError(w, err)
		return
	}
	snap := *s.store.Current()
	annotate(r, snap)
	writeJSON(w, http.StatusOK, ConfigResponse{Snapshot: snap})
}

// annotate records the applied snapshot on the request span.
func annotate(r *http.Request, snap config.Snapshot) {
	trace.SpanFromContext(r.Context()).
		SetAttributes(telemetry.ConfigAttributes(snap.Prefix, snap.Epoch, string(snap.Source))...)
}
