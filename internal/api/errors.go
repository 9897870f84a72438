// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/greetd/internal/config"
	"github.com/ManuGH/greetd/internal/greeting"
)

// Error codes returned in the "error" field of failure responses.
const (
	CodeInvalidArgument      = "invalid_argument"
	CodeInvalidConfiguration = "invalid_configuration"
	CodeInvalidRequest       = "invalid_request"
	CodeReloadUnavailable    = "reload_unavailable"
	CodeInternal             = "internal"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and error code.
func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, ErrorResponse{Error: code, Detail: err.Error()})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, greeting.ErrInvalidArgument):
		return http.StatusBadRequest, CodeInvalidArgument
	case errors.Is(err, config.ErrInvalidConfiguration), errors.Is(err, config.ErrUnknownConfigField):
		return http.StatusBadRequest, CodeInvalidConfiguration
	case errors.Is(err, config.ErrReloadUnavailable):
		return http.StatusNotImplemented, CodeReloadUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
