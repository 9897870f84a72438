// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldEvent     = "event"

	// Configuration fields
	FieldPrefix = "prefix"
	FieldEpoch  = "epoch"
	FieldSource = "source"
	FieldPath   = "path"

	// HTTP fields
	FieldMethod     = "method"
	FieldStatus     = "status"
	FieldRemoteAddr = "remote_addr"
	FieldDuration   = "duration"
)
