// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "errors"

var (
	// ErrInvalidConfiguration is returned when an update would leave the
	// store without a usable prefix. The previous value stays in effect.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnknownConfigField classifies strict YAML parse failures caused by unknown keys.
	// Use errors.Is(err, ErrUnknownConfigField) instead of string matching.
	ErrUnknownConfigField = errors.New("unknown config field")

	// ErrReloadUnavailable is returned by Reload when no config file is configured.
	ErrReloadUnavailable = errors.New("config reload not available")
)
