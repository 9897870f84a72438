// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config provides configuration management for greetd.
//
// The Store owns the one hot-reloadable value, the greeting prefix. Everything
// else in AppConfig is read once at startup by the Loader with the precedence
// ENV > file > defaults.
package config
