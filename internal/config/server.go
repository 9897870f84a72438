// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "time"

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// MetricsAddr serves /metrics; empty disables the metrics server
	MetricsAddr string

	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration

	// MaxHeaderBytes limits the size of request headers
	MaxHeaderBytes int
}

// ParseServerConfig derives the server configuration from the loaded AppConfig,
// reading timeouts from the environment.
func ParseServerConfig(cfg AppConfig) ServerConfig {
	return ServerConfig{
		ListenAddr:      cfg.APIListenAddr,
		MetricsAddr:     cfg.MetricsListenAddr,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: ParseDuration(EnvShutdownTimeout, 15*time.Second),
		MaxHeaderBytes:  1 << 16,
	}
}
