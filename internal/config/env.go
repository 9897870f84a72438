// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/greetd/internal/log"
)

// Environment variable names understood by greetd.
const (
	EnvConfigPath          = "GREETD_CONFIG"
	EnvPrefix              = "GREETD_PREFIX"
	EnvLogLevel            = "GREETD_LOG_LEVEL"
	EnvListen              = "GREETD_LISTEN"
	EnvMetricsListen       = "GREETD_METRICS_LISTEN"
	EnvConfigWriteRPM      = "GREETD_CONFIG_WRITE_RPM"
	EnvNATSURL             = "GREETD_NATS_URL"
	EnvTracingEnabled      = "GREETD_TRACING_ENABLED"
	EnvTracingEndpoint     = "GREETD_TRACING_ENDPOINT"
	EnvTracingSamplingRate = "GREETD_TRACING_SAMPLING_RATE"
	EnvShutdownTimeout     = "GREETD_SHUTDOWN_TIMEOUT"
)

// parseEnv reads key from the environment and converts it with parse.
// Unset or empty variables and parse failures fall back to defaultValue;
// the chosen source is logged at debug level (invalid values at warn).
func parseEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	logger := log.WithComponent("config")

	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logger.Debug().
			Str("key", key).
			Interface("default", defaultValue).
			Str("source", "default").
			Msg("using default value")
		return defaultValue
	}

	parsed, err := parse(v)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("key", key).
			Str("value", v).
			Interface("default", defaultValue).
			Msg("invalid value in environment variable, using default")
		return defaultValue
	}

	logger.Debug().
		Str("key", key).
		Interface("value", parsed).
		Str("source", "environment").
		Msg("using environment variable")
	return parsed
}

// ParseString reads a string from environment variable or returns default value.
func ParseString(key, defaultValue string) string {
	return parseEnv(key, defaultValue, func(s string) (string, error) { return s, nil })
}

// ParseInt reads an integer from environment variable or returns default value.
func ParseInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, strconv.Atoi)
}

// ParseFloat reads a float64 from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	return parseEnv(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// ParseDuration reads a duration in Go duration format (e.g. "5s").
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, time.ParseDuration)
}

// ParseBool reads a boolean from environment variable or returns default value.
// It accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	return parseEnv(key, defaultValue, func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return false, fmt.Errorf("invalid boolean %q", s)
	})
}
