// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"strings"

	"github.com/ManuGH/greetd/internal/validate"
	"github.com/rs/zerolog"
)

// NormalizePrefix trims surrounding whitespace and validates the result.
// Failures wrap ErrInvalidConfiguration.
func NormalizePrefix(prefix string) (string, error) {
	p := strings.TrimSpace(prefix)

	v := validate.New()
	checkPrefix(v, p)
	if err := v.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return p, nil
}

func checkPrefix(v *validate.Validator, p string) {
	v.NotEmpty("hello", p)
	v.MaxLength("hello", p, MaxPrefixLength)
	v.Printable("hello", p)
}

// Validate checks a fully merged configuration.
func Validate(cfg AppConfig) error {
	v := validate.New()

	checkPrefix(v, strings.TrimSpace(cfg.Prefix))

	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			v.AddError("logLevel", fmt.Sprintf("unknown log level %q", cfg.LogLevel), cfg.LogLevel)
		}
	}

	v.ListenAddr("api.listenAddr", cfg.APIListenAddr)
	if cfg.MetricsListenAddr != "" {
		v.ListenAddr("metrics.listenAddr", cfg.MetricsListenAddr)
	}
	v.Range("api.configWriteRPM", cfg.ConfigWriteRPM, 0, 100000)

	if cfg.Events.NATSURL != "" {
		v.URL("events.natsURL", cfg.Events.NATSURL, []string{"nats", "tls", "ws", "wss"})
		v.NotEmpty("events.subject", cfg.Events.Subject)
	}

	if cfg.Tracing.Enabled {
		v.OneOf("tracing.exporter", cfg.Tracing.Exporter, []string{"grpc", "http"})
		v.NotEmpty("tracing.endpoint", cfg.Tracing.Endpoint)
		v.FloatRange("tracing.samplingRate", cfg.Tracing.SamplingRate, 0, 1)
	}

	if err := v.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return nil
}
