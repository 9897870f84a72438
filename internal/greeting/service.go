// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package greeting composes greetings from the currently configured prefix.
package greeting

import (
	"context"
	"errors"
	"fmt"

	xglog "github.com/ManuGH/greetd/internal/log"
	"github.com/ManuGH/greetd/internal/metrics"
	"github.com/ManuGH/greetd/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrInvalidArgument is returned when SayHello is called without a name.
var ErrInvalidArgument = errors.New("invalid argument")

// PrefixSource supplies the current greeting prefix.
// *config.Store satisfies it.
type PrefixSource interface {
	Get() string
}

// Service produces greetings. It holds no state of its own: the prefix is
// read from the source on every call, so updates apply without a restart.
type Service struct {
	prefixes PrefixSource
	tracer   trace.Tracer
}

// NewService creates a greeting service reading prefixes from src.
func NewService(src PrefixSource) *Service {
	return &Service{
		prefixes: src,
		tracer:   telemetry.Tracer("greetd/greeting"),
	}
}

// SayHello returns "<prefix> <name>." using the prefix current at call time.
func (s *Service) SayHello(ctx context.Context, name string) (string, error) {
	_, span := s.tracer.Start(ctx, "greeting.SayHello")
	defer span.End()

	if name == "" {
		metrics.RecordGreeting(metrics.OutcomeInvalid)
		span.SetStatus(codes.Error, "empty name")
		logger := xglog.WithComponentFromContext(ctx, "greeting")
		logger.Debug().
			Str(xglog.FieldEvent, "greeting.invalid_argument").
			Msg("rejected empty name")
		return "", fmt.Errorf("%w: name must not be empty", ErrInvalidArgument)
	}

	prefix := s.prefixes.Get()
	span.SetAttributes(attribute.String(telemetry.AttrGreetingPrefix, prefix))
	metrics.RecordGreeting(metrics.OutcomeSuccess)

	return prefix + " " + name + ".", nil
}
