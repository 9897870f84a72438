// SPDX-License-Identifier: MIT

package api

import (
	"context"

	"github.com/ManuGH/greetd/internal/config"
	"github.com/ManuGH/greetd/internal/health"
)

// ConfigStore is the subset of *config.Store the API drives.
type ConfigStore interface {
	Current() *config.Snapshot
	UpdateFrom(prefix string, source config.Source) (config.Snapshot, error)
	Reset() config.Snapshot
	Reload(ctx context.Context) error
}

// Greeter composes greetings.
type Greeter interface {
	SayHello(ctx context.Context, name string) (string, error)
}

// PrefixPersister writes an applied prefix back to durable config.
type PrefixPersister interface {
	SavePrefix(prefix string) error
}

// Deps holds all dependencies for the API server
type Deps struct {
	Store   ConfigStore
	Greeter Greeter
	Health  *health.Manager

	// Persister is nil unless API updates are written back to the config file.
	Persister PrefixPersister

	// ConfigWriteRPM limits config mutations per client IP; zero disables the limit.
	ConfigWriteRPM int
	// TracingService names the HTTP tracer; empty disables request tracing.
	TracingService string
}
