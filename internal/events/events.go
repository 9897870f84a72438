// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package events carries configuration changes over the NATS message bus.
package events

import (
	"context"
	"time"

	"github.com/ManuGH/greetd/internal/config"
)

// Subject suffixes appended to the configured base subject.
const (
	SuffixUpdated = ".updated"
	SuffixSet     = ".set"
)

// ConfigUpdated is published after every applied prefix change.
type ConfigUpdated struct {
	Prefix    string    `json:"prefix"`
	Epoch     uint64    `json:"epoch"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetPrefix is the payload accepted on the remote update subject.
type SetPrefix struct {
	Prefix string `json:"prefix"`
}

// FromSnapshot converts a store snapshot to its wire event.
func FromSnapshot(s config.Snapshot) ConfigUpdated {
	return ConfigUpdated{
		Prefix:    s.Prefix,
		Epoch:     s.Epoch,
		Source:    string(s.Source),
		UpdatedAt: s.UpdatedAt,
	}
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, subject string, event any) error
	Close() error
}
