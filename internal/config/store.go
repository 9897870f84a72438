// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	xglog "github.com/ManuGH/greetd/internal/log"
	"github.com/ManuGH/greetd/internal/metrics"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Snapshot is an immutable view of the applied configuration.
type Snapshot struct {
	Prefix    string    `json:"prefix"`
	Epoch     uint64    `json:"epoch"`
	Source    Source    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the single source of truth for the greeting prefix.
//
// Reads load an immutable snapshot through an atomic pointer and never block.
// Writers are serialized by writeMu and publish a complete new snapshot with a
// single atomic store, so a concurrent reader sees the old or the new prefix.
type Store struct {
	current atomic.Pointer[Snapshot]
	writeMu sync.Mutex

	loader  *Loader
	logger  zerolog.Logger
	watcher *fsnotify.Watcher
	now     func() time.Time

	subMu   sync.RWMutex
	subs    map[uint64]chan Snapshot
	nextSub uint64
}

// NewStore creates a store seeded from the loaded configuration.
// An empty initial prefix falls back to DefaultPrefix. loader may be nil,
// in which case Reload and StartWatcher are unavailable.
func NewStore(initial AppConfig, loader *Loader) *Store {
	s := &Store{
		loader: loader,
		logger: xglog.WithComponent("config"),
		now:    time.Now,
		subs:   make(map[uint64]chan Snapshot),
	}

	prefix, source := initial.Prefix, initial.PrefixSource
	if p, err := NormalizePrefix(prefix); err == nil {
		prefix = p
	} else {
		prefix, source = DefaultPrefix, SourceDefault
	}
	if source == "" {
		source = SourceDefault
	}

	s.current.Store(&Snapshot{
		Prefix:    prefix,
		Epoch:     1,
		Source:    source,
		UpdatedAt: s.now(),
	})
	metrics.SetConfigEpoch(1)
	return s
}

// Get returns the current prefix. It never fails and never blocks.
func (s *Store) Get() string {
	return s.current.Load().Prefix
}

// Current returns the current snapshot. Callers must not modify it.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Update replaces the current prefix. Empty or malformed prefixes are
// rejected with ErrInvalidConfiguration and leave the prior value in effect.
// The new prefix is visible to every Get that starts after Update returns.
func (s *Store) Update(prefix string) error {
	_, err := s.UpdateFrom(prefix, SourceAPI)
	return err
}

// UpdateFrom is Update with an explicit source, returning the applied snapshot.
func (s *Store) UpdateFrom(prefix string, source Source) (Snapshot, error) {
	p, err := NormalizePrefix(prefix)
	if err != nil {
		metrics.RecordConfigUpdate(string(source), metrics.OutcomeInvalid)
		s.logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "config.update_rejected").
			Str(xglog.FieldSource, string(source)).
			Msg("rejected prefix update")
		return Snapshot{}, fmt.Errorf("update prefix: %w", err)
	}
	return s.apply(p, source), nil
}

// Reset restores DefaultPrefix.
func (s *Store) Reset() Snapshot {
	return s.apply(DefaultPrefix, SourceDefault)
}

// apply swaps in a new snapshot. p must already be normalized.
func (s *Store) apply(p string, source Source) Snapshot {
	s.writeMu.Lock()
	prev := s.current.Load()
	next := &Snapshot{
		Prefix:    p,
		Epoch:     prev.Epoch + 1,
		Source:    source,
		UpdatedAt: s.now(),
	}
	s.current.Store(next)
	// Notify while still holding writeMu so subscribers see epochs in order.
	s.notify(*next)
	s.writeMu.Unlock()

	metrics.RecordConfigUpdate(string(source), metrics.OutcomeSuccess)
	metrics.SetConfigEpoch(next.Epoch)

	s.logger.Info().
		Str(xglog.FieldEvent, "config.updated").
		Str("old", prev.Prefix).
		Str("new", next.Prefix).
		Uint64(xglog.FieldEpoch, next.Epoch).
		Str(xglog.FieldSource, string(source)).
		Msg("config changed: prefix")

	return *next
}

// Subscribe registers a channel that receives every snapshot applied after
// the call. Sends are non-blocking: if the buffer is full the snapshot is
// skipped for that subscriber. The returned cancel func unregisters and
// closes the channel; it is safe to call more than once.
func (s *Store) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// notify sends the new snapshot to all subscribers (non-blocking).
func (s *Store) notify(snap Snapshot) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			s.logger.Warn().
				Str(xglog.FieldEvent, "config.listener_skip").
				Uint64(xglog.FieldEpoch, snap.Epoch).
				Msg("skipped notifying listener (channel full)")
		}
	}
}
