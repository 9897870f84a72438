// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	xglog "github.com/ManuGH/greetd/internal/log"
	"github.com/ManuGH/greetd/internal/metrics"
	"github.com/fsnotify/fsnotify"
)

// Reload triggers.
const (
	TriggerAPI     = "api"
	TriggerWatcher = "watcher"
)

// reloadDebounce coalesces the burst of events editors produce on save.
const reloadDebounce = 500 * time.Millisecond

// Reload reloads the prefix from the config file.
// If loading or validation fails, or the file has no prefix key, the old
// prefix is kept and an error is returned. An unchanged prefix is a no-op.
func (s *Store) Reload(ctx context.Context) error {
	return s.reload(ctx, TriggerAPI)
}

func (s *Store) reload(_ context.Context, trigger string) error {
	if s.loader.Path() == "" {
		return ErrReloadUnavailable
	}

	s.logger.Info().Str(xglog.FieldEvent, "config.reload_start").Str("trigger", trigger).Msg("reloading configuration")

	newCfg, err := s.loader.Load()
	if err != nil {
		metrics.RecordConfigReload(trigger, metrics.OutcomeFailure)
		s.logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "config.reload_failed").
			Msg("failed to load new configuration")
		return fmt.Errorf("load config: %w", err)
	}

	// A missing key is a rejected update, not a silent fallback to the default.
	if newCfg.PrefixSource == SourceDefault {
		metrics.RecordConfigReload(trigger, metrics.OutcomeInvalid)
		s.logger.Error().
			Str(xglog.FieldEvent, "config.validation_failed").
			Str(xglog.FieldPath, s.loader.Path()).
			Msg("config file does not set a prefix")
		return fmt.Errorf("%w: config file %s does not set hello", ErrInvalidConfiguration, s.loader.Path())
	}

	if newCfg.Prefix == s.Get() {
		metrics.RecordConfigReload(trigger, metrics.OutcomeNoop)
		s.logger.Debug().
			Str(xglog.FieldEvent, "config.reload_unchanged").
			Msg("configuration unchanged")
		return nil
	}

	if _, err := s.UpdateFrom(newCfg.Prefix, newCfg.PrefixSource); err != nil {
		metrics.RecordConfigReload(trigger, metrics.OutcomeInvalid)
		return err
	}

	metrics.RecordConfigReload(trigger, metrics.OutcomeSuccess)
	s.logger.Info().
		Str(xglog.FieldEvent, "config.reload_success").
		Msg("configuration reloaded successfully")
	return nil
}

// StartWatcher starts watching the config file for changes.
// If no config file is configured, this is a no-op (config comes from ENV only).
// The watcher stops when ctx is cancelled or Stop is called.
func (s *Store) StartWatcher(ctx context.Context) error {
	path := s.loader.Path()
	if path == "" {
		s.logger.Info().
			Str(xglog.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (using ENV-only configuration)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory: editors and atomic writers replace the file,
	// which drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}

	s.writeMu.Lock()
	s.watcher = watcher
	s.writeMu.Unlock()

	s.logger.Info().
		Str(xglog.FieldEvent, "config.watcher_started").
		Str(xglog.FieldPath, path).
		Msg("watching config file for changes")

	go s.watchLoop(ctx, watcher, filepath.Clean(path))
	return nil
}

// watchLoop is the main file watcher loop.
func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Str(xglog.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			_ = watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			s.logger.Debug().
				Str(xglog.FieldEvent, "config.file_changed").
				Str("op", event.Op.String()).
				Msg("config file changed")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				if err := s.reload(ctx, TriggerWatcher); err != nil {
					s.logger.Error().
						Err(err).
						Str(xglog.FieldEvent, "config.auto_reload_failed").
						Msg("automatic config reload failed")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// Stop stops the config watcher (if running).
func (s *Store) Stop() {
	s.writeMu.Lock()
	w := s.watcher
	s.watcher = nil
	s.writeMu.Unlock()

	if w != nil {
		_ = w.Close()
	}
}
