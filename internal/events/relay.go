// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package events

import (
	"context"
	"encoding/json"

	"github.com/ManuGH/greetd/internal/config"
	xglog "github.com/ManuGH/greetd/internal/log"
	"github.com/ManuGH/greetd/internal/metrics"
)

// Relay publishes every snapshot received on updates to subject+SuffixUpdated.
// It returns when ctx is cancelled or updates is closed.
func Relay(ctx context.Context, updates <-chan config.Snapshot, pub Publisher, subject string) {
	logger := xglog.WithComponent("events")
	topic := subject + SuffixUpdated

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := pub.Publish(ctx, topic, FromSnapshot(snap)); err != nil {
				metrics.RecordEventPublished(metrics.OutcomeFailure)
				logger.Warn().
					Err(err).
					Str(xglog.FieldEvent, "events.publish_failed").
					Uint64(xglog.FieldEpoch, snap.Epoch).
					Msg("failed to publish config change")
				continue
			}
			metrics.RecordEventPublished(metrics.OutcomeSuccess)
			logger.Debug().
				Str(xglog.FieldEvent, "events.published").
				Str("subject", topic).
				Uint64(xglog.FieldEpoch, snap.Epoch).
				Msg("published config change")
		}
	}
}

// PrefixUpdater applies a prefix from a named source. *config.Store satisfies it.
type PrefixUpdater interface {
	UpdateFrom(prefix string, source config.Source) (config.Snapshot, error)
}

// ApplyRemoteUpdates applies SetPrefix payloads arriving on msgs until ctx is
// cancelled or msgs is closed. Malformed payloads and rejected prefixes are
// logged and dropped.
func ApplyRemoteUpdates(ctx context.Context, msgs <-chan []byte, target PrefixUpdater) {
	logger := xglog.WithComponent("events")

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-msgs:
			if !ok {
				return
			}
			var req SetPrefix
			if err := json.Unmarshal(data, &req); err != nil {
				metrics.RecordRemoteUpdate(metrics.OutcomeInvalid)
				logger.Warn().
					Err(err).
					Str(xglog.FieldEvent, "events.remote_malformed").
					Msg("dropped malformed remote update")
				continue
			}
			snap, err := target.UpdateFrom(req.Prefix, config.SourceRemote)
			if err != nil {
				metrics.RecordRemoteUpdate(metrics.OutcomeInvalid)
				logger.Warn().
					Err(err).
					Str(xglog.FieldEvent, "events.remote_rejected").
					Msg("rejected remote update")
				continue
			}
			metrics.RecordRemoteUpdate(metrics.OutcomeSuccess)
			logger.Info().
				Str(xglog.FieldEvent, "events.remote_applied").
				Uint64(xglog.FieldEpoch, snap.Epoch).
				Msg("applied remote prefix update")
		}
	}
}
