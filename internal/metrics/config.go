// SPDX-License-Identifier: MIT

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	configUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "greetd_config_updates_total",
		Help: "Configuration update attempts by source and outcome",
	}, []string{"source", "outcome"}) // source=api|file|env|remote|default

	configEpoch = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "greetd_config_epoch",
		Help: "Epoch of the currently applied configuration snapshot",
	})

	configReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "greetd_config_reloads_total",
		Help: "Configuration file reloads by trigger and outcome",
	}, []string{"trigger", "outcome"}) // trigger=api|watcher

	eventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "greetd_events_published_total",
		Help: "Configuration change events published by outcome",
	}, []string{"outcome"})

	remoteUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "greetd_remote_updates_total",
		Help: "Prefix updates received over the message bus by outcome",
	}, []string{"outcome"})
)

// RecordConfigUpdate counts one attempt to change the prefix.
func RecordConfigUpdate(source, outcome string) {
	configUpdatesTotal.WithLabelValues(source, outcome).Inc()
}

// SetConfigEpoch publishes the epoch of the current snapshot.
func SetConfigEpoch(epoch uint64) {
	configEpoch.Set(float64(epoch))
}

// RecordConfigReload counts one reload of the configuration file.
func RecordConfigReload(trigger, outcome string) {
	configReloadsTotal.WithLabelValues(trigger, outcome).Inc()
}

// RecordEventPublished counts one change event sent to the message bus.
func RecordEventPublished(outcome string) {
	eventsPublishedTotal.WithLabelValues(outcome).Inc()
}

// RecordRemoteUpdate counts one prefix update received from the message bus.
func RecordRemoteUpdate(outcome string) {
	remoteUpdatesTotal.WithLabelValues(outcome).Inc()
}
