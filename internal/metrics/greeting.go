// SPDX-License-Identifier: MIT

// Package metrics exposes the Prometheus collectors recorded by greetd.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeFailure = "failure"
	OutcomeNoop    = "noop"
)

var (
	greetingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "greetd_greetings_total",
		Help: "Greetings composed by outcome",
	}, []string{"outcome"}) // outcome=success|invalid
)

// RecordGreeting counts one SayHello call.
func RecordGreeting(outcome string) {
	greetingsTotal.WithLabelValues(outcome).Inc()
}
