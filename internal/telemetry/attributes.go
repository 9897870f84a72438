// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Greeting attributes
	AttrGreetingPrefix = "greeting.prefix"
	AttrConfigEpoch    = "config.epoch"
	AttrConfigSource   = "config.source"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// ConfigAttributes creates span attributes describing an applied snapshot.
func ConfigAttributes(prefix string, epoch uint64, source string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrGreetingPrefix, prefix),
		attribute.Int64(AttrConfigEpoch, int64(epoch)), //nolint:gosec // epochs stay far below MaxInt64
		attribute.String(AttrConfigSource, source),
	}
}
