// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

// DefaultPrefix is the greeting prefix used when nothing else is configured.
const DefaultPrefix = "Hello"

// MaxPrefixLength bounds the prefix in characters.
const MaxPrefixLength = 128

// Source identifies where the current prefix came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceAPI     Source = "api"
	SourceRemote  Source = "remote"
)

// AppConfig is the effective configuration after defaults, file and environment are merged.
type AppConfig struct {
	Prefix       string
	PrefixSource Source

	LogLevel string
	Version  string

	APIListenAddr     string
	ConfigWriteRPM    int
	MetricsListenAddr string
	PersistUpdates    bool

	Events  EventsConfig
	Tracing TracingConfig
}

// EventsConfig configures change events on the NATS message bus.
type EventsConfig struct {
	NATSURL      string `yaml:"natsURL,omitempty"`
	Subject      string `yaml:"subject,omitempty"`
	AcceptRemote bool   `yaml:"acceptRemote,omitempty"`
}

// TracingConfig configures the OpenTelemetry exporter.
type TracingConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// FileTracingConfig holds the tracing settings of the config file.
type FileTracingConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	Exporter string `yaml:"exporter,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	// SamplingRate is nil when the key is absent, so 0 disables sampling.
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}

// FileConfig mirrors the on-disk YAML layout.
type FileConfig struct {
	// Hello is the greeting prefix. A nil value means the key is absent.
	Hello          *string           `yaml:"hello,omitempty"`
	LogLevel       string            `yaml:"logLevel,omitempty"`
	API            APIConfig         `yaml:"api,omitempty"`
	Metrics        MetricsConfig     `yaml:"metrics,omitempty"`
	PersistUpdates bool              `yaml:"persistUpdates,omitempty"`
	Events         EventsConfig      `yaml:"events,omitempty"`
	Tracing        FileTracingConfig `yaml:"tracing,omitempty"`
}

// APIConfig holds the API server settings of the config file.
type APIConfig struct {
	ListenAddr     string `yaml:"listenAddr,omitempty"`
	ConfigWriteRPM int    `yaml:"configWriteRPM,omitempty"`
}

// MetricsConfig holds the metrics server settings of the config file.
type MetricsConfig struct {
	ListenAddr string `yaml:"listenAddr,omitempty"`
}
