// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ManuGH/greetd/internal/api"
	"github.com/ManuGH/greetd/internal/config"
	"github.com/ManuGH/greetd/internal/daemon"
	"github.com/ManuGH/greetd/internal/events"
	"github.com/ManuGH/greetd/internal/greeting"
	"github.com/ManuGH/greetd/internal/health"
	xglog "github.com/ManuGH/greetd/internal/log"
	"github.com/ManuGH/greetd/internal/telemetry"
	"github.com/ManuGH/greetd/internal/version"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const serviceName = "greetd"

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the greeting daemon",
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := runServe(ctx, configPath); err != nil {
				logger := xglog.WithComponent("daemon")
				logger.Fatal().Err(err).Msg("greetd failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", os.Getenv(config.EnvConfigPath), "path to config file (YAML, env "+config.EnvConfigPath+")")
	return cmd
}

// runServe wires the daemon from configuration and blocks until ctx is done.
func runServe(ctx context.Context, configPath string) error {
	xglog.Configure(xglog.Config{Service: serviceName, Version: version.Version})
	logger := xglog.WithComponent("daemon")

	loader := config.NewLoader(strings.TrimSpace(configPath), version.Version)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	xglog.Configure(xglog.Config{Level: cfg.LogLevel, Service: serviceName, Version: version.Version})
	logger = xglog.WithComponent("daemon")
	logger.Info().
		Str(xglog.FieldEvent, "daemon.config_loaded").
		Str(xglog.FieldPath, loader.Path()).
		Str(xglog.FieldPrefix, cfg.Prefix).
		Str(xglog.FieldSource, string(cfg.PrefixSource)).
		Msg("configuration loaded")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: version.Version,
		ExporterType:   cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	store := config.NewStore(cfg, loader)
	if err := store.StartWatcher(ctx); err != nil {
		_ = tp.Shutdown(context.Background())
		return fmt.Errorf("start config watcher: %w", err)
	}

	hm := health.NewManager(version.Version)
	hm.RegisterChecker(health.NewConfigChecker(store))
	hm.RegisterChecker(health.NewFileChecker("config_file", loader.Path()))

	var (
		workers []daemon.Worker
		closers []namedCloser
	)
	closers = append(closers, namedCloser{"tracing", tp.Shutdown})
	closers = append(closers, namedCloser{"config_watcher", func(context.Context) error {
		store.Stop()
		return nil
	}})

	if cfg.Events.NATSURL != "" {
		w, c, err := wireEvents(store, hm, cfg.Events)
		if err != nil {
			runClosers(closers)
			return err
		}
		workers = append(workers, w...)
		closers = append(closers, c...)
	}

	deps := api.Deps{
		Store:          store,
		Greeter:        greeting.NewService(store),
		Health:         hm,
		ConfigWriteRPM: cfg.ConfigWriteRPM,
	}
	if cfg.Tracing.Enabled {
		deps.TracingService = serviceName + "/http"
	}
	if cfg.PersistUpdates {
		if loader.Path() == "" {
			logger.Warn().Msg("persistUpdates requires a config file, updates stay in memory")
		} else {
			deps.Persister = config.NewManager(loader.Path())
		}
	}
	apiServer, err := api.New(deps)
	if err != nil {
		runClosers(closers)
		return fmt.Errorf("build API: %w", err)
	}

	mgr, err := daemon.NewManager(config.ParseServerConfig(cfg), daemon.Deps{
		Logger:         logger,
		APIHandler:     apiServer.Handler(),
		MetricsHandler: promhttp.Handler(),
		Workers:        workers,
	})
	if err != nil {
		runClosers(closers)
		return fmt.Errorf("build daemon: %w", err)
	}
	for _, c := range closers {
		mgr.RegisterShutdownHook(c.name, c.close)
	}

	return mgr.Start(ctx)
}

type namedCloser struct {
	name  string
	close func(context.Context) error
}

func runClosers(closers []namedCloser) {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i].close(context.Background())
	}
}

// wireEvents connects the config store to NATS: every applied snapshot is
// published, and remote updates are applied when accepted.
func wireEvents(store *config.Store, hm *health.Manager, cfg config.EventsConfig) ([]daemon.Worker, []namedCloser, error) {
	logger := xglog.WithComponent("events")
	connOpts := []nats.Option{
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Str(xglog.FieldEvent, "events.disconnected").Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str(xglog.FieldEvent, "events.reconnected").Str("url", nc.ConnectedUrlRedacted()).Msg("NATS reconnected")
		}),
	}

	pub, err := events.NewNATSPublisher(cfg.NATSURL, connOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("connect event publisher: %w", err)
	}
	hm.RegisterChecker(health.NewConnChecker("nats", pub.Connected))

	updates, unsubscribe := store.Subscribe(64)
	workers := []daemon.Worker{{
		Name: "config_relay",
		Run: func(ctx context.Context) {
			events.Relay(ctx, updates, pub, cfg.Subject)
		},
	}}
	closers := []namedCloser{
		{"event_publisher", func(ctx context.Context) error {
			flushErr := pub.Flush(ctx)
			return errors.Join(flushErr, pub.Close())
		}},
		{"config_subscription", func(context.Context) error { unsubscribe(); return nil }},
	}

	logger.Info().
		Str(xglog.FieldEvent, "events.enabled").
		Str("subject", cfg.Subject).
		Bool("accept_remote", cfg.AcceptRemote).
		Msg("config events wired to NATS")

	if !cfg.AcceptRemote {
		return workers, closers, nil
	}

	sub, err := events.NewNATSSubscriber(cfg.NATSURL, connOpts...)
	if err != nil {
		runClosers(closers)
		return nil, nil, fmt.Errorf("connect event subscriber: %w", err)
	}
	msgs, cancelMsgs, err := sub.Subscribe(cfg.Subject + events.SuffixSet)
	if err != nil {
		_ = sub.Close()
		runClosers(closers)
		return nil, nil, fmt.Errorf("subscribe remote updates: %w", err)
	}
	workers = append(workers, daemon.Worker{
		Name: "remote_updates",
		Run: func(ctx context.Context) {
			events.ApplyRemoteUpdates(ctx, msgs, store)
		},
	})
	closers = append(closers,
		namedCloser{"event_subscriber", func(context.Context) error { return sub.Close() }},
		namedCloser{"remote_subscription", func(context.Context) error { cancelMsgs(); return nil }},
	)

	return workers, closers, nil
}
