package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"tcubridge/internal/admissions/client"
	"tcubridge/internal/admissions/dispatcher"
	"tcubridge/internal/admissions/envelope"
	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/rules"
	"tcubridge/internal/admissions/status"
	"tcubridge/internal/observability"
	"tcubridge/internal/observability/store/memory"
	pgstore "tcubridge/internal/observability/store/postgres"
	"tcubridge/internal/observability/stream/kafka"
	redisstream "tcubridge/internal/observability/stream/redis"
	"tcubridge/internal/platform/config"
	"tcubridge/internal/platform/logger"
	"tcubridge/internal/platform/metrics"
	"tcubridge/internal/platform/postgres"
	"tcubridge/internal/platform/redis"
	httptransport "tcubridge/internal/transport/http"
	"tcubridge/pkg/platform/circuit"
)

// app holds everything a command needs. close releases connections in
// reverse order of acquisition.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	registry *rules.Registry
	catalog  *operations.Catalog

	memory  *memory.InMemoryStore
	calls   *pgstore.Store
	db      *sql.DB
	sinks   []observability.Sink
	closers []func()
}

func loadApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	reg := rules.Default()
	cat, err := operations.Default(reg)
	if err != nil {
		return nil, fmt.Errorf("build operation catalog: %w", err)
	}
	return &app{
		cfg:      cfg,
		logger:   logger.New(cfg.Log.Level, cfg.Log.Format),
		metrics:  metrics.New(prometheus.NewRegistry()),
		registry: reg,
		catalog:  cat,
	}, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// openDB connects the call-log database once.
func (a *app) openDB(ctx context.Context) (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	if a.cfg.Sinks.PostgresDSN.IsZero() {
		return nil, errors.New("no call-log database configured (sinks.postgres_dsn or TCU_POSTGRES_DSN)")
	}
	db, err := postgres.Open(ctx, a.cfg.Sinks.PostgresDSN)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.calls = pgstore.New(db)
	a.closers = append(a.closers, func() { _ = db.Close() })
	return db, nil
}

// connectSinks opens every configured sink. A sink that cannot be reached is
// logged and skipped; the call itself must not depend on the call log.
func (a *app) connectSinks(ctx context.Context) {
	a.memory = memory.NewInMemoryStore(a.cfg.Sinks.MemoryLimit)
	a.sinks = append(a.sinks, a.track("memory", a.memory))

	if !a.cfg.Sinks.PostgresDSN.IsZero() {
		if _, err := a.openDB(ctx); err != nil {
			a.logger.WarnContext(ctx, "postgres call log unavailable", "error", err)
		} else {
			a.sinks = append(a.sinks, a.track("postgres", a.calls))
		}
	}

	if a.cfg.Redis.URL != "" {
		rc, err := redis.New(ctx, a.cfg.Redis)
		if err != nil {
			a.logger.WarnContext(ctx, "redis stream unavailable", "error", err)
		} else {
			a.closers = append(a.closers, func() { _ = rc.Close() })
			stream := redisstream.New(rc.Client, a.cfg.Redis.Stream, redisstream.WithMaxLen(a.cfg.Redis.MaxLen))
			a.sinks = append(a.sinks, a.track("redis", stream))
		}
	}

	if len(a.cfg.Sinks.KafkaBrokers) > 0 {
		p, err := kafka.New(a.cfg.Sinks.KafkaBrokers, a.cfg.Sinks.KafkaTopic)
		if err != nil {
			a.logger.WarnContext(ctx, "kafka producer unavailable", "error", err)
		} else {
			a.closers = append(a.closers, p.Close)
			a.sinks = append(a.sinks, a.track("kafka", p))
		}
	}
}

func (a *app) track(name string, sink observability.Sink) observability.Sink {
	breaker := circuit.New(name,
		circuit.WithFailureThreshold(a.cfg.Sinks.BreakerThreshold),
		circuit.WithCooldown(a.cfg.Sinks.BreakerCooldown),
	)
	return observability.NewTracker(name, sink,
		observability.WithLogger(a.logger),
		observability.WithMetrics(a.metrics),
		observability.WithBreaker(breaker),
		observability.WithTimeout(a.cfg.Sinks.WriteTimeout),
	)
}

// dispatcher wires the transport and the configured sinks behind a dispatcher.
func (a *app) dispatcher() (*dispatcher.Dispatcher, error) {
	if err := a.cfg.Authority.Validate(); err != nil {
		return nil, err
	}
	transport, err := httptransport.New(a.cfg.Authority.BaseURL, httptransport.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	identity := envelope.Identity{Username: a.cfg.Authority.Username, SessionToken: a.cfg.Authority.SessionToken}
	return dispatcher.New(a.registry, a.catalog, status.Default(), transport, identity,
		dispatcher.WithLogger(a.logger),
		dispatcher.WithMetrics(a.metrics),
		dispatcher.WithSink(observability.NewFanout(a.sinks...)),
		dispatcher.WithRetry(a.cfg.Authority.RetryAttempts, a.cfg.Authority.RetryDelay),
		dispatcher.WithTimeout(a.cfg.Authority.Timeout),
	)
}

// client returns the typed facades over d.
func (a *app) client(d *dispatcher.Dispatcher) *client.Client {
	return client.New(d)
}
