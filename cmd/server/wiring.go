package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"sunhex/internal/audit"
	guardmetrics "sunhex/internal/guard/metrics"
	guardmodels "sunhex/internal/guard/models"
	guard "sunhex/internal/guard/service"
	"sunhex/internal/guard/store/memory"
	guardpg "sunhex/internal/guard/store/postgres"
	guardredis "sunhex/internal/guard/store/redis"
	"sunhex/internal/guard/store/resilient"
	"sunhex/internal/guard/workers/cleanup"
	"sunhex/internal/platform/config"
	"sunhex/internal/platform/database"
	"sunhex/internal/platform/health"
	"sunhex/internal/platform/kafka"
	"sunhex/internal/platform/redis"
	"sunhex/internal/platform/tracer"
	ratelimitmetrics "sunhex/internal/ratelimit/metrics"
	ratelimitmw "sunhex/internal/ratelimit/middleware"
	ratelimitmodels "sunhex/internal/ratelimit/models"
	"sunhex/internal/ratelimit/store/bucket"
	tokenhandler "sunhex/internal/token/handler"
	tokenmetrics "sunhex/internal/token/metrics"
	tokenservice "sunhex/internal/token/service"
	"sunhex/migrations"
	"sunhex/pkg/platform/circuit"
	"sunhex/pkg/platform/middleware/metadata"
	request "sunhex/pkg/platform/middleware/request"
)

type dependencies struct {
	router     chi.Router
	background []backgroundTask
	closers    []func() error
}

func (d *dependencies) close(log *slog.Logger) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			log.Warn("failed to release dependency", "error", err)
		}
	}
}

// addSweeper runs sweeper on the cleanup interval for the life of the server.
func (d *dependencies) addSweeper(name string, sweeper cleanup.Sweeper, log *slog.Logger, m *guardmetrics.Metrics) {
	worker := cleanup.New(sweeper,
		cleanup.WithName(name),
		cleanup.WithLogger(log),
		cleanup.WithInterval(cleanupInterval),
		cleanup.WithMetrics(m),
	)
	d.background = append(d.background, func(ctx context.Context) error {
		return ignoreCancel(worker.Start(ctx))
	})
}

func wire(ctx context.Context, cfg config.Server, log *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}
	healthHandler := health.New(cfg.Environment)

	back, err := openBackends(ctx, cfg, log, deps, healthHandler)
	if err != nil {
		deps.close(log)
		return nil, err
	}

	guardMetrics := guardmetrics.New()
	guardSvc, err := guard.New(back.guardStore(log, guardMetrics), guardmodels.Policy{
		MaxFailures:  cfg.Guard.MaxFailures,
		Window:       cfg.Guard.Window,
		LockDuration: cfg.Guard.LockDuration,
	}, guard.WithLogger(log), guard.WithMetrics(guardMetrics))
	if err != nil {
		deps.close(log)
		return nil, fmt.Errorf("decode guard: %w", err)
	}
	// Every guard store variant keeps records in process that need trimming.
	deps.addSweeper("decode_guard", guardSvc, log, guardMetrics)

	limit := ratelimitmodels.Limit{Requests: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window}
	if err := limit.Validate(); err != nil {
		deps.close(log)
		return nil, err
	}
	bucketStore, bucketSweeper := back.bucketStore(limit.Window)
	if bucketSweeper != nil && limit.Enabled() {
		deps.addSweeper("rate_limit", bucketSweeper, log, nil)
	}
	limiter := ratelimitmw.New(bucketStore, limit,
		ratelimitmw.WithLogger(log),
		ratelimitmw.WithMetrics(ratelimitmetrics.New()),
	)

	publisher, err := buildAuditPublisher(cfg, log, deps, healthHandler)
	if err != nil {
		deps.close(log)
		return nil, err
	}

	tokenSvc := tokenservice.New(
		tokenservice.WithGuard(guardSvc),
		tokenservice.WithAuditPublisher(publisher),
		tokenservice.WithMetrics(tokenmetrics.New()),
		tokenservice.WithTracer(tracer.NewOTel(otel.Tracer(tracer.InstrumentationName))),
		tokenservice.WithLogger(log),
	)

	deps.router = buildRouter(cfg, log, healthHandler, limiter, tokenhandler.New(tokenSvc, log, cfg.DebugOutput))
	return deps, nil
}

// backends holds the shared stores configured for this process. At most one
// is set: Postgres wins over Redis.
type backends struct {
	pool  *database.Pool
	redis *redis.Client
}

func openBackends(ctx context.Context, cfg config.Server, log *slog.Logger, deps *dependencies, h *health.Handler) (backends, error) {
	switch {
	case cfg.Database.URL != "":
		pool, err := database.New(cfg.Database)
		if err != nil {
			return backends{}, fmt.Errorf("database: %w", err)
		}
		deps.closers = append(deps.closers, pool.Close)
		if err := database.Migrate(ctx, pool.DB(), migrations.FS); err != nil {
			return backends{}, fmt.Errorf("migrate: %w", err)
		}
		h.RegisterCheck("postgres", pool.Health)
		prometheus.MustRegister(pool.Collector())
		log.Info("using postgres for decode guard and rate limits")
		return backends{pool: pool}, nil

	case cfg.Redis.URL != "":
		client, err := redis.New(cfg.Redis)
		if err != nil {
			return backends{}, fmt.Errorf("redis: %w", err)
		}
		deps.closers = append(deps.closers, client.Close)
		h.RegisterCheck("redis", client.Health)
		prometheus.MustRegister(redis.NewPoolCollector(client))
		log.Info("using redis for decode guard and rate limits")
		return backends{redis: client}, nil

	default:
		log.Info("using in-memory decode guard and rate limits")
		return backends{}, nil
	}
}

// guardStore wraps shared stores so an outage falls back to a local copy.
func (b backends) guardStore(log *slog.Logger, m *guardmetrics.Metrics) guard.Store {
	breaker := circuit.New("decode_guard_store",
		circuit.WithOnChange(func(name string, from, to circuit.State) {
			m.CircuitState.WithLabelValues(name).Set(float64(to))
			log.Warn("circuit breaker state changed", "circuit", name, "from", from.String(), "to", to.String())
		}),
	)
	switch {
	case b.pool != nil:
		return resilient.New(guardpg.New(b.pool.DB()), breaker, log)
	case b.redis != nil:
		return resilient.New(guardredis.New(b.redis.Client), breaker, log)
	default:
		return memory.New()
	}
}

// bucketStore returns the rate limit store and, when it needs one, a sweeper
// for expired windows.
func (b backends) bucketStore(window time.Duration) (ratelimitmw.Store, cleanup.Sweeper) {
	switch {
	case b.pool != nil:
		store := bucket.NewPostgres(b.pool.DB())
		return store, sweepFunc(func(ctx context.Context) (int, error) {
			return store.DeleteOlderThan(ctx, time.Now().Add(-window))
		})
	case b.redis != nil:
		return bucket.NewRedis(b.redis.Client), nil
	default:
		store := bucket.NewInMemoryBucketStore()
		return store, store
	}
}

type sweepFunc func(ctx context.Context) (int, error)

func (f sweepFunc) Sweep(ctx context.Context) (int, error) { return f(ctx) }

// buildAuditPublisher sends events to Kafka through a bounded buffer when
// brokers are configured and to the log otherwise.
func buildAuditPublisher(cfg config.Server, log *slog.Logger, deps *dependencies, h *health.Handler) (audit.Publisher, error) {
	if cfg.Kafka.Brokers == "" {
		log.Info("audit events written to log")
		return audit.NewLogPublisher(log), nil
	}

	producer, err := kafka.NewProducer(cfg.Kafka, log)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	deps.closers = append(deps.closers, func() error { return producer.Close(kafkaCloseWindow) })
	h.RegisterCheck("kafka", producer.Ping)

	buffered := audit.NewBuffered(audit.NewKafkaPublisher(producer, cfg.Kafka.AuditTopic), auditBufferSize, log)
	deps.closers = append(deps.closers, func() error {
		buffered.Close()
		return nil
	})
	log.Info("audit events published to kafka", "topic", cfg.Kafka.AuditTopic)
	return buffered, nil
}

func buildRouter(cfg config.Server, log *slog.Logger, h *health.Handler, limiter *ratelimitmw.Middleware, tokens *tokenhandler.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.New(cfg.TrustedProxies).Handler)
	r.Use(request.Recovery(log))
	r.Use(request.Access(log, request.NewMetrics()))

	h.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(limiter.RateLimit("api"))
		r.Use(request.BodyLimit(cfg.MaxBodyBytes))
		r.Use(request.Timeout(cfg.RequestTimeout))
		tokens.Register(r)
	})
	return r
}
