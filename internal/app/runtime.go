package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wardline/wardline/internal/dashboard"
	"github.com/wardline/wardline/internal/feed"
	"github.com/wardline/wardline/internal/feed/pg"
	"github.com/wardline/wardline/internal/feed/rest"
	"github.com/wardline/wardline/internal/identity"
	"github.com/wardline/wardline/internal/observability"
	"github.com/wardline/wardline/internal/platform/cache"
	"github.com/wardline/wardline/internal/platform/db"
	"github.com/wardline/wardline/report"
)

const testModeEnv = "WARDLINE_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

// detectTestMode reads the WARDLINE_TEST_MODE flag once.
func detectTestMode() {
	testModeFlag.Store(os.Getenv(testModeEnv) == "1")
}

// InTestMode reports whether the application should skip runtime side effects.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testModeFlag.Load()
}

// Runtime holds the long-lived dependencies shared by the server and the
// worker.
type Runtime struct {
	Config    *Config
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Redis     *redis.Client
	Pool      *pgxpool.Pool
	Cache     *dashboard.Cache
	Dashboard *dashboard.Service
	Directory identity.Directory
	PDF       *report.Client
}

// NewRuntime connects to Redis and, when needed, Postgres and builds the
// dashboard service on top of the configured feed source. An unreachable
// Redis disables caching instead of failing startup.
func NewRuntime(ctx context.Context, cfg *Config, logger *slog.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("app: config required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	rt := &Runtime{Config: cfg, Logger: logger, Metrics: observability.NewMetrics()}

	client, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, PoolSize: cfg.RedisPoolSize})
	if err != nil {
		logger.Warn("redis unavailable, dashboard cache disabled", slog.Any("error", err))
	} else {
		rt.Redis = client
	}

	if cfg.NeedsPostgres() {
		pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns, ReadOnly: true})
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.Pool = pool
	}
	if cfg.IdentityEnabled {
		rt.Directory = identity.NewPostgresDirectory(rt.Pool)
	}

	rt.PDF = report.NewClient(cfg.GotenbergURL, cfg.AppRequestTimeout)

	source, err := rt.feedSource()
	if err != nil {
		rt.Close()
		return nil, err
	}
	loader := feed.NewLoader(source, feed.LoaderOptions{
		Timeout:  cfg.FeedTimeout,
		Limit:    cfg.FeedLimit,
		Logger:   logger,
		Failures: rt.Metrics,
	})
	rt.Cache = dashboard.NewCache(rt.Redis, cfg.DashboardCacheTTL)
	rt.Dashboard = dashboard.NewService(loader, rt.Cache,
		dashboard.WithLocation(loc),
		dashboard.WithFormatter(dashboard.NewFormatter(cfg.DashboardLocale, cfg.DashboardCurrency)),
		dashboard.WithRecorder(rt.Metrics),
		dashboard.WithLogger(logger),
	)
	logger.Info("runtime ready",
		slog.String("feed", cfg.FeedSource),
		slog.Bool("cache", rt.Redis != nil),
		slog.Bool("identity", rt.Directory != nil),
		slog.Bool("pdf", rt.PDF != nil),
		slog.String("timezone", loc.String()))
	return rt, nil
}

func (rt *Runtime) feedSource() (feed.Source, error) {
	switch rt.Config.FeedSource {
	case FeedSourcePostgres:
		return pg.NewSource(rt.Pool, nil), nil
	case FeedSourceREST:
		return rest.New(rest.Config{
			BaseURL: rt.Config.FeedBaseURL,
			Token:   rt.Config.FeedToken,
			Timeout: rt.Config.FeedTimeout,
			Retries: rt.Config.FeedRetries,
		}), nil
	default:
		return nil, fmt.Errorf("app: unknown feed source %q", rt.Config.FeedSource)
	}
}

// RedisOpts returns the asynq connection options for the configured Redis.
func (rt *Runtime) RedisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: rt.Config.RedisAddr, PoolSize: rt.Config.RedisPoolSize}
}

// Close releases the connections held by the runtime.
func (rt *Runtime) Close() {
	if rt == nil {
		return
	}
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			rt.Logger.Warn("redis close", slog.Any("error", err))
		}
	}
	if rt.Pool != nil {
		rt.Pool.Close()
	}
}

// Readiness lists the connected dependencies for /readyz.
func (rt *Runtime) Readiness() map[string]Pinger {
	deps := make(map[string]Pinger, 3)
	if rt.Redis != nil {
		client := rt.Redis
		deps["redis"] = PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	}
	if rt.Pool != nil {
		deps["postgres"] = rt.Pool
	}
	if rt.PDF != nil {
		deps["gotenberg"] = rt.PDF
	}
	return deps
}
