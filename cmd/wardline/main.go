package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/wardline/wardline/cmd/wardline/cli"
	"github.com/wardline/wardline/internal/app"
	"github.com/wardline/wardline/internal/dashboard"
	dashboardhttp "github.com/wardline/wardline/internal/dashboard/http"
	"github.com/wardline/wardline/jobs"
)

const usage = `usage: wardline [command]

commands:
  serve      run the HTTP API (default)
  snapshot   print one dashboard (-role, -roles, -facility, -format text|json|csv)
  warmup     enqueue a cache warmup (-roles general,lab)
  queue      print warmup queue stats
`

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return 1
	}
	logger := app.NewLogger(cfg)

	command := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		return serve(ctx, stop, cfg, logger)
	case "snapshot":
		return snapshot(ctx, cfg, logger, args)
	case "warmup":
		fs := flag.NewFlagSet("warmup", flag.ContinueOnError)
		roles := fs.String("roles", "", "comma separated roles, empty for all")
		if err := fs.Parse(args); err != nil {
			return 2
		}
		jc := cli.NewJobsCLI(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer jc.Close()
		return jc.WarmupCommand(ctx, cli.WarmupOptions{Roles: splitRoles(*roles)})
	case "queue":
		jc := cli.NewJobsCLI(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer jc.Close()
		return jc.QueueCommand(os.Stdout, os.Stderr)
	default:
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
}

func snapshot(ctx context.Context, cfg *app.Config, logger *slog.Logger, args []string) int {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	role := fs.String("role", "", "profile: general, lab or pharmacy")
	roles := fs.String("roles", "", "comma separated role tokens")
	facility := fs.String("facility", "", "facility type")
	format := fs.String("format", "text", "text, json or csv")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rt, err := app.NewRuntime(ctx, cfg, logger)
	if err != nil {
		logger.Error("init runtime", slog.Any("error", err))
		return 1
	}
	defer rt.Close()

	return cli.SnapshotCommand(ctx, rt.Dashboard, cli.SnapshotOptions{
		Role:         *role,
		Roles:        splitRoles(*roles),
		FacilityType: *facility,
		Format:       *format,
	})
}

func serve(ctx context.Context, stop context.CancelFunc, cfg *app.Config, logger *slog.Logger) int {
	rt, err := app.NewRuntime(ctx, cfg, logger)
	if err != nil {
		logger.Error("init runtime", slog.Any("error", err))
		return 1
	}
	defer rt.Close()

	if err := rt.Cache.ListenForInvalidation(ctx, dashboard.BumpChannel); err != nil {
		logger.Warn("subscribe cache invalidation", slog.Any("error", err))
	}

	var (
		enqueuer   dashboardhttp.WarmupEnqueuer
		jobHandler *jobs.Handler
	)
	if rt.Redis != nil {
		jobClient := jobs.NewClient(rt.RedisOpts())
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		inspector := asynq.NewInspector(rt.RedisOpts())
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		enqueuer = jobClient
		jobHandler = jobs.NewHandler(inspector, logger)
	} else {
		jobHandler = jobs.NewHandler(nil, logger)
	}

	dashboardHandler := dashboardhttp.NewHandler(logger, rt.Dashboard, rt.Directory, enqueuer)
	dashboardHandler.WithTimeout(cfg.AppRequestTimeout)
	if rt.PDF != nil {
		dashboardHandler.WithPDF(rt.PDF)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Metrics:          rt.Metrics,
		DashboardHandler: dashboardHandler,
		JobHandler:       jobHandler,
		APIKeys:          app.NewAPIKeyGuard(cfg.APIKeyHashes, logger),
		Readiness:        rt.Readiness(),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()
	go func() {
		if err := rt.Dashboard.Warm(ctx); err != nil {
			logger.Warn("initial warmup", slog.Any("error", err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
		return 1
	}
	return 0
}

func splitRoles(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
