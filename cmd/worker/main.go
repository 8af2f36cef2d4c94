package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/sobrinkedos/caixa/internal/app"
	"github.com/sobrinkedos/caixa/internal/cashier"
	"github.com/sobrinkedos/caixa/internal/orders"
	"github.com/sobrinkedos/caixa/internal/platform/cache"
	"github.com/sobrinkedos/caixa/internal/platform/db"
	"github.com/sobrinkedos/caixa/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	service := cashier.NewService(cashier.ServiceConfig{
		Repo:      cashier.NewRepository(pool),
		Orders:    orders.NewDirectory(pool),
		Summaries: cashier.NewSummaryCache(redisClient, cfg.SummaryCacheTTL),
		Logger:    logger,
	})

	fanoutJob := jobs.NewCloseFanoutJob(service, redisClient, logger)
	warmupJob := jobs.NewSummaryWarmupJob(service, logger)

	warmupTask, err := jobs.NewSummaryWarmupTask("")
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskCloseFanout, Handler: fanoutJob.Handle},
			{Type: jobs.TaskSummaryWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			// Warm the dashboard cache shortly after the venue day rolls over.
			{Spec: "10 0 * * *", Task: warmupTask},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("caixa worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
}
