package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/sobrinkedos/caixa/internal/app"
	"github.com/sobrinkedos/caixa/internal/cashier"
	cashierhttp "github.com/sobrinkedos/caixa/internal/cashier/http"
	"github.com/sobrinkedos/caixa/internal/orders"
	"github.com/sobrinkedos/caixa/internal/platform/cache"
	"github.com/sobrinkedos/caixa/internal/platform/db"
	"github.com/sobrinkedos/caixa/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Warn("redis unavailable, notifications and caching disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	var fanout cashier.FanoutEnqueuer
	if redisClient != nil {
		client := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := client.Close(); err != nil {
				logger.Warn("asynq close", slog.Any("error", err))
			}
		}()
		fanout = client
	}

	service := cashier.NewService(cashier.ServiceConfig{
		Repo:      cashier.NewRepository(pool),
		Orders:    orders.NewDirectory(pool),
		Events:    cashier.NewNotifier(redisClient, logger),
		Summaries: cashier.NewSummaryCache(redisClient, cfg.SummaryCacheTTL),
		Fanout:    fanout,
		Logger:    logger,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		CashierHandler: cashierhttp.NewHandler(logger, service),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("caixa api listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
