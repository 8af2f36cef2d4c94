package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/sobrinkedos/caixa/internal/cashier"
)

// ReceiptsChannel is the redis channel closed receipts are broadcast on
// for printing and back-office consumers.
const ReceiptsChannel = "caixa.receipts"

// SummaryService is the slice of the cashier service the jobs need.
type SummaryService interface {
	DailySummary(ctx context.Context, date time.Time) (cashier.DailySummary, error)
}

// CloseFanoutJob broadcasts closing receipts and warms the summary
// cache for the day the close landed on.
type CloseFanoutJob struct {
	Summaries SummaryService
	Redis     *redis.Client
	Logger    *slog.Logger
}

// NewCloseFanoutJob wires dependencies for the fan-out handler.
func NewCloseFanoutJob(summaries SummaryService, redisClient *redis.Client, logger *slog.Logger) *CloseFanoutJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &CloseFanoutJob{Summaries: summaries, Redis: redisClient, Logger: logger}
}

// Handle processes TaskCloseFanout tasks.
func (j *CloseFanoutJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("close fanout: handler not configured")
	}
	var payload CloseFanoutPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.Logger.With(slog.String("receipt", payload.ReceiptNumber))

	if j.Redis != nil {
		if err := j.Redis.Publish(ctx, ReceiptsChannel, t.Payload()).Err(); err != nil {
			logger.Error("broadcast receipt", slog.Any("error", err))
			return err
		}
	}

	if j.Summaries != nil {
		if _, err := j.Summaries.DailySummary(ctx, payload.ClosedAt); err != nil {
			logger.Error("warm daily summary", slog.Any("error", err))
			return err
		}
	}

	logger.Info("close fanout delivered")
	return nil
}

// SummaryWarmupJob precomputes the daily summary so the first dashboard
// read of the day is served from cache.
type SummaryWarmupJob struct {
	Summaries SummaryService
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewSummaryWarmupJob wires dependencies for the warmup handler.
func NewSummaryWarmupJob(summaries SummaryService, logger *slog.Logger) *SummaryWarmupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryWarmupJob{
		Summaries: summaries,
		Logger:    logger,
		clock:     time.Now,
	}
}

// Handle processes TaskSummaryWarmup tasks.
func (j *SummaryWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Summaries == nil {
		return errors.New("summary warmup: handler not configured")
	}
	var payload SummaryWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	date := j.clock()
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return asynq.SkipRetry
		}
		date = parsed
	}
	summary, err := j.Summaries.DailySummary(ctx, date)
	if err != nil {
		j.Logger.Error("summary warmup", slog.Any("error", err))
		return err
	}
	j.Logger.Info("summary warmed",
		slog.String("date", summary.Date),
		slog.Int("sessions_closed", summary.SessionsClosed))
	return nil
}
