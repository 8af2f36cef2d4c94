package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sobrinkedos/caixa/internal/cashier"
)

type stubSummaries struct {
	gotDate time.Time
	summary cashier.DailySummary
	err     error
	calls   int
}

func (s *stubSummaries) DailySummary(ctx context.Context, date time.Time) (cashier.DailySummary, error) {
	s.calls++
	s.gotDate = date
	return s.summary, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleReceipt() cashier.ClosingReceipt {
	return cashier.ClosingReceipt{
		ReceiptNumber:   "FCX-20260830-9F2C41AB",
		SessionID:       uuid.New(),
		EmployeeID:      uuid.New(),
		ClosedAt:        time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC),
		ClosingAmount:   decimal.RequireFromString("150.00"),
		CashDiscrepancy: decimal.Zero,
		DiscrepancyTier: cashier.TierAutoAccept,
	}
}

func TestCloseFanoutTaskPayload(t *testing.T) {
	receipt := sampleReceipt()
	task, err := NewCloseFanoutTask(receipt)
	require.NoError(t, err)
	assert.Equal(t, TaskCloseFanout, task.Type())

	var payload CloseFanoutPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, receipt.ReceiptNumber, payload.ReceiptNumber)
	assert.Equal(t, receipt.SessionID, payload.SessionID)
	assert.Equal(t, "150.00", payload.ClosingAmount)
	assert.Equal(t, "0.00", payload.CashDiscrepancy)
	assert.Equal(t, "auto_accept", payload.DiscrepancyTier)
}

func TestCloseFanoutHandleBroadcastsAndWarms(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	summaries := &stubSummaries{}
	job := NewCloseFanoutJob(summaries, client, discardLogger())

	sub := client.Subscribe(context.Background(), ReceiptsChannel)
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	receipt := sampleReceipt()
	task, err := NewCloseFanoutTask(receipt)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	var payload CloseFanoutPayload
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &payload))
	assert.Equal(t, receipt.ReceiptNumber, payload.ReceiptNumber)

	assert.Equal(t, 1, summaries.calls)
	assert.Equal(t, "2026-08-30", summaries.gotDate.Format("2006-01-02"))
}

func TestCloseFanoutHandleSkipsRetryOnGarbage(t *testing.T) {
	job := NewCloseFanoutJob(&stubSummaries{}, nil, discardLogger())
	err := job.Handle(context.Background(), asynq.NewTask(TaskCloseFanout, []byte("{broken")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestCloseFanoutHandlePropagatesSummaryError(t *testing.T) {
	boom := errors.New("db offline")
	job := NewCloseFanoutJob(&stubSummaries{err: boom}, nil, discardLogger())
	task, err := NewCloseFanoutTask(sampleReceipt())
	require.NoError(t, err)
	require.ErrorIs(t, job.Handle(context.Background(), task), boom)
}

func TestSummaryWarmupHandleParsesDate(t *testing.T) {
	summaries := &stubSummaries{summary: cashier.DailySummary{Date: "2026-08-29"}}
	job := NewSummaryWarmupJob(summaries, discardLogger())

	task, err := NewSummaryWarmupTask("2026-08-29")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, "2026-08-29", summaries.gotDate.Format("2006-01-02"))
}

func TestSummaryWarmupHandleDefaultsToToday(t *testing.T) {
	summaries := &stubSummaries{}
	job := NewSummaryWarmupJob(summaries, discardLogger())
	fixed := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
	job.clock = func() time.Time { return fixed }

	task, err := NewSummaryWarmupTask("")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.True(t, summaries.gotDate.Equal(fixed))
}

func TestSummaryWarmupHandleRejectsBadDate(t *testing.T) {
	job := NewSummaryWarmupJob(&stubSummaries{}, discardLogger())
	task := asynq.NewTask(TaskSummaryWarmup, []byte(`{"date":"tomorrow"}`))
	require.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)
}
