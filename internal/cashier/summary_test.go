package cashier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySummaryFoldsRows(t *testing.T) {
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	stats := SessionStats{
		SessionsOpened:   4,
		SessionsClosed:   4,
		TotalOpening:     decimal.NewFromInt(400),
		TotalClosing:     decimal.NewFromInt(2150),
		TotalDiscrepancy: dec(t, "-12.50"),
	}
	totals := []TransactionTotal{
		{Type: TransactionTypeSale, PaymentMethod: PaymentMethodCash, Total: decimal.NewFromInt(800), Count: 30},
		{Type: TransactionTypeSale, PaymentMethod: PaymentMethodCreditCard, Total: decimal.NewFromInt(950), Count: 25},
		{Type: TransactionTypeRefund, PaymentMethod: PaymentMethodCash, Total: decimal.NewFromInt(-35), Count: 2},
		{Type: TransactionTypeCashWithdrawal, PaymentMethod: PaymentMethodCash, Total: decimal.NewFromInt(-100), Count: 1},
		{Type: TransactionTypeTreasuryTransfer, PaymentMethod: PaymentMethodCash, Total: decimal.NewFromInt(-1200), Count: 4},
		{Type: TransactionTypeAdjustment, PaymentMethod: PaymentMethodCash, Total: dec(t, "-2.50"), Count: 1},
	}

	summary := buildDailySummary(date, stats, totals)

	assert.Equal(t, "2026-08-30", summary.Date)
	assert.Equal(t, 4, summary.SessionsOpened)
	assert.True(t, summary.SalesByMethod[PaymentMethodCash].Total.Equal(decimal.NewFromInt(800)))
	assert.Equal(t, 25, summary.SalesByMethod[PaymentMethodCreditCard].Count)
	// Outflows come back as positive magnitudes.
	assert.True(t, summary.RefundTotal.Equal(decimal.NewFromInt(35)))
	assert.True(t, summary.WithdrawalTotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.TreasuryOutflow.Equal(decimal.NewFromInt(1200)))
	// Adjustments keep their sign.
	assert.True(t, summary.AdjustmentTotal.Equal(dec(t, "-2.50")))
}

func TestSummaryCacheFetchPopulatesAndReuses(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewSummaryCache(client, time.Minute)
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	calls := 0
	loader := func(ctx context.Context) (DailySummary, error) {
		calls++
		return DailySummary{Date: "2026-08-30", SessionsClosed: 2}, nil
	}

	first, err := cache.Fetch(context.Background(), date, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, first.SessionsClosed)

	second, err := cache.Fetch(context.Background(), date, loader)
	require.NoError(t, err)
	assert.Equal(t, first.Date, second.Date)
	assert.Equal(t, 1, calls, "second fetch must come from cache")
}

func TestSummaryCacheInvalidateForcesReload(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewSummaryCache(client, time.Minute)
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	calls := 0
	loader := func(ctx context.Context) (DailySummary, error) {
		calls++
		return DailySummary{Date: "2026-08-30", SessionsClosed: calls}, nil
	}

	_, err := cache.Fetch(context.Background(), date, loader)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(context.Background(), date))

	reloaded, err := cache.Fetch(context.Background(), date, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.SessionsClosed)
}

func TestSummaryCacheNilDegradesToLoader(t *testing.T) {
	var cache *SummaryCache
	date := time.Now()

	summary, err := cache.Fetch(context.Background(), date, func(ctx context.Context) (DailySummary, error) {
		return DailySummary{SessionsOpened: 7}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, summary.SessionsOpened)
	assert.NoError(t, cache.Invalidate(context.Background(), date))
}

func TestSummaryCacheSurfacesLoaderError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewSummaryCache(client, time.Minute)

	boom := errors.New("db offline")
	_, err := cache.Fetch(context.Background(), time.Now(), func(ctx context.Context) (DailySummary, error) {
		return DailySummary{}, boom
	})
	require.ErrorIs(t, err, boom)
}
