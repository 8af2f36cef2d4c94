package cashier

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// MethodTotal aggregates sale volume for one payment method.
type MethodTotal struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// DailySummary is the date-scoped reporting read path across sessions
// and transactions. It is derived output and carries no invariants of
// its own.
type DailySummary struct {
	Date             string                        `json:"date"`
	SessionsOpened   int                           `json:"sessions_opened"`
	SessionsClosed   int                           `json:"sessions_closed"`
	TotalOpening     decimal.Decimal               `json:"total_opening"`
	TotalClosing     decimal.Decimal               `json:"total_closing"`
	TotalDiscrepancy decimal.Decimal               `json:"total_discrepancy"`
	SalesByMethod    map[PaymentMethod]MethodTotal `json:"sales_by_method"`
	RefundTotal      decimal.Decimal               `json:"refund_total"`
	WithdrawalTotal  decimal.Decimal               `json:"withdrawal_total"`
	TreasuryOutflow  decimal.Decimal               `json:"treasury_outflow"`
	AdjustmentTotal  decimal.Decimal               `json:"adjustment_total"`
}

// buildDailySummary folds aggregate rows into the reporting shape.
// Outflow categories are stored negative in the ledger and presented as
// positive magnitudes here.
func buildDailySummary(date time.Time, stats SessionStats, totals []TransactionTotal) DailySummary {
	summary := DailySummary{
		Date:             date.Format("2006-01-02"),
		SessionsOpened:   stats.SessionsOpened,
		SessionsClosed:   stats.SessionsClosed,
		TotalOpening:     stats.TotalOpening,
		TotalClosing:     stats.TotalClosing,
		TotalDiscrepancy: stats.TotalDiscrepancy,
		SalesByMethod:    make(map[PaymentMethod]MethodTotal),
		RefundTotal:      decimal.Zero,
		WithdrawalTotal:  decimal.Zero,
		TreasuryOutflow:  decimal.Zero,
		AdjustmentTotal:  decimal.Zero,
	}
	for _, row := range totals {
		switch row.Type {
		case TransactionTypeSale:
			bucket := summary.SalesByMethod[row.PaymentMethod]
			bucket.Total = bucket.Total.Add(row.Total)
			bucket.Count += row.Count
			summary.SalesByMethod[row.PaymentMethod] = bucket
		case TransactionTypeRefund:
			summary.RefundTotal = summary.RefundTotal.Add(row.Total.Abs())
		case TransactionTypeCashWithdrawal:
			summary.WithdrawalTotal = summary.WithdrawalTotal.Add(row.Total.Abs())
		case TransactionTypeTreasuryTransfer:
			summary.TreasuryOutflow = summary.TreasuryOutflow.Add(row.Total.Abs())
		case TransactionTypeAdjustment:
			summary.AdjustmentTotal = summary.AdjustmentTotal.Add(row.Total)
		}
	}
	return summary
}

// SummaryCache caches daily summaries in redis. A nil cache or client
// degrades to loading straight from the repository.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache builds the cache helper.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func summaryKey(date time.Time) string {
	return "caixa:summary:" + date.Format("2006-01-02")
}

// Fetch loads a cached summary or populates it using the loader.
func (c *SummaryCache) Fetch(ctx context.Context, date time.Time, loader func(context.Context) (DailySummary, error)) (DailySummary, error) {
	if loader == nil {
		return DailySummary{}, errors.New("cashier: summary loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	key := summaryKey(date)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached DailySummary
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return DailySummary{}, err
	}
	summary, err := loader(ctx)
	if err != nil {
		return DailySummary{}, err
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return DailySummary{}, err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return DailySummary{}, err
	}
	return summary, nil
}

// Invalidate drops the cached summary for the given date, typically
// after a session close lands on that day.
func (c *SummaryCache) Invalidate(ctx context.Context, date time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, summaryKey(date)).Err()
}
