package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/sobrinkedos/caixa/internal/cashier"
	"github.com/sobrinkedos/caixa/internal/money"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCloseFanout delivers a closing receipt to downstream consumers.
	TaskCloseFanout = "cashier:close_fanout"
	// TaskSummaryWarmup precomputes a daily summary into the cache.
	TaskSummaryWarmup = "cashier:summary_warmup"
)

// CloseFanoutPayload is the wire form of a closing receipt hand-off.
type CloseFanoutPayload struct {
	ReceiptNumber   string    `json:"receipt_number"`
	SessionID       uuid.UUID `json:"session_id"`
	EmployeeID      uuid.UUID `json:"employee_id"`
	ClosedAt        time.Time `json:"closed_at"`
	ClosingAmount   string    `json:"closing_amount"`
	CashDiscrepancy string    `json:"cash_discrepancy"`
	DiscrepancyTier string    `json:"discrepancy_tier"`
}

// NewCloseFanoutTask constructs the fan-out task for a receipt.
func NewCloseFanoutTask(receipt cashier.ClosingReceipt) (*asynq.Task, error) {
	data, err := json.Marshal(CloseFanoutPayload{
		ReceiptNumber:   receipt.ReceiptNumber,
		SessionID:       receipt.SessionID,
		EmployeeID:      receipt.EmployeeID,
		ClosedAt:        receipt.ClosedAt,
		ClosingAmount:   money.String(receipt.ClosingAmount),
		CashDiscrepancy: money.String(receipt.CashDiscrepancy),
		DiscrepancyTier: string(receipt.DiscrepancyTier),
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCloseFanout, data), nil
}

// SummaryWarmupPayload selects the venue day to precompute.
type SummaryWarmupPayload struct {
	Date string `json:"date"`
}

// NewSummaryWarmupTask constructs a warmup task for the given day.
// An empty date means "today" at processing time.
func NewSummaryWarmupTask(date string) (*asynq.Task, error) {
	data, err := json.Marshal(SummaryWarmupPayload{Date: date})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSummaryWarmup, data), nil
}
