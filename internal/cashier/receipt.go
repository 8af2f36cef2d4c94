package cashier

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sobrinkedos/caixa/internal/money"
)

// ClosingReceipt is the immutable record produced by a successful
// close. It is the only artifact handed to downstream presentation and
// printing collaborators; the engine never renders it.
type ClosingReceipt struct {
	ReceiptNumber   string
	SessionID       uuid.UUID
	EmployeeID      uuid.UUID
	OpenedAt        time.Time
	ClosedAt        time.Time
	OpeningAmount   decimal.Decimal
	ExpectedAmount  decimal.Decimal
	ClosingAmount   decimal.Decimal
	CashDiscrepancy decimal.Decimal
	DiscrepancyTier Tier
	Breakdown       []PaymentMethodBreakdown
	Handling        *DiscrepancyHandling
	Transfer        *TreasuryTransfer
	ClosingNotes    string
	// DisplayTotal is the closing amount pre-formatted for printed
	// output in Brazilian conventions, e.g. "R$ 1.234,56".
	DisplayTotal string
}

// BuildClosingReceipt assembles the closing record from the validated
// parts. The breakdown slice is copied so later callers cannot reach
// back into the receipt.
func BuildClosingReceipt(session CashSession, breakdown []PaymentMethodBreakdown, tier Tier, handling *DiscrepancyHandling, transfer *TreasuryTransfer, closedAt time.Time) ClosingReceipt {
	closing := SumActuals(breakdown)
	copied := make([]PaymentMethodBreakdown, len(breakdown))
	copy(copied, breakdown)

	return ClosingReceipt{
		ReceiptNumber:   newReceiptNumber(closedAt),
		SessionID:       session.ID,
		EmployeeID:      session.EmployeeID,
		OpenedAt:        session.OpenedAt,
		ClosedAt:        closedAt,
		OpeningAmount:   session.OpeningAmount,
		ExpectedAmount:  session.ExpectedAmount,
		ClosingAmount:   closing,
		CashDiscrepancy: closing.Sub(session.ExpectedAmount),
		DiscrepancyTier: tier,
		Breakdown:       copied,
		Handling:        handling,
		Transfer:        transfer,
		ClosingNotes:    session.ClosingNotes,
		DisplayTotal:    money.FormatBRL(closing),
	}
}

// newReceiptNumber generates identifiers like FCX-20260830-9F2C41AB.
func newReceiptNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("FCX-%s-%s", at.UTC().Format("20060102"), suffix)
}
