package cashier

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sobrinkedos/caixa/internal/money"
)

// ValidateTreasuryTransfer enforces the zero-cash-float-at-close rule:
// whenever counted cash is positive, exactly that amount must be handed
// to treasury before the session may close. The comparison is a hard
// equality, not a discrepancy-tolerant one. When counted cash is zero
// the transfer is optional and accepted as submitted.
func ValidateTreasuryTransfer(cashActualAmount decimal.Decimal, transfer *TreasuryTransferInput) []Violation {
	if !cashActualAmount.IsPositive() {
		return nil
	}

	if transfer == nil {
		return []Violation{{
			Code:    "transfer_required",
			Field:   "transfer",
			Message: "treasury transfer of " + money.String(cashActualAmount) + " required before closing",
		}}
	}

	var violations []Violation
	if !transfer.Amount.Equal(cashActualAmount) {
		violations = append(violations, Violation{
			Code:    "transfer_amount_mismatch",
			Field:   "transfer.amount",
			Message: "treasury transfer must equal counted cash of " + money.String(cashActualAmount),
		})
	}
	if strings.TrimSpace(transfer.Destination) == "" {
		violations = append(violations, Violation{
			Code:    "required",
			Field:   "transfer.destination",
			Message: "transfer destination required",
		})
	}
	if strings.TrimSpace(transfer.RecipientName) == "" {
		violations = append(violations, Violation{
			Code:    "required",
			Field:   "transfer.recipient_name",
			Message: "transfer recipient name required",
		})
	}
	return violations
}
