package cashier

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenSessionInput bundles parameters for opening a drawer session.
type OpenSessionInput struct {
	EmployeeID    uuid.UUID
	OpeningAmount decimal.Decimal
	Notes         string
}

// Validate returns every malformed field at once.
func (in OpenSessionInput) Validate() error {
	var errs ValidationErrors
	if in.EmployeeID == uuid.Nil {
		errs = append(errs, Violation{Code: "required", Field: "employee_id", Message: "employee id required"})
	}
	if in.OpeningAmount.IsNegative() {
		errs = append(errs, Violation{Code: "negative_amount", Field: "opening_amount", Message: "opening amount cannot be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RecordTransactionInput captures a cash-affecting event to append to a
// session ledger. Amount is the positive magnitude; the engine applies
// the sign implied by the transaction type. Adjustments may carry
// either sign and are stored as submitted.
type RecordTransactionInput struct {
	SessionID       uuid.UUID
	Type            TransactionType
	PaymentMethod   PaymentMethod
	Amount          decimal.Decimal
	RelatedOrderID  *uuid.UUID
	ProcessedBy     uuid.UUID
	ReferenceNumber string
	Notes           string
}

// Validate returns every malformed field at once.
func (in RecordTransactionInput) Validate() error {
	var errs ValidationErrors
	if in.SessionID == uuid.Nil {
		errs = append(errs, Violation{Code: "required", Field: "session_id", Message: "session id required"})
	}
	if !in.Type.Valid() {
		errs = append(errs, Violation{Code: "invalid_type", Field: "type", Message: "unknown transaction type"})
	}
	if !in.PaymentMethod.Valid() {
		errs = append(errs, Violation{Code: "invalid_method", Field: "payment_method", Message: "unknown payment method"})
	}
	if in.ProcessedBy == uuid.Nil {
		errs = append(errs, Violation{Code: "required", Field: "processed_by", Message: "processed by required"})
	}
	switch {
	case in.Type == TransactionTypeAdjustment:
		if in.Amount.IsZero() {
			errs = append(errs, Violation{Code: "zero_amount", Field: "amount", Message: "adjustment amount cannot be zero"})
		}
	case in.Type.Valid():
		if !in.Amount.IsPositive() {
			errs = append(errs, Violation{Code: "non_positive_amount", Field: "amount", Message: "amount must be positive"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TreasuryTransferInput describes the cash hand-off supplied with a
// close request.
type TreasuryTransferInput struct {
	Amount        decimal.Decimal
	Destination   string
	AuthorizedBy  string
	RecipientName string
	ReceiptNumber string
	Notes         string
}

// CloseSessionInput carries everything the operator submits when
// closing: counted amounts per method, the discrepancy handling, the
// treasury transfer, and closing notes.
type CloseSessionInput struct {
	CountedAmounts    map[PaymentMethod]decimal.Decimal
	DiscrepancyReason string
	DiscrepancyAction HandlingAction
	ApprovedBy        string
	Transfer          *TreasuryTransferInput
	ClosingNotes      string
}

// Validate checks structural problems only; business rules (tiers,
// treasury equality, blockers) are evaluated by CloseSession so that
// every outstanding issue is reported together.
func (in CloseSessionInput) Validate() error {
	var errs ValidationErrors
	if len(in.CountedAmounts) == 0 {
		errs = append(errs, Violation{Code: "required", Field: "counted_amounts", Message: "at least one counted amount required"})
	}
	for method, amount := range in.CountedAmounts {
		if !method.Valid() {
			errs = append(errs, Violation{Code: "invalid_method", Field: "counted_amounts", Message: "unknown payment method " + string(method)})
		}
		if amount.IsNegative() {
			errs = append(errs, Violation{Code: "negative_amount", Field: "counted_amounts", Message: "counted amount for " + string(method) + " cannot be negative"})
		}
	}
	if in.DiscrepancyAction != "" && !in.DiscrepancyAction.Valid() {
		errs = append(errs, Violation{Code: "invalid_action", Field: "discrepancy_action", Message: "unknown discrepancy action"})
	}
	if in.Transfer != nil {
		if in.Transfer.Amount.IsNegative() {
			errs = append(errs, Violation{Code: "negative_amount", Field: "transfer.amount", Message: "transfer amount cannot be negative"})
		}
		if strings.TrimSpace(in.Transfer.AuthorizedBy) == "" {
			errs = append(errs, Violation{Code: "required", Field: "transfer.authorized_by", Message: "transfer authorizer required"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
