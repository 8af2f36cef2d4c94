// Package cashier implements the cash drawer session engine: session
// lifecycle, the append-only transaction ledger, per-method
// reconciliation, the tiered discrepancy policy, the mandatory treasury
// transfer at close, and closure blockers sourced from the order
// subsystem.
package cashier

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionStatus enumerates cash session lifecycle values.
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
)

// TransactionType enumerates cash-affecting event kinds.
type TransactionType string

const (
	TransactionTypeSale             TransactionType = "sale"
	TransactionTypeRefund           TransactionType = "refund"
	TransactionTypeAdjustment       TransactionType = "adjustment"
	TransactionTypeCashWithdrawal   TransactionType = "cash_withdrawal"
	TransactionTypeTreasuryTransfer TransactionType = "treasury_transfer"
)

// Valid reports whether the transaction type is a known value.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypeRefund, TransactionTypeAdjustment,
		TransactionTypeCashWithdrawal, TransactionTypeTreasuryTransfer:
		return true
	default:
		return false
	}
}

// PaymentMethod enumerates accepted settlement methods.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodPix          PaymentMethod = "pix"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// PaymentMethods lists every accepted method in display order.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodDebitCard,
	PaymentMethodCreditCard,
	PaymentMethodPix,
	PaymentMethodBankTransfer,
}

// Valid reports whether the payment method is a known value.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodDebitCard, PaymentMethodCreditCard,
		PaymentMethodPix, PaymentMethodBankTransfer:
		return true
	default:
		return false
	}
}

// HandlingAction enumerates how a counting discrepancy was dealt with.
type HandlingAction string

const (
	HandlingActionPending       HandlingAction = "pending"
	HandlingActionAccepted      HandlingAction = "accepted"
	HandlingActionInvestigation HandlingAction = "investigation"
	HandlingActionAdjustment    HandlingAction = "adjustment"
)

// Valid reports whether the handling action is a known value.
func (a HandlingAction) Valid() bool {
	switch a {
	case HandlingActionPending, HandlingActionAccepted, HandlingActionInvestigation, HandlingActionAdjustment:
		return true
	default:
		return false
	}
}

// CashSession is one employee's custody period over the physical drawer.
// All fields become read-only once Status is closed.
type CashSession struct {
	ID              uuid.UUID
	EmployeeID      uuid.UUID
	Status          SessionStatus
	OpenedAt        time.Time
	ClosedAt        *time.Time
	OpeningAmount   decimal.Decimal
	ClosingAmount   *decimal.Decimal
	ExpectedAmount  decimal.Decimal
	CashDiscrepancy *decimal.Decimal
	OpeningNotes    string
	ClosingNotes    string
}

// CashTransaction is an immutable entry in the session ledger.
// Corrections are recorded as new entries, never as updates.
type CashTransaction struct {
	ID              uuid.UUID
	SessionID       uuid.UUID
	Type            TransactionType
	PaymentMethod   PaymentMethod
	Amount          decimal.Decimal
	RelatedOrderID  *uuid.UUID
	ProcessedBy     uuid.UUID
	ProcessedAt     time.Time
	ReferenceNumber string
	Notes           string
}

// PaymentMethodBreakdown pairs ledger-derived expectations with the
// amount the operator counted at close. Derived, never persisted.
type PaymentMethodBreakdown struct {
	PaymentMethod    PaymentMethod
	ExpectedAmount   decimal.Decimal
	ActualAmount     decimal.Decimal
	TransactionCount int
	Discrepancy      decimal.Decimal
}

// DiscrepancyHandling records how a close-time counting gap was resolved.
// Attached to a session at close and immutable afterwards.
type DiscrepancyHandling struct {
	DiscrepancyAmount decimal.Decimal
	Reason            string
	ActionTaken       HandlingAction
	ApprovedBy        string
}

// TreasuryTransfer moves the counted physical cash out of the drawer
// before the session may close. At most one per closing session.
type TreasuryTransfer struct {
	Amount        decimal.Decimal
	Destination   string
	AuthorizedBy  string
	RecipientName string
	ReceiptNumber string
	Notes         string
	TransferredAt time.Time
}

// BlockerCategory names a class of unfinished work preventing closure.
type BlockerCategory string

const (
	BlockerOpenComandas     BlockerCategory = "open_comandas"
	BlockerPendingCounter   BlockerCategory = "pending_counter_orders"
	BlockerUndeliveredItems BlockerCategory = "undelivered_items"
)

// Blocker describes unfinished order work assigned to the closing
// employee. Any blocker is a hard gate: the session cannot close.
type Blocker struct {
	Category BlockerCategory
	Count    int
	Samples  []string
	Message  string
}

// Violation is a single rejected business or validation condition.
type Violation struct {
	Code    string
	Field   string
	Message string
}

// ValidationErrors aggregates malformed-input problems so callers can
// surface every issue at once.
type ValidationErrors []Violation

func (v ValidationErrors) Error() string {
	if len(v) == 1 {
		return "cashier: " + v[0].Message
	}
	return fmt.Sprintf("cashier: %d validation errors", len(v))
}

// CloseRejection aggregates every condition that prevented a close
// attempt. The session is guaranteed to remain open and unchanged.
type CloseRejection struct {
	Violations []Violation
	Blockers   []Blocker
}

func (r *CloseRejection) Error() string {
	return fmt.Sprintf("cashier: close rejected (%d violations, %d blockers)",
		len(r.Violations), len(r.Blockers))
}

// Rejected reports whether any condition failed.
func (r *CloseRejection) Rejected() bool {
	return len(r.Violations) > 0 || len(r.Blockers) > 0
}

// ErrSessionNotFound indicates the session does not exist.
var ErrSessionNotFound = errors.New("cashier: session not found")

// ErrSessionAlreadyOpen indicates the employee already owns an open session.
var ErrSessionAlreadyOpen = errors.New("cashier: employee already has an open session")

// ErrSessionClosed is returned when recording against or closing a
// session that is no longer open.
var ErrSessionClosed = errors.New("cashier: session is not open")

// ErrCloseConflict indicates the conditional close update lost a race
// with a concurrent close or a concurrent transaction; retrying the
// request is usually correct.
var ErrCloseConflict = errors.New("cashier: session changed during close, retry")
