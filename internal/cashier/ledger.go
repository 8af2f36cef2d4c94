package cashier

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the append-only view over a session's cash-affecting
// events. Entries are never mutated or deleted; corrections are new
// entries with the opposite sign.
type Ledger struct {
	repo Repository
}

// NewLedger wraps the repository with ledger semantics.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Append writes the transaction and bumps the owning session's running
// expectation in one atomic unit. Only sales feed the expectation used
// at reconciliation; other types are recorded but reconciled separately.
func (l *Ledger) Append(ctx context.Context, t CashTransaction) error {
	delta := decimal.Zero
	if t.Type == TransactionTypeSale {
		delta = t.Amount
	}
	return l.repo.AppendTransaction(ctx, t, delta)
}

// Entries returns the session's transactions in recorded order.
func (l *Ledger) Entries(ctx context.Context, sessionID uuid.UUID) ([]CashTransaction, error) {
	return l.repo.ListTransactions(ctx, sessionID)
}

// signedAmount applies the sign implied by the transaction type to a
// submitted magnitude. Sales increase cash on hand; refunds,
// withdrawals, and treasury transfers decrease it. Adjustments keep
// whatever sign the operator submitted.
func signedAmount(t TransactionType, magnitude decimal.Decimal) decimal.Decimal {
	switch t {
	case TransactionTypeRefund, TransactionTypeCashWithdrawal, TransactionTypeTreasuryTransfer:
		return magnitude.Abs().Neg()
	default:
		return magnitude
	}
}
