package cashier

import (
	"github.com/shopspring/decimal"
)

// MethodExpectation is the ledger-derived expectation for one method.
type MethodExpectation struct {
	ExpectedAmount   decimal.Decimal
	TransactionCount int
}

// ComputeExpectedByMethod derives, per payment method, the expected
// amount and sale count for a session. The cash bucket is seeded with
// the opening float; every other bucket starts at zero. Only sales
// contribute: refunds, adjustments, withdrawals, and transfers affect
// overall cash on hand but are reconciled separately.
//
// Addition is commutative, so transaction order is irrelevant, and
// re-running without new transactions yields identical output.
func ComputeExpectedByMethod(session CashSession, entries []CashTransaction) map[PaymentMethod]MethodExpectation {
	buckets := make(map[PaymentMethod]MethodExpectation, len(PaymentMethods))
	for _, method := range PaymentMethods {
		buckets[method] = MethodExpectation{ExpectedAmount: decimal.Zero}
	}
	cash := buckets[PaymentMethodCash]
	cash.ExpectedAmount = session.OpeningAmount
	buckets[PaymentMethodCash] = cash

	for _, entry := range entries {
		if entry.Type != TransactionTypeSale {
			continue
		}
		bucket := buckets[entry.PaymentMethod]
		bucket.ExpectedAmount = bucket.ExpectedAmount.Add(entry.Amount)
		bucket.TransactionCount++
		buckets[entry.PaymentMethod] = bucket
	}
	return buckets
}

// BuildBreakdown pairs the derived expectations with operator-counted
// amounts. Methods absent from counted are treated as counted zero, so
// the result always covers every accepted payment method.
func BuildBreakdown(expected map[PaymentMethod]MethodExpectation, counted map[PaymentMethod]decimal.Decimal) []PaymentMethodBreakdown {
	breakdown := make([]PaymentMethodBreakdown, 0, len(PaymentMethods))
	for _, method := range PaymentMethods {
		exp := expected[method]
		actual := decimal.Zero
		if counted != nil {
			if v, ok := counted[method]; ok {
				actual = v
			}
		}
		breakdown = append(breakdown, PaymentMethodBreakdown{
			PaymentMethod:    method,
			ExpectedAmount:   exp.ExpectedAmount,
			ActualAmount:     actual,
			TransactionCount: exp.TransactionCount,
			Discrepancy:      actual.Sub(exp.ExpectedAmount),
		})
	}
	return breakdown
}

// SumActuals totals the operator-counted amounts across all methods.
// For every produced closing receipt this equals the closing amount.
func SumActuals(breakdown []PaymentMethodBreakdown) decimal.Decimal {
	total := decimal.Zero
	for _, b := range breakdown {
		total = total.Add(b.ActualAmount)
	}
	return total
}

// cashActual returns the counted cash amount from a breakdown.
func cashActual(breakdown []PaymentMethodBreakdown) decimal.Decimal {
	for _, b := range breakdown {
		if b.PaymentMethod == PaymentMethodCash {
			return b.ActualAmount
		}
	}
	return decimal.Zero
}
