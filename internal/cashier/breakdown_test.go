package cashier

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(t *testing.T, opening string) CashSession {
	t.Helper()
	return CashSession{
		ID:             uuid.New(),
		EmployeeID:     uuid.New(),
		Status:         SessionStatusOpen,
		OpenedAt:       time.Now(),
		OpeningAmount:  dec(t, opening),
		ExpectedAmount: dec(t, opening),
	}
}

func saleEntry(t *testing.T, sessionID uuid.UUID, method PaymentMethod, amount string) CashTransaction {
	t.Helper()
	return CashTransaction{
		ID:            uuid.New(),
		SessionID:     sessionID,
		Type:          TransactionTypeSale,
		PaymentMethod: method,
		Amount:        dec(t, amount),
		ProcessedAt:   time.Now(),
	}
}

func TestComputeExpectedSeedsCashWithOpeningFloat(t *testing.T) {
	session := testSession(t, "100.00")

	expected := ComputeExpectedByMethod(session, nil)

	require.Len(t, expected, len(PaymentMethods))
	assert.True(t, expected[PaymentMethodCash].ExpectedAmount.Equal(dec(t, "100.00")))
	assert.Equal(t, 0, expected[PaymentMethodCash].TransactionCount)
	for _, method := range PaymentMethods {
		if method == PaymentMethodCash {
			continue
		}
		assert.True(t, expected[method].ExpectedAmount.IsZero(), "method %s", method)
	}
}

func TestComputeExpectedCountsOnlySales(t *testing.T) {
	session := testSession(t, "100.00")
	entries := []CashTransaction{
		saleEntry(t, session.ID, PaymentMethodCash, "50.00"),
		saleEntry(t, session.ID, PaymentMethodPix, "30.00"),
		saleEntry(t, session.ID, PaymentMethodPix, "20.00"),
		{
			ID:            uuid.New(),
			SessionID:     session.ID,
			Type:          TransactionTypeRefund,
			PaymentMethod: PaymentMethodCash,
			Amount:        dec(t, "-15.00"),
		},
		{
			ID:            uuid.New(),
			SessionID:     session.ID,
			Type:          TransactionTypeCashWithdrawal,
			PaymentMethod: PaymentMethodCash,
			Amount:        dec(t, "-40.00"),
		},
	}

	expected := ComputeExpectedByMethod(session, entries)

	assert.True(t, expected[PaymentMethodCash].ExpectedAmount.Equal(dec(t, "150.00")))
	assert.Equal(t, 1, expected[PaymentMethodCash].TransactionCount)
	assert.True(t, expected[PaymentMethodPix].ExpectedAmount.Equal(dec(t, "50.00")))
	assert.Equal(t, 2, expected[PaymentMethodPix].TransactionCount)
}

func TestComputeExpectedIsOrderIndependentAndIdempotent(t *testing.T) {
	session := testSession(t, "100.00")
	entries := []CashTransaction{
		saleEntry(t, session.ID, PaymentMethodCash, "10.00"),
		saleEntry(t, session.ID, PaymentMethodDebitCard, "25.50"),
		saleEntry(t, session.ID, PaymentMethodCash, "4.50"),
	}
	reversed := []CashTransaction{entries[2], entries[1], entries[0]}

	first := ComputeExpectedByMethod(session, entries)
	second := ComputeExpectedByMethod(session, reversed)
	third := ComputeExpectedByMethod(session, entries)

	for _, method := range PaymentMethods {
		assert.True(t, first[method].ExpectedAmount.Equal(second[method].ExpectedAmount), "method %s", method)
		assert.True(t, first[method].ExpectedAmount.Equal(third[method].ExpectedAmount), "method %s", method)
		assert.Equal(t, first[method].TransactionCount, second[method].TransactionCount)
	}
}

func TestBuildBreakdownFillsMissingCountsWithZero(t *testing.T) {
	session := testSession(t, "100.00")
	expected := ComputeExpectedByMethod(session, []CashTransaction{
		saleEntry(t, session.ID, PaymentMethodPix, "75.00"),
	})

	breakdown := BuildBreakdown(expected, map[PaymentMethod]decimal.Decimal{
		PaymentMethodCash: dec(t, "100.00"),
	})

	require.Len(t, breakdown, len(PaymentMethods))
	byMethod := make(map[PaymentMethod]PaymentMethodBreakdown, len(breakdown))
	for _, line := range breakdown {
		byMethod[line.PaymentMethod] = line
	}

	assert.True(t, byMethod[PaymentMethodCash].Discrepancy.IsZero())
	// Pix expected 75 but nothing was counted for it.
	assert.True(t, byMethod[PaymentMethodPix].ActualAmount.IsZero())
	assert.True(t, byMethod[PaymentMethodPix].Discrepancy.Equal(dec(t, "-75.00")))
	assert.True(t, byMethod[PaymentMethodCreditCard].ActualAmount.IsZero())
}

func TestSumActualsEqualsCountedTotal(t *testing.T) {
	breakdown := []PaymentMethodBreakdown{
		{PaymentMethod: PaymentMethodCash, ActualAmount: dec(t, "150.00")},
		{PaymentMethod: PaymentMethodPix, ActualAmount: dec(t, "49.90")},
		{PaymentMethod: PaymentMethodDebitCard, ActualAmount: dec(t, "0.10")},
	}
	assert.True(t, SumActuals(breakdown).Equal(dec(t, "200.00")))
}
