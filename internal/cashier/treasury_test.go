package cashier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransfer(t *testing.T, amount string) *TreasuryTransferInput {
	t.Helper()
	return &TreasuryTransferInput{
		Amount:        dec(t, amount),
		Destination:   "cofre central",
		AuthorizedBy:  "sup-01",
		RecipientName: "Ana Ribeiro",
	}
}

func TestTreasuryTransferOptionalWhenNoCashCounted(t *testing.T) {
	assert.Empty(t, ValidateTreasuryTransfer(dec(t, "0.00"), nil))
	assert.Empty(t, ValidateTreasuryTransfer(dec(t, "0.00"), validTransfer(t, "0.00")))
}

func TestTreasuryTransferRequiredViolationNamesAmount(t *testing.T) {
	violations := ValidateTreasuryTransfer(dec(t, "200.00"), nil)
	require.Len(t, violations, 1)
	assert.Equal(t, "transfer_required", violations[0].Code)
	assert.Contains(t, violations[0].Message, "200.00")
}

func TestTreasuryTransferMustMatchCountedCashExactly(t *testing.T) {
	violations := ValidateTreasuryTransfer(dec(t, "200.00"), validTransfer(t, "199.99"))
	assert.Equal(t, []string{"transfer_amount_mismatch"}, violationCodes(violations))

	assert.Empty(t, ValidateTreasuryTransfer(dec(t, "200.00"), validTransfer(t, "200.00")))
}

func TestTreasuryTransferRequiresDestinationAndRecipient(t *testing.T) {
	transfer := validTransfer(t, "150.00")
	transfer.Destination = "  "
	transfer.RecipientName = ""

	violations := ValidateTreasuryTransfer(dec(t, "150.00"), transfer)
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"transfer.destination", "transfer.recipient_name"}, fields)
}
