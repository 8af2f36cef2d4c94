package cashier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTierBoundaries(t *testing.T) {
	cases := []struct {
		amount string
		want   Tier
	}{
		{"0.00", TierAutoAccept},
		{"4.99", TierAutoAccept},
		{"-4.99", TierAutoAccept},
		{"5.00", TierNeedsJustification},
		{"-5.00", TierNeedsJustification},
		{"49.99", TierNeedsJustification},
		{"-49.99", TierNeedsJustification},
		{"50.00", TierNeedsApproval},
		{"-50.00", TierNeedsApproval},
		{"1000.00", TierNeedsApproval},
	}
	for _, tc := range cases {
		t.Run(tc.amount, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(dec(t, tc.amount)))
		})
	}
}

func TestValidateHandlingAutoAcceptNeedsNothing(t *testing.T) {
	violations := ValidateHandling(TierAutoAccept, DiscrepancyHandling{
		DiscrepancyAmount: dec(t, "2.00"),
	})
	assert.Empty(t, violations)
}

func TestValidateHandlingJustificationReasonLength(t *testing.T) {
	short := ValidateHandling(TierNeedsJustification, DiscrepancyHandling{Reason: "erro"})
	assert.Equal(t, []string{"reason_too_short"}, violationCodes(short))

	// Whitespace padding does not count toward the minimum.
	padded := ValidateHandling(TierNeedsJustification, DiscrepancyHandling{Reason: "  ab  "})
	assert.Equal(t, []string{"reason_too_short"}, violationCodes(padded))

	ok := ValidateHandling(TierNeedsJustification, DiscrepancyHandling{Reason: "troco"})
	assert.Empty(t, ok)
}

func TestValidateHandlingApprovalRequirements(t *testing.T) {
	both := ValidateHandling(TierNeedsApproval, DiscrepancyHandling{Reason: "curto"})
	codes := violationCodes(both)
	assert.Contains(t, codes, "reason_too_short")
	assert.Contains(t, codes, "approval_required")

	reasonOnly := ValidateHandling(TierNeedsApproval, DiscrepancyHandling{
		Reason: "venda lancada em duplicidade",
	})
	assert.Equal(t, []string{"approval_required"}, violationCodes(reasonOnly))

	ok := ValidateHandling(TierNeedsApproval, DiscrepancyHandling{
		Reason:     "venda lancada em duplicidade",
		ApprovedBy: "sup-03",
	})
	assert.Empty(t, ok)
}

func TestValidateHandlingRejectsUnknownAction(t *testing.T) {
	violations := ValidateHandling(TierAutoAccept, DiscrepancyHandling{
		ActionTaken: HandlingAction("shrug"),
	})
	assert.Equal(t, []string{"invalid_action"}, violationCodes(violations))
}
