package cashier

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/sobrinkedos/caixa/internal/money"
)

// Tier classifies how a counting discrepancy must be handled.
type Tier string

const (
	// TierAutoAccept covers gaps small enough to absorb silently.
	TierAutoAccept Tier = "auto_accept"
	// TierNeedsJustification requires a written reason from the operator.
	TierNeedsJustification Tier = "needs_justification"
	// TierNeedsApproval additionally requires a supervisor sign-off.
	TierNeedsApproval Tier = "needs_approval"
)

var (
	justificationThreshold = decimal.New(500, -money.Scale)  // 5.00
	approvalThreshold      = decimal.New(5000, -money.Scale) // 50.00
)

const (
	minJustificationReason = 5
	minApprovalReason      = 10
)

// Classify maps a signed discrepancy to its handling tier. Thresholds
// compare the absolute value, so surpluses and shortfalls are treated
// symmetrically: |d| < 5.00 auto accepts, |d| < 50.00 needs a written
// justification, and anything at or above 50.00 needs supervisor
// approval.
func Classify(discrepancy decimal.Decimal) Tier {
	abs := discrepancy.Abs()
	switch {
	case abs.LessThan(justificationThreshold):
		return TierAutoAccept
	case abs.LessThan(approvalThreshold):
		return TierNeedsJustification
	default:
		return TierNeedsApproval
	}
}

// ValidateHandling checks a submitted handling against the tier's
// requirements and returns every violated condition together, so the
// operator sees all problems in one round trip.
func ValidateHandling(tier Tier, handling DiscrepancyHandling) []Violation {
	var violations []Violation
	reason := strings.TrimSpace(handling.Reason)
	switch tier {
	case TierAutoAccept:
		// No note required.
	case TierNeedsJustification:
		if utf8.RuneCountInString(reason) < minJustificationReason {
			violations = append(violations, Violation{
				Code:    "reason_too_short",
				Field:   "discrepancy_reason",
				Message: "discrepancy requires a justification of at least 5 characters",
			})
		}
	case TierNeedsApproval:
		if utf8.RuneCountInString(reason) < minApprovalReason {
			violations = append(violations, Violation{
				Code:    "reason_too_short",
				Field:   "discrepancy_reason",
				Message: "discrepancy requires a justification of at least 10 characters",
			})
		}
		if strings.TrimSpace(handling.ApprovedBy) == "" {
			violations = append(violations, Violation{
				Code:    "approval_required",
				Field:   "approved_by",
				Message: "discrepancy of this size requires supervisor approval",
			})
		}
	}
	if handling.ActionTaken != "" && !handling.ActionTaken.Valid() {
		violations = append(violations, Violation{
			Code:    "invalid_action",
			Field:   "discrepancy_action",
			Message: "unknown discrepancy action",
		})
	}
	return violations
}
