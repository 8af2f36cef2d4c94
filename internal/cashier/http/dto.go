package cashierhttp

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sobrinkedos/caixa/internal/cashier"
	"github.com/sobrinkedos/caixa/internal/money"
	"github.com/sobrinkedos/caixa/internal/platform/httpx"
)

// Amounts travel as strings so precision survives the wire; money.Parse
// rejects anything finer than cents.

type openSessionRequest struct {
	EmployeeID    string `json:"employee_id" validate:"required,uuid"`
	OpeningAmount string `json:"opening_amount" validate:"required"`
	Notes         string `json:"notes"`
}

func (r openSessionRequest) toInput() (cashier.OpenSessionInput, []httpx.Violation) {
	var violations []httpx.Violation
	employeeID, err := uuid.Parse(r.EmployeeID)
	if err != nil {
		violations = append(violations, httpx.Violation{Code: "invalid_uuid", Field: "employee_id", Message: "employee id must be a UUID"})
	}
	amount, err := money.Parse(r.OpeningAmount)
	if err != nil {
		violations = append(violations, httpx.Violation{Code: "invalid_amount", Field: "opening_amount", Message: err.Error()})
	}
	if violations != nil {
		return cashier.OpenSessionInput{}, violations
	}
	return cashier.OpenSessionInput{
		EmployeeID:    employeeID,
		OpeningAmount: amount,
		Notes:         r.Notes,
	}, nil
}

type recordTransactionRequest struct {
	Type            string  `json:"type" validate:"required"`
	PaymentMethod   string  `json:"payment_method" validate:"required"`
	Amount          string  `json:"amount" validate:"required"`
	RelatedOrderID  *string `json:"related_order_id" validate:"omitempty,uuid"`
	ProcessedBy     string  `json:"processed_by" validate:"required,uuid"`
	ReferenceNumber string  `json:"reference_number"`
	Notes           string  `json:"notes"`
}

func (r recordTransactionRequest) toInput(sessionID uuid.UUID) (cashier.RecordTransactionInput, []httpx.Violation) {
	var violations []httpx.Violation
	amount, err := money.Parse(r.Amount)
	if err != nil {
		violations = append(violations, httpx.Violation{Code: "invalid_amount", Field: "amount", Message: err.Error()})
	}
	processedBy, err := uuid.Parse(r.ProcessedBy)
	if err != nil {
		violations = append(violations, httpx.Violation{Code: "invalid_uuid", Field: "processed_by", Message: "processed by must be a UUID"})
	}
	var relatedOrderID *uuid.UUID
	if r.RelatedOrderID != nil {
		id, err := uuid.Parse(*r.RelatedOrderID)
		if err != nil {
			violations = append(violations, httpx.Violation{Code: "invalid_uuid", Field: "related_order_id", Message: "related order id must be a UUID"})
		} else {
			relatedOrderID = &id
		}
	}
	if violations != nil {
		return cashier.RecordTransactionInput{}, violations
	}
	return cashier.RecordTransactionInput{
		SessionID:       sessionID,
		Type:            cashier.TransactionType(r.Type),
		PaymentMethod:   cashier.PaymentMethod(r.PaymentMethod),
		Amount:          amount,
		RelatedOrderID:  relatedOrderID,
		ProcessedBy:     processedBy,
		ReferenceNumber: r.ReferenceNumber,
		Notes:           r.Notes,
	}, nil
}

type transferRequest struct {
	Amount        string `json:"amount" validate:"required"`
	Destination   string `json:"destination"`
	AuthorizedBy  string `json:"authorized_by" validate:"required"`
	RecipientName string `json:"recipient_name"`
	ReceiptNumber string `json:"receipt_number"`
	Notes         string `json:"notes"`
}

type closeSessionRequest struct {
	CountedAmounts    map[string]string `json:"counted_amounts" validate:"required,min=1"`
	DiscrepancyReason string            `json:"discrepancy_reason"`
	DiscrepancyAction string            `json:"discrepancy_action"`
	ApprovedBy        string            `json:"approved_by"`
	Transfer          *transferRequest  `json:"transfer"`
	ClosingNotes      string            `json:"closing_notes"`
}

func (r closeSessionRequest) toInput() (cashier.CloseSessionInput, []httpx.Violation) {
	var violations []httpx.Violation
	counted := make(map[cashier.PaymentMethod]decimal.Decimal, len(r.CountedAmounts))
	for method, raw := range r.CountedAmounts {
		amount, err := money.Parse(raw)
		if err != nil {
			violations = append(violations, httpx.Violation{Code: "invalid_amount", Field: "counted_amounts." + method, Message: err.Error()})
			continue
		}
		counted[cashier.PaymentMethod(method)] = amount
	}
	var transfer *cashier.TreasuryTransferInput
	if r.Transfer != nil {
		amount, err := money.Parse(r.Transfer.Amount)
		if err != nil {
			violations = append(violations, httpx.Violation{Code: "invalid_amount", Field: "transfer.amount", Message: err.Error()})
		} else {
			transfer = &cashier.TreasuryTransferInput{
				Amount:        amount,
				Destination:   r.Transfer.Destination,
				AuthorizedBy:  r.Transfer.AuthorizedBy,
				RecipientName: r.Transfer.RecipientName,
				ReceiptNumber: r.Transfer.ReceiptNumber,
				Notes:         r.Transfer.Notes,
			}
		}
	}
	if violations != nil {
		return cashier.CloseSessionInput{}, violations
	}
	return cashier.CloseSessionInput{
		CountedAmounts:    counted,
		DiscrepancyReason: r.DiscrepancyReason,
		DiscrepancyAction: cashier.HandlingAction(r.DiscrepancyAction),
		ApprovedBy:        r.ApprovedBy,
		Transfer:          transfer,
		ClosingNotes:      r.ClosingNotes,
	}, nil
}

type sessionResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Status          string  `json:"status"`
	OpenedAt        string  `json:"opened_at"`
	ClosedAt        *string `json:"closed_at,omitempty"`
	OpeningAmount   string  `json:"opening_amount"`
	ClosingAmount   *string `json:"closing_amount,omitempty"`
	ExpectedAmount  string  `json:"expected_amount"`
	CashDiscrepancy *string `json:"cash_discrepancy,omitempty"`
	OpeningNotes    string  `json:"opening_notes,omitempty"`
	ClosingNotes    string  `json:"closing_notes,omitempty"`
}

func newSessionResponse(s cashier.CashSession) sessionResponse {
	resp := sessionResponse{
		ID:             s.ID.String(),
		EmployeeID:     s.EmployeeID.String(),
		Status:         string(s.Status),
		OpenedAt:       s.OpenedAt.Format(time.RFC3339),
		OpeningAmount:  money.String(s.OpeningAmount),
		ExpectedAmount: money.String(s.ExpectedAmount),
		OpeningNotes:   s.OpeningNotes,
		ClosingNotes:   s.ClosingNotes,
	}
	if s.ClosedAt != nil {
		closedAt := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closedAt
	}
	if s.ClosingAmount != nil {
		v := money.String(*s.ClosingAmount)
		resp.ClosingAmount = &v
	}
	if s.CashDiscrepancy != nil {
		v := money.String(*s.CashDiscrepancy)
		resp.CashDiscrepancy = &v
	}
	return resp
}

type transactionResponse struct {
	ID              string  `json:"id"`
	SessionID       string  `json:"session_id"`
	Type            string  `json:"type"`
	PaymentMethod   string  `json:"payment_method"`
	Amount          string  `json:"amount"`
	RelatedOrderID  *string `json:"related_order_id,omitempty"`
	ProcessedBy     string  `json:"processed_by"`
	ProcessedAt     string  `json:"processed_at"`
	ReferenceNumber string  `json:"reference_number,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

func newTransactionResponse(t cashier.CashTransaction) transactionResponse {
	resp := transactionResponse{
		ID:              t.ID.String(),
		SessionID:       t.SessionID.String(),
		Type:            string(t.Type),
		PaymentMethod:   string(t.PaymentMethod),
		Amount:          money.String(t.Amount),
		ProcessedBy:     t.ProcessedBy.String(),
		ProcessedAt:     t.ProcessedAt.Format(time.RFC3339),
		ReferenceNumber: t.ReferenceNumber,
		Notes:           t.Notes,
	}
	if t.RelatedOrderID != nil {
		id := t.RelatedOrderID.String()
		resp.RelatedOrderID = &id
	}
	return resp
}

type methodExpectationResponse struct {
	PaymentMethod    string `json:"payment_method"`
	ExpectedAmount   string `json:"expected_amount"`
	TransactionCount int    `json:"transaction_count"`
}

type breakdownLineResponse struct {
	PaymentMethod    string `json:"payment_method"`
	ExpectedAmount   string `json:"expected_amount"`
	ActualAmount     string `json:"actual_amount"`
	TransactionCount int    `json:"transaction_count"`
	Discrepancy      string `json:"discrepancy"`
}

type blockerResponse struct {
	Category string   `json:"category"`
	Count    int      `json:"count"`
	Samples  []string `json:"samples"`
	Message  string   `json:"message"`
}

type assessmentResponse struct {
	CanClose        bool                    `json:"can_close"`
	ClosingAmount   string                  `json:"closing_amount"`
	CashDiscrepancy string                  `json:"cash_discrepancy"`
	Tier            string                  `json:"tier"`
	Breakdown       []breakdownLineResponse `json:"breakdown"`
	Violations      []httpx.Violation       `json:"violations"`
	Blockers        []blockerResponse       `json:"blockers"`
}

func newAssessmentResponse(a cashier.CloseAssessment) assessmentResponse {
	resp := assessmentResponse{
		CanClose:        a.CanClose(),
		ClosingAmount:   money.String(a.ClosingAmount),
		CashDiscrepancy: money.String(a.CashDiscrepancy),
		Tier:            string(a.Tier),
		Breakdown:       newBreakdownLines(a.Breakdown),
		Violations:      toHTTPViolations(a.Violations),
		Blockers:        newBlockerResponses(a.Blockers),
	}
	return resp
}

func newBreakdownLines(breakdown []cashier.PaymentMethodBreakdown) []breakdownLineResponse {
	lines := make([]breakdownLineResponse, 0, len(breakdown))
	for _, b := range breakdown {
		lines = append(lines, breakdownLineResponse{
			PaymentMethod:    string(b.PaymentMethod),
			ExpectedAmount:   money.String(b.ExpectedAmount),
			ActualAmount:     money.String(b.ActualAmount),
			TransactionCount: b.TransactionCount,
			Discrepancy:      money.String(b.Discrepancy),
		})
	}
	return lines
}

func newBlockerResponses(blockers []cashier.Blocker) []blockerResponse {
	resp := make([]blockerResponse, 0, len(blockers))
	for _, b := range blockers {
		resp = append(resp, blockerResponse{
			Category: string(b.Category),
			Count:    b.Count,
			Samples:  b.Samples,
			Message:  b.Message,
		})
	}
	return resp
}

func toHTTPViolations(violations []cashier.Violation) []httpx.Violation {
	out := make([]httpx.Violation, 0, len(violations))
	for _, v := range violations {
		out = append(out, httpx.Violation{Code: v.Code, Field: v.Field, Message: v.Message})
	}
	return out
}

type handlingResponse struct {
	DiscrepancyAmount string `json:"discrepancy_amount"`
	Reason            string `json:"reason,omitempty"`
	ActionTaken       string `json:"action_taken"`
	ApprovedBy        string `json:"approved_by,omitempty"`
}

type transferResponse struct {
	Amount        string `json:"amount"`
	Destination   string `json:"destination"`
	AuthorizedBy  string `json:"authorized_by"`
	RecipientName string `json:"recipient_name"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
	Notes         string `json:"notes,omitempty"`
	TransferredAt string `json:"transferred_at"`
}

type receiptResponse struct {
	ReceiptNumber   string                  `json:"receipt_number"`
	SessionID       string                  `json:"session_id"`
	EmployeeID      string                  `json:"employee_id"`
	OpenedAt        string                  `json:"opened_at"`
	ClosedAt        string                  `json:"closed_at"`
	OpeningAmount   string                  `json:"opening_amount"`
	ExpectedAmount  string                  `json:"expected_amount"`
	ClosingAmount   string                  `json:"closing_amount"`
	CashDiscrepancy string                  `json:"cash_discrepancy"`
	DiscrepancyTier string                  `json:"discrepancy_tier"`
	Breakdown       []breakdownLineResponse `json:"breakdown"`
	Handling        *handlingResponse       `json:"discrepancy_handling,omitempty"`
	Transfer        *transferResponse       `json:"treasury_transfer,omitempty"`
	ClosingNotes    string                  `json:"closing_notes,omitempty"`
	DisplayTotal    string                  `json:"display_total"`
}

func newReceiptResponse(r cashier.ClosingReceipt) receiptResponse {
	resp := receiptResponse{
		ReceiptNumber:   r.ReceiptNumber,
		SessionID:       r.SessionID.String(),
		EmployeeID:      r.EmployeeID.String(),
		OpenedAt:        r.OpenedAt.Format(time.RFC3339),
		ClosedAt:        r.ClosedAt.Format(time.RFC3339),
		OpeningAmount:   money.String(r.OpeningAmount),
		ExpectedAmount:  money.String(r.ExpectedAmount),
		ClosingAmount:   money.String(r.ClosingAmount),
		CashDiscrepancy: money.String(r.CashDiscrepancy),
		DiscrepancyTier: string(r.DiscrepancyTier),
		Breakdown:       newBreakdownLines(r.Breakdown),
		ClosingNotes:    r.ClosingNotes,
		DisplayTotal:    r.DisplayTotal,
	}
	if r.Handling != nil {
		resp.Handling = &handlingResponse{
			DiscrepancyAmount: money.String(r.Handling.DiscrepancyAmount),
			Reason:            r.Handling.Reason,
			ActionTaken:       string(r.Handling.ActionTaken),
			ApprovedBy:        r.Handling.ApprovedBy,
		}
	}
	if r.Transfer != nil {
		resp.Transfer = &transferResponse{
			Amount:        money.String(r.Transfer.Amount),
			Destination:   r.Transfer.Destination,
			AuthorizedBy:  r.Transfer.AuthorizedBy,
			RecipientName: r.Transfer.RecipientName,
			ReceiptNumber: r.Transfer.ReceiptNumber,
			Notes:         r.Transfer.Notes,
			TransferredAt: r.Transfer.TransferredAt.Format(time.RFC3339),
		}
	}
	return resp
}
