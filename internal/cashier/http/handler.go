// Package cashierhttp exposes the cash session engine as a JSON API.
// Presentation and printing live in an external client; handlers here
// only translate between the wire and the service.
package cashierhttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sobrinkedos/caixa/internal/cashier"
	"github.com/sobrinkedos/caixa/internal/platform/httpx"
)

// SessionService defines the engine contract the handlers depend on.
type SessionService interface {
	OpenSession(ctx context.Context, in cashier.OpenSessionInput) (cashier.CashSession, error)
	RecordTransaction(ctx context.Context, in cashier.RecordTransactionInput) (cashier.CashTransaction, error)
	GetSession(ctx context.Context, id uuid.UUID) (cashier.CashSession, error)
	ListTransactions(ctx context.Context, sessionID uuid.UUID) ([]cashier.CashTransaction, error)
	ComputeBreakdown(ctx context.Context, sessionID uuid.UUID) (map[cashier.PaymentMethod]cashier.MethodExpectation, error)
	ValidateClosure(ctx context.Context, sessionID uuid.UUID, in cashier.CloseSessionInput) (cashier.CloseAssessment, error)
	CloseSession(ctx context.Context, sessionID uuid.UUID, in cashier.CloseSessionInput) (cashier.ClosingReceipt, error)
	DailySummary(ctx context.Context, date time.Time) (cashier.DailySummary, error)
}

// Handler translates HTTP requests into engine calls.
type Handler struct {
	logger   *slog.Logger
	service  SessionService
	validate *validator.Validate
}

// NewHandler constructs the cashier API handler.
func NewHandler(logger *slog.Logger, service SessionService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	var req openSessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, violations := req.toInput()
	if violations != nil {
		httpx.ProblemWithViolations(w, http.StatusBadRequest, "Validation Failed", "", violations)
		return
	}
	session, err := h.service.OpenSession(r.Context(), in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, newSessionResponse(session))
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	session, err := h.service.GetSession(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newSessionResponse(session))
}

func (h *Handler) recordTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req recordTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, violations := req.toInput(id)
	if violations != nil {
		httpx.ProblemWithViolations(w, http.StatusBadRequest, "Validation Failed", "", violations)
		return
	}
	tx, err := h.service.RecordTransaction(r.Context(), in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, newTransactionResponse(tx))
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	entries, err := h.service.ListTransactions(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	resp := make([]transactionResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, newTransactionResponse(entry))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) computeBreakdown(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	expected, err := h.service.ComputeBreakdown(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	resp := make([]methodExpectationResponse, 0, len(cashier.PaymentMethods))
	for _, method := range cashier.PaymentMethods {
		exp := expected[method]
		resp = append(resp, methodExpectationResponse{
			PaymentMethod:    string(method),
			ExpectedAmount:   exp.ExpectedAmount.StringFixed(2),
			TransactionCount: exp.TransactionCount,
		})
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) validateClosure(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req closeSessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, violations := req.toInput()
	if violations != nil {
		httpx.ProblemWithViolations(w, http.StatusBadRequest, "Validation Failed", "", violations)
		return
	}
	assessment, err := h.service.ValidateClosure(r.Context(), id, in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newAssessmentResponse(assessment))
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	var req closeSessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	in, violations := req.toInput()
	if violations != nil {
		httpx.ProblemWithViolations(w, http.StatusBadRequest, "Validation Failed", "", violations)
		return
	}
	receipt, err := h.service.CloseSession(r.Context(), id, in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newReceiptResponse(receipt))
}

func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	date := time.Now()
	if raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}
	summary, err := h.service.DailySummary(r.Context(), date)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "session id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return false
	}
	if err := h.validate.Struct(target); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return false
		}
		var violations []httpx.Violation
		for _, fieldErr := range err.(validator.ValidationErrors) {
			violations = append(violations, httpx.Violation{
				Code:    fieldErr.Tag(),
				Field:   fieldErr.Field(),
				Message: fieldErr.Error(),
			})
		}
		httpx.ProblemWithViolations(w, http.StatusBadRequest, "Validation Failed", "", violations)
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs cashier.ValidationErrors
	var rejection *cashier.CloseRejection
	switch {
	case errors.As(err, &validationErrs):
		httpx.ProblemWithViolations(w, http.StatusBadRequest, "Validation Failed", "", toHTTPViolations(validationErrs))
	case errors.As(err, &rejection):
		violations := toHTTPViolations(rejection.Violations)
		for _, b := range rejection.Blockers {
			violations = append(violations, httpx.Violation{
				Code:    "closure_blocked",
				Field:   string(b.Category),
				Message: b.Message,
			})
		}
		httpx.ProblemWithViolations(w, http.StatusUnprocessableEntity, "Close Rejected", rejection.Error(), violations)
	case errors.Is(err, cashier.ErrSessionNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, cashier.ErrSessionAlreadyOpen):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, cashier.ErrSessionClosed):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, cashier.ErrCloseConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("cashier request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
