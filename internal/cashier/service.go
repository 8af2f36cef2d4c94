package cashier

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FanoutEnqueuer schedules background delivery of a closing receipt to
// downstream consumers.
type FanoutEnqueuer interface {
	EnqueueCloseFanout(ctx context.Context, receipt ClosingReceipt) error
}

// ServiceConfig groups the session manager's dependencies. Repo is
// required; everything else degrades gracefully when absent.
type ServiceConfig struct {
	Repo      Repository
	Orders    OrderDirectory
	Events    EventPublisher
	Summaries *SummaryCache
	Fanout    FanoutEnqueuer
	Logger    *slog.Logger
}

// Service owns the cash session lifecycle. It is the only component
// with mutation authority over session status; every write funnels
// through it.
type Service struct {
	repo      Repository
	ledger    *Ledger
	closure   *ClosureValidator
	events    EventPublisher
	summaries *SummaryCache
	fanout    FanoutEnqueuer
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      cfg.Repo,
		ledger:    NewLedger(cfg.Repo),
		closure:   NewClosureValidator(cfg.Orders),
		events:    cfg.Events,
		summaries: cfg.Summaries,
		fanout:    cfg.Fanout,
		logger:    logger,
		now:       time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// OpenSession starts a custody period for the employee. The repository
// enforces the one-open-session-per-employee rule and reports a
// conflict as ErrSessionAlreadyOpen.
func (s *Service) OpenSession(ctx context.Context, in OpenSessionInput) (CashSession, error) {
	if err := in.Validate(); err != nil {
		return CashSession{}, err
	}
	session := CashSession{
		ID:             uuid.New(),
		EmployeeID:     in.EmployeeID,
		Status:         SessionStatusOpen,
		OpenedAt:       s.now(),
		OpeningAmount:  in.OpeningAmount,
		ExpectedAmount: in.OpeningAmount,
		OpeningNotes:   in.Notes,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return CashSession{}, err
	}
	s.publish(ctx, EventSessionOpened, session.ID, session.EmployeeID)
	return session, nil
}

// RecordTransaction appends a cash-affecting event to an open session.
// The append and the running-expectation update commit as one atomic
// unit, so concurrent payment flows never lose updates.
func (s *Service) RecordTransaction(ctx context.Context, in RecordTransactionInput) (CashTransaction, error) {
	if err := in.Validate(); err != nil {
		return CashTransaction{}, err
	}
	tx := CashTransaction{
		ID:              uuid.New(),
		SessionID:       in.SessionID,
		Type:            in.Type,
		PaymentMethod:   in.PaymentMethod,
		Amount:          signedAmount(in.Type, in.Amount),
		RelatedOrderID:  in.RelatedOrderID,
		ProcessedBy:     in.ProcessedBy,
		ProcessedAt:     s.now(),
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	}
	if err := s.ledger.Append(ctx, tx); err != nil {
		return CashTransaction{}, err
	}
	s.publish(ctx, EventTransactionRecorded, in.SessionID, in.ProcessedBy)
	return tx, nil
}

// GetSession returns a session by identifier.
func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (CashSession, error) {
	return s.repo.GetSession(ctx, id)
}

// ListTransactions returns the session ledger in recorded order.
func (s *Service) ListTransactions(ctx context.Context, sessionID uuid.UUID) ([]CashTransaction, error) {
	if _, err := s.repo.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.ledger.Entries(ctx, sessionID)
}

// ComputeBreakdown derives the per-method expectations for a session.
func (s *Service) ComputeBreakdown(ctx context.Context, sessionID uuid.UUID) (map[PaymentMethod]MethodExpectation, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledger.Entries(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return ComputeExpectedByMethod(session, entries), nil
}

// CloseAssessment is the full close evaluation for one submitted input:
// the reconciled breakdown, the resulting discrepancy and tier, and
// every violated condition. An assessment with no violations and no
// blockers would close successfully.
type CloseAssessment struct {
	Breakdown       []PaymentMethodBreakdown
	ClosingAmount   decimal.Decimal
	CashDiscrepancy decimal.Decimal
	Tier            Tier
	Violations      []Violation
	Blockers        []Blocker
}

// CanClose reports whether the assessment found nothing outstanding.
func (a CloseAssessment) CanClose() bool {
	return len(a.Violations) == 0 && len(a.Blockers) == 0
}

// ValidateClosure dry-runs a close without mutating anything, so the
// caller can present every outstanding problem before the operator
// commits.
func (s *Service) ValidateClosure(ctx context.Context, sessionID uuid.UUID, in CloseSessionInput) (CloseAssessment, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return CloseAssessment{}, err
	}
	if session.Status != SessionStatusOpen {
		return CloseAssessment{}, ErrSessionClosed
	}
	return s.assessClose(ctx, session, in)
}

// CloseSession runs the full reconciliation gauntlet: structural
// validation, per-method breakdown, discrepancy tier policy, treasury
// transfer rule, and order-subsystem blockers. All failures are
// aggregated into one CloseRejection and the session stays open. Only a
// clean assessment transitions the session, via a conditional update
// gated on the status and expected-amount snapshot; losing that race
// yields ErrCloseConflict and the caller retries.
func (s *Service) CloseSession(ctx context.Context, sessionID uuid.UUID, in CloseSessionInput) (ClosingReceipt, error) {
	if err := in.Validate(); err != nil {
		return ClosingReceipt{}, err
	}
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return ClosingReceipt{}, err
	}
	if session.Status != SessionStatusOpen {
		return ClosingReceipt{}, ErrSessionClosed
	}

	assessment, err := s.assessClose(ctx, session, in)
	if err != nil {
		return ClosingReceipt{}, err
	}
	if !assessment.CanClose() {
		return ClosingReceipt{}, &CloseRejection{
			Violations: assessment.Violations,
			Blockers:   assessment.Blockers,
		}
	}

	closedAt := s.now()
	handling := s.handlingRecord(assessment, in)
	var transfer *TreasuryTransfer
	if in.Transfer != nil {
		transfer = &TreasuryTransfer{
			Amount:        in.Transfer.Amount,
			Destination:   in.Transfer.Destination,
			AuthorizedBy:  in.Transfer.AuthorizedBy,
			RecipientName: in.Transfer.RecipientName,
			ReceiptNumber: in.Transfer.ReceiptNumber,
			Notes:         in.Transfer.Notes,
			TransferredAt: closedAt,
		}
	}

	err = s.repo.FinalizeSession(ctx, FinalizeSessionParams{
		SessionID:        session.ID,
		ExpectedSnapshot: session.ExpectedAmount,
		ClosingAmount:    assessment.ClosingAmount,
		CashDiscrepancy:  assessment.CashDiscrepancy,
		ClosingNotes:     in.ClosingNotes,
		ClosedAt:         closedAt,
		Handling:         handling,
		Transfer:         transfer,
	})
	if err != nil {
		return ClosingReceipt{}, err
	}

	session.Status = SessionStatusClosed
	session.ClosedAt = &closedAt
	session.ClosingNotes = in.ClosingNotes
	receipt := BuildClosingReceipt(session, assessment.Breakdown, assessment.Tier, handling, transfer, closedAt)

	s.publish(ctx, EventSessionClosed, session.ID, session.EmployeeID)
	if err := s.summaries.Invalidate(ctx, closedAt); err != nil {
		s.logger.Warn("invalidate daily summary", slog.Any("error", err))
	}
	if s.fanout != nil {
		if err := s.fanout.EnqueueCloseFanout(ctx, receipt); err != nil {
			s.logger.Warn("enqueue close fanout",
				slog.String("receipt", receipt.ReceiptNumber),
				slog.Any("error", err))
		}
	}
	return receipt, nil
}

// DailySummary aggregates sessions and transactions for one venue day.
func (s *Service) DailySummary(ctx context.Context, date time.Time) (DailySummary, error) {
	return s.summaries.Fetch(ctx, date, func(ctx context.Context) (DailySummary, error) {
		from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		to := from.AddDate(0, 0, 1)
		stats, err := s.repo.SessionStatsForRange(ctx, from, to)
		if err != nil {
			return DailySummary{}, err
		}
		totals, err := s.repo.TransactionTotalsForRange(ctx, from, to)
		if err != nil {
			return DailySummary{}, err
		}
		return buildDailySummary(from, stats, totals), nil
	})
}

func (s *Service) assessClose(ctx context.Context, session CashSession, in CloseSessionInput) (CloseAssessment, error) {
	entries, err := s.ledger.Entries(ctx, session.ID)
	if err != nil {
		return CloseAssessment{}, err
	}

	expected := ComputeExpectedByMethod(session, entries)
	breakdown := BuildBreakdown(expected, in.CountedAmounts)
	closing := SumActuals(breakdown)
	discrepancy := closing.Sub(session.ExpectedAmount)
	tier := Classify(discrepancy)

	var violations []Violation
	violations = append(violations, ValidateHandling(tier, DiscrepancyHandling{
		DiscrepancyAmount: discrepancy,
		Reason:            in.DiscrepancyReason,
		ActionTaken:       in.DiscrepancyAction,
		ApprovedBy:        in.ApprovedBy,
	})...)
	violations = append(violations, ValidateTreasuryTransfer(cashActual(breakdown), in.Transfer)...)

	blockers, err := s.closure.GatherBlockers(ctx, session.EmployeeID)
	if err != nil {
		return CloseAssessment{}, err
	}

	return CloseAssessment{
		Breakdown:       breakdown,
		ClosingAmount:   closing,
		CashDiscrepancy: discrepancy,
		Tier:            tier,
		Violations:      violations,
		Blockers:        blockers,
	}, nil
}

// handlingRecord decides whether a DiscrepancyHandling is attached to
// the closed session. Auto-accepted zero gaps with no reason leave no
// record; anything else is persisted for the audit trail.
func (s *Service) handlingRecord(assessment CloseAssessment, in CloseSessionInput) *DiscrepancyHandling {
	if assessment.CashDiscrepancy.IsZero() && in.DiscrepancyReason == "" {
		return nil
	}
	action := in.DiscrepancyAction
	if action == "" {
		if assessment.Tier == TierAutoAccept {
			action = HandlingActionAccepted
		} else {
			action = HandlingActionPending
		}
	}
	return &DiscrepancyHandling{
		DiscrepancyAmount: assessment.CashDiscrepancy,
		Reason:            in.DiscrepancyReason,
		ActionTaken:       action,
		ApprovedBy:        in.ApprovedBy,
	}
}

func (s *Service) publish(ctx context.Context, eventType EventType, sessionID, employeeID uuid.UUID) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, Event{
		Type:       eventType,
		SessionID:  sessionID,
		EmployeeID: employeeID,
		OccurredAt: s.now(),
	})
}
