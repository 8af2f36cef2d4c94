package cashier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sobrinkedos/caixa/internal/platform/db"
)

// Repository encapsulates DB operations for sessions and the ledger.
type Repository interface {
	CreateSession(ctx context.Context, session CashSession) error
	GetSession(ctx context.Context, id uuid.UUID) (CashSession, error)
	// AppendTransaction inserts the ledger entry and applies the running
	// expectation delta to the owning session as one atomic unit. It
	// fails with ErrSessionClosed when the session is no longer open.
	AppendTransaction(ctx context.Context, tx CashTransaction, expectedDelta decimal.Decimal) error
	ListTransactions(ctx context.Context, sessionID uuid.UUID) ([]CashTransaction, error)
	// FinalizeSession performs the conditional close. The update is
	// gated on status still being open and on the expected amount still
	// matching the snapshot the close decision was computed from; any
	// concurrent append or competing close makes it fail with
	// ErrCloseConflict.
	FinalizeSession(ctx context.Context, p FinalizeSessionParams) error
	SessionStatsForRange(ctx context.Context, from, to time.Time) (SessionStats, error)
	TransactionTotalsForRange(ctx context.Context, from, to time.Time) ([]TransactionTotal, error)
}

// FinalizeSessionParams carries the full outcome of a validated close.
type FinalizeSessionParams struct {
	SessionID        uuid.UUID
	ExpectedSnapshot decimal.Decimal
	ClosingAmount    decimal.Decimal
	CashDiscrepancy  decimal.Decimal
	ClosingNotes     string
	ClosedAt         time.Time
	Handling         *DiscrepancyHandling
	Transfer         *TreasuryTransfer
}

// SessionStats aggregates session-level figures for a date range.
type SessionStats struct {
	SessionsOpened   int
	SessionsClosed   int
	TotalOpening     decimal.Decimal
	TotalClosing     decimal.Decimal
	TotalDiscrepancy decimal.Decimal
}

// TransactionTotal aggregates ledger amounts per type and method.
type TransactionTotal struct {
	Type          TransactionType
	PaymentMethod PaymentMethod
	Total         decimal.Decimal
	Count         int
}

// uniqueOpenSessionConstraint is the partial unique index enforcing one
// open session per employee (see scripts/migrations).
const uniqueOpenSessionConstraint = "uq_cash_sessions_employee_open"

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the PostgreSQL-backed repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSession(ctx context.Context, s CashSession) error {
	_, err := r.db.Exec(ctx, `INSERT INTO cash_sessions (id, employee_id, status, opened_at, opening_amount, expected_amount, opening_notes)
VALUES ($1,$2,$3,$4,$5,$6,$7)`, s.ID, s.EmployeeID, s.Status, s.OpenedAt, s.OpeningAmount, s.ExpectedAmount, s.OpeningNotes)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == uniqueOpenSessionConstraint {
			return ErrSessionAlreadyOpen
		}
		return fmt.Errorf("cashier: create session: %w", err)
	}
	return nil
}

func (r *repository) GetSession(ctx context.Context, id uuid.UUID) (CashSession, error) {
	var s CashSession
	err := r.db.QueryRow(ctx, `SELECT id, employee_id, status, opened_at, closed_at, opening_amount, closing_amount, expected_amount, cash_discrepancy, opening_notes, closing_notes
FROM cash_sessions WHERE id=$1`, id).
		Scan(&s.ID, &s.EmployeeID, &s.Status, &s.OpenedAt, &s.ClosedAt, &s.OpeningAmount, &s.ClosingAmount, &s.ExpectedAmount, &s.CashDiscrepancy, &s.OpeningNotes, &s.ClosingNotes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CashSession{}, ErrSessionNotFound
		}
		return CashSession{}, fmt.Errorf("cashier: get session: %w", err)
	}
	return s, nil
}

func (r *repository) AppendTransaction(ctx context.Context, t CashTransaction, expectedDelta decimal.Decimal) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `UPDATE cash_sessions SET expected_amount = expected_amount + $2
WHERE id=$1 AND status='open'`, t.SessionID, expectedDelta)
		if err != nil {
			return fmt.Errorf("cashier: bump expectation: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			var status SessionStatus
			if err := tx.QueryRow(ctx, `SELECT status FROM cash_sessions WHERE id=$1`, t.SessionID).Scan(&status); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return ErrSessionNotFound
				}
				return fmt.Errorf("cashier: probe session: %w", err)
			}
			return ErrSessionClosed
		}

		_, err = tx.Exec(ctx, `INSERT INTO cash_transactions (id, session_id, type, payment_method, amount, related_order_id, processed_by, processed_at, reference_number, notes)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			t.ID, t.SessionID, t.Type, t.PaymentMethod, t.Amount, t.RelatedOrderID, t.ProcessedBy, t.ProcessedAt, t.ReferenceNumber, t.Notes)
		if err != nil {
			return fmt.Errorf("cashier: insert transaction: %w", err)
		}
		return nil
	})
}

func (r *repository) ListTransactions(ctx context.Context, sessionID uuid.UUID) ([]CashTransaction, error) {
	rows, err := r.db.Query(ctx, `SELECT id, session_id, type, payment_method, amount, related_order_id, processed_by, processed_at, reference_number, notes
FROM cash_transactions WHERE session_id=$1 ORDER BY processed_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("cashier: list transactions: %w", err)
	}
	defer rows.Close()
	var entries []CashTransaction
	for rows.Next() {
		var t CashTransaction
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Type, &t.PaymentMethod, &t.Amount, &t.RelatedOrderID, &t.ProcessedBy, &t.ProcessedAt, &t.ReferenceNumber, &t.Notes); err != nil {
			return nil, fmt.Errorf("cashier: scan transaction: %w", err)
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

func (r *repository) FinalizeSession(ctx context.Context, p FinalizeSessionParams) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `UPDATE cash_sessions
SET status='closed', closed_at=$2, closing_amount=$3, cash_discrepancy=$4, closing_notes=$5
WHERE id=$1 AND status='open' AND expected_amount=$6`,
			p.SessionID, p.ClosedAt, p.ClosingAmount, p.CashDiscrepancy, p.ClosingNotes, p.ExpectedSnapshot)
		if err != nil {
			return fmt.Errorf("cashier: close session: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return ErrCloseConflict
		}

		if p.Handling != nil {
			_, err = tx.Exec(ctx, `INSERT INTO discrepancy_handlings (session_id, discrepancy_amount, reason, action_taken, approved_by)
VALUES ($1,$2,$3,$4,$5)`, p.SessionID, p.Handling.DiscrepancyAmount, p.Handling.Reason, p.Handling.ActionTaken, p.Handling.ApprovedBy)
			if err != nil {
				return fmt.Errorf("cashier: insert discrepancy handling: %w", err)
			}
		}
		if p.Transfer != nil {
			_, err = tx.Exec(ctx, `INSERT INTO treasury_transfers (session_id, amount, destination, authorized_by, recipient_name, receipt_number, notes, transferred_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				p.SessionID, p.Transfer.Amount, p.Transfer.Destination, p.Transfer.AuthorizedBy, p.Transfer.RecipientName, p.Transfer.ReceiptNumber, p.Transfer.Notes, p.Transfer.TransferredAt)
			if err != nil {
				return fmt.Errorf("cashier: insert treasury transfer: %w", err)
			}
		}
		return nil
	})
}

func (r *repository) SessionStatsForRange(ctx context.Context, from, to time.Time) (SessionStats, error) {
	var stats SessionStats
	err := r.db.QueryRow(ctx, `SELECT
  COUNT(*) FILTER (WHERE opened_at >= $1 AND opened_at < $2),
  COUNT(*) FILTER (WHERE closed_at IS NOT NULL AND closed_at >= $1 AND closed_at < $2),
  COALESCE(SUM(opening_amount) FILTER (WHERE opened_at >= $1 AND opened_at < $2), 0),
  COALESCE(SUM(closing_amount) FILTER (WHERE closed_at IS NOT NULL AND closed_at >= $1 AND closed_at < $2), 0),
  COALESCE(SUM(cash_discrepancy) FILTER (WHERE closed_at IS NOT NULL AND closed_at >= $1 AND closed_at < $2), 0)
FROM cash_sessions
WHERE opened_at < $2 AND (closed_at IS NULL OR closed_at >= $1)`, from, to).
		Scan(&stats.SessionsOpened, &stats.SessionsClosed, &stats.TotalOpening, &stats.TotalClosing, &stats.TotalDiscrepancy)
	if err != nil {
		return SessionStats{}, fmt.Errorf("cashier: session stats: %w", err)
	}
	return stats, nil
}

func (r *repository) TransactionTotalsForRange(ctx context.Context, from, to time.Time) ([]TransactionTotal, error) {
	rows, err := r.db.Query(ctx, `SELECT type, payment_method, COALESCE(SUM(amount),0), COUNT(*)
FROM cash_transactions
WHERE processed_at >= $1 AND processed_at < $2
GROUP BY type, payment_method
ORDER BY type, payment_method`, from, to)
	if err != nil {
		return nil, fmt.Errorf("cashier: transaction totals: %w", err)
	}
	defer rows.Close()
	var totals []TransactionTotal
	for rows.Next() {
		var t TransactionTotal
		if err := rows.Scan(&t.Type, &t.PaymentMethod, &t.Total, &t.Count); err != nil {
			return nil, fmt.Errorf("cashier: scan total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
