// Package orders adapts the order-management tables into the read-only
// queries the cashier closure check consumes. The tables are owned by
// the order subsystem; nothing here writes to them.
package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Directory answers which unfinished order work is still assigned to an
// employee. It satisfies cashier.OrderDirectory.
type Directory struct {
	db *pgxpool.Pool
}

// NewDirectory builds the PostgreSQL-backed adapter.
func NewDirectory(db *pgxpool.Pool) *Directory {
	return &Directory{db: db}
}

// ListOpenComandas returns identifiers of tabs still open under the
// employee's name.
func (d *Directory) ListOpenComandas(ctx context.Context, employeeID uuid.UUID) ([]string, error) {
	return d.collect(ctx, `SELECT number FROM comandas
WHERE assigned_employee_id=$1 AND status='open'
ORDER BY opened_at ASC`, employeeID)
}

// ListPendingCounterOrders returns balcão orders the employee owns that
// have not finished the payment/preparation/pickup pipeline.
func (d *Directory) ListPendingCounterOrders(ctx context.Context, employeeID uuid.UUID) ([]string, error) {
	return d.collect(ctx, `SELECT number FROM counter_orders
WHERE employee_id=$1 AND status IN ('pending_payment','preparing','ready')
ORDER BY created_at ASC`, employeeID)
}

// ListUndeliveredItems returns comanda line items not yet delivered on
// the employee's tabs.
func (d *Directory) ListUndeliveredItems(ctx context.Context, employeeID uuid.UUID) ([]string, error) {
	return d.collect(ctx, `SELECT ci.description FROM comanda_items ci
JOIN comandas c ON c.id = ci.comanda_id
WHERE c.assigned_employee_id=$1 AND ci.status <> 'delivered'
ORDER BY ci.created_at ASC`, employeeID)
}

func (d *Directory) collect(ctx context.Context, query string, employeeID uuid.UUID) ([]string, error) {
	rows, err := d.db.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("orders: query: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("orders: scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
