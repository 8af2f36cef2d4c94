package cashier

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// maxBlockerSamples caps how many identifiers a blocker carries; the
// count still reflects the full backlog.
const maxBlockerSamples = 5

// OrderDirectory exposes the order-subsystem reads the closure check
// depends on. Owned by the order management subsystem; the engine only
// consumes it.
type OrderDirectory interface {
	ListOpenComandas(ctx context.Context, employeeID uuid.UUID) ([]string, error)
	ListPendingCounterOrders(ctx context.Context, employeeID uuid.UUID) ([]string, error)
	ListUndeliveredItems(ctx context.Context, employeeID uuid.UUID) ([]string, error)
}

// ClosureValidator gathers unfinished order work assigned to a closing
// employee. Any non-empty result is a hard gate: closing aborts until
// the backlog is cleared. There is no force-close path.
type ClosureValidator struct {
	orders OrderDirectory
}

// NewClosureValidator wires the order-subsystem dependency.
func NewClosureValidator(orders OrderDirectory) *ClosureValidator {
	return &ClosureValidator{orders: orders}
}

// GatherBlockers queries the three order-subsystem categories and
// produces one blocker per non-empty category. The queries are
// read-only; nothing is mutated on the order side.
func (v *ClosureValidator) GatherBlockers(ctx context.Context, employeeID uuid.UUID) ([]Blocker, error) {
	if v == nil || v.orders == nil {
		return nil, nil
	}

	var blockers []Blocker

	comandas, err := v.orders.ListOpenComandas(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("cashier: list open comandas: %w", err)
	}
	if b, ok := newBlocker(BlockerOpenComandas, comandas, "open comanda(s) still assigned"); ok {
		blockers = append(blockers, b)
	}

	counter, err := v.orders.ListPendingCounterOrders(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("cashier: list pending counter orders: %w", err)
	}
	if b, ok := newBlocker(BlockerPendingCounter, counter, "counter order(s) awaiting payment, preparation, or pickup"); ok {
		blockers = append(blockers, b)
	}

	items, err := v.orders.ListUndeliveredItems(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("cashier: list undelivered items: %w", err)
	}
	if b, ok := newBlocker(BlockerUndeliveredItems, items, "comanda item(s) not yet delivered"); ok {
		blockers = append(blockers, b)
	}

	return blockers, nil
}

func newBlocker(category BlockerCategory, ids []string, label string) (Blocker, bool) {
	if len(ids) == 0 {
		return Blocker{}, false
	}
	samples := ids
	if len(samples) > maxBlockerSamples {
		samples = samples[:maxBlockerSamples]
	}
	return Blocker{
		Category: category,
		Count:    len(ids),
		Samples:  samples,
		Message:  fmt.Sprintf("%d %s", len(ids), label),
	}, true
}
