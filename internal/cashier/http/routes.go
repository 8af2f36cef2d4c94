package cashierhttp

import "github.com/go-chi/chi/v5"

// MountRoutes attaches the cashier API under the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.openSession)
	r.Get("/daily-summary", h.dailySummary)
	r.Get("/{id}", h.getSession)
	r.Post("/{id}/transactions", h.recordTransaction)
	r.Get("/{id}/transactions", h.listTransactions)
	r.Get("/{id}/breakdown", h.computeBreakdown)
	r.Post("/{id}/validate-close", h.validateClosure)
	r.Post("/{id}/close", h.closeSession)
}
