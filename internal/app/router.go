package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	cashierhttp "github.com/sobrinkedos/caixa/internal/cashier/http"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	CashierHandler *cashierhttp.Handler
}

// NewRouter wires the middleware stack and the API routes.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{Logger: p.Logger, Config: p.Config}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1/cash-sessions", func(r chi.Router) {
		p.CashierHandler.MountRoutes(r)
	})

	return r
}
