package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bahikhata/bahikhata/internal/inventory"
	"github.com/bahikhata/bahikhata/internal/ledger"
	"github.com/bahikhata/bahikhata/internal/outstanding"
	"github.com/bahikhata/bahikhata/internal/reports"
	"github.com/bahikhata/bahikhata/internal/tenant"
	"github.com/bahikhata/bahikhata/internal/voucher"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	VoucherHandler     *voucher.Handler
	LedgerHandler      *ledger.Handler
	InventoryHandler   *inventory.Handler
	OutstandingHandler *outstanding.Handler
	ReportsHandler     *reports.Handler
}

// NewRouter constructs the chi.Router with the default stack. Every API
// route runs behind the tenant scope middleware.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(tenant.Middleware)

		r.Group(params.VoucherHandler.MountRoutes)
		r.Route("/ledgers", params.LedgerHandler.MountRoutes)
		r.Route("/reports", func(r chi.Router) {
			params.ReportsHandler.MountRoutes(r)
			params.InventoryHandler.MountRoutes(r)
			params.OutstandingHandler.MountRoutes(r)
		})
	})

	return r
}
