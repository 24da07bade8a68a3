package inventory

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

// Handler exposes the inventory ageing report.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds the inventory handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers inventory report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/inventory-ageing", h.ageing)
}

func (h *Handler) ageing(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())
	q := r.URL.Query()

	var filter Filter
	if v := q.Get("asOf"); v != "" {
		asOf, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "validation failed", "asOf must be YYYY-MM-DD")
			return
		}
		filter.AsOf = asOf
	}
	filter.ItemID, _ = strconv.ParseInt(q.Get("itemId"), 10, 64)
	filter.GodownID, _ = strconv.ParseInt(q.Get("godownId"), 10, 64)

	report, err := h.service.Ageing(r.Context(), scope, filter)
	if err != nil {
		h.logger.Error("inventory ageing", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, report)
}
