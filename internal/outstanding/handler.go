package outstanding

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

// Handler exposes the outstanding report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds the outstanding handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers outstanding report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/outstanding", h.report)
	r.Get("/outstanding/summary", h.summary)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())
	q := r.URL.Query()

	filter := Filter{
		Side:   Side(q.Get("side")),
		SortBy: q.Get("sortBy"),
		Desc:   q.Get("order") == "desc",
	}
	filter.PartyID, _ = strconv.ParseInt(q.Get("partyId"), 10, 64)
	if v := q.Get("asOf"); v != "" {
		asOf, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "validation failed", "asOf must be YYYY-MM-DD")
			return
		}
		filter.AsOf = asOf
	}

	rows, err := h.service.Report(r.Context(), scope, filter)
	if err != nil {
		h.logger.Error("outstanding report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, rows)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())

	var asOf time.Time
	if v := r.URL.Query().Get("asOf"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "validation failed", "asOf must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	summary, err := h.service.Summary(r.Context(), scope, asOf)
	if err != nil {
		h.logger.Error("outstanding summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, summary)
}
