package ledger

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

// Handler exposes ledger statement endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds the ledger handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/statement", h.statement)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())
	ledgers, err := h.service.ListLedgers(r.Context(), scope)
	if err != nil {
		h.logger.Error("list ledgers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, ledgers)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", "invalid ledger id")
		return
	}
	led, err := h.service.GetLedger(r.Context(), scope, id)
	if err != nil {
		h.logger.Error("get ledger", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, led)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", "invalid ledger id")
		return
	}

	filter := StatementFilter{LedgerID: id}
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		if filter.From, err = time.Parse("2006-01-02", v); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "validation failed", "from must be YYYY-MM-DD")
			return
		}
	}
	if v := q.Get("to"); v != "" {
		if filter.To, err = time.Parse("2006-01-02", v); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "validation failed", "to must be YYYY-MM-DD")
			return
		}
	}
	filter.IncludeOpening = q.Get("opening") == "1" || q.Get("opening") == "true"
	filter.IncludeClosing = q.Get("closing") == "1" || q.Get("closing") == "true"

	st, err := h.service.Statement(r.Context(), scope, filter)
	if err != nil {
		h.logger.Error("ledger statement", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, st)
}
