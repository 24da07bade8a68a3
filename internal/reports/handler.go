package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

// Handler exposes the trial balance report and its export variants.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds the reports handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers trial balance routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/trial-balance", h.trialBalance)
	r.Get("/trial-balance.csv", h.trialBalanceCSV)
	r.Get("/trial-balance.xlsx", h.trialBalanceXLSX)
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request) (TrialBalance, bool) {
	scope, _ := tenant.ScopeFromContext(r.Context())

	var asOf time.Time
	if v := r.URL.Query().Get("asOf"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "validation failed", "asOf must be YYYY-MM-DD")
			return TrialBalance{}, false
		}
		asOf = parsed
	}

	tb, err := h.service.TrialBalance(r.Context(), scope, asOf)
	if err != nil {
		h.logger.Error("trial balance", slog.Any("error", err))
		httpx.RespondError(w, err)
		return TrialBalance{}, false
	}
	return tb, true
}

func (h *Handler) trialBalance(w http.ResponseWriter, r *http.Request) {
	tb, ok := h.build(w, r)
	if !ok {
		return
	}
	httpx.OK(w, tb)
}

func (h *Handler) trialBalanceCSV(w http.ResponseWriter, r *http.Request) {
	tb, ok := h.build(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=trial_balance.csv")
	if err := WriteCSV(w, tb); err != nil {
		h.logger.Error("trial balance csv", slog.Any("error", err))
	}
}

func (h *Handler) trialBalanceXLSX(w http.ResponseWriter, r *http.Request) {
	tb, ok := h.build(w, r)
	if !ok {
		return
	}
	f, err := BuildXLSX(tb)
	if err != nil {
		h.logger.Error("trial balance xlsx", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=trial_balance.xlsx")
	if err := f.Write(w); err != nil {
		h.logger.Error("trial balance xlsx write", slog.Any("error", err))
	}
}
