package voucher

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

// Handler exposes voucher posting endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds the voucher handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers voucher routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/vouchers", h.createGeneric)
	r.Get("/vouchers", h.list)
	r.Get("/vouchers/{id}", h.get)
	r.Put("/vouchers/{id}", h.update)
	r.Delete("/vouchers/{id}", h.delete)
	r.Post("/invoices", h.createInvoice)
	r.Post("/notes", h.createNote)
}

func (h *Handler) createGeneric(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())
	var in GenericInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	v, err := h.service.CreateGeneric(r.Context(), scope, in)
	if err != nil {
		h.logger.Error("post generic voucher", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, v)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())
	var in InvoiceInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	v, err := h.service.CreateInvoice(r.Context(), scope, in)
	if err != nil {
		h.logger.Error("post invoice", slog.Any("error", err), slog.Int64("party", in.PartyID))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, v)
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())
	var in NoteInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	v, err := h.service.CreateNote(r.Context(), scope, in)
	if err != nil {
		h.logger.Error("post note", slog.Any("error", err), slog.Int64("party", in.PartyID))
		httpx.RespondError(w, err)
		return
	}
	httpx.Created(w, v)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", "invalid voucher id")
		return
	}
	v, err := h.service.Get(r.Context(), scope, id)
	if err != nil {
		h.logger.Error("get voucher", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, v)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())
	q := r.URL.Query()

	filter := ListFilter{Kind: Kind(q.Get("voucherType"))}
	if filter.Kind != "" && !filter.Kind.Valid() {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", "unknown voucher type")
		return
	}
	var err error
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
	filter.PartyID, _ = strconv.ParseInt(q.Get("partyId"), 10, 64)
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.PerPage, _ = strconv.Atoi(q.Get("perPage"))

	vouchers, pagination, err := h.service.List(r.Context(), scope, filter)
	if err != nil {
		h.logger.Error("list vouchers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"vouchers": vouchers, "pagination": pagination})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", "invalid voucher id")
		return
	}
	var in UpdateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", "malformed request body")
		return
	}
	v, err := h.service.Update(r.Context(), scope, id, in)
	if err != nil {
		h.logger.Error("update voucher", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, v)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	scope, _ := tenant.ScopeFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "validation failed", "invalid voucher id")
		return
	}
	if err := h.service.Delete(r.Context(), scope, id); err != nil {
		h.logger.Error("delete voucher", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, map[string]any{"deleted": id})
}
