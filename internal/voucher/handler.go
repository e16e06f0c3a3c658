package voucher

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// Handler exposes voucher endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers voucher routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/preview", h.preview)
	r.Post("/validate", h.validateDraft)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateVoucherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	vch, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "create voucher", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, vch)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid voucher id")
		return
	}
	var req CreateVoucherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	vch, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, r, "update voucher", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vch)
}

// preview recomputes a draft's lines and totals without persisting.
// Entry forms call this on every edit so amounts are never computed
// client-side.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req CreateVoucherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	vch, err := h.service.Preview(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "preview voucher", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vch)
}

func (h *Handler) validateDraft(w http.ResponseWriter, r *http.Request) {
	var req CreateVoucherRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	result, err := h.service.Validate(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "validate voucher", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid voucher id")
		return
	}
	vch, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get voucher", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vch)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	req := ListVouchersRequest{}
	q := r.URL.Query()
	if v := q.Get("mode"); v != "" {
		mode := Mode(v)
		req.Mode = &mode
	}
	if v := q.Get("party_ledger_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.PartyLedgerID = &id
		}
	}
	if v := q.Get("date_from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid query parameter: date_from")
			return
		}
		req.DateFrom = &from
	}
	if v := q.Get("date_to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid query parameter: date_to")
			return
		}
		req.DateTo = &to
	}
	req.Limit, req.Offset = shared.ParseLimitOffset(q.Get("limit"), q.Get("offset"), 50)
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	vouchers, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, r, "list vouchers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"vouchers":   vouchers,
		"pagination": shared.NewPagination(req.Offset/max(req.Limit, 1)+1, req.Limit, total),
	})
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var vErr *ValidationError
	var cErr *ComputationError
	switch {
	case errors.As(err, &vErr):
		httpx.ValidationProblem(w, vErr.Fields)
	case errors.As(err, &cErr):
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", cErr.Error())
	case errors.Is(err, ErrDuplicateNumber):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		if !errors.Is(err, ErrNotFound) {
			h.logger.Error(op, slog.Any("error", err))
		}
		httpx.RespondError(w, err)
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
