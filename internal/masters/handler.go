package masters

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// Handler exposes master-data endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers master-data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ledgers", h.listLedgers)
	r.Get("/ledgers/{id}", h.getLedger)
	r.Post("/ledgers", h.createLedger)
	r.Get("/ledger-groups", h.listLedgerGroups)
	r.Get("/stock-items", h.listStockItems)
	r.Post("/stock-items", h.createStockItem)
	r.Get("/gst-classifications", h.listGstClassifications)
}

func (h *Handler) listLedgers(w http.ResponseWriter, r *http.Request) {
	ledgers, err := h.service.GetLedgers(r.Context())
	if err != nil {
		h.respondError(w, "list ledgers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ledgers": ledgers})
}

func (h *Handler) getLedger(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ledger id")
		return
	}
	ledger, err := h.service.GetLedger(r.Context(), id)
	if err != nil {
		h.respondError(w, "get ledger", err)
		return
	}
	httpx.JSON(w, http.StatusOK, ledger)
}

func (h *Handler) createLedger(w http.ResponseWriter, r *http.Request) {
	var req CreateLedgerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	ledger, err := h.service.CreateLedger(r.Context(), req)
	if err != nil {
		h.respondError(w, "create ledger", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ledger)
}

func (h *Handler) listLedgerGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.GetLedgerGroups(r.Context())
	if err != nil {
		h.respondError(w, "list ledger groups", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func (h *Handler) listStockItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.GetStockItems(r.Context())
	if err != nil {
		h.respondError(w, "list stock items", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"stock_items": items})
}

func (h *Handler) createStockItem(w http.ResponseWriter, r *http.Request) {
	var req CreateStockItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	item, err := h.service.CreateStockItem(r.Context(), req)
	if err != nil {
		h.respondError(w, "create stock item", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) listGstClassifications(w http.ResponseWriter, r *http.Request) {
	classes, err := h.service.GetGstClassifications(r.Context())
	if err != nil {
		h.respondError(w, "list gst classifications", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"gst_classifications": classes})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if !errors.Is(err, ErrNotFound) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
