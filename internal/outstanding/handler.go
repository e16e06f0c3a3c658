package outstanding

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/ledgerline/internal/platform/httpx"
)

// Handler exposes outstanding report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers outstanding routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.report)
	r.Get("/summary", h.summary)
}

// report returns the full bill-level view plus roll-ups.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	req, err := parseReportRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	report, err := h.service.Report(r.Context(), req)
	if err != nil {
		h.logger.Error("outstanding report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

// summary returns roll-ups only, without the bill detail.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	req, err := parseReportRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	report, err := h.service.Summary(r.Context(), req)
	if err != nil {
		h.logger.Error("outstanding summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func parseReportRequest(r *http.Request) (ReportRequest, error) {
	q := r.URL.Query()
	req := ReportRequest{GroupBy: GroupByParty}

	if v := q.Get("as_of"); v != "" {
		asOf, err := time.Parse("2006-01-02", v)
		if err != nil {
			return req, errBadParam("as_of")
		}
		req.AsOf = asOf
	}
	if v := q.Get("group_by"); v != "" {
		groupBy := GroupBy(v)
		if groupBy != GroupByParty && groupBy != GroupByGroup {
			return req, errBadParam("group_by")
		}
		req.GroupBy = groupBy
	}
	if v := q.Get("bucket"); v != "" {
		bucket := Bucket(v)
		if !bucket.Valid() {
			return req, errBadParam("bucket")
		}
		req.Bucket = &bucket
	}
	if v := q.Get("risk"); v != "" {
		risk := Risk(v)
		if !risk.Valid() {
			return req, errBadParam("risk")
		}
		req.Risk = &risk
	}
	if v := q.Get("party_ledger_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, errBadParam("party_ledger_id")
		}
		req.PartyID = &id
	}
	if v := q.Get("date_from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return req, errBadParam("date_from")
		}
		req.DateFrom = &from
	}
	if v := q.Get("date_to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			return req, errBadParam("date_to")
		}
		req.DateTo = &to
	}
	return req, nil
}

type paramError string

func (e paramError) Error() string { return "invalid query parameter: " + string(e) }

func errBadParam(name string) error { return paramError(name) }
