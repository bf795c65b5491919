package attendance

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/dairydesk/dairydesk/internal/finance"
	"github.com/dairydesk/dairydesk/internal/platform/httpx"
)

type Handler struct {
	svc      *Service
	logger   *slog.Logger
	validate *validator.Validate
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.mark)
	r.Get("/", h.monthSheet)
	r.Get("/summary", h.monthlyTotals)
	r.Get("/summary/{customerID}", h.customerTotal)
}

func (h *Handler) mark(w http.ResponseWriter, r *http.Request) {
	var req MarkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	entry, err := h.svc.Mark(r.Context(), req)
	if err != nil {
		h.logger.Error("mark attendance", "error", err, "customer_id", req.CustomerID)
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func (h *Handler) monthSheet(w http.ResponseWriter, r *http.Request) {
	period, ok := periodFromQuery(w, r)
	if !ok {
		return
	}
	customerID, _ := strconv.ParseInt(r.URL.Query().Get("customer_id"), 10, 64)

	entries, err := h.svc.MonthSheet(r.Context(), period, customerID)
	if err != nil {
		h.logger.Error("list attendance", "error", err, "period", period.String())
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"period":  period.String(),
		"entries": entries,
	})
}

func (h *Handler) monthlyTotals(w http.ResponseWriter, r *http.Request) {
	period, ok := periodFromQuery(w, r)
	if !ok {
		return
	}
	totals, err := h.svc.MonthlyTotals(r.Context(), period)
	if err != nil {
		h.logger.Error("attendance totals", "error", err, "period", period.String())
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"period": period.String(),
		"totals": totals,
	})
}

func (h *Handler) customerTotal(w http.ResponseWriter, r *http.Request) {
	period, ok := periodFromQuery(w, r)
	if !ok {
		return
	}
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil || customerID <= 0 {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	total, err := h.svc.CustomerTotal(r.Context(), period, customerID)
	if errors.Is(err, ErrNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err != nil {
		h.logger.Error("customer attendance total", "error", err, "customer_id", customerID)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, total)
}

// periodFromQuery reads ?period=YYYY-MM, defaulting to the current month.
func periodFromQuery(w http.ResponseWriter, r *http.Request) (finance.Period, bool) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return finance.PeriodOf(time.Now()), true
	}
	period, err := finance.ParsePeriod(raw)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return finance.Period{}, false
	}
	return period, true
}
