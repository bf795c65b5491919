package billing

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
	r.Post("/generate", h.generate)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/payments", h.collect)
}

type generateRequest struct {
	Period string `json:"period" validate:"required"`
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	period, err := finance.ParsePeriod(req.Period)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	result, err := h.svc.GeneratePeriod(r.Context(), period)
	if err != nil {
		h.logger.Error("generate bills", "error", err, "period", period.String())
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period := q.Get("period")
	if period != "" {
		if _, err := finance.ParsePeriod(period); err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
	}
	customerID, _ := strconv.ParseInt(q.Get("customer_id"), 10, 64)

	bills, err := h.svc.List(r.Context(), period, BillStatus(q.Get("status")), customerID)
	if err != nil {
		h.logger.Error("list bills", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bills": bills})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	bill, payments, err := h.svc.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err != nil {
		h.logger.Error("get bill", "error", err, "bill_id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"bill":     bill,
		"payments": payments,
	})
}

type collectRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required,oneof=cash upi bank_transfer cheque"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
	PaidAt string  `json:"paid_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) collect(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	var req collectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var paidAt time.Time
	if req.PaidAt != "" {
		paidAt, err = time.ParseInLocation("2006-01-02", req.PaidAt, time.Local)
		if err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
	}

	payment, bill, err := h.svc.Collect(r.Context(), id, req.Amount, req.Method, req.Note, paidAt)
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	case errors.Is(err, ErrOverpayment):
		httpx.RespondError(w, httpx.ErrValidation)
		return
	case err != nil:
		h.logger.Error("record payment", "error", err, "bill_id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"payment": payment,
		"bill":    bill,
	})
}
