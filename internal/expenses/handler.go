package expenses

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
	r.Post("/", h.record)
	r.Get("/", h.list)
	r.Get("/breakdown", h.breakdown)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	expense, err := h.svc.Record(r.Context(), req)
	if err != nil {
		h.logger.Error("record expense", "error", err)
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	httpx.JSON(w, http.StatusCreated, expense)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period := finance.PeriodOf(time.Now())
	if raw := q.Get("period"); raw != "" {
		parsed, err := finance.ParsePeriod(raw)
		if err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		period = parsed
	}

	list, err := h.svc.ListByPeriod(r.Context(), period, Category(q.Get("category")))
	if err != nil {
		h.logger.Error("list expenses", "error", err, "period", period.String())
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"period":   period.String(),
		"expenses": list,
	})
}

func (h *Handler) breakdown(w http.ResponseWriter, r *http.Request) {
	period := finance.PeriodOf(time.Now())
	if raw := r.URL.Query().Get("period"); raw != "" {
		parsed, err := finance.ParsePeriod(raw)
		if err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		period = parsed
	}

	totals, err := h.svc.CategoryBreakdown(r.Context(), period)
	if err != nil {
		h.logger.Error("expense breakdown", "error", err, "period", period.String())
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"period":     period.String(),
		"categories": totals,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	expense, err := h.svc.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err != nil {
		h.logger.Error("get expense", "error", err, "expense_id", id)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, expense)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	var req UpdateExpenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	expense, err := h.svc.Update(r.Context(), id, req)
	if errors.Is(err, ErrNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err != nil {
		h.logger.Error("update expense", "error", err, "expense_id", id)
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	httpx.JSON(w, http.StatusOK, expense)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.svc.Remove(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("delete expense", "error", err, "expense_id", id)
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
