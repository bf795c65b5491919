package analytichttp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dairydesk/dairydesk/internal/analytics"
	"github.com/dairydesk/dairydesk/internal/analytics/export"
	"github.com/dairydesk/dairydesk/internal/finance"
	"github.com/dairydesk/dairydesk/internal/platform/httpx"
)

const (
	trendWindowMonths = 12
	requestTimeout    = 2 * time.Second
)

// Service is the dashboard data contract used by the handler.
type Service interface {
	Overview(ctx context.Context, period finance.Period) (finance.OverviewSummary, error)
	Reports(ctx context.Context, asOf time.Time) (finance.ReportsSummary, error)
	Trend(ctx context.Context, from, to finance.Period) ([]analytics.TrendPoint, error)
}

// Handler serves the analytics dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
	csvPool sync.Pool
	now     func() time.Time
}

func NewHandler(logger *slog.Logger, service Service) *Handler {
	h := &Handler{
		logger:  logger,
		service: service,
		now:     time.Now,
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

func (h *Handler) periodParam(r *http.Request, name string) (finance.Period, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return finance.PeriodOf(h.now()), nil
	}
	return finance.ParsePeriod(raw)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodParam(r, "period")
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var (
		overview finance.OverviewSummary
		reports  finance.ReportsSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		overview, err = h.service.Overview(gctx, period)
		return
	})
	g.Go(func() (err error) {
		reports, err = h.service.Reports(gctx, h.now())
		return
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("load dashboard", "error", err, "period", period.String())
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"period":   period.String(),
		"overview": overview,
		"reports":  reports,
	})
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodParam(r, "period")
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	summary, err := h.service.Overview(r.Context(), period)
	if err != nil {
		h.logger.Error("load overview", "error", err, "period", period.String())
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) handleReports(w http.ResponseWriter, r *http.Request) {
	asOf := h.now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		asOf = parsed
	}

	summary, err := h.service.Reports(r.Context(), asOf)
	if err != nil {
		h.logger.Error("load reports", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) trendRange(r *http.Request) (finance.Period, finance.Period, error) {
	to, err := h.periodParam(r, "to")
	if err != nil {
		return finance.Period{}, finance.Period{}, err
	}
	from := to
	for i := 1; i < trendWindowMonths; i++ {
		from = from.Previous()
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = finance.ParsePeriod(raw)
		if err != nil {
			return finance.Period{}, finance.Period{}, err
		}
	}
	if from.Start().After(to.Start()) {
		return finance.Period{}, finance.Period{}, fmt.Errorf("analytics: from after to")
	}
	return from, to, nil
}

func (h *Handler) handleTrend(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.trendRange(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	points, err := h.service.Trend(r.Context(), from, to)
	if err != nil {
		h.logger.Error("load trend", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"from":   from.String(),
		"to":     to.String(),
		"points": points,
	})
}

func (h *Handler) serveCSV(w http.ResponseWriter, filename string, fill func(*bytes.Buffer) error) {
	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer h.csvPool.Put(buf)

	if err := fill(buf); err != nil {
		h.logger.Error("render csv", "error", err, "file", filename)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleOverviewCSV(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodParam(r, "period")
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	summary, err := h.service.Overview(r.Context(), period)
	if err != nil {
		h.logger.Error("export overview", "error", err, "period", period.String())
		httpx.RespondError(w, err)
		return
	}
	h.serveCSV(w, "overview-"+period.String()+".csv", func(buf *bytes.Buffer) error {
		return export.WriteOverviewCSV(buf, summary)
	})
}

func (h *Handler) handleTrendCSV(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.trendRange(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	points, err := h.service.Trend(r.Context(), from, to)
	if err != nil {
		h.logger.Error("export trend", "error", err)
		httpx.RespondError(w, err)
		return
	}
	h.serveCSV(w, fmt.Sprintf("trend-%s-%s.csv", from.String(), to.String()), func(buf *bytes.Buffer) error {
		return export.WriteTrendCSV(buf, points)
	})
}

func (h *Handler) handleAgingCSV(w http.ResponseWriter, r *http.Request) {
	side := r.URL.Query().Get("side")
	if side != "payable" && side != "receivable" {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	summary, err := h.service.Reports(r.Context(), h.now())
	if err != nil {
		h.logger.Error("export aging", "error", err, "side", side)
		httpx.RespondError(w, err)
		return
	}
	report := summary.PayableAging
	if side == "receivable" {
		report = summary.ReceivableAging
	}
	h.serveCSV(w, "aging-"+side+".csv", func(buf *bytes.Buffer) error {
		return export.WriteAgingCSV(buf, report)
	})
}
