package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	analytichttp "github.com/dairydesk/dairydesk/internal/analytics/http"
	"github.com/dairydesk/dairydesk/internal/attendance"
	"github.com/dairydesk/dairydesk/internal/auth"
	"github.com/dairydesk/dairydesk/internal/billing"
	"github.com/dairydesk/dairydesk/internal/customers"
	"github.com/dairydesk/dairydesk/internal/expenses"
	"github.com/dairydesk/dairydesk/internal/ledger"
	"github.com/dairydesk/dairydesk/internal/observability"
	"github.com/dairydesk/dairydesk/internal/platform/httpx"
	"github.com/dairydesk/dairydesk/internal/sales"
	"github.com/dairydesk/dairydesk/internal/shared"
	"github.com/dairydesk/dairydesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	SessionManager    *shared.SessionManager
	AuthHandler       *auth.Handler
	CustomersHandler  *customers.Handler
	AttendanceHandler *attendance.Handler
	BillingHandler    *billing.Handler
	SalesHandler      *sales.Handler
	ExpensesHandler   *expenses.Handler
	LedgerHandler     *ledger.Handler
	AnalyticsHandler  *analytichttp.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with DairyDesk defaults. Everything
// except /auth, /healthz and /metrics sits behind a login; the write-heavy
// routes additionally require the admin role.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no such route")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser)

		if params.AnalyticsHandler != nil {
			r.Route("/analytics", params.AnalyticsHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Route("/customers", params.CustomersHandler.MountRoutes)
			r.Route("/attendance", params.AttendanceHandler.MountRoutes)
			r.Route("/bills", params.BillingHandler.MountRoutes)
			r.Route("/sales", params.SalesHandler.MountRoutes)
			r.Route("/expenses", params.ExpensesHandler.MountRoutes)
			r.Route("/ledger", params.LedgerHandler.MountRoutes)
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
