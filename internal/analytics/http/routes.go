package analytichttp

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// exportRateLimit caps CSV generation per client; the exports rebuild the
// whole snapshot when the cache is cold.
const exportRateLimit = 10

// MountRoutes attaches the dashboard endpoints to the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.handleDashboard)
	r.Get("/overview", h.handleOverview)
	r.Get("/reports", h.handleReports)
	r.Get("/trend", h.handleTrend)

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(exportRateLimit, time.Minute))
		r.Get("/export/overview.csv", h.handleOverviewCSV)
		r.Get("/export/trend.csv", h.handleTrendCSV)
		r.Get("/export/aging.csv", h.handleAgingCSV)
	})
}
