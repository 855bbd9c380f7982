package dashboardhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/energydash/energydash/internal/shared"
)

// MountRoutes registers the dashboard endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Route("/dashboards/{variant}", func(r chi.Router) {
		r.Get("/", h.handleDashboard)
		r.Post("/theme/{toggle}", h.handleTheme)
		r.Post("/year", h.handleYear)
		r.Post("/tab", h.handleTab)
		r.Post("/section", h.handleSection)
		r.Post("/unmount", h.handleUnmount)
		r.Get("/charts/{chart}.png", h.handleChartPNG)
		r.Group(func(gr chi.Router) {
			gr.Use(limiter)
			gr.Get("/export.csv", h.handleCSV)
			gr.Get("/pdf", h.handlePDF)
		})
	})
	r.Get("/api/dashboards/{variant}", h.handleAPI)
}

func rateLimitKey(r *http.Request) (string, error) {
	if id, ok := shared.SessionID(r.Context()); ok {
		return "session:" + id, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
