package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"repuestos-ads/internal/core/port"
)

// Handler is the inbound HTTP adapter. It holds the usecase to execute
// business logic and a logger for structured logging. Routes are
// registered on a chi.Router. The admin routes are consumed by the
// marketplace's browser frontend, hence the CORS middleware.
type Handler struct {
	svc    port.AdUseCase
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured. gatherer backs
// the /metrics endpoint.
func NewHandler(svc port.AdUseCase, logger *slog.Logger, gatherer prometheus.Gatherer) *Handler {
	h := &Handler{svc: svc, logger: logger}
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(tracingMiddleware())
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ad/request", h.handleAdRequest)
		r.Get("/ad/click/{token}", h.handleAdClick)
		r.Post("/ad/conversion/{token}", h.handleAdConversion)
		r.Get("/stats/overview", h.handleStatsOverview)

		r.Route("/admin/ads", func(r chi.Router) {
			r.Post("/", h.handleCreateAd)
			r.Get("/", h.handleListAds)
			r.Get("/{id}", h.handleGetAd)
			r.Put("/{id}", h.handleUpdateAd)
			r.Delete("/{id}", h.handleDeleteAd)
			r.Post("/{id}/status", h.handleChangeStatus)
		})
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
