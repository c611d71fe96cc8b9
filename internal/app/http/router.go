package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/bitfaber/preventivo/internal/app/config"
	"github.com/bitfaber/preventivo/internal/app/http/handlers"
	"github.com/bitfaber/preventivo/internal/app/http/middleware"
	"github.com/bitfaber/preventivo/internal/obs"
)

// NewRouter wires the HTTP surface. The /v1 group is protected by the
// internal token when one is configured.
func NewRouter(cfg config.Config, log zerolog.Logger, h *handlers.Handlers) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := obs.NewHTTPMetrics(reg)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Internal-Token"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		if cfg.InternalToken != "" {
			r.Use(middleware.InternalAuth(cfg.InternalToken))
		}

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.CreateCustomer)
			r.Put("/{id}", h.UpdateCustomer)
			r.Delete("/{id}", h.DeleteCustomer)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", h.ListQuotes)
			r.Post("/", h.CreateQuote)
			r.Put("/{id}", h.UpdateQuote)
			r.Delete("/{id}", h.DeleteQuote)
			r.Get("/{id}/pdf", h.ExportQuotePDF)
		})
	})

	return r
}
