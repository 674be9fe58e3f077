package httpx

import (
	"net/http"

	"ratecalc/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phuslu/log"
)

func NewRouter(calc domain.Calculator, defaults domain.Request, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	metrics := NewMetrics()

	// middleware (keep it sane)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	h := NewRatesHandler(calc, defaults, logger, metrics)
	r.Get("/", h.Page)
	r.Post("/calculate", h.CalculateForm)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/defaults", h.GetDefaults)
		r.Post("/rates", h.Create)
	})
	return r
}
