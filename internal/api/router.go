package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the API. requestTimeout bounds the whole pipeline of a
// request; zero disables it.
func NewRouter(handler *Handler, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(accessLogMiddleware(handler.logger))
	r.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}

	r.Get("/", handler.Status)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeSuccess(w, http.StatusOK, "ok") })

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/crops", handler.ListCrops)
		r.Post("/recommendations", handler.Recommend)
		r.Post("/risk-analysis", handler.RiskAnalysis)
		r.Post("/simulations", handler.Simulate)
	})

	return r
}
