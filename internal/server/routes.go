package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storepilot/pkg/httpx/reply"
	"storepilot/pkg/logx"
	"storepilot/pkg/middlewarex"
)

// NewRouter wires the middleware stack and the API routes.
func NewRouter(s Server, masker logx.SensitiveDataMaskerInterface, logFieldMaxLen int) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.Metrics,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	s.RegisterRoutes(r)

	return r
}

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Route("/runs", func(r chi.Router) {
			r.Post("/", handler(s.postV1Run))
			r.Post("/async", handler(s.postV1RunAsync))
			r.Get("/{id}", handler(s.getV1Run))
		})
		r.Get("/stores", handler(s.getV1Stores))
		r.Get("/stores/{name}", handler(s.getV1Store))
		r.Post("/ads/predict", handler(s.postV1AdPredict))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
