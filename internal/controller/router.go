package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", c.createRoom)
			r.Get("/{room-code}", c.getRoom)
		})
		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", c.createJob)
			r.Get("/{job-id}", c.getJob)
		})
		r.Route("/ws", func(r chi.Router) {
			r.Get("/rooms/{room-code}", c.watchRoom)
		})
	})

	return r
}
