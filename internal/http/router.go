package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/partylink/internal/http/instrument"
	"github.com/MrJamesThe3rd/partylink/internal/http/linking"
	"github.com/MrJamesThe3rd/partylink/internal/http/party"
)

func New(
	corsOrigins []string,
	partiesV1 *party.Handler,
	instrumentsV1 *instrument.Handler,
	linkingV1 *linking.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/parties", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json", "multipart/form-data"))
			partiesV1.Routes(r)
		})

		r.Route("/instruments", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json", "multipart/form-data"))
			instrumentsV1.Routes(r)
		})

		r.Route("/linking", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			linkingV1.Routes(r)
		})
	})

	return router
}
