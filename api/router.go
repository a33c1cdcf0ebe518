// Package api exposes the HTTP surface: auth, annonces, and comments.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"immofolio/services"
	"immofolio/storage"
)

type API struct {
	store     *storage.PostgresStore
	annonces  *services.AnnonceService
	jwtSecret []byte
}

func New(store *storage.PostgresStore, annonces *services.AnnonceService, jwtSecret string) *API {
	return &API{store: store, annonces: annonces, jwtSecret: []byte(jwtSecret)}
}

func (a *API) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/auth/login", a.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(a.requireAuth)

		r.Route("/api/annonces", func(r chi.Router) {
			r.Get("/", a.handleListAnnonces)
			r.Post("/", a.handleCreateAnnonce)
			r.Post("/from-url", a.handleCreateFromURL)
			r.Put("/{id}", a.handleUpdateAnnonce)
			r.Put("/{id}/dismiss", a.handleDismissAnnonce)
			r.Delete("/{id}", a.handleDeleteAnnonce)
			r.Get("/{id}/comments", a.handleListComments)
			r.Post("/{id}/comments", a.handleCreateComment)
		})

		r.Get("/api/comments/counts", a.handleCommentCounts)
		r.Delete("/api/comments/{id}", a.handleDeleteComment)

		r.Route("/api/search-prompts", func(r chi.Router) {
			r.Get("/", a.handleListPrompts)
			r.Post("/", a.handleCreatePrompt)
			r.Put("/{id}", a.handleTogglePrompt)
			r.Delete("/{id}", a.handleDeletePrompt)
		})
	})

	return r
}
