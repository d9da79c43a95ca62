package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	db  DB
	rdb *redis.Client
}

func NewServer(db DB, rdb *redis.Client) *Server {
	return &Server{
		db:  db,
		rdb: rdb,
	}
}

// Router mounts the catalog routes. The given middlewares guard the
// mutation routes; reads stay public.
func (s *Server) Router(protected ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)

	r.Get("/pages", s.handleListPages)
	r.Get("/pages/slug/{slug}", s.handleGetPageBySlug)
	r.Get("/pages/{id}", s.handleGetPage)

	r.Get("/tracks", s.handleListTracks)
	r.Get("/tracks/{id}", s.handleGetTrack)

	r.Get("/playlists", s.handleListPlaylists)
	r.Get("/playlists/{id}", s.handleGetPlaylist)

	r.Group(func(r chi.Router) {
		for _, mw := range protected {
			r.Use(mw)
		}

		r.Post("/pages", s.handleCreatePage)
		r.Put("/pages/{id}", s.handleUpdatePage)
		r.Delete("/pages/{id}", s.handleDeletePage)

		r.Post("/tracks", s.handleCreateTrack)
		r.Put("/tracks/{id}", s.handleUpdateTrack)
		r.Delete("/tracks/{id}", s.handleDeleteTrack)

		r.Post("/playlists", s.handleCreatePlaylist)
		r.Put("/playlists/{id}", s.handleUpdatePlaylist)
		r.Delete("/playlists/{id}", s.handleDeletePlaylist)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "da-pages-be",
	})
}
