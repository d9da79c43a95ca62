package media

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Host is the slice of the media-hosting API the proxy forwards to.
type Host interface {
	ListAssets(ctx context.Context, folder, cursor string, limit int) (*AssetList, error)
	DeleteAsset(ctx context.Context, publicID string) error
	RenameAsset(ctx context.Context, from, to string) (*Asset, error)
}

type Server struct {
	host Host
}

func NewServer(host Host) *Server {
	return &Server{host: host}
}

func (s *Server) Router(protected ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range protected {
		r.Use(mw)
	}

	r.Get("/assets", s.handleListAssets)
	r.Delete("/assets/{id}", s.handleDeleteAsset)
	r.Post("/assets/rename", s.handleRenameAsset)

	return r
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	folder := strings.TrimSpace(r.URL.Query().Get("folder"))
	cursor := r.URL.Query().Get("cursor")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	list, err := s.host.ListAssets(r.Context(), folder, cursor, limit)
	if err != nil {
		log.Printf("media: list assets: %v", err)
		writeError(w, http.StatusBadGateway, "failed to query media provider")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "id")
	if publicID == "" {
		writeError(w, http.StatusBadRequest, "missing asset id")
		return
	}

	if err := s.host.DeleteAsset(r.Context(), publicID); err != nil {
		log.Printf("media: delete asset %s: %v", publicID, err)
		writeError(w, http.StatusBadGateway, "failed to query media provider")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "deleted",
		"publicId": publicID,
	})
}

func (s *Server) handleRenameAsset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.From = strings.TrimSpace(body.From)
	body.To = strings.TrimSpace(body.To)
	if body.From == "" || body.To == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	asset, err := s.host.RenameAsset(r.Context(), body.From, body.To)
	if err != nil {
		log.Printf("media: rename asset %s: %v", body.From, err)
		writeError(w, http.StatusBadGateway, "failed to query media provider")
		return
	}

	writeJSON(w, http.StatusOK, asset)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
