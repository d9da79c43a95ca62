package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
)

const playlistColumns = `id, name, description, track_ids, created_at, updated_at`

func scanPlaylist(row pgx.Row, p *Playlist) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Tracks,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit := parsePageLimit(r)

	conds := []string{}
	args := []any{}

	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	where := whereClause(conds)

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM playlists`+where, args...).Scan(&total); err != nil {
		log.Printf("catalog: count playlists: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(
		`SELECT %s FROM playlists%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		playlistColumns, where, len(args)-1, len(args),
	)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("catalog: list playlists: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		var p Playlist
		if err := scanPlaylist(rows, &p); err != nil {
			log.Printf("catalog: list playlists scan: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		log.Printf("catalog: list playlists rows: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope{
		Items:      playlists,
		Pagination: paginate(page, limit, total),
	})
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	var p Playlist
	err := scanPlaylist(s.db.QueryRow(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("catalog: get playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// Playlist track sets are derived from the owning track side and are not
// writable here; create and update only touch metadata.
func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Description = strings.TrimSpace(body.Description)

	fields := map[string]string{}
	if body.Name == "" || len(body.Name) > maxTitleLen {
		fields["name"] = fmt.Sprintf("name must be between 1 and %d characters", maxTitleLen)
	}
	if len(body.Description) > maxDescriptionLen {
		fields["description"] = fmt.Sprintf("description must be at most %d characters", maxDescriptionLen)
	}
	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	var p Playlist
	err := scanPlaylist(s.db.QueryRow(ctx, `
		INSERT INTO playlists (name, description)
		VALUES ($1,$2)
		RETURNING `+playlistColumns,
		body.Name, body.Description,
	), &p)
	if err != nil {
		log.Printf("catalog: create playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, "playlist.created", p)

	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var existing Playlist
	err := scanPlaylist(s.db.QueryRow(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id = $1`, id), &existing)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("catalog: update playlist fetch: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	fields := map[string]string{}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" || len(name) > maxTitleLen {
			fields["name"] = fmt.Sprintf("name must be between 1 and %d characters", maxTitleLen)
		} else {
			existing.Name = name
		}
	}
	if body.Description != nil {
		desc := strings.TrimSpace(*body.Description)
		if len(desc) > maxDescriptionLen {
			fields["description"] = fmt.Sprintf("description must be at most %d characters", maxDescriptionLen)
		} else {
			existing.Description = desc
		}
	}
	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	err = scanPlaylist(s.db.QueryRow(ctx, `
		UPDATE playlists
		SET name = $2,
			description = $3,
			updated_at = now()
		WHERE id = $1
		RETURNING `+playlistColumns,
		id, existing.Name, existing.Description,
	), &existing)
	if err != nil {
		log.Printf("catalog: update playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, "playlist.updated", existing)

	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	var deleted DeletedItem
	err := s.db.QueryRow(ctx, `
		DELETE FROM playlists WHERE id = $1
		RETURNING id, name
	`, id).Scan(&deleted.ID, &deleted.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	if err != nil {
		log.Printf("catalog: delete playlist: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, "playlist.deleted", deleted)

	writeJSON(w, http.StatusOK, deleted)
}
