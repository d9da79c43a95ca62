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

const trackColumns = `id, title, author, description, duration, listeners, date, thumbnail, category, audio_url, playlist_ids, created_at, updated_at`

func scanTrack(row pgx.Row, t *Track) error {
	return row.Scan(
		&t.ID,
		&t.Title,
		&t.Author,
		&t.Description,
		&t.Duration,
		&t.Listeners,
		&t.Date,
		&t.Thumbnail,
		&t.Category,
		&t.AudioURL,
		&t.Playlists,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit := parsePageLimit(r)

	conds := []string{}
	args := []any{}

	if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
		args = append(args, category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if author := strings.TrimSpace(r.URL.Query().Get("author")); author != "" {
		args = append(args, author)
		conds = append(conds, fmt.Sprintf("author = $%d", len(args)))
	}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR author ILIKE $%d OR category ILIKE $%d)", n, n, n, n))
	}

	where := whereClause(conds)

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM audio_tracks`+where, args...).Scan(&total); err != nil {
		log.Printf("catalog: count tracks: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(
		`SELECT %s FROM audio_tracks%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		trackColumns, where, len(args)-1, len(args),
	)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("catalog: list tracks: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer rows.Close()

	tracks := []Track{}
	for rows.Next() {
		var t Track
		if err := scanTrack(rows, &t); err != nil {
			log.Printf("catalog: list tracks scan: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		log.Printf("catalog: list tracks rows: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope{
		Items:      tracks,
		Pagination: paginate(page, limit, total),
	})
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}

	var t Track
	err := scanTrack(s.db.QueryRow(ctx, `SELECT `+trackColumns+` FROM audio_tracks WHERE id = $1`, id), &t)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}
	if err != nil {
		log.Printf("catalog: get track: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

type trackBody struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Listeners   string   `json:"listeners"`
	Date        string   `json:"date"`
	Thumbnail   string   `json:"thumbnail"`
	Category    string   `json:"category"`
	AudioURL    string   `json:"audioUrl"`
	Playlists   []string `json:"playlists"`
}

func validateTrackFields(title, author, description, category string) map[string]string {
	fields := map[string]string{}
	if title == "" || len(title) > maxTitleLen {
		fields["title"] = fmt.Sprintf("title must be between 1 and %d characters", maxTitleLen)
	}
	if len(author) > maxAuthorLen {
		fields["author"] = fmt.Sprintf("author must be at most %d characters", maxAuthorLen)
	}
	if len(description) > maxDescriptionLen {
		fields["description"] = fmt.Sprintf("description must be at most %d characters", maxDescriptionLen)
	}
	if len(category) > maxCategoryLen {
		fields["category"] = fmt.Sprintf("category must be at most %d characters", maxCategoryLen)
	}
	return fields
}

func (s *Server) handleCreateTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body trackBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Title = strings.TrimSpace(body.Title)
	body.Author = strings.TrimSpace(body.Author)
	body.Description = strings.TrimSpace(body.Description)
	body.Category = strings.TrimSpace(body.Category)
	if body.Listeners == "" {
		body.Listeners = "0"
	}

	fields := validateTrackFields(body.Title, body.Author, body.Description, body.Category)

	// Malformed playlist ids reject the request before the track is written;
	// ids that simply don't resolve are handled best-effort after it.
	playlists, bad := normalizeIDSet(body.Playlists)
	if bad != "" {
		fields["playlists"] = fmt.Sprintf("invalid playlist id %q", bad)
	}
	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	var t Track
	err := scanTrack(s.db.QueryRow(ctx, `
		INSERT INTO audio_tracks (title, author, description, duration, listeners, date, thumbnail, category, audio_url, playlist_ids)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING `+trackColumns,
		body.Title, body.Author, body.Description, body.Duration, body.Listeners,
		body.Date, body.Thumbnail, body.Category, body.AudioURL, playlists,
	), &t)
	if err != nil {
		log.Printf("catalog: create track: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	for _, playlistID := range playlists {
		s.linkTrack(ctx, playlistID, t.ID)
	}

	s.publishEvent(ctx, "track.created", t)

	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}

	var body struct {
		Title       *string   `json:"title"`
		Author      *string   `json:"author"`
		Description *string   `json:"description"`
		Duration    *string   `json:"duration"`
		Listeners   *string   `json:"listeners"`
		Date        *string   `json:"date"`
		Thumbnail   *string   `json:"thumbnail"`
		Category    *string   `json:"category"`
		AudioURL    *string   `json:"audioUrl"`
		Playlists   *[]string `json:"playlists"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var existing Track
	err := scanTrack(s.db.QueryRow(ctx, `SELECT `+trackColumns+` FROM audio_tracks WHERE id = $1`, id), &existing)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}
	if err != nil {
		log.Printf("catalog: update track fetch: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	fields := map[string]string{}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" || len(title) > maxTitleLen {
			fields["title"] = fmt.Sprintf("title must be between 1 and %d characters", maxTitleLen)
		} else {
			existing.Title = title
		}
	}
	if body.Author != nil {
		author := strings.TrimSpace(*body.Author)
		if len(author) > maxAuthorLen {
			fields["author"] = fmt.Sprintf("author must be at most %d characters", maxAuthorLen)
		} else {
			existing.Author = author
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
	if body.Duration != nil {
		existing.Duration = *body.Duration
	}
	if body.Listeners != nil {
		existing.Listeners = *body.Listeners
	}
	if body.Date != nil {
		existing.Date = *body.Date
	}
	if body.Thumbnail != nil {
		existing.Thumbnail = *body.Thumbnail
	}
	if body.Category != nil {
		category := strings.TrimSpace(*body.Category)
		if len(category) > maxCategoryLen {
			fields["category"] = fmt.Sprintf("category must be at most %d characters", maxCategoryLen)
		} else {
			existing.Category = category
		}
	}
	if body.AudioURL != nil {
		existing.AudioURL = *body.AudioURL
	}

	// Membership diff is computed against the track's previous playlist set.
	oldPlaylists := existing.Playlists
	if body.Playlists != nil {
		playlists, bad := normalizeIDSet(*body.Playlists)
		if bad != "" {
			fields["playlists"] = fmt.Sprintf("invalid playlist id %q", bad)
		} else {
			existing.Playlists = playlists
		}
	}
	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}
	if existing.Playlists == nil {
		existing.Playlists = []string{}
	}

	err = scanTrack(s.db.QueryRow(ctx, `
		UPDATE audio_tracks
		SET title = $2,
			author = $3,
			description = $4,
			duration = $5,
			listeners = $6,
			date = $7,
			thumbnail = $8,
			category = $9,
			audio_url = $10,
			playlist_ids = $11,
			updated_at = now()
		WHERE id = $1
		RETURNING `+trackColumns,
		id, existing.Title, existing.Author, existing.Description, existing.Duration,
		existing.Listeners, existing.Date, existing.Thumbnail, existing.Category,
		existing.AudioURL, existing.Playlists,
	), &existing)
	if err != nil {
		log.Printf("catalog: update track: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	if body.Playlists != nil {
		removed, added := diffIDSets(oldPlaylists, existing.Playlists)
		for _, playlistID := range removed {
			s.unlinkTrack(ctx, playlistID, id)
		}
		for _, playlistID := range added {
			s.linkTrack(ctx, playlistID, id)
		}
	}

	s.publishEvent(ctx, "track.updated", existing)

	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}

	// Playlists that still reference the track are left as-is; their track
	// sets are not reconciled on delete.
	var deleted DeletedItem
	err := s.db.QueryRow(ctx, `
		DELETE FROM audio_tracks WHERE id = $1
		RETURNING id, title
	`, id).Scan(&deleted.ID, &deleted.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}
	if err != nil {
		log.Printf("catalog: delete track: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, "track.deleted", deleted)

	writeJSON(w, http.StatusOK, deleted)
}
