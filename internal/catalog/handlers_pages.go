package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

const pageColumns = `id, title, description, image_url, thumbnail_url, groups, editor_type, slug, content, created_at, updated_at`

func scanPage(row pgx.Row, p *Page) error {
	return row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.ImageURL,
		&p.ThumbnailURL,
		&p.Groups,
		&p.EditorType,
		&p.Slug,
		&p.Content,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, limit := parsePageLimit(r)

	conds := []string{}
	args := []any{}

	if group := strings.TrimSpace(r.URL.Query().Get("group")); group != "" {
		args = append(args, group)
		conds = append(conds, fmt.Sprintf("$%d = ANY(groups)", len(args)))
	}
	if et := strings.TrimSpace(r.URL.Query().Get("editorType")); et != "" {
		args = append(args, et)
		conds = append(conds, fmt.Sprintf("editor_type = $%d", len(args)))
	}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	where := whereClause(conds)

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM pages`+where, args...).Scan(&total); err != nil {
		log.Printf("catalog: count pages: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(
		`SELECT %s FROM pages%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		pageColumns, where, len(args)-1, len(args),
	)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("catalog: list pages: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	defer rows.Close()

	pages := []Page{}
	for rows.Next() {
		var p Page
		if err := scanPage(rows, &p); err != nil {
			log.Printf("catalog: list pages scan: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		log.Printf("catalog: list pages rows: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, listEnvelope{
		Items:      pages,
		Pagination: paginate(page, limit, total),
	})
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}

	var p Page
	err := scanPage(s.db.QueryRow(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	if err != nil {
		log.Printf("catalog: get page: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetPageBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	var p Page
	err := scanPage(s.db.QueryRow(ctx, `SELECT `+pageColumns+` FROM pages WHERE slug = $1`, slug), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	if err != nil {
		log.Printf("catalog: get page by slug: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		ImageURL     string   `json:"imageUrl"`
		ThumbnailURL string   `json:"thumbnailUrl"`
		Groups       []string `json:"groups"`
		EditorType   string   `json:"editorType"`
		Slug         string   `json:"slug"`
		Content      string   `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	body.Title = strings.TrimSpace(body.Title)
	body.Description = strings.TrimSpace(body.Description)
	body.Slug = strings.TrimSpace(body.Slug)

	fields := map[string]string{}
	if body.Title == "" || len(body.Title) > maxTitleLen {
		fields["title"] = fmt.Sprintf("title must be between 1 and %d characters", maxTitleLen)
	}
	if body.Description == "" || len(body.Description) > maxDescriptionLen {
		fields["description"] = fmt.Sprintf("description must be between 1 and %d characters", maxDescriptionLen)
	}
	if !validURL(body.ImageURL) {
		fields["imageUrl"] = "imageUrl must be a valid URL"
	}
	if !validURL(body.ThumbnailURL) {
		fields["thumbnailUrl"] = "thumbnailUrl must be a valid URL"
	}
	if len(body.Groups) > maxGroups {
		fields["groups"] = fmt.Sprintf("at most %d groups are allowed", maxGroups)
	}
	if body.EditorType == "" {
		body.EditorType = editorTypeMarkdown
	} else if !validEditorType(body.EditorType) {
		fields["editorType"] = `editorType must be "markdown" or "wysiwyg"`
	}
	if body.Content == "" {
		fields["content"] = "content is required"
	}

	// Slug is derived once at creation when not supplied.
	if body.Slug == "" {
		body.Slug = slugify(body.Title)
	}
	if body.Slug == "" || len(body.Slug) > maxSlugLen {
		fields["slug"] = fmt.Sprintf("slug must be between 1 and %d characters", maxSlugLen)
	}

	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	if body.Groups == nil {
		body.Groups = []string{}
	}

	var p Page
	err := scanPage(s.db.QueryRow(ctx, `
		INSERT INTO pages (title, description, image_url, thumbnail_url, groups, editor_type, slug, content)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+pageColumns,
		body.Title, body.Description, body.ImageURL, body.ThumbnailURL,
		body.Groups, body.EditorType, body.Slug, body.Content,
	), &p)
	if isUniqueViolation(err) {
		writeValidationError(w, map[string]string{"slug": "slug already exists"})
		return
	}
	if err != nil {
		log.Printf("catalog: create page: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, "page.created", p)

	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}

	var body struct {
		Title        *string   `json:"title"`
		Description  *string   `json:"description"`
		ImageURL     *string   `json:"imageUrl"`
		ThumbnailURL *string   `json:"thumbnailUrl"`
		Groups       *[]string `json:"groups"`
		EditorType   *string   `json:"editorType"`
		Slug         *string   `json:"slug"`
		Content      *string   `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var existing Page
	err := scanPage(s.db.QueryRow(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, id), &existing)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	if err != nil {
		log.Printf("catalog: update page fetch: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	// Only supplied fields are re-validated and merged.
	fields := map[string]string{}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" || len(title) > maxTitleLen {
			fields["title"] = fmt.Sprintf("title must be between 1 and %d characters", maxTitleLen)
		} else {
			existing.Title = title
		}
	}
	if body.Description != nil {
		desc := strings.TrimSpace(*body.Description)
		if desc == "" || len(desc) > maxDescriptionLen {
			fields["description"] = fmt.Sprintf("description must be between 1 and %d characters", maxDescriptionLen)
		} else {
			existing.Description = desc
		}
	}
	if body.ImageURL != nil {
		if !validURL(*body.ImageURL) {
			fields["imageUrl"] = "imageUrl must be a valid URL"
		} else {
			existing.ImageURL = *body.ImageURL
		}
	}
	if body.ThumbnailURL != nil {
		if !validURL(*body.ThumbnailURL) {
			fields["thumbnailUrl"] = "thumbnailUrl must be a valid URL"
		} else {
			existing.ThumbnailURL = *body.ThumbnailURL
		}
	}
	if body.Groups != nil {
		if len(*body.Groups) > maxGroups {
			fields["groups"] = fmt.Sprintf("at most %d groups are allowed", maxGroups)
		} else {
			existing.Groups = *body.Groups
		}
	}
	if body.EditorType != nil {
		if !validEditorType(*body.EditorType) {
			fields["editorType"] = `editorType must be "markdown" or "wysiwyg"`
		} else {
			existing.EditorType = *body.EditorType
		}
	}
	if body.Slug != nil {
		slug := strings.TrimSpace(*body.Slug)
		if slug == "" || len(slug) > maxSlugLen {
			fields["slug"] = fmt.Sprintf("slug must be between 1 and %d characters", maxSlugLen)
		} else {
			existing.Slug = slug
		}
	}
	if body.Content != nil {
		if *body.Content == "" {
			fields["content"] = "content is required"
		} else {
			existing.Content = *body.Content
		}
	}
	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	err = scanPage(s.db.QueryRow(ctx, `
		UPDATE pages
		SET title = $2,
			description = $3,
			image_url = $4,
			thumbnail_url = $5,
			groups = $6,
			editor_type = $7,
			slug = $8,
			content = $9,
			updated_at = now()
		WHERE id = $1
		RETURNING `+pageColumns,
		id, existing.Title, existing.Description, existing.ImageURL, existing.ThumbnailURL,
		existing.Groups, existing.EditorType, existing.Slug, existing.Content,
	), &existing)
	if isUniqueViolation(err) {
		writeValidationError(w, map[string]string{"slug": "slug already exists"})
		return
	}
	if err != nil {
		log.Printf("catalog: update page: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, "page.updated", existing)

	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}

	var deleted DeletedItem
	err := s.db.QueryRow(ctx, `
		DELETE FROM pages WHERE id = $1
		RETURNING id, title
	`, id).Scan(&deleted.ID, &deleted.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	if err != nil {
		log.Printf("catalog: delete page: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishEvent(ctx, "page.deleted", deleted)

	writeJSON(w, http.StatusOK, deleted)
}
