package catalog

import (
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validEditorType(et string) bool {
	return et == editorTypeMarkdown || et == editorTypeWysiwyg
}

// slugify derives a URL slug from a title: lowercase, runs of
// non-alphanumerics collapse to a single '-', trimmed, capped at maxSlugLen.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	return slug
}

// normalizeIDSet trims, de-duplicates and shape-checks a set of uuid
// identifiers. The first malformed entry is returned as bad.
func normalizeIDSet(ids []string) (out []string, bad string) {
	seen := make(map[string]bool, len(ids))
	out = []string{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			return nil, id
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, ""
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
