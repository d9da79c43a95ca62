package catalog

import (
	"time"
)

// Page is an editable content page rendered by the frontend.
type Page struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	Groups       []string  `json:"groups"`
	EditorType   string    `json:"editorType"` // "markdown" | "wysiwyg"
	Slug         string    `json:"slug"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Track is an audio track. Playlists lists the playlist ids the track belongs
// to; the track is the owning side, each playlist keeps a derived back-reference
// in its track set.
type Track struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Listeners   string    `json:"listeners"`
	Date        string    `json:"date"`
	Thumbnail   string    `json:"thumbnail"`
	Category    string    `json:"category"`
	AudioURL    string    `json:"audioUrl"`
	Playlists   []string  `json:"playlists"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tracks      []string  `json:"tracks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DeletedItem is the minimal identity returned after a delete.
type DeletedItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

const (
	editorTypeMarkdown = "markdown"
	editorTypeWysiwyg  = "wysiwyg"

	maxTitleLen       = 200
	maxAuthorLen      = 100
	maxDescriptionLen = 500
	maxCategoryLen    = 50
	maxSlugLen        = 100
	maxGroups         = 10
)
