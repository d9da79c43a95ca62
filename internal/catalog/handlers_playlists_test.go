package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playlistRowColumns() []string {
	return []string{"id", "name", "description", "track_ids", "created_at", "updated_at"}
}

func TestHandleCreatePlaylist(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv, mock := setupMockServer(t)
		defer mock.Close()

		now := time.Now()
		mock.ExpectQuery("INSERT INTO playlists").
			WithArgs("Morning Shows", "Daily morning shows").
			WillReturnRows(pgxmock.NewRows(playlistRowColumns()).AddRow(
				playlistA, "Morning Shows", "Daily morning shows", []string{}, now, now,
			))

		w := doJSON(t, srv, "POST", "/playlists", map[string]any{
			"name":        "Morning Shows",
			"description": "Daily morning shows",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var p Playlist
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, playlistA, p.ID)
		assert.Empty(t, p.Tracks)
	})

	t.Run("NameRequired", func(t *testing.T) {
		srv, mock := setupMockServer(t)
		defer mock.Close()

		w := doJSON(t, srv, "POST", "/playlists", map[string]any{
			"description": "no name",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "name")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NameTooLong", func(t *testing.T) {
		srv, mock := setupMockServer(t)
		defer mock.Close()

		w := doJSON(t, srv, "POST", "/playlists", map[string]any{
			"name": strings.Repeat("x", maxTitleLen+1),
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleGetPlaylist(t *testing.T) {
	srv, mock := setupMockServer(t)
	defer mock.Close()

	now := time.Now()

	t.Run("CarriesTrackSet", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM playlists WHERE id").
			WithArgs(playlistA).
			WillReturnRows(pgxmock.NewRows(playlistRowColumns()).AddRow(
				playlistA, "Morning Shows", "", []string{trackID}, now, now,
			))

		req := httptest.NewRequest("GET", "/playlists/"+playlistA, nil)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var p Playlist
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
		assert.Equal(t, []string{trackID}, p.Tracks)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM playlists WHERE id").
			WithArgs(playlistB).
			WillReturnError(pgx.ErrNoRows)

		req := httptest.NewRequest("GET", "/playlists/"+playlistB, nil)
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleUpdatePlaylist_TracksNotWritable(t *testing.T) {
	srv, mock := setupMockServer(t)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM playlists WHERE id").
		WithArgs(playlistA).
		WillReturnRows(pgxmock.NewRows(playlistRowColumns()).AddRow(
			playlistA, "Morning Shows", "", []string{trackID}, now, now,
		))
	mock.ExpectQuery("UPDATE playlists").
		WithArgs(playlistA, "Renamed", "").
		WillReturnRows(pgxmock.NewRows(playlistRowColumns()).AddRow(
			playlistA, "Renamed", "", []string{trackID}, now, now,
		))

	// The tracks field in the body is ignored; membership is owned by the
	// track side.
	w := doJSON(t, srv, "PUT", "/playlists/"+playlistA, map[string]any{
		"name":   "Renamed",
		"tracks": []string{},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var p Playlist
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Renamed", p.Name)
	assert.Equal(t, []string{trackID}, p.Tracks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleDeletePlaylist(t *testing.T) {
	srv, mock := setupMockServer(t)
	defer mock.Close()

	mock.ExpectQuery("DELETE FROM playlists").
		WithArgs(playlistA).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(playlistA, "Morning Shows"))

	req := httptest.NewRequest("DELETE", "/playlists/"+playlistA, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var deleted DeletedItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	assert.Equal(t, "Morning Shows", deleted.Title)
}
