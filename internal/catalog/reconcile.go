package catalog

import (
	"context"
	"log"
)

// The playlist side of the track↔playlist relationship is derived state.
// Every step here is best-effort: the track write has already succeeded and
// is never rolled back for a failed link, so failures are logged and the
// remaining steps still run. There is no cross-row transaction and no retry.

// linkTrack adds trackID to the playlist's track set. Adding an already
// linked track has no effect. A well-formed playlist id that does not
// resolve is skipped.
func (s *Server) linkTrack(ctx context.Context, playlistID, trackID string) {
	var exists bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM playlists WHERE id = $1)
	`, playlistID).Scan(&exists); err != nil {
		log.Printf("catalog: link track %s to playlist %s: %v", trackID, playlistID, err)
		return
	}
	if !exists {
		log.Printf("catalog: link track %s: playlist %s not found, skipping", trackID, playlistID)
		return
	}

	if _, err := s.db.Exec(ctx, `
		UPDATE playlists
		SET track_ids = array_append(track_ids, $2), updated_at = now()
		WHERE id = $1 AND NOT ($2 = ANY(track_ids))
	`, playlistID, trackID); err != nil {
		log.Printf("catalog: link track %s to playlist %s: %v", trackID, playlistID, err)
	}
}

// unlinkTrack removes trackID from the playlist's track set.
func (s *Server) unlinkTrack(ctx context.Context, playlistID, trackID string) {
	if _, err := s.db.Exec(ctx, `
		UPDATE playlists
		SET track_ids = array_remove(track_ids, $2), updated_at = now()
		WHERE id = $1 AND $2 = ANY(track_ids)
	`, playlistID, trackID); err != nil {
		log.Printf("catalog: unlink track %s from playlist %s: %v", trackID, playlistID, err)
	}
}

// diffIDSets returns the ids present only in old (removed) and only in
// next (added). Ids in both sets are untouched by reconciliation.
func diffIDSets(old, next []string) (removed, added []string) {
	inOld := make(map[string]bool, len(old))
	for _, id := range old {
		inOld[id] = true
	}
	inNext := make(map[string]bool, len(next))
	for _, id := range next {
		inNext[id] = true
	}
	for _, id := range old {
		if !inNext[id] {
			removed = append(removed, id)
		}
	}
	for _, id := range next {
		if !inOld[id] {
			added = append(added, id)
		}
	}
	return removed, added
}
