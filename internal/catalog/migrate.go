package catalog

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS pgcrypto`); err != nil {
		log.Printf("catalog: extension pgcrypto: %v", err)
	}

	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS pages (
          id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          title         TEXT NOT NULL,
          description   TEXT NOT NULL,
          image_url     TEXT NOT NULL,
          thumbnail_url TEXT NOT NULL,
          groups        TEXT[] NOT NULL DEFAULT '{}',
          editor_type   TEXT NOT NULL DEFAULT 'markdown',
          slug          TEXT NOT NULL,
          content       TEXT NOT NULL,
          created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		log.Printf("catalog: migrate pages: %v", err)
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE UNIQUE INDEX IF NOT EXISTS idx_pages_slug ON pages(slug)
    `); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS audio_tracks (
          id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          title        TEXT NOT NULL,
          author       TEXT NOT NULL DEFAULT '',
          description  TEXT NOT NULL DEFAULT '',
          duration     TEXT NOT NULL DEFAULT '',
          listeners    TEXT NOT NULL DEFAULT '0',
          date         TEXT NOT NULL DEFAULT '',
          thumbnail    TEXT NOT NULL DEFAULT '',
          category     TEXT NOT NULL DEFAULT '',
          audio_url    TEXT NOT NULL DEFAULT '',
          playlist_ids uuid[] NOT NULL DEFAULT '{}',
          created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		log.Printf("catalog: migrate audio_tracks: %v", err)
		return err
	}

	// Secondary indexes for filtered listing.
	if _, err := pool.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_audio_tracks_category ON audio_tracks(category);
      CREATE INDEX IF NOT EXISTS idx_audio_tracks_author ON audio_tracks(author);
      CREATE INDEX IF NOT EXISTS idx_audio_tracks_created_at ON audio_tracks(created_at DESC);
    `); err != nil {
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS playlists (
          id          uuid PRIMARY KEY DEFAULT gen_random_uuid(),
          name        TEXT NOT NULL,
          description TEXT NOT NULL DEFAULT '',
          track_ids   uuid[] NOT NULL DEFAULT '{}',
          created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		log.Printf("catalog: migrate playlists: %v", err)
		return err
	}

	return nil
}
