package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/daorbit/da-pages-be/internal/catalog"
	"github.com/daorbit/da-pages-be/internal/media"
)

func main() {
	cfg := loadConfigFromEnv()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("db ping: %v", err)
	}

	if err := catalog.AutoMigrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opt)
		defer rdb.Close()
	}

	auth := authMiddleware(cfg.JWTSecret)

	catalogSrv := catalog.NewServer(pool, rdb)
	mediaSrv := media.NewServer(media.NewClient(cfg.MediaBaseURL, cfg.MediaAPIKey, cfg.MediaAPISecret))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.RequestTimeoutSec) * time.Second))

	r.Mount("/api", catalogSrv.Router(auth))
	r.Mount("/api/media", mediaSrv.Router(auth))

	log.Printf("da-pages-be listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("da-pages-be: %v", err)
	}
}
