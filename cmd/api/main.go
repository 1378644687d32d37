package main

import (
	"context"
	"log"

	"auditcollective/internal/config"
	"auditcollective/internal/domain/collective"
	httpapi "auditcollective/internal/http"
	"auditcollective/internal/http/auth"
	"auditcollective/internal/ratelimit"
	"auditcollective/internal/repo/memory"
	"auditcollective/internal/repo/postgres"
	"auditcollective/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	var store usecase.Store
	if cfg.PostgresDSN != "" {
		pgStore, err := postgres.NewStore(cfg)
		if err != nil {
			log.Fatalf("failed to init store: %v", err)
		}
		defer pgStore.Close()
		store = pgStore
	} else {
		log.Printf("POSTGRES_DSN not set, using in-memory store")
		store = memory.NewStore()
	}

	if cfg.SeedDemoData {
		if err := usecase.SeedDemoData(context.Background(), store); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
	}

	var limiter collective.RateLimiter
	if cfg.RateLimitRequests > 0 {
		if cfg.RedisAddr != "" {
			redisLimiter, err := ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, nil)
			if err != nil {
				log.Fatalf("failed to init redis rate limiter: %v", err)
			}
			limiter = redisLimiter
		} else {
			limiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{MaxKeys: cfg.RateLimitMaxKeys})
		}
	}

	srv := httpapi.NewServerWithDeps(cfg, httpapi.ServerDeps{
		Service:       usecase.NewService(store),
		Authenticator: auth.NewHeaderAuthenticator(store.Repos().Users),
		RateLimiter:   limiter,
	})
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
