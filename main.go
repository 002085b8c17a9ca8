package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/medregistry/search-gateway/cache"
	"github.com/medregistry/search-gateway/config"
	"github.com/medregistry/search-gateway/handlers"
	"github.com/medregistry/search-gateway/health"
	"github.com/medregistry/search-gateway/interfaces"
	"github.com/medregistry/search-gateway/logging"
	"github.com/medregistry/search-gateway/registryclient"
	"github.com/medregistry/search-gateway/scheduler"
	"github.com/medregistry/search-gateway/search"
	"github.com/medregistry/search-gateway/server"
	"github.com/medregistry/search-gateway/validation"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Init("logs", cfg.LogRetentionWeeks, cfg.MaxLogFileSize)

	store, backend := selectCacheStore(cfg)

	client := registryclient.New(cfg.UpstreamURL, cfg.UpstreamTimeout)
	searcher := search.NewService(client, store, validation.NewSearchValidator(), cfg.CacheTTL)
	checker := health.NewChecker(searcher, backend)

	var purger interfaces.ExpiredPurger
	if mem, ok := store.(*cache.MemoryStore); ok {
		purger = mem
	}
	maint := scheduler.NewScheduler(purger, searcher)
	if err := maint.Start(); err != nil {
		logging.Error("Failed to start maintenance scheduler", "error", err)
		os.Exit(1)
	}
	defer maint.Stop()

	srv := server.New(cfg, handlers.NewHandler(searcher), checker)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown did not complete cleanly", "error", err)
	}
}

// selectCacheStore picks Redis when configured and reachable, otherwise the
// in-memory store. A misconfigured Redis degrades to memory instead of
// refusing to start; the health endpoint reports which backend is live.
func selectCacheStore(cfg *config.Config) (interfaces.CacheStore, string) {
	if cfg.RedisAddr == "" {
		logging.Info("Using in-memory result cache")
		return cache.NewMemoryStore(), "memory"
	}

	store, err := cache.NewRedisStore(cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logging.Warn("Redis unavailable, falling back to in-memory cache",
			"addr", cfg.RedisAddr, "error", err)
		return cache.NewMemoryStore(), "memory"
	}

	logging.Info("Using Redis result cache", "addr", cfg.RedisAddr)
	return store, "redis"
}
