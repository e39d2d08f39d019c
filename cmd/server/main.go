package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"trip-itinerary-service/internal/adapters/cache"
	"trip-itinerary-service/internal/adapters/repositories"
	"trip-itinerary-service/internal/adapters/suggestions"
	"trip-itinerary-service/internal/api"
	"trip-itinerary-service/internal/config"
	"trip-itinerary-service/internal/platform/db"
	"trip-itinerary-service/internal/ports"
	"trip-itinerary-service/internal/services"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (SQL storage, caches, search API) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Connect(cfg.DBDriver, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	repo, err := repositories.NewItineraryRepository(cfg.DBDriver, conn)
	if err != nil {
		log.Fatal(err)
	}

	// Initialize schema and seed demo data on first start for local runs.
	if err := initAndSeed(conn, repo, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	editor := services.NewEditor()

	loader, closeCache, err := newSuggestionLoader(cfg, conn, editor)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	svc := services.NewItineraryService(repo, editor, loader)
	router := api.NewRouter(svc)

	log.Printf("Server listening addr=:%s driver=%s suggestions=%t", cfg.Port, cfg.DBDriver, loader != nil)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown failed: %v", err)
	}
	if loader != nil {
		loader.Stop()
		loader.Wait()
	}
}

// newSuggestionLoader wires the search provider when SUGGEST_URL is set.
// Results are cached in Redis when REDIS_URL is set, otherwise in the
// SQLite database; Postgres deployments without Redis run uncached.
func newSuggestionLoader(cfg config.Config, conn *sql.DB, editor *services.Editor) (*services.SuggestionLoader, func(), error) {
	noop := func() {}
	if cfg.SuggestURL == "" {
		return nil, noop, nil
	}

	var (
		suggestionCache ports.SuggestionCache
		closeCache      = noop
	)
	switch {
	case cfg.RedisURL != "":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("suggestions: parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("suggestions: ping redis: %w", err)
		}
		suggestionCache = cache.NewRedisSuggestionCache(client, cfg.SuggestCacheTTL)
		closeCache = func() { _ = client.Close() }
	case cfg.DBDriver == db.DriverSQLite:
		suggestionCache = cache.NewSqliteSuggestionCache(conn, cfg.SuggestCacheTTL)
	}

	provider, err := suggestions.NewHTTPProvider(cfg.SuggestURL, cfg.SuggestAPIKey, suggestionCache)
	if err != nil {
		closeCache()
		return nil, noop, fmt.Errorf("suggestions: %w", err)
	}

	return services.NewSuggestionLoader(editor, provider, cfg.SuggestDebounce), closeCache, nil
}

func initAndSeed(conn *sql.DB, repo ports.ItineraryRepository, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	// Seeding replaces stored itineraries, so only an empty database is seeded.
	existing, err := repo.ListItineraries(context.Background())
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		log.Printf("No seed file at %s (starting empty)", seedPath)
		return nil
	}

	if err := repositories.SeedFromJSON(context.Background(), repo, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
