// ABOUTME: Main entry point for the FeedPulse API server
// ABOUTME: Wires together the store, scheduler and HTTP server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedpulse-api/api"
	"feedpulse-api/api/handlers"
	"feedpulse-api/core/feed"
	"feedpulse-api/core/images"
	"feedpulse-api/core/interfaces"
	"feedpulse-api/core/processor"
	"feedpulse-api/core/scheduler"
	"feedpulse-api/core/search"
	"feedpulse-api/infrastructure/cache/lru"
	stdhttp "feedpulse-api/infrastructure/http/standard"
	logrusadapter "feedpulse-api/infrastructure/logger/logrus"
	"feedpulse-api/infrastructure/storage/postgres"
	"feedpulse-api/pkg/config"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logrusadapter.NewLogger(cfg.Server.LogLevel)
	logger.Info("Starting FeedPulse API", map[string]interface{}{
		"port":        cfg.Server.Port,
		"tick":        cfg.Poll.Tick.String(),
		"concurrency": cfg.Poll.Concurrency,
	})

	ctx := context.Background()

	store, err := postgres.NewStore(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	imageCache, err := lru.NewLRUCache(lru.DefaultSize)
	if err != nil {
		log.Fatalf("Failed to create image cache: %v", err)
	}

	// Per-request deadline bounds how long a hung feed can occupy a
	// scheduler slot.
	httpClient := stdhttp.NewStandardHTTPClient(30 * time.Second)

	deps := interfaces.Dependencies{
		Cache:      imageCache,
		HTTPClient: httpClient,
		Logger:     logger,
		Storage:    store,
	}

	feedService := feed.NewService(deps, cfg.Poll.MaxItemsPerFeed)
	imageService := images.NewService(deps)
	processorService := processor.NewService(deps, feedService, imageService, cfg.Poll)
	searchService := search.NewService(deps)

	poller := scheduler.New(store, processorService, logger, cfg.Poll)
	poller.Start()
	defer poller.Stop()

	apiConfig := api.APIConfig{
		Logger:     logger,
		RateLimit:  100, // requests per minute per IP
		RateWindow: time.Minute,
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	feedHandler := handlers.NewFeedHandler(processorService, store)
	feedHandler.RegisterRoutes(humaAPI)

	itemHandler := handlers.NewItemHandler(searchService)
	itemHandler.RegisterRoutes(humaAPI)

	discoverHandler := handlers.NewDiscoverHandler(httpClient)
	discoverHandler.RegisterRoutes(humaAPI)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	poller.Stop()
	logger.Info("Server stopped", nil)
}
