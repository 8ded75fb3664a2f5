package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"dodies-rest-api/internal/cache"
	"dodies-rest-api/internal/config"
	"dodies-rest-api/internal/handler"
	"dodies-rest-api/internal/repository"
	"dodies-rest-api/internal/router"
	"dodies-rest-api/internal/service"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Println("Starting Dodie's front-of-house API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)
	if cfg.App.Debug {
		log.SetLevel(log.DebugLevel)
	}

	// Initialize the grid store based on config
	var store repository.Store
	switch cfg.Store.Type {
	case "mysql":
		mysqlStore, err := repository.NewMySQLStore(cfg.Store.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL store: %v", err)
		}
		store = mysqlStore
		log.Println("MySQL grid store initialized")
	case "memory":
		store = repository.NewMemoryStore()
		log.Println("In-memory grid store initialized (state will not survive restarts)")
	default: // sqlite
		if dir := filepath.Dir(cfg.Store.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatalf("Failed to create store directory: %v", err)
			}
		}
		sqliteStore, err := repository.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite store: %v", err)
		}
		store = sqliteStore
		log.Println("SQLite grid store initialized")
	}
	defer store.Close()

	// Provision the waitlist table. The auxiliary tables are auto-created
	// on first write; the inventory, specials and VIP tables belong to
	// external processes and are read as-is.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := service.EnsureWaitlistTable(ctx, store); err != nil {
		log.Fatalf("Failed to provision waitlist table: %v", err)
	}
	cancel()

	// Initialize the projection cache
	var projectionCache cache.Cache
	switch cfg.Cache.Type {
	case "none":
		log.Println("Projection cache disabled")
	case "redis":
		redisCache, err := cache.NewRedisCache(cache.RedisCacheConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis cache unavailable, falling back to memory: %v", err)
			projectionCache = cache.NewMemoryCache()
		} else {
			projectionCache = redisCache
			log.Println("Redis projection cache initialized")
		}
	default: // memory
		projectionCache = cache.NewMemoryCache()
		log.Println("Memory projection cache initialized")
	}

	// Resolve the restaurant timezone for daily specials
	loc, err := time.LoadLocation(cfg.Restaurant.Timezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, using UTC: %v", cfg.Restaurant.Timezone, err)
		loc = time.UTC
	}

	// Initialize services
	waitlistService := service.NewWaitlistService(store)
	recordService := service.NewRecordService(store, loc)
	inventoryService := service.NewInventoryService(store, projectionCache, cfg.Cache.TTL)
	dashboardService := service.NewDashboardService(store)

	// Initialize handlers
	healthHandler := handler.New()
	dispatcher := handler.NewDispatcher(waitlistService, recordService, inventoryService, dashboardService)

	// Create router
	r := router.New(router.Config{
		Handler:    healthHandler,
		Dispatcher: dispatcher,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if closer, ok := projectionCache.(interface{ Close() error }); ok && closer != nil {
		_ = closer.Close()
	}

	log.Println("Server stopped")
}
