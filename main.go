package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"mediashelf/api"
	"mediashelf/config"
	"mediashelf/handlers"
	"mediashelf/internal/database"
	"mediashelf/services/catalog"
	"mediashelf/services/favorites"
	"mediashelf/services/reviews"
	"mediashelf/services/users"
	"mediashelf/utils/keygen"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	// Optional .env for local development; real deployments set env directly.
	_ = godotenv.Load()

	fmt.Println("MediaShelf backend starting...")

	configPath := os.Getenv("MEDIASHELF_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("data", "settings.json")
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			multiWriter := io.MultiWriter(os.Stdout, fileWriter)
			log.SetOutput(multiWriter)
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	// Environment overrides for upstream credentials so secrets can stay
	// out of the config file.
	if v := strings.TrimSpace(os.Getenv("TMDB_ACCESS_TOKEN")); v != "" {
		settings.Catalog.TMDBAccessToken = v
	}
	if v := strings.TrimSpace(os.Getenv("GOOGLE_BOOKS_API_KEY")); v != "" {
		settings.Catalog.BooksAPIKey = v
	}
	if settings.Catalog.TMDBAccessToken == "" {
		log.Printf("warning: no TMDB access token configured; movie and series sections will fail")
	}

	// Generate and persist a token secret on first start
	if strings.TrimSpace(settings.Auth.TokenSecret) == "" {
		secret, err := keygen.TokenSecret()
		if err != nil {
			log.Fatalf("failed to generate token secret: %v", err)
		}
		settings.Auth.TokenSecret = secret
		if err := cfgManager.Save(settings); err != nil {
			log.Fatalf("failed to persist generated token secret: %v", err)
		}
		log.Printf("generated new token secret")
	}

	if err := os.MkdirAll(settings.Storage.Directory, 0o755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(settings.Storage.Directory, settings.Storage.DatabaseFile)
	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	userService, err := users.NewService(settings.Storage.Directory)
	if err != nil {
		log.Fatalf("failed to initialise users: %v", err)
	}
	tokenService := users.NewTokenService(
		settings.Auth.TokenSecret,
		"mediashelf",
		time.Duration(settings.Auth.TokenTTLHours)*time.Hour,
	)

	catalogService := catalog.NewService(
		settings.Catalog.TMDBAccessToken,
		settings.Catalog.BooksAPIKey,
		settings.Catalog.Language,
		nil,
	)
	catalogSession := catalog.NewSession(catalogService)

	reviewService := reviews.NewService(db)
	favoriteService := favorites.NewService(db)

	authHandler := handlers.NewAuthHandler(userService, tokenService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, catalogSession)
	reviewsHandler := handlers.NewReviewsHandler(reviewService)
	favoritesHandler := handlers.NewFavoritesHandler(favoriteService)
	eventsHandler := handlers.NewEventsHandler(reviewService)

	r := mux.NewRouter()
	api.Register(r, authHandler, catalogHandler, reviewsHandler, favoritesHandler, eventsHandler, tokenService)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // no write timeout; event streams stay open
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
