package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"weatherchat-backend/internal/api"
	"weatherchat-backend/internal/config"
	"weatherchat-backend/internal/handlers"
	"weatherchat-backend/internal/services"
	"weatherchat-backend/internal/store/postgres"
	"weatherchat-backend/internal/weather"
)

func main() {
	log.Println("Starting WeatherChat Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Database Connection Pool
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Unable to create database connection pool: %v\n", err)
	}
	defer dbpool.Close()

	// Ping DB to verify connection
	if err := dbpool.Ping(dbCtx); err != nil {
		log.Fatalf("FATAL: Unable to ping database: %v\n", err)
	}
	log.Println("Database connection pool established and pinged successfully.")

	// 3. Initialize Dependencies (Store, Services, Handlers)
	pgStore := postgres.NewPostgresStore(dbpool)
	if err := pgStore.EnsureSchema(dbCtx); err != nil {
		log.Fatalf("FATAL: Failed to ensure database schema: %v", err)
	}
	log.Println("Postgres store initialized and schema ensured.")

	weatherClient := weather.NewClient(cfg.WeatherAPIURL, cfg.WeatherGeoURL, cfg.WeatherAPIKey, cfg.WeatherTimeout)
	log.Println("Weather provider client initialized.")

	// --- Initialize Services ---
	authService := services.NewAuthService(pgStore, cfg)
	log.Println("AuthService initialized.")
	documentService := services.NewDocumentService(pgStore)
	log.Println("DocumentService initialized.")
	chatService := services.NewChatService(pgStore)
	log.Println("ChatService initialized.")
	weatherService := services.NewWeatherService(pgStore)
	log.Println("WeatherService initialized.")

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	chatHandler := handlers.NewChatHandlers(chatService)
	weatherHandler := handlers.NewWeatherHandlers(weatherService)
	forecastHandler := handlers.NewForecastHandlers(weatherClient)
	log.Println("Handlers initialized.")

	// 4. Setup Router & Inject Dependencies
	routerDeps := api.RouterDependencies{
		AuthHandler:     authHandler,
		DocumentHandler: documentHandler,
		ChatHandler:     chatHandler,
		WeatherHandler:  weatherHandler,
		ForecastHandler: forecastHandler,
		Config:          cfg,
	}
	router := api.NewRouter(routerDeps)
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Production hardening: Set timeouts to avoid Slowloris attacks
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for OS signals for graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	// Run server in a goroutine so it doesn't block
	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	// Wait for interrupt signal
	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
		log.Fatal("Forcing shutdown due to error.")
	}

	log.Println("Server shutdown complete.")
}
