package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	HTTPPort        string
	TokenExpiration time.Duration
	WeatherAPIURL   string        // upstream OpenWeatherMap base URL
	WeatherGeoURL   string        // upstream geocoding base URL
	WeatherAPIKey   string        // upstream API key, never a literal constant
	WeatherTimeout  time.Duration // bound on upstream calls
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
// Secrets (JWT_SECRET, WEATHER_API_KEY) have no defaults on purpose.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Could not load .env file. Using environment variables only.", err)
		// Don't fail if .env is not present, might be in production
	}

	port := getEnv("HTTP_PORT", "8080")

	dbURL := getEnv("DATABASE_URL", "")
	if dbURL == "" {
		log.Fatal("FATAL: DATABASE_URL environment variable is not set.")
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable is not set.")
	}

	tokenExpStr := getEnv("JWT_EXPIRATION_HOURS", "24")
	tokenExpHours, err := strconv.Atoi(tokenExpStr)
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRATION_HOURS '%s', using default 24h. Error: %v", tokenExpStr, err)
		tokenExpHours = 24
	}

	weatherKey := getEnv("WEATHER_API_KEY", "")
	if weatherKey == "" {
		log.Println("Warning: WEATHER_API_KEY is not set; upstream forecast endpoints will fail.")
	}

	weatherTimeoutStr := getEnv("WEATHER_TIMEOUT_SECONDS", "10")
	weatherTimeoutSecs, err := strconv.Atoi(weatherTimeoutStr)
	if err != nil {
		log.Printf("Warning: Invalid WEATHER_TIMEOUT_SECONDS '%s', using default 10s. Error: %v", weatherTimeoutStr, err)
		weatherTimeoutSecs = 10
	}

	cfg := &Config{
		HTTPPort:        port,
		JWTSecret:       jwtSecret,
		DatabaseURL:     dbURL,
		TokenExpiration: time.Hour * time.Duration(tokenExpHours),
		WeatherAPIURL:   getEnv("WEATHER_API_URL", "https://api.openweathermap.org"),
		WeatherGeoURL:   getEnv("WEATHER_GEO_URL", "http://api.openweathermap.org"),
		WeatherAPIKey:   weatherKey,
		WeatherTimeout:  time.Second * time.Duration(weatherTimeoutSecs),
	}

	log.Printf("Loaded config: Port=%s, DB_URL=***, TokenExp=%s, WeatherAPI=%s", cfg.HTTPPort, cfg.TokenExpiration, cfg.WeatherAPIURL)

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
