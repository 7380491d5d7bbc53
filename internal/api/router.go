package api

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"weatherchat-backend/internal/config"
	"weatherchat-backend/internal/handlers"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler     *handlers.AuthHandler
	DocumentHandler *handlers.DocumentHandler
	ChatHandler     *handlers.ChatHandlers
	WeatherHandler  *handlers.WeatherHandlers
	ForecastHandler *handlers.ForecastHandlers
	Config          *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// --- CORS Configuration ---
	// Adjust AllowedOrigins for your frontend deployment(s)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes (No JWT Required) ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/v1/auth", func(r chi.Router) {
		if deps.AuthHandler == nil {
			panic("AuthHandler dependency is nil in router setup")
		}
		r.Post("/register", deps.AuthHandler.HandleRegister)
		r.Post("/login", deps.AuthHandler.HandleLogin)
	})

	// --- Public Weather Proxy ---
	// Pass-through to the upstream provider; no token needed.
	if deps.ForecastHandler != nil {
		r.Route("/v1/forecast", func(r chi.Router) {
			r.Get("/daily", deps.ForecastHandler.HandleDaily)
			r.Get("/hourly", deps.ForecastHandler.HandleHourly)
			r.Get("/detail", deps.ForecastHandler.HandleDetail)
			r.Get("/location", deps.ForecastHandler.HandleLocation)
		})
	} else {
		log.Println("WARN: ForecastHandler dependency is nil, skipping /v1/forecast routes.")
	}

	// --- Authenticated Routes (JWT Required) ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))

		// --- Mount Document Routes ---
		// Reads are open to any authenticated user; writes are admin only.
		if deps.DocumentHandler != nil {
			r.Route("/documents", func(r chi.Router) {
				r.Get("/", deps.DocumentHandler.HandleListDocuments)
				r.Get("/{documentID}", deps.DocumentHandler.HandleGetDocument)

				r.Group(func(r chi.Router) {
					r.Use(RequireAdmin)
					r.Post("/", deps.DocumentHandler.HandleCreateDocument)
					r.Put("/{documentID}", deps.DocumentHandler.HandleUpdateDocument)
					r.Delete("/{documentID}", deps.DocumentHandler.HandleDeleteDocument)
				})
			})
		} else {
			log.Println("WARN: DocumentHandler dependency is nil, skipping /v1/documents routes.")
		}

		// --- Mount Chat Routes ---
		if deps.ChatHandler != nil {
			r.Route("/chat", func(r chi.Router) {
				r.Post("/", deps.ChatHandler.HandleChat)
				r.Get("/conversations", deps.ChatHandler.HandleListConversations)
				r.Get("/conversations/{conversationID}", deps.ChatHandler.HandleGetConversation)
				r.Post("/feedback", deps.ChatHandler.HandleSubmitFeedback)
			})
		} else {
			log.Println("WARN: ChatHandler dependency is nil, skipping /v1/chat routes.")
		}

		// --- Mount Weather Data Routes ---
		if deps.WeatherHandler != nil {
			r.Route("/weather", func(r chi.Router) {
				r.Get("/{location}", deps.WeatherHandler.HandleGetWeather)
				r.Get("/{location}/latest", deps.WeatherHandler.HandleGetLatest)
				r.Get("/{location}/forecast", deps.WeatherHandler.HandleGetForecast)

				r.Group(func(r chi.Router) {
					r.Use(RequireAdmin)
					r.Post("/", deps.WeatherHandler.HandleCreateWeather)
				})
			})
		} else {
			log.Println("WARN: WeatherHandler dependency is nil, skipping /v1/weather routes.")
		}
	})

	return r
}
