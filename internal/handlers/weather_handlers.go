package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"weatherchat-backend/internal/auth"
	"weatherchat-backend/internal/models"
	"weatherchat-backend/internal/services"
	"weatherchat-backend/pkg/httputil"
)

// WeatherService defines the interface expected from the weather service.
type WeatherService interface {
	Record(ctx context.Context, req models.CreateWeatherRequest) (*models.CreateWeatherResponse, error)
	History(ctx context.Context, location string, userID *uuid.UUID) ([]models.WeatherResponse, error)
	Latest(ctx context.Context, location string) (*models.WeatherResponse, error)
	Forecast(ctx context.Context, location string, days int) ([]models.WeatherResponse, error)
}

type WeatherHandlers struct {
	weatherService WeatherService
}

func NewWeatherHandlers(weatherSvc WeatherService) *WeatherHandlers {
	return &WeatherHandlers{
		weatherService: weatherSvc,
	}
}

// HandleGetWeather handles GET /v1/weather/{location} — all stored readings
// for a location, newest forecast date first.
func (h *WeatherHandlers) HandleGetWeather(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")

	// The requesting user is recorded in the API log when available.
	var userID *uuid.UUID
	if id, ok := auth.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	records, err := h.weatherService.History(r.Context(), location, userID)
	if err != nil {
		log.Printf("ERROR [WeatherHandlers] HandleGetWeather for %q: %v", location, err)
		if errors.Is(err, services.ErrWeatherValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch weather data")
		return
	}

	if records == nil {
		records = []models.WeatherResponse{}
	}
	httputil.RespondJSON(w, http.StatusOK, models.ListWeatherResponse{WeatherData: records})
}

// HandleGetLatest handles GET /v1/weather/{location}/latest
func (h *WeatherHandlers) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")

	record, err := h.weatherService.Latest(r.Context(), location)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrWeatherNotFound):
			httputil.RespondError(w, http.StatusNotFound, "No weather data found for location")
		case errors.Is(err, services.ErrWeatherValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("ERROR [WeatherHandlers] HandleGetLatest for %q: %v", location, err)
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch weather data")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, record)
}

// HandleGetForecast handles GET /v1/weather/{location}/forecast?days=N
func (h *WeatherHandlers) HandleGetForecast(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")
	days := parseQueryInt(r, "days", 0)

	records, err := h.weatherService.Forecast(r.Context(), location, days)
	if err != nil {
		log.Printf("ERROR [WeatherHandlers] HandleGetForecast for %q: %v", location, err)
		if errors.Is(err, services.ErrWeatherValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch forecast")
		return
	}

	if records == nil {
		records = []models.WeatherResponse{}
	}
	httputil.RespondJSON(w, http.StatusOK, models.ForecastResponse{Forecast: records})
}

// HandleCreateWeather handles POST /v1/weather — admin only (enforced by the
// router middleware).
func (h *WeatherHandlers) HandleCreateWeather(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWeatherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	resp, err := h.weatherService.Record(r.Context(), req)
	if err != nil {
		log.Printf("ERROR [WeatherHandlers] HandleCreateWeather: %v", err)
		if errors.Is(err, services.ErrWeatherValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to record weather data")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, resp)
}
