package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	api_models "weatherchat-backend/internal/models"
	db_models "weatherchat-backend/internal/models"
	"weatherchat-backend/internal/store"
)

// Custom errors for weather service
var (
	ErrWeatherNotFound   = errors.New("weather data not found for this location")
	ErrWeatherValidation = errors.New("weather validation failed")
)

const defaultForecastDays = 5

// WeatherService defines the interface for stored weather record operations.
type WeatherService interface {
	Record(ctx context.Context, req api_models.CreateWeatherRequest) (*api_models.CreateWeatherResponse, error)
	History(ctx context.Context, location string, userID *uuid.UUID) ([]api_models.WeatherResponse, error)
	Latest(ctx context.Context, location string) (*api_models.WeatherResponse, error)
	Forecast(ctx context.Context, location string, days int) ([]api_models.WeatherResponse, error)
}

type weatherService struct {
	store store.Store
}

// NewWeatherService creates a new WeatherService.
func NewWeatherService(s store.Store) WeatherService {
	return &weatherService{
		store: s,
	}
}

func mapDbWeatherToResponse(rec *db_models.WeatherRecord) api_models.WeatherResponse {
	return api_models.WeatherResponse{
		ID:            rec.ID,
		Location:      rec.Location,
		Temperature:   rec.Temperature,
		Humidity:      rec.Humidity,
		WindSpeed:     rec.WindSpeed,
		WindDirection: rec.WindDirection,
		Description:   rec.Description,
		ForecastDate:  rec.ForecastDate,
		CreatedAt:     rec.CreatedAt,
	}
}

// Record stores a new weather row for a location.
func (s *weatherService) Record(ctx context.Context, req api_models.CreateWeatherRequest) (*api_models.CreateWeatherResponse, error) {
	if req.Location == "" {
		return nil, fmt.Errorf("%w: location cannot be empty", ErrWeatherValidation)
	}
	if req.ForecastDate.IsZero() {
		return nil, fmt.Errorf("%w: forecast_date cannot be empty", ErrWeatherValidation)
	}

	rec, err := s.store.CreateWeather(ctx, store.CreateWeatherParams{
		ID:            uuid.New(),
		Location:      req.Location,
		Temperature:   req.Temperature,
		Humidity:      req.Humidity,
		WindSpeed:     req.WindSpeed,
		WindDirection: req.WindDirection,
		Description:   req.Description,
		ForecastDate:  req.ForecastDate,
	})
	if err != nil {
		log.Printf("ERROR [WeatherService] Record: Store call failed for location %s: %v", req.Location, err)
		return nil, fmt.Errorf("failed to save weather record: %w", err)
	}

	return &api_models.CreateWeatherResponse{
		Message:   "Weather data added successfully",
		WeatherID: rec.ID,
	}, nil
}

// History retrieves all stored rows for a location, newest forecast first,
// and records the call in api_logs.
func (s *weatherService) History(ctx context.Context, location string, userID *uuid.UUID) ([]api_models.WeatherResponse, error) {
	start := time.Now()

	recs, err := s.store.ListWeatherByLocation(ctx, location)
	if err != nil {
		log.Printf("ERROR [WeatherService] History: Store call failed for location %s: %v", location, err)
		return nil, fmt.Errorf("failed to list weather records: %w", err)
	}

	resp := make([]api_models.WeatherResponse, len(recs))
	for i := range recs {
		resp[i] = mapDbWeatherToResponse(&recs[i])
	}

	s.logAPICall(ctx, "get_weather", map[string]string{"location": location}, resp, time.Since(start), userID)

	return resp, nil
}

// Latest retrieves the most recent row for a location.
func (s *weatherService) Latest(ctx context.Context, location string) (*api_models.WeatherResponse, error) {
	rec, err := s.store.GetLatestWeatherByLocation(ctx, location)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWeatherNotFound
		}
		log.Printf("ERROR [WeatherService] Latest: Store call failed for location %s: %v", location, err)
		return nil, fmt.Errorf("failed to fetch latest weather: %w", err)
	}

	resp := mapDbWeatherToResponse(rec)
	return &resp, nil
}

// Forecast retrieves the upcoming rows for a location, earliest first.
func (s *weatherService) Forecast(ctx context.Context, location string, days int) ([]api_models.WeatherResponse, error) {
	if days <= 0 {
		days = defaultForecastDays
	}

	recs, err := s.store.ListWeatherForecast(ctx, location, days)
	if err != nil {
		log.Printf("ERROR [WeatherService] Forecast: Store call failed for location %s: %v", location, err)
		return nil, fmt.Errorf("failed to list weather forecast: %w", err)
	}

	resp := make([]api_models.WeatherResponse, len(recs))
	for i := range recs {
		resp[i] = mapDbWeatherToResponse(&recs[i])
	}
	return resp, nil
}

func (s *weatherService) logAPICall(ctx context.Context, endpoint string, req, resp interface{}, duration time.Duration, userID *uuid.UUID) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		log.Printf("WARN [WeatherService] logAPICall: Failed to marshal request: %v", err)
		return
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		log.Printf("WARN [WeatherService] logAPICall: Failed to marshal response: %v", err)
		return
	}

	if err := s.store.CreateAPILog(ctx, store.CreateAPILogParams{
		ID:         uuid.New(),
		Endpoint:   endpoint,
		Request:    reqJSON,
		Response:   respJSON,
		StatusCode: 200,
		DurationMS: duration.Milliseconds(),
		UserID:     userID,
	}); err != nil {
		log.Printf("WARN [WeatherService] logAPICall: Failed to store api log: %v", err)
	}
}
