package handlers

import (
	"errors"
	"log"
	"net/http"

	"weatherchat-backend/internal/weather"
	"weatherchat-backend/pkg/httputil"
)

// ForecastHandlers proxies OpenWeatherMap endpoints, returning the upstream
// body verbatim. These routes are public.
type ForecastHandlers struct {
	client *weather.Client
}

func NewForecastHandlers(client *weather.Client) *ForecastHandlers {
	return &ForecastHandlers{
		client: client,
	}
}

// HandleDaily handles GET /v1/forecast/daily?lat=&lon=
func (h *ForecastHandlers) HandleDaily(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := latLonParams(w, r)
	if !ok {
		return
	}

	body, err := h.client.DailyForecast(r.Context(), lat, lon)
	if err != nil {
		respondUpstreamError(w, "daily forecast", err)
		return
	}
	httputil.RespondRaw(w, http.StatusOK, body)
}

// HandleHourly handles GET /v1/forecast/hourly?lat=&lon=
func (h *ForecastHandlers) HandleHourly(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := latLonParams(w, r)
	if !ok {
		return
	}

	body, err := h.client.HourlyForecast(r.Context(), lat, lon)
	if err != nil {
		respondUpstreamError(w, "hourly forecast", err)
		return
	}
	httputil.RespondRaw(w, http.StatusOK, body)
}

// HandleDetail handles GET /v1/forecast/detail?lat=&lon= — current conditions.
func (h *ForecastHandlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := latLonParams(w, r)
	if !ok {
		return
	}

	body, err := h.client.CurrentWeather(r.Context(), lat, lon)
	if err != nil {
		respondUpstreamError(w, "current weather", err)
		return
	}
	httputil.RespondRaw(w, http.StatusOK, body)
}

// HandleLocation handles GET /v1/forecast/location?name= — geocoding lookup.
func (h *ForecastHandlers) HandleLocation(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Missing required query parameter: name")
		return
	}

	body, err := h.client.GeocodeLocation(r.Context(), name)
	if err != nil {
		respondUpstreamError(w, "geocoding", err)
		return
	}
	httputil.RespondRaw(w, http.StatusOK, body)
}

func latLonParams(w http.ResponseWriter, r *http.Request) (lat, lon string, ok bool) {
	lat = r.URL.Query().Get("lat")
	lon = r.URL.Query().Get("lon")
	if lat == "" || lon == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Missing required query parameters: lat, lon")
		return "", "", false
	}
	return lat, lon, true
}

func respondUpstreamError(w http.ResponseWriter, what string, err error) {
	log.Printf("ERROR [ForecastHandlers] %s: %v", what, err)
	if errors.Is(err, weather.ErrUpstream) {
		httputil.RespondError(w, http.StatusInternalServerError, "Weather provider request failed")
		return
	}
	httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch weather data")
}
