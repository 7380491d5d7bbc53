// Package weather wraps the upstream OpenWeatherMap HTTP API. The proxy
// endpoints return its JSON bodies verbatim; nothing is transformed,
// cached, or retried here.
package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrUpstream is returned for any upstream failure (network error or
// non-2xx status). Callers map it to a generic server-error response
// without exposing upstream detail.
var ErrUpstream = errors.New("upstream weather API failure")

type Client struct {
	apiURL     string // e.g. https://api.openweathermap.org
	geoURL     string // e.g. http://api.openweathermap.org
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a weather client with a bounded request timeout. The
// API key comes from configuration, never a literal constant.
func NewClient(apiURL, geoURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiURL: apiURL,
		geoURL: geoURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// DailyForecast fetches the 7-day daily forecast for the coordinates.
func (c *Client) DailyForecast(ctx context.Context, lat, lon string) ([]byte, error) {
	q := url.Values{}
	q.Set("lat", lat)
	q.Set("lon", lon)
	q.Set("cnt", "7")
	return c.get(ctx, c.apiURL+"/data/2.5/forecast/daily", q)
}

// HourlyForecast fetches the hourly forecast for the coordinates.
func (c *Client) HourlyForecast(ctx context.Context, lat, lon string) ([]byte, error) {
	q := url.Values{}
	q.Set("lat", lat)
	q.Set("lon", lon)
	return c.get(ctx, c.apiURL+"/data/2.5/forecast/hourly", q)
}

// CurrentWeather fetches the current conditions for the coordinates.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon string) ([]byte, error) {
	q := url.Values{}
	q.Set("lat", lat)
	q.Set("lon", lon)
	return c.get(ctx, c.apiURL+"/data/2.5/weather", q)
}

// GeocodeLocation resolves a place name to coordinate candidates.
func (c *Client) GeocodeLocation(ctx context.Context, name string) ([]byte, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("limit", "3")
	return c.get(ctx, c.geoURL+"/geo/1.0/direct", q)
}

// get performs the upstream request and returns the raw body on any 2xx
// response.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building upstream request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	return body, nil
}
