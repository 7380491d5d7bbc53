package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	db_models "weatherchat-backend/internal/models"
	"weatherchat-backend/internal/store"
)

// --- Weather Record Methods ---

// CreateWeather inserts a weather record.
func (s *PostgresStore) CreateWeather(ctx context.Context, arg store.CreateWeatherParams) (*db_models.WeatherRecord, error) {
	log.Printf("[PostgresStore] CreateWeather called for location: %s (ID: %s)", arg.Location, arg.ID)
	query := `
        INSERT INTO weather_data (id, location, temperature, humidity, wind_speed, wind_direction, description, forecast_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, location, temperature, humidity, wind_speed, wind_direction, description, forecast_date, created_at`

	rec := &db_models.WeatherRecord{}
	err := s.db.QueryRow(ctx, query,
		arg.ID,
		arg.Location,
		arg.Temperature,
		arg.Humidity,
		arg.WindSpeed,
		arg.WindDirection,
		arg.Description,
		arg.ForecastDate,
	).Scan(
		&rec.ID,
		&rec.Location,
		&rec.Temperature,
		&rec.Humidity,
		&rec.WindSpeed,
		&rec.WindDirection,
		&rec.Description,
		&rec.ForecastDate,
		&rec.CreatedAt,
	)

	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateWeather: Failed exec/scan for location %s: %v", arg.Location, err)
		return nil, fmt.Errorf("database error creating weather record: %w", err)
	}

	return rec, nil
}

// ListWeatherByLocation retrieves all records for a location, newest
// forecast first.
func (s *PostgresStore) ListWeatherByLocation(ctx context.Context, location string) ([]db_models.WeatherRecord, error) {
	query := `
        SELECT id, location, temperature, humidity, wind_speed, wind_direction, description, forecast_date, created_at
        FROM weather_data
        WHERE location = $1
        ORDER BY forecast_date DESC`

	return s.queryWeather(ctx, query, location)
}

// GetLatestWeatherByLocation retrieves the most recent record for a
// location. Returns store.ErrNotFound if no data exists for it.
func (s *PostgresStore) GetLatestWeatherByLocation(ctx context.Context, location string) (*db_models.WeatherRecord, error) {
	query := `
        SELECT id, location, temperature, humidity, wind_speed, wind_direction, description, forecast_date, created_at
        FROM weather_data
        WHERE location = $1
        ORDER BY forecast_date DESC
        LIMIT 1`

	rec := &db_models.WeatherRecord{}
	err := s.db.QueryRow(ctx, query, location).Scan(
		&rec.ID,
		&rec.Location,
		&rec.Temperature,
		&rec.Humidity,
		&rec.WindSpeed,
		&rec.WindDirection,
		&rec.Description,
		&rec.ForecastDate,
		&rec.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetLatestWeatherByLocation: Failed query/scan for %s: %v", location, err)
		return nil, fmt.Errorf("database error fetching latest weather: %w", err)
	}

	return rec, nil
}

// ListWeatherForecast retrieves the upcoming records for a location,
// earliest first, capped at days rows.
func (s *PostgresStore) ListWeatherForecast(ctx context.Context, location string, days int) ([]db_models.WeatherRecord, error) {
	query := `
        SELECT id, location, temperature, humidity, wind_speed, wind_direction, description, forecast_date, created_at
        FROM weather_data
        WHERE location = $1 AND forecast_date >= CURRENT_DATE
        ORDER BY forecast_date
        LIMIT $2`

	return s.queryWeather(ctx, query, location, days)
}

func (s *PostgresStore) queryWeather(ctx context.Context, query string, args ...interface{}) ([]db_models.WeatherRecord, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("ERROR [PostgresStore] queryWeather: Failed query: %v", err)
		return nil, fmt.Errorf("database error listing weather records: %w", err)
	}
	defer rows.Close()

	recs := []db_models.WeatherRecord{}
	for rows.Next() {
		rec := db_models.WeatherRecord{}
		if err := rows.Scan(
			&rec.ID,
			&rec.Location,
			&rec.Temperature,
			&rec.Humidity,
			&rec.WindSpeed,
			&rec.WindDirection,
			&rec.Description,
			&rec.ForecastDate,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("database error scanning weather record: %w", err)
		}
		recs = append(recs, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database error after listing weather records: %w", err)
	}

	return recs, nil
}
