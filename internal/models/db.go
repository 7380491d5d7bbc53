package models

import (
	"time"

	"github.com/google/uuid"
)

// Role values stored on users.role and embedded in token claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user in the database.
type User struct {
	ID           uuid.UUID  `db:"id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	CreatedAt    time.Time  `db:"created_at"`
	LastLogin    *time.Time `db:"last_login"` // nil until first login
	IsActive     bool       `db:"is_active"`
}

// Document represents a knowledge-base document.
type Document struct {
	ID        uuid.UUID `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	SourceURL *string   `db:"source_url"`
	Author    *string   `db:"author"`
	Category  *string   `db:"category"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}

// Chunk is a contiguous, non-empty segment of a document's content,
// indexed for retrieval. The embedding is stored opaquely and never
// searched by this service.
type Chunk struct {
	ID         uuid.UUID `db:"id"`
	DocumentID uuid.UUID `db:"document_id"`
	Text       string    `db:"chunk_text"`
	Index      int       `db:"chunk_index"`
	Embedding  []float64 `db:"embedding"` // nullable JSON vector
	CreatedAt  time.Time `db:"created_at"`
}

// Conversation groups the messages of one chat thread.
type Conversation struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Message is a single conversation turn. UserID is nil for assistant
// messages; ReferencedChunks holds the chunk ids the response was built
// from.
type Message struct {
	ID               uuid.UUID  `db:"id"`
	ConversationID   uuid.UUID  `db:"conversation_id"`
	UserID           *uuid.UUID `db:"user_id"`
	Content          string     `db:"content"`
	IsFromUser       bool       `db:"is_from_user"`
	ReferencedChunks []string   `db:"referenced_chunks"` // nullable JSON array
	Timestamp        time.Time  `db:"timestamp"`
}

// Feedback is a user rating attached to a single message. Rating is an
// opaque integer; no range is enforced.
type Feedback struct {
	ID        uuid.UUID `db:"id"`
	MessageID uuid.UUID `db:"message_id"`
	Rating    int       `db:"rating"`
	Comment   *string   `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

// WeatherRecord is one stored observation/forecast row for a location.
type WeatherRecord struct {
	ID            uuid.UUID `db:"id"`
	Location      string    `db:"location"`
	Temperature   float64   `db:"temperature"`
	Humidity      float64   `db:"humidity"`
	WindSpeed     float64   `db:"wind_speed"`
	WindDirection string    `db:"wind_direction"`
	Description   string    `db:"description"`
	ForecastDate  time.Time `db:"forecast_date"`
	CreatedAt     time.Time `db:"created_at"`
}
