package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	db_models "weatherchat-backend/internal/models"
)

// ErrNotFound is returned when a specific record is not found, or when an
// update/delete affects zero rows.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint
// (e.g. two concurrent registrations with the same username).
var ErrDuplicate = errors.New("duplicate record")

// CreateDocumentParams contains parameters for creating a document.
type CreateDocumentParams struct {
	ID        uuid.UUID
	Title     string
	Content   string
	SourceURL *string
	Author    *string
	Category  *string
}

// UpdateDocumentParams contains the closed set of updatable document
// fields. Nil pointers mean "leave unchanged".
type UpdateDocumentParams struct {
	ID        uuid.UUID
	Title     *string
	Content   *string
	SourceURL *string
	Author    *string
	Category  *string
	IsActive  *bool
}

// CreateChunkParams contains parameters for creating a document chunk.
type CreateChunkParams struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Text       string
	Index      int
	Embedding  []float64 // optional, stored as JSON
}

// CreateMessageParams contains parameters for creating a message. UserID is
// nil for assistant messages.
type CreateMessageParams struct {
	ID               uuid.UUID
	ConversationID   uuid.UUID
	UserID           *uuid.UUID
	Content          string
	IsFromUser       bool
	ReferencedChunks []string
}

// CreateFeedbackParams contains parameters for creating message feedback.
type CreateFeedbackParams struct {
	ID        uuid.UUID
	MessageID uuid.UUID
	Rating    int
	Comment   *string
}

// CreateWeatherParams contains parameters for creating a weather record.
type CreateWeatherParams struct {
	ID            uuid.UUID
	Location      string
	Temperature   float64
	Humidity      float64
	WindSpeed     float64
	WindDirection string
	Description   string
	ForecastDate  time.Time
}

// CreateAPILogParams contains parameters for recording an API call.
type CreateAPILogParams struct {
	ID         uuid.UUID
	Endpoint   string
	Request    []byte // JSON
	Response   []byte // JSON
	StatusCode int
	DurationMS int64
	UserID     *uuid.UUID
}

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
// Implementations never see the requesting identity; ownership checks live
// in the service layer.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, user *db_models.User) error
	GetUserByUsername(ctx context.Context, username string) (*db_models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	UpdateUserLastLogin(ctx context.Context, id uuid.UUID) error

	// Document operations
	CreateDocument(ctx context.Context, arg CreateDocumentParams) (*db_models.Document, error)
	GetDocumentByID(ctx context.Context, id uuid.UUID) (*db_models.Document, error)
	ListDocuments(ctx context.Context, limit, offset int) ([]db_models.Document, error)
	UpdateDocument(ctx context.Context, arg UpdateDocumentParams) (*db_models.Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error

	// Chunk operations
	CreateChunk(ctx context.Context, arg CreateChunkParams) (*db_models.Chunk, error)
	GetChunkByID(ctx context.Context, id uuid.UUID) (*db_models.Chunk, error)
	ListChunksByDocument(ctx context.Context, documentID uuid.UUID) ([]db_models.Chunk, error)
	UpdateChunkEmbedding(ctx context.Context, id uuid.UUID, embedding []float64) error

	// Conversation operations
	CreateConversation(ctx context.Context, conv *db_models.Conversation) error
	GetConversationByID(ctx context.Context, id uuid.UUID) (*db_models.Conversation, error)
	ListConversationsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]db_models.Conversation, error)

	// Message operations. CreateMessage also bumps the parent
	// conversation's updated_at in the same transaction.
	CreateMessage(ctx context.Context, arg CreateMessageParams) (*db_models.Message, error)
	GetMessageByID(ctx context.Context, id uuid.UUID) (*db_models.Message, error)
	ListMessagesByConversation(ctx context.Context, conversationID uuid.UUID) ([]db_models.Message, error)

	// Feedback operations
	CreateFeedback(ctx context.Context, arg CreateFeedbackParams) (*db_models.Feedback, error)
	ListFeedbackByMessage(ctx context.Context, messageID uuid.UUID) ([]db_models.Feedback, error)

	// Weather record operations
	CreateWeather(ctx context.Context, arg CreateWeatherParams) (*db_models.WeatherRecord, error)
	ListWeatherByLocation(ctx context.Context, location string) ([]db_models.WeatherRecord, error)
	GetLatestWeatherByLocation(ctx context.Context, location string) (*db_models.WeatherRecord, error)
	ListWeatherForecast(ctx context.Context, location string, days int) ([]db_models.WeatherRecord, error)

	// API call log
	CreateAPILog(ctx context.Context, arg CreateAPILogParams) error
}
