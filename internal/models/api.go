package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// RegisterRequest defines the expected body for the register endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// --- Response Structs ---

// UserResponse defines the user information returned by the API.
// Avoid returning sensitive info like PasswordHash.
type UserResponse struct {
	ID       uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"user_id"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	Message     string       `json:"message"`
	AccessToken string       `json:"token"`
	User        UserResponse `json:"user"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Document DTOs ---

// CreateDocumentRequest defines the body for adding a knowledge-base document.
type CreateDocumentRequest struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	SourceURL *string `json:"source_url,omitempty"`
	Author    *string `json:"author,omitempty"`
	Category  *string `json:"category,omitempty"`
}

// UpdateDocumentRequest is the closed set of updatable document fields.
// Only fields present in the request are updated; the handler decodes with
// DisallowUnknownFields so anything outside this set is rejected.
type UpdateDocumentRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	SourceURL *string `json:"source_url"`
	Author    *string `json:"author"`
	Category  *string `json:"category"`
	IsActive  *bool   `json:"is_active"`
}

// CreateDocumentResponse reports the new document id and how many chunks
// were extracted from its content.
type CreateDocumentResponse struct {
	Message    string    `json:"message"`
	DocumentID uuid.UUID `json:"document_id"`
	ChunkCount int       `json:"chunk_count"`
}

// DocumentResponse defines the data returned for a document.
type DocumentResponse struct {
	ID        uuid.UUID `json:"document_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	SourceURL *string   `json:"source_url,omitempty"`
	Author    *string   `json:"author,omitempty"`
	Category  *string   `json:"category,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ChunkResponse defines the data returned for a document chunk.
type ChunkResponse struct {
	ID         uuid.UUID `json:"chunk_id"`
	DocumentID uuid.UUID `json:"document_id"`
	Text       string    `json:"chunk_text"`
	Index      int       `json:"chunk_index"`
}

// DocumentDetailResponse is a document together with its ordered chunks.
type DocumentDetailResponse struct {
	Document DocumentResponse `json:"document"`
	Chunks   []ChunkResponse  `json:"chunks"`
}

// ListDocumentsResponse defines the response for listing documents.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// --- Chat DTOs ---

// ChatRequest defines the body for the chat completion endpoint.
// ConversationID is optional; a new conversation is created when absent.
type ChatRequest struct {
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	Message        string     `json:"message"`
}

// ChatResponse defines the chat completion result.
type ChatResponse struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	MessageID      uuid.UUID `json:"message_id"`
	Response       string    `json:"response"`
	Sources        []string  `json:"sources"`
}

// ConversationResponse defines the data returned for a conversation.
type ConversationResponse struct {
	ID        uuid.UUID `json:"conversation_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageResponse defines the data returned for a message.
type MessageResponse struct {
	ID               uuid.UUID  `json:"message_id"`
	ConversationID   uuid.UUID  `json:"conversation_id"`
	UserID           *uuid.UUID `json:"user_id,omitempty"`
	Content          string     `json:"content"`
	IsFromUser       bool       `json:"is_from_user"`
	ReferencedChunks []string   `json:"referenced_chunks,omitempty"`
	Timestamp        time.Time  `json:"timestamp"`
}

// ConversationDetailResponse is a conversation with its ordered history.
type ConversationDetailResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	Messages     []MessageResponse    `json:"messages"`
}

// ListConversationsResponse defines the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
}

// SubmitFeedbackRequest defines the body for rating a chat message.
type SubmitFeedbackRequest struct {
	MessageID uuid.UUID `json:"message_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
}

// SubmitFeedbackResponse reports the stored feedback id.
type SubmitFeedbackResponse struct {
	Message    string    `json:"message"`
	FeedbackID uuid.UUID `json:"feedback_id"`
}

// --- Weather DTOs ---

// CreateWeatherRequest defines the body for adding a weather record.
type CreateWeatherRequest struct {
	Location      string    `json:"location"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection string    `json:"wind_direction"`
	Description   string    `json:"description"`
	ForecastDate  time.Time `json:"forecast_date"`
}

// CreateWeatherResponse reports the stored record id.
type CreateWeatherResponse struct {
	Message   string    `json:"message"`
	WeatherID uuid.UUID `json:"weather_id"`
}

// WeatherResponse defines the data returned for one weather record.
type WeatherResponse struct {
	ID            uuid.UUID `json:"weather_id"`
	Location      string    `json:"location"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	WindSpeed     float64   `json:"wind_speed"`
	WindDirection string    `json:"wind_direction"`
	Description   string    `json:"description"`
	ForecastDate  time.Time `json:"forecast_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListWeatherResponse defines the response for weather history queries.
type ListWeatherResponse struct {
	WeatherData []WeatherResponse `json:"weather_data"`
}

// ForecastResponse defines the response for stored forecast queries.
type ForecastResponse struct {
	Forecast []WeatherResponse `json:"forecast"`
}
