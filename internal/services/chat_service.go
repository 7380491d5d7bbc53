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

// Custom errors for chat service
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrForbidden            = errors.New("access denied")
	ErrChatValidation       = errors.New("chat validation failed")
)

const defaultConversationListLimit = 20

// ChatService defines the interface for conversation operations. Every
// method takes the requesting user's id; ownership is enforced here, never
// in the store.
type ChatService interface {
	Chat(ctx context.Context, userID uuid.UUID, req api_models.ChatRequest) (*api_models.ChatResponse, error)
	GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*api_models.ConversationDetailResponse, error)
	ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]api_models.ConversationResponse, error)
	SubmitFeedback(ctx context.Context, userID uuid.UUID, req api_models.SubmitFeedbackRequest) (*api_models.SubmitFeedbackResponse, error)
}

type chatService struct {
	store store.Store
}

// NewChatService creates a new ChatService.
func NewChatService(s store.Store) ChatService {
	return &chatService{
		store: s,
	}
}

// retrieveRelevantChunks is a hard-coded placeholder for embedding search.
// A real implementation would embed the query and rank stored chunk
// vectors; this service intentionally does neither.
func (s *chatService) retrieveRelevantChunks(message string) []string {
	return []string{"sample-chunk-id-1"}
}

// generateResponse is a hard-coded placeholder for the LLM call.
func (s *chatService) generateResponse(message string) string {
	return fmt.Sprintf("This is a simulated response to your question: %q", message)
}

// Chat stores the user message, produces the placeholder completion, and
// stores it as the assistant message. A new conversation is created when
// the request carries none.
func (s *chatService) Chat(ctx context.Context, userID uuid.UUID, req api_models.ChatRequest) (*api_models.ChatResponse, error) {
	start := time.Now()

	if req.Message == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrChatValidation)
	}

	var conversationID uuid.UUID
	if req.ConversationID != nil {
		conv, err := s.store.GetConversationByID(ctx, *req.ConversationID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrConversationNotFound
			}
			log.Printf("ERROR [ChatService] Chat: Failed to fetch conversation %s: %v", *req.ConversationID, err)
			return nil, fmt.Errorf("failed to retrieve conversation: %w", err)
		}
		if conv.UserID != userID {
			return nil, ErrForbidden
		}
		conversationID = conv.ID
	} else {
		conv := &db_models.Conversation{
			ID:     uuid.New(),
			UserID: userID,
		}
		if err := s.store.CreateConversation(ctx, conv); err != nil {
			log.Printf("ERROR [ChatService] Chat: Failed to create conversation for user %s: %v", userID, err)
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		conversationID = conv.ID
	}

	if _, err := s.store.CreateMessage(ctx, store.CreateMessageParams{
		ID:             uuid.New(),
		ConversationID: conversationID,
		UserID:         &userID,
		Content:        req.Message,
		IsFromUser:     true,
	}); err != nil {
		log.Printf("ERROR [ChatService] Chat: Failed to store user message in %s: %v", conversationID, err)
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	sources := s.retrieveRelevantChunks(req.Message)
	response := s.generateResponse(req.Message)

	assistantMsg, err := s.store.CreateMessage(ctx, store.CreateMessageParams{
		ID:               uuid.New(),
		ConversationID:   conversationID,
		UserID:           nil, // assistant message
		Content:          response,
		IsFromUser:       false,
		ReferencedChunks: sources,
	})
	if err != nil {
		log.Printf("ERROR [ChatService] Chat: Failed to store assistant message in %s: %v", conversationID, err)
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	resp := &api_models.ChatResponse{
		ConversationID: conversationID,
		MessageID:      assistantMsg.ID,
		Response:       response,
		Sources:        sources,
	}

	s.logAPICall(ctx, "chat_completion", req, resp, time.Since(start), &userID)

	return resp, nil
}

// GetConversation retrieves a conversation and its history. A conversation
// owned by someone else yields ErrForbidden, not ErrConversationNotFound.
func (s *chatService) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*api_models.ConversationDetailResponse, error) {
	conv, err := s.store.GetConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		log.Printf("ERROR [ChatService] GetConversation: Store call failed for %s: %v", conversationID, err)
		return nil, fmt.Errorf("failed to retrieve conversation: %w", err)
	}

	if conv.UserID != userID {
		return nil, ErrForbidden
	}

	messages, err := s.store.ListMessagesByConversation(ctx, conversationID)
	if err != nil {
		log.Printf("ERROR [ChatService] GetConversation: Failed to list messages for %s: %v", conversationID, err)
		return nil, fmt.Errorf("failed to retrieve messages: %w", err)
	}

	resp := &api_models.ConversationDetailResponse{
		Conversation: api_models.ConversationResponse{
			ID:        conv.ID,
			UserID:    conv.UserID,
			CreatedAt: conv.CreatedAt,
			UpdatedAt: conv.UpdatedAt,
		},
		Messages: make([]api_models.MessageResponse, len(messages)),
	}
	for i, msg := range messages {
		resp.Messages[i] = api_models.MessageResponse{
			ID:               msg.ID,
			ConversationID:   msg.ConversationID,
			UserID:           msg.UserID,
			Content:          msg.Content,
			IsFromUser:       msg.IsFromUser,
			ReferencedChunks: msg.ReferencedChunks,
			Timestamp:        msg.Timestamp,
		}
	}
	return resp, nil
}

// ListConversations retrieves the requesting user's conversations.
func (s *chatService) ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]api_models.ConversationResponse, error) {
	if limit <= 0 {
		limit = defaultConversationListLimit
	}
	if offset < 0 {
		offset = 0
	}

	convs, err := s.store.ListConversationsByUser(ctx, userID, limit, offset)
	if err != nil {
		log.Printf("ERROR [ChatService] ListConversations: Store call failed for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	resp := make([]api_models.ConversationResponse, len(convs))
	for i, conv := range convs {
		resp[i] = api_models.ConversationResponse{
			ID:        conv.ID,
			UserID:    conv.UserID,
			CreatedAt: conv.CreatedAt,
			UpdatedAt: conv.UpdatedAt,
		}
	}
	return resp, nil
}

// SubmitFeedback stores a rating for a message after verifying the message
// belongs to a conversation owned by the requesting user. The rating is an
// opaque integer; no range is enforced.
func (s *chatService) SubmitFeedback(ctx context.Context, userID uuid.UUID, req api_models.SubmitFeedbackRequest) (*api_models.SubmitFeedbackResponse, error) {
	if req.MessageID == uuid.Nil {
		return nil, fmt.Errorf("%w: message_id cannot be empty", ErrChatValidation)
	}

	msg, err := s.store.GetMessageByID(ctx, req.MessageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		log.Printf("ERROR [ChatService] SubmitFeedback: Failed to fetch message %s: %v", req.MessageID, err)
		return nil, fmt.Errorf("failed to retrieve message: %w", err)
	}

	conv, err := s.store.GetConversationByID(ctx, msg.ConversationID)
	if err != nil {
		log.Printf("ERROR [ChatService] SubmitFeedback: Failed to fetch conversation %s: %v", msg.ConversationID, err)
		return nil, fmt.Errorf("failed to retrieve conversation: %w", err)
	}
	if conv.UserID != userID {
		return nil, ErrForbidden
	}

	fb, err := s.store.CreateFeedback(ctx, store.CreateFeedbackParams{
		ID:        uuid.New(),
		MessageID: req.MessageID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		log.Printf("ERROR [ChatService] SubmitFeedback: Store call failed for message %s: %v", req.MessageID, err)
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	return &api_models.SubmitFeedbackResponse{
		Message:    "Feedback submitted successfully",
		FeedbackID: fb.ID,
	}, nil
}

// logAPICall records the call in api_logs. Failures are logged and
// swallowed; logging must never fail a request.
func (s *chatService) logAPICall(ctx context.Context, endpoint string, req, resp interface{}, duration time.Duration, userID *uuid.UUID) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		log.Printf("WARN [ChatService] logAPICall: Failed to marshal request: %v", err)
		return
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		log.Printf("WARN [ChatService] logAPICall: Failed to marshal response: %v", err)
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
		log.Printf("WARN [ChatService] logAPICall: Failed to store api log: %v", err)
	}
}
