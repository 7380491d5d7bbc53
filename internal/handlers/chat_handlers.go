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

// ChatService defines the interface expected from the chat service.
type ChatService interface {
	Chat(ctx context.Context, userID uuid.UUID, req models.ChatRequest) (*models.ChatResponse, error)
	GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*models.ConversationDetailResponse, error)
	ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ConversationResponse, error)
	SubmitFeedback(ctx context.Context, userID uuid.UUID, req models.SubmitFeedbackRequest) (*models.SubmitFeedbackResponse, error)
}

type ChatHandlers struct {
	chatService ChatService
}

func NewChatHandlers(chatSvc ChatService) *ChatHandlers {
	return &ChatHandlers{
		chatService: chatSvc,
	}
}

// HandleChat handles POST /v1/chat — the RAG completion endpoint (retrieval
// and generation are placeholders, see the chat service).
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	resp, err := h.chatService.Chat(r.Context(), userID, req)
	if err != nil {
		log.Printf("ERROR [ChatHandlers] HandleChat for user %s: %v", userID, err)
		switch {
		case errors.Is(err, services.ErrChatValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrConversationNotFound):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrForbidden):
			httputil.RespondError(w, http.StatusForbidden, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to process chat message")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleGetConversation handles GET /v1/chat/conversations/{conversationID}.
// A conversation owned by another user yields 403, not 404.
func (h *ChatHandlers) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	convID, err := uuid.Parse(chi.URLParam(r, "conversationID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	resp, err := h.chatService.GetConversation(r.Context(), userID, convID)
	if err != nil {
		log.Printf("ERROR [ChatHandlers] HandleGetConversation for ID %s, user %s: %v", convID, userID, err)
		switch {
		case errors.Is(err, services.ErrConversationNotFound):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrForbidden):
			httputil.RespondError(w, http.StatusForbidden, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch conversation")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleListConversations handles GET /v1/chat/conversations?limit=&offset=
func (h *ChatHandlers) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	limit := parseQueryInt(r, "limit", 0)
	offset := parseQueryInt(r, "offset", 0)

	convs, err := h.chatService.ListConversations(r.Context(), userID, limit, offset)
	if err != nil {
		log.Printf("ERROR [ChatHandlers] HandleListConversations for user %s: %v", userID, err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch conversations")
		return
	}

	if convs == nil {
		convs = []models.ConversationResponse{}
	}
	httputil.RespondJSON(w, http.StatusOK, models.ListConversationsResponse{Conversations: convs})
}

// HandleSubmitFeedback handles POST /v1/chat/feedback
func (h *ChatHandlers) HandleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "User ID not found in token context")
		return
	}

	var req models.SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	resp, err := h.chatService.SubmitFeedback(r.Context(), userID, req)
	if err != nil {
		log.Printf("ERROR [ChatHandlers] HandleSubmitFeedback for user %s: %v", userID, err)
		switch {
		case errors.Is(err, services.ErrChatValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrMessageNotFound):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrForbidden):
			httputil.RespondError(w, http.StatusForbidden, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to submit feedback")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
