package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"weatherchat-backend/internal/models"
)

func newChatService(t *testing.T) (ChatService, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return NewChatService(ms), ms
}

func TestChatCreatesConversation(t *testing.T) {
	svc, ms := newChatService(t)
	ctx := context.Background()
	userID := uuid.New()

	resp, err := svc.Chat(ctx, userID, models.ChatRequest{Message: "Will it rain tomorrow?"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.ConversationID == uuid.Nil {
		t.Fatal("expected a conversation to be created")
	}
	if !strings.Contains(resp.Response, "Will it rain tomorrow?") {
		t.Errorf("Response = %q, want it to echo the question", resp.Response)
	}
	if len(resp.Sources) == 0 {
		t.Error("expected placeholder sources to be returned")
	}

	detail, err := svc.GetConversation(ctx, userID, resp.ConversationID)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if len(detail.Messages) != 2 {
		t.Fatalf("got %d messages, want user + assistant", len(detail.Messages))
	}
	if !detail.Messages[0].IsFromUser {
		t.Error("first message should be the user's")
	}
	if detail.Messages[1].IsFromUser {
		t.Error("second message should be the assistant's")
	}
	if detail.Messages[1].UserID != nil {
		t.Error("assistant message should carry no user id")
	}

	// Storing messages also bumps the conversation timestamp.
	if detail.Conversation.UpdatedAt.Before(detail.Messages[1].Timestamp) {
		t.Error("conversation updated_at is older than its newest message")
	}

	if len(ms.apiLogs) != 1 {
		t.Fatalf("got %d api log entries, want 1", len(ms.apiLogs))
	}
	if ms.apiLogs[0].Endpoint != "chat_completion" {
		t.Errorf("api log endpoint = %q, want %q", ms.apiLogs[0].Endpoint, "chat_completion")
	}
}

func TestChatContinuesConversation(t *testing.T) {
	svc, _ := newChatService(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Chat(ctx, userID, models.ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	second, err := svc.Chat(ctx, userID, models.ChatRequest{
		ConversationID: &first.ConversationID,
		Message:        "and again",
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if second.ConversationID != first.ConversationID {
		t.Fatalf("second turn opened conversation %s, want %s", second.ConversationID, first.ConversationID)
	}

	detail, err := svc.GetConversation(ctx, userID, first.ConversationID)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if len(detail.Messages) != 4 {
		t.Errorf("got %d messages, want 4 after two turns", len(detail.Messages))
	}
}

func TestChatEmptyMessage(t *testing.T) {
	svc, _ := newChatService(t)

	_, err := svc.Chat(context.Background(), uuid.New(), models.ChatRequest{})
	if !errors.Is(err, ErrChatValidation) {
		t.Fatalf("err = %v, want ErrChatValidation", err)
	}
}

func TestChatUnknownConversation(t *testing.T) {
	svc, _ := newChatService(t)

	missing := uuid.New()
	_, err := svc.Chat(context.Background(), uuid.New(), models.ChatRequest{
		ConversationID: &missing,
		Message:        "hi",
	})
	if !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("err = %v, want ErrConversationNotFound", err)
	}
}

func TestChatForeignConversationForbidden(t *testing.T) {
	svc, _ := newChatService(t)
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()

	resp, err := svc.Chat(ctx, owner, models.ChatRequest{Message: "mine"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	_, err = svc.Chat(ctx, intruder, models.ChatRequest{
		ConversationID: &resp.ConversationID,
		Message:        "let me in",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden (not not-found)", err)
	}

	_, err = svc.GetConversation(ctx, intruder, resp.ConversationID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("GetConversation err = %v, want ErrForbidden", err)
	}
}

func TestListConversationsOnlyOwn(t *testing.T) {
	svc, _ := newChatService(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	if _, err := svc.Chat(ctx, alice, models.ChatRequest{Message: "a"}); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if _, err := svc.Chat(ctx, bob, models.ChatRequest{Message: "b"}); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	convs, err := svc.ListConversations(ctx, alice, 0, 0)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("got %d conversations, want 1", len(convs))
	}
	if convs[0].UserID != alice {
		t.Errorf("conversation owned by %s, want %s", convs[0].UserID, alice)
	}
}

func TestSubmitFeedback(t *testing.T) {
	svc, ms := newChatService(t)
	ctx := context.Background()
	userID := uuid.New()

	resp, err := svc.Chat(ctx, userID, models.ChatRequest{Message: "rate me"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	comment := "spot on"
	fb, err := svc.SubmitFeedback(ctx, userID, models.SubmitFeedbackRequest{
		MessageID: resp.MessageID,
		Rating:    5,
		Comment:   &comment,
	})
	if err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if fb.FeedbackID == uuid.Nil {
		t.Error("expected a feedback id")
	}

	stored, err := ms.ListFeedbackByMessage(ctx, resp.MessageID)
	if err != nil {
		t.Fatalf("ListFeedbackByMessage: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("got %d feedback rows, want 1", len(stored))
	}
	if stored[0].Rating != 5 {
		t.Errorf("rating = %d, want 5", stored[0].Rating)
	}
}

func TestSubmitFeedbackOpaqueRating(t *testing.T) {
	svc, _ := newChatService(t)
	ctx := context.Background()
	userID := uuid.New()

	resp, err := svc.Chat(ctx, userID, models.ChatRequest{Message: "rate me"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	// Ratings are stored as-is; no range is enforced.
	if _, err := svc.SubmitFeedback(ctx, userID, models.SubmitFeedbackRequest{
		MessageID: resp.MessageID,
		Rating:    -42,
	}); err != nil {
		t.Fatalf("SubmitFeedback with out-of-band rating: %v", err)
	}
}

func TestSubmitFeedbackForeignMessage(t *testing.T) {
	svc, _ := newChatService(t)
	ctx := context.Background()
	owner := uuid.New()

	resp, err := svc.Chat(ctx, owner, models.ChatRequest{Message: "mine"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	_, err = svc.SubmitFeedback(ctx, uuid.New(), models.SubmitFeedbackRequest{
		MessageID: resp.MessageID,
		Rating:    1,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestSubmitFeedbackUnknownMessage(t *testing.T) {
	svc, _ := newChatService(t)

	_, err := svc.SubmitFeedback(context.Background(), uuid.New(), models.SubmitFeedbackRequest{
		MessageID: uuid.New(),
		Rating:    3,
	})
	if !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("err = %v, want ErrMessageNotFound", err)
	}
}
