package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	db_models "weatherchat-backend/internal/models"
	"weatherchat-backend/internal/store"
)

// --- Conversation Methods ---

// CreateConversation inserts a new conversation record and reads back the
// DB-generated timestamps.
func (s *PostgresStore) CreateConversation(ctx context.Context, conv *db_models.Conversation) error {
	log.Printf("[PostgresStore] CreateConversation called for UserID: %s (ID: %s)", conv.UserID, conv.ID)
	query := `
        INSERT INTO conversations (id, user_id)
        VALUES ($1, $2)
        RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query, conv.ID, conv.UserID).Scan(&conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateConversation: Failed insert for UserID %s: %v", conv.UserID, err)
		return fmt.Errorf("database error creating conversation: %w", err)
	}

	return nil
}

// GetConversationByID retrieves a conversation by id. The caller checks
// ownership; this query is identity-blind.
func (s *PostgresStore) GetConversationByID(ctx context.Context, id uuid.UUID) (*db_models.Conversation, error) {
	query := `
        SELECT id, user_id, created_at, updated_at
        FROM conversations
        WHERE id = $1`

	conv := &db_models.Conversation{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetConversationByID: Failed query/scan for %s: %v", id, err)
		return nil, fmt.Errorf("database error fetching conversation: %w", err)
	}

	return conv, nil
}

// ListConversationsByUser retrieves a user's conversations, most recently
// updated first.
func (s *PostgresStore) ListConversationsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]db_models.Conversation, error) {
	query := `
        SELECT id, user_id, created_at, updated_at
        FROM conversations
        WHERE user_id = $1
        ORDER BY updated_at DESC
        LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListConversationsByUser: Failed query for %s: %v", userID, err)
		return nil, fmt.Errorf("database error listing conversations: %w", err)
	}
	defer rows.Close()

	convs := []db_models.Conversation{}
	for rows.Next() {
		conv := db_models.Conversation{}
		if err := rows.Scan(
			&conv.ID,
			&conv.UserID,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("database error scanning conversation: %w", err)
		}
		convs = append(convs, conv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database error after listing conversations: %w", err)
	}

	return convs, nil
}

// --- Message Methods ---

// CreateMessage inserts a message and bumps the parent conversation's
// updated_at in one transaction, so a stored message is never visible with
// a stale conversation timestamp.
func (s *PostgresStore) CreateMessage(ctx context.Context, arg store.CreateMessageParams) (*db_models.Message, error) {
	var refsJSON []byte
	if arg.ReferencedChunks != nil {
		var err error
		refsJSON, err = json.Marshal(arg.ReferencedChunks)
		if err != nil {
			return nil, fmt.Errorf("marshaling referenced chunks: %w", err)
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("database error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertMessage = `
        INSERT INTO messages (id, conversation_id, user_id, content, is_from_user, referenced_chunks)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, conversation_id, user_id, content, is_from_user, referenced_chunks, timestamp`

	msg := &db_models.Message{}
	var refsOut []byte
	err = tx.QueryRow(ctx, insertMessage,
		arg.ID,
		arg.ConversationID,
		arg.UserID,
		arg.Content,
		arg.IsFromUser,
		refsJSON,
	).Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.UserID,
		&msg.Content,
		&msg.IsFromUser,
		&refsOut,
		&msg.Timestamp,
	)
	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateMessage: Failed insert for conversation %s: %v", arg.ConversationID, err)
		return nil, fmt.Errorf("database error creating message: %w", err)
	}

	const touchConversation = `
        UPDATE conversations SET updated_at = now() WHERE id = $1`

	tag, err := tx.Exec(ctx, touchConversation, arg.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("database error touching conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, store.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("database error committing message: %w", err)
	}

	if len(refsOut) > 0 {
		if err := json.Unmarshal(refsOut, &msg.ReferencedChunks); err != nil {
			return nil, fmt.Errorf("unmarshaling referenced chunks: %w", err)
		}
	}

	return msg, nil
}

// GetMessageByID retrieves a message by id.
func (s *PostgresStore) GetMessageByID(ctx context.Context, id uuid.UUID) (*db_models.Message, error) {
	query := `
        SELECT id, conversation_id, user_id, content, is_from_user, referenced_chunks, timestamp
        FROM messages
        WHERE id = $1`

	msg := &db_models.Message{}
	var refsOut []byte
	err := s.db.QueryRow(ctx, query, id).Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.UserID,
		&msg.Content,
		&msg.IsFromUser,
		&refsOut,
		&msg.Timestamp,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetMessageByID: Failed query/scan for %s: %v", id, err)
		return nil, fmt.Errorf("database error fetching message: %w", err)
	}

	if len(refsOut) > 0 {
		if err := json.Unmarshal(refsOut, &msg.ReferencedChunks); err != nil {
			return nil, fmt.Errorf("unmarshaling referenced chunks: %w", err)
		}
	}

	return msg, nil
}

// ListMessagesByConversation retrieves a conversation's messages ordered by
// timestamp ascending; that ordering is the conversation history.
func (s *PostgresStore) ListMessagesByConversation(ctx context.Context, conversationID uuid.UUID) ([]db_models.Message, error) {
	query := `
        SELECT id, conversation_id, user_id, content, is_from_user, referenced_chunks, timestamp
        FROM messages
        WHERE conversation_id = $1
        ORDER BY timestamp`

	rows, err := s.db.Query(ctx, query, conversationID)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListMessagesByConversation: Failed query for %s: %v", conversationID, err)
		return nil, fmt.Errorf("database error listing messages: %w", err)
	}
	defer rows.Close()

	msgs := []db_models.Message{}
	for rows.Next() {
		msg := db_models.Message{}
		var refsOut []byte
		if err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.UserID,
			&msg.Content,
			&msg.IsFromUser,
			&refsOut,
			&msg.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("database error scanning message: %w", err)
		}
		if len(refsOut) > 0 {
			if err := json.Unmarshal(refsOut, &msg.ReferencedChunks); err != nil {
				return nil, fmt.Errorf("unmarshaling referenced chunks: %w", err)
			}
		}
		msgs = append(msgs, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database error after listing messages: %w", err)
	}

	return msgs, nil
}

// --- Feedback Methods ---

// CreateFeedback inserts one feedback row. No uniqueness per message is
// enforced; repeated submissions create repeated rows.
func (s *PostgresStore) CreateFeedback(ctx context.Context, arg store.CreateFeedbackParams) (*db_models.Feedback, error) {
	query := `
        INSERT INTO feedback (id, message_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, message_id, rating, comment, created_at`

	fb := &db_models.Feedback{}
	err := s.db.QueryRow(ctx, query,
		arg.ID,
		arg.MessageID,
		arg.Rating,
		arg.Comment,
	).Scan(
		&fb.ID,
		&fb.MessageID,
		&fb.Rating,
		&fb.Comment,
		&fb.CreatedAt,
	)

	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateFeedback: Failed exec/scan for message %s: %v", arg.MessageID, err)
		return nil, fmt.Errorf("database error creating feedback: %w", err)
	}

	return fb, nil
}

// ListFeedbackByMessage retrieves all feedback rows for a message.
func (s *PostgresStore) ListFeedbackByMessage(ctx context.Context, messageID uuid.UUID) ([]db_models.Feedback, error) {
	query := `
        SELECT id, message_id, rating, comment, created_at
        FROM feedback
        WHERE message_id = $1
        ORDER BY created_at`

	rows, err := s.db.Query(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("database error listing feedback: %w", err)
	}
	defer rows.Close()

	items := []db_models.Feedback{}
	for rows.Next() {
		fb := db_models.Feedback{}
		if err := rows.Scan(
			&fb.ID,
			&fb.MessageID,
			&fb.Rating,
			&fb.Comment,
			&fb.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("database error scanning feedback: %w", err)
		}
		items = append(items, fb)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database error after listing feedback: %w", err)
	}

	return items, nil
}
