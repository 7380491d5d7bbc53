package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	db_models "weatherchat-backend/internal/models"
	"weatherchat-backend/internal/store"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// schema is the idempotent DDL executed at startup. Timestamps default to
// now() so inserts can omit them and RETURNING reads them back.
//
// chunks.document_id intentionally has no ON DELETE CASCADE: document
// deletion does not remove chunks (see DESIGN.md).
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'user',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    last_login TIMESTAMPTZ,
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS documents (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    source_url TEXT,
    author TEXT,
    category TEXT,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS chunks (
    id UUID PRIMARY KEY,
    document_id UUID NOT NULL REFERENCES documents (id),
    chunk_text TEXT NOT NULL,
    chunk_index INTEGER NOT NULL,
    embedding JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (document_id, chunk_index)
);

CREATE TABLE IF NOT EXISTS conversations (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users (id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
    id UUID PRIMARY KEY,
    conversation_id UUID NOT NULL REFERENCES conversations (id),
    user_id UUID REFERENCES users (id),
    content TEXT NOT NULL,
    is_from_user BOOLEAN NOT NULL,
    referenced_chunks JSONB,
    timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS feedback (
    id UUID PRIMARY KEY,
    message_id UUID NOT NULL REFERENCES messages (id),
    rating INTEGER NOT NULL,
    comment TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS weather_data (
    id UUID PRIMARY KEY,
    location TEXT NOT NULL,
    temperature DOUBLE PRECISION NOT NULL,
    humidity DOUBLE PRECISION NOT NULL,
    wind_speed DOUBLE PRECISION NOT NULL,
    wind_direction TEXT NOT NULL,
    description TEXT NOT NULL,
    forecast_date TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS api_logs (
    id UUID PRIMARY KEY,
    endpoint TEXT NOT NULL,
    request JSONB,
    response JSONB,
    status_code INTEGER NOT NULL,
    duration_ms BIGINT NOT NULL,
    user_id UUID,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks (document_id);
CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages (conversation_id);
CREATE INDEX IF NOT EXISTS idx_conversations_user_id ON conversations (user_id);
CREATE INDEX IF NOT EXISTS idx_weather_location_date ON weather_data (location, forecast_date);
`

// EnsureSchema creates all tables and indexes if they do not exist yet.
// Called once at startup before the server begins accepting requests.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- User Methods ---

// CreateUser inserts a new user record. A username collision maps to
// store.ErrDuplicate; the unique index is the arbiter for concurrent
// registrations.
func (s *PostgresStore) CreateUser(ctx context.Context, user *db_models.User) error {
	log.Printf("[PostgresStore] CreateUser called for: %s (UserID: %s)", user.Username, user.ID)
	query := `
		INSERT INTO users (id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)`

	role := user.Role
	if role == "" {
		role = db_models.RoleUser
	}

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		role,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Printf("[PostgresStore] CreateUser: Username %s already taken", user.Username)
			return store.ErrDuplicate
		}
		log.Printf("ERROR [PostgresStore] CreateUser: Failed insert for username %s: %v", user.Username, err)
		return fmt.Errorf("database error creating user: %w", err)
	}

	return nil
}

// GetUserByUsername retrieves a user by username.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*db_models.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, created_at, last_login, is_active
		FROM users
		WHERE username = $1`

	user := &db_models.User{}
	err := s.db.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.LastLogin,
		&user.IsActive,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetUserByUsername: Failed query/scan for %s: %v", username, err)
		return nil, fmt.Errorf("database error fetching user by username: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by id.
func (s *PostgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, created_at, last_login, is_active
		FROM users
		WHERE id = $1`

	user := &db_models.User{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.LastLogin,
		&user.IsActive,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetUserByID: Failed query/scan for %s: %v", id, err)
		return nil, fmt.Errorf("database error fetching user by id: %w", err)
	}

	return user, nil
}

// UpdateUserLastLogin stamps users.last_login with the current time.
func (s *PostgresStore) UpdateUserLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login = now() WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		log.Printf("ERROR [PostgresStore] UpdateUserLastLogin: Failed exec for %s: %v", id, err)
		return fmt.Errorf("database error updating last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- API Log Methods ---

// CreateAPILog records one API call. Callers treat failures as non-fatal.
func (s *PostgresStore) CreateAPILog(ctx context.Context, arg store.CreateAPILogParams) error {
	query := `
		INSERT INTO api_logs (id, endpoint, request, response, status_code, duration_ms, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.Exec(ctx, query,
		arg.ID,
		arg.Endpoint,
		arg.Request,
		arg.Response,
		arg.StatusCode,
		arg.DurationMS,
		arg.UserID,
	)
	if err != nil {
		return fmt.Errorf("database error creating api log: %w", err)
	}
	return nil
}
