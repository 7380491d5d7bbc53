package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	db_models "weatherchat-backend/internal/models"
	"weatherchat-backend/internal/store"
)

// --- Document Methods ---

// CreateDocument inserts a new document record.
func (s *PostgresStore) CreateDocument(ctx context.Context, arg store.CreateDocumentParams) (*db_models.Document, error) {
	log.Printf("[PostgresStore] CreateDocument called for title: %s (ID: %s)", arg.Title, arg.ID)
	query := `
        INSERT INTO documents (id, title, content, source_url, author, category)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, title, content, source_url, author, category, is_active, created_at`

	doc := &db_models.Document{}
	err := s.db.QueryRow(ctx, query,
		arg.ID,
		arg.Title,
		arg.Content,
		arg.SourceURL,
		arg.Author,
		arg.Category,
	).Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.SourceURL,
		&doc.Author,
		&doc.Category,
		&doc.IsActive,
		&doc.CreatedAt,
	)

	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateDocument: Failed exec/scan for title %s: %v", arg.Title, err)
		return nil, fmt.Errorf("database error creating document: %w", err)
	}

	return doc, nil
}

// GetDocumentByID retrieves a document by id regardless of its active flag.
func (s *PostgresStore) GetDocumentByID(ctx context.Context, id uuid.UUID) (*db_models.Document, error) {
	query := `
        SELECT id, title, content, source_url, author, category, is_active, created_at
        FROM documents
        WHERE id = $1`

	doc := &db_models.Document{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.SourceURL,
		&doc.Author,
		&doc.Category,
		&doc.IsActive,
		&doc.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetDocumentByID: Failed query/scan for %s: %v", id, err)
		return nil, fmt.Errorf("database error fetching document: %w", err)
	}

	return doc, nil
}

// ListDocuments retrieves active documents, newest first.
func (s *PostgresStore) ListDocuments(ctx context.Context, limit, offset int) ([]db_models.Document, error) {
	query := `
        SELECT id, title, content, source_url, author, category, is_active, created_at
        FROM documents
        WHERE is_active = TRUE
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2`

	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListDocuments: Failed query: %v", err)
		return nil, fmt.Errorf("database error listing documents: %w", err)
	}
	defer rows.Close()

	docs := []db_models.Document{}
	for rows.Next() {
		doc := db_models.Document{}
		if err := rows.Scan(
			&doc.ID,
			&doc.Title,
			&doc.Content,
			&doc.SourceURL,
			&doc.Author,
			&doc.Category,
			&doc.IsActive,
			&doc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("database error scanning document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database error after listing documents: %w", err)
	}

	return docs, nil
}

// UpdateDocument updates fields for a specific document. The query is built
// dynamically from the non-nil fields; zero matched rows map to
// store.ErrNotFound.
func (s *PostgresStore) UpdateDocument(ctx context.Context, arg store.UpdateDocumentParams) (*db_models.Document, error) {
	log.Printf("[PostgresStore] UpdateDocument called for ID: %s", arg.ID)

	setClauses := []string{}
	args := []interface{}{arg.ID}
	argCounter := 2

	if arg.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argCounter))
		args = append(args, *arg.Title)
		argCounter++
	}
	if arg.Content != nil {
		setClauses = append(setClauses, fmt.Sprintf("content = $%d", argCounter))
		args = append(args, *arg.Content)
		argCounter++
	}
	if arg.SourceURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("source_url = $%d", argCounter))
		args = append(args, *arg.SourceURL)
		argCounter++
	}
	if arg.Author != nil {
		setClauses = append(setClauses, fmt.Sprintf("author = $%d", argCounter))
		args = append(args, *arg.Author)
		argCounter++
	}
	if arg.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category = $%d", argCounter))
		args = append(args, *arg.Category)
		argCounter++
	}
	if arg.IsActive != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", argCounter))
		args = append(args, *arg.IsActive)
		argCounter++
	}

	if len(setClauses) == 0 {
		return s.GetDocumentByID(ctx, arg.ID)
	}

	query := fmt.Sprintf(`
        UPDATE documents
        SET %s
        WHERE id = $1
        RETURNING id, title, content, source_url, author, category, is_active, created_at`,
		strings.Join(setClauses, ", "),
	)

	doc := &db_models.Document{}
	err := s.db.QueryRow(ctx, query, args...).Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.SourceURL,
		&doc.Author,
		&doc.Category,
		&doc.IsActive,
		&doc.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] UpdateDocument: Failed query/scan for %s: %v", arg.ID, err)
		return nil, fmt.Errorf("database error updating document: %w", err)
	}

	return doc, nil
}

// DeleteDocument physically deletes a document row. Chunks are left in
// place; see the schema comment on chunks.document_id.
func (s *PostgresStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		log.Printf("ERROR [PostgresStore] DeleteDocument: Failed exec for %s: %v", id, err)
		return fmt.Errorf("database error deleting document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	log.Printf("[PostgresStore] DeleteDocument: Deleted document %s", id)
	return nil
}

// --- Chunk Methods ---

// CreateChunk inserts a chunk row. The embedding, when present, is stored
// as a JSON array.
func (s *PostgresStore) CreateChunk(ctx context.Context, arg store.CreateChunkParams) (*db_models.Chunk, error) {
	query := `
        INSERT INTO chunks (id, document_id, chunk_text, chunk_index, embedding)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, document_id, chunk_text, chunk_index, embedding, created_at`

	var embJSON []byte
	if arg.Embedding != nil {
		var err error
		embJSON, err = json.Marshal(arg.Embedding)
		if err != nil {
			return nil, fmt.Errorf("marshaling embedding: %w", err)
		}
	}

	chunk := &db_models.Chunk{}
	var embOut []byte
	err := s.db.QueryRow(ctx, query,
		arg.ID,
		arg.DocumentID,
		arg.Text,
		arg.Index,
		embJSON,
	).Scan(
		&chunk.ID,
		&chunk.DocumentID,
		&chunk.Text,
		&chunk.Index,
		&embOut,
		&chunk.CreatedAt,
	)

	if err != nil {
		log.Printf("ERROR [PostgresStore] CreateChunk: Failed exec/scan for document %s index %d: %v", arg.DocumentID, arg.Index, err)
		return nil, fmt.Errorf("database error creating chunk: %w", err)
	}

	if len(embOut) > 0 {
		if err := json.Unmarshal(embOut, &chunk.Embedding); err != nil {
			return nil, fmt.Errorf("unmarshaling embedding: %w", err)
		}
	}

	return chunk, nil
}

// GetChunkByID retrieves a chunk by id.
func (s *PostgresStore) GetChunkByID(ctx context.Context, id uuid.UUID) (*db_models.Chunk, error) {
	query := `
        SELECT id, document_id, chunk_text, chunk_index, embedding, created_at
        FROM chunks
        WHERE id = $1`

	chunk := &db_models.Chunk{}
	var embOut []byte
	err := s.db.QueryRow(ctx, query, id).Scan(
		&chunk.ID,
		&chunk.DocumentID,
		&chunk.Text,
		&chunk.Index,
		&embOut,
		&chunk.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Printf("ERROR [PostgresStore] GetChunkByID: Failed query/scan for %s: %v", id, err)
		return nil, fmt.Errorf("database error fetching chunk: %w", err)
	}

	if len(embOut) > 0 {
		if err := json.Unmarshal(embOut, &chunk.Embedding); err != nil {
			return nil, fmt.Errorf("unmarshaling embedding: %w", err)
		}
	}

	return chunk, nil
}

// ListChunksByDocument retrieves a document's chunks ordered by index.
func (s *PostgresStore) ListChunksByDocument(ctx context.Context, documentID uuid.UUID) ([]db_models.Chunk, error) {
	query := `
        SELECT id, document_id, chunk_text, chunk_index, embedding, created_at
        FROM chunks
        WHERE document_id = $1
        ORDER BY chunk_index`

	rows, err := s.db.Query(ctx, query, documentID)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListChunksByDocument: Failed query for %s: %v", documentID, err)
		return nil, fmt.Errorf("database error listing chunks: %w", err)
	}
	defer rows.Close()

	chunks := []db_models.Chunk{}
	for rows.Next() {
		chunk := db_models.Chunk{}
		var embOut []byte
		if err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.Text,
			&chunk.Index,
			&embOut,
			&chunk.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("database error scanning chunk: %w", err)
		}
		if len(embOut) > 0 {
			if err := json.Unmarshal(embOut, &chunk.Embedding); err != nil {
				return nil, fmt.Errorf("unmarshaling embedding: %w", err)
			}
		}
		chunks = append(chunks, chunk)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("database error after listing chunks: %w", err)
	}

	return chunks, nil
}

// UpdateChunkEmbedding replaces the stored embedding vector for a chunk.
func (s *PostgresStore) UpdateChunkEmbedding(ctx context.Context, id uuid.UUID, embedding []float64) error {
	embJSON, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("marshaling embedding: %w", err)
	}

	query := `UPDATE chunks SET embedding = $1 WHERE id = $2`

	tag, err := s.db.Exec(ctx, query, embJSON, id)
	if err != nil {
		log.Printf("ERROR [PostgresStore] UpdateChunkEmbedding: Failed exec for %s: %v", id, err)
		return fmt.Errorf("database error updating chunk embedding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
