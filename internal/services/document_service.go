package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	api_models "weatherchat-backend/internal/models"
	db_models "weatherchat-backend/internal/models"
	"weatherchat-backend/internal/store"
)

// Custom errors for document service
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocValidation    = errors.New("document validation failed")
)

const defaultDocumentListLimit = 100

// DocumentService defines the interface for knowledge-base document operations.
type DocumentService interface {
	CreateDocument(ctx context.Context, req api_models.CreateDocumentRequest) (*api_models.CreateDocumentResponse, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*api_models.DocumentDetailResponse, error)
	ListDocuments(ctx context.Context, limit, offset int) ([]api_models.DocumentResponse, error)
	UpdateDocument(ctx context.Context, id uuid.UUID, req api_models.UpdateDocumentRequest) (*api_models.DocumentResponse, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	ListChunks(ctx context.Context, documentID uuid.UUID) ([]api_models.ChunkResponse, error)
}

type documentService struct {
	store store.Store
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(s store.Store) DocumentService {
	return &documentService{
		store: s,
	}
}

// splitContent splits document content on blank-line boundaries, trims each
// segment, and drops empty ones. Order is preserved; an empty document
// yields zero segments.
func splitContent(content string) []string {
	segments := []string{}
	for _, seg := range strings.Split(content, "\n\n") {
		seg = strings.TrimSpace(seg)
		if len(seg) > 0 {
			segments = append(segments, seg)
		}
	}
	return segments
}

// --- Helper Functions ---

func mapDbDocumentToResponse(doc *db_models.Document) *api_models.DocumentResponse {
	return &api_models.DocumentResponse{
		ID:        doc.ID,
		Title:     doc.Title,
		Content:   doc.Content,
		SourceURL: doc.SourceURL,
		Author:    doc.Author,
		Category:  doc.Category,
		IsActive:  doc.IsActive,
		CreatedAt: doc.CreatedAt,
	}
}

func mapDbChunkToResponse(chunk *db_models.Chunk) api_models.ChunkResponse {
	return api_models.ChunkResponse{
		ID:         chunk.ID,
		DocumentID: chunk.DocumentID,
		Text:       chunk.Text,
		Index:      chunk.Index,
	}
}

// CreateDocument stores the document and its chunks. Segments are indexed
// contiguously from zero in their original order.
func (s *documentService) CreateDocument(ctx context.Context, req api_models.CreateDocumentRequest) (*api_models.CreateDocumentResponse, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrDocValidation)
	}

	doc, err := s.store.CreateDocument(ctx, store.CreateDocumentParams{
		ID:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		SourceURL: req.SourceURL,
		Author:    req.Author,
		Category:  req.Category,
	})
	if err != nil {
		log.Printf("ERROR [DocumentService] CreateDocument: Store call failed for title %s: %v", req.Title, err)
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	segments := splitContent(req.Content)
	for i, segment := range segments {
		if _, err := s.store.CreateChunk(ctx, store.CreateChunkParams{
			ID:         uuid.New(),
			DocumentID: doc.ID,
			Text:       segment,
			Index:      i,
		}); err != nil {
			log.Printf("ERROR [DocumentService] CreateDocument: Failed to create chunk %d for document %s: %v", i, doc.ID, err)
			return nil, fmt.Errorf("failed to save document chunk: %w", err)
		}
	}

	log.Printf("[DocumentService] CreateDocument: Created document %s with %d chunks", doc.ID, len(segments))
	return &api_models.CreateDocumentResponse{
		Message:    "Document added successfully",
		DocumentID: doc.ID,
		ChunkCount: len(segments),
	}, nil
}

// GetDocument retrieves a document together with its ordered chunks.
func (s *documentService) GetDocument(ctx context.Context, id uuid.UUID) (*api_models.DocumentDetailResponse, error) {
	doc, err := s.store.GetDocumentByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		log.Printf("ERROR [DocumentService] GetDocument: Store call failed for ID %s: %v", id, err)
		return nil, fmt.Errorf("failed to retrieve document: %w", err)
	}

	chunks, err := s.store.ListChunksByDocument(ctx, id)
	if err != nil {
		log.Printf("ERROR [DocumentService] GetDocument: Failed to list chunks for ID %s: %v", id, err)
		return nil, fmt.Errorf("failed to retrieve document chunks: %w", err)
	}

	resp := &api_models.DocumentDetailResponse{
		Document: *mapDbDocumentToResponse(doc),
		Chunks:   make([]api_models.ChunkResponse, len(chunks)),
	}
	for i := range chunks {
		resp.Chunks[i] = mapDbChunkToResponse(&chunks[i])
	}
	return resp, nil
}

// ListDocuments retrieves active documents, newest first.
func (s *documentService) ListDocuments(ctx context.Context, limit, offset int) ([]api_models.DocumentResponse, error) {
	if limit <= 0 {
		limit = defaultDocumentListLimit
	}
	if offset < 0 {
		offset = 0
	}

	docs, err := s.store.ListDocuments(ctx, limit, offset)
	if err != nil {
		log.Printf("ERROR [DocumentService] ListDocuments: Store call failed: %v", err)
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	resp := make([]api_models.DocumentResponse, len(docs))
	for i := range docs {
		resp[i] = *mapDbDocumentToResponse(&docs[i])
	}
	return resp, nil
}

// UpdateDocument applies a partial update restricted to the closed field
// set of UpdateDocumentRequest. Unknown fields never reach this method;
// the handler rejects them at decode time.
func (s *documentService) UpdateDocument(ctx context.Context, id uuid.UUID, req api_models.UpdateDocumentRequest) (*api_models.DocumentResponse, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be updated to empty", ErrDocValidation)
	}

	doc, err := s.store.UpdateDocument(ctx, store.UpdateDocumentParams{
		ID:        id,
		Title:     req.Title,
		Content:   req.Content,
		SourceURL: req.SourceURL,
		Author:    req.Author,
		Category:  req.Category,
		IsActive:  req.IsActive,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		log.Printf("ERROR [DocumentService] UpdateDocument: Store call failed for ID %s: %v", id, err)
		return nil, fmt.Errorf("failed to update document: %w", err)
	}

	return mapDbDocumentToResponse(doc), nil
}

// DeleteDocument physically removes a document. Deleting an absent (or
// already deleted) id reports ErrDocumentNotFound.
func (s *documentService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	err := s.store.DeleteDocument(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDocumentNotFound
		}
		log.Printf("ERROR [DocumentService] DeleteDocument: Store call failed for ID %s: %v", id, err)
		return fmt.Errorf("failed to delete document: %w", err)
	}
	log.Printf("[DocumentService] DeleteDocument: Deleted document %s", id)
	return nil
}

// ListChunks retrieves a document's chunks ordered by index.
func (s *documentService) ListChunks(ctx context.Context, documentID uuid.UUID) ([]api_models.ChunkResponse, error) {
	chunks, err := s.store.ListChunksByDocument(ctx, documentID)
	if err != nil {
		log.Printf("ERROR [DocumentService] ListChunks: Store call failed for document %s: %v", documentID, err)
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}

	resp := make([]api_models.ChunkResponse, len(chunks))
	for i := range chunks {
		resp[i] = mapDbChunkToResponse(&chunks[i])
	}
	return resp, nil
}
