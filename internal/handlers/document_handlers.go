package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"weatherchat-backend/internal/models"
	"weatherchat-backend/internal/services"
	"weatherchat-backend/pkg/httputil"
)

// DocumentService defines the interface expected from the document service.
type DocumentService interface {
	CreateDocument(ctx context.Context, req models.CreateDocumentRequest) (*models.CreateDocumentResponse, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*models.DocumentDetailResponse, error)
	ListDocuments(ctx context.Context, limit, offset int) ([]models.DocumentResponse, error)
	UpdateDocument(ctx context.Context, id uuid.UUID, req models.UpdateDocumentRequest) (*models.DocumentResponse, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

type DocumentHandler struct {
	docService DocumentService
}

func NewDocumentHandler(docSvc DocumentService) *DocumentHandler {
	return &DocumentHandler{
		docService: docSvc,
	}
}

// HandleCreateDocument handles POST /v1/documents (admin only, enforced by
// router middleware).
func (h *DocumentHandler) HandleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	resp, err := h.docService.CreateDocument(r.Context(), req)
	if err != nil {
		log.Printf("ERROR [DocumentHandler] HandleCreateDocument: %v", err)
		if errors.Is(err, services.ErrDocValidation) {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		} else {
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to add document")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, resp)
}

// HandleGetDocument handles GET /v1/documents/{documentID}
func (h *DocumentHandler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID format")
		return
	}

	resp, err := h.docService.GetDocument(r.Context(), docID)
	if err != nil {
		log.Printf("ERROR [DocumentHandler] HandleGetDocument for ID %s: %v", docID, err)
		if errors.Is(err, services.ErrDocumentNotFound) {
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		} else {
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch document")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleListDocuments handles GET /v1/documents?limit=&offset=
func (h *DocumentHandler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 0)
	offset := parseQueryInt(r, "offset", 0)

	docs, err := h.docService.ListDocuments(r.Context(), limit, offset)
	if err != nil {
		log.Printf("ERROR [DocumentHandler] HandleListDocuments: %v", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to fetch documents")
		return
	}

	if docs == nil {
		docs = []models.DocumentResponse{}
	}
	httputil.RespondJSON(w, http.StatusOK, models.ListDocumentsResponse{Documents: docs})
}

// HandleUpdateDocument handles PUT /v1/documents/{documentID} (admin only).
// The update field set is closed; unknown JSON fields are rejected rather
// than silently dropped.
func (h *DocumentHandler) HandleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID format")
		return
	}

	var req models.UpdateDocumentRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	resp, err := h.docService.UpdateDocument(r.Context(), docID, req)
	if err != nil {
		log.Printf("ERROR [DocumentHandler] HandleUpdateDocument for ID %s: %v", docID, err)
		switch {
		case errors.Is(err, services.ErrDocumentNotFound):
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrDocValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to update document")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleDeleteDocument handles DELETE /v1/documents/{documentID} (admin only).
func (h *DocumentHandler) HandleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid document ID format")
		return
	}

	if err := h.docService.DeleteDocument(r.Context(), docID); err != nil {
		log.Printf("ERROR [DocumentHandler] HandleDeleteDocument for ID %s: %v", docID, err)
		if errors.Is(err, services.ErrDocumentNotFound) {
			httputil.RespondError(w, http.StatusNotFound, err.Error())
		} else {
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to delete document")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}

// parseQueryInt reads an integer query parameter, falling back when absent
// or malformed.
func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
