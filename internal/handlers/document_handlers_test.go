package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"weatherchat-backend/internal/models"
	"weatherchat-backend/internal/services"
)

// stubDocumentService records the last update call; other methods return
// canned values.
type stubDocumentService struct {
	updateCalled bool
	updateID     uuid.UUID
	updateReq    models.UpdateDocumentRequest
	updateErr    error
}

func (s *stubDocumentService) CreateDocument(_ context.Context, req models.CreateDocumentRequest) (*models.CreateDocumentResponse, error) {
	return &models.CreateDocumentResponse{Message: "Document added successfully", DocumentID: uuid.New()}, nil
}

func (s *stubDocumentService) GetDocument(_ context.Context, id uuid.UUID) (*models.DocumentDetailResponse, error) {
	return nil, services.ErrDocumentNotFound
}

func (s *stubDocumentService) ListDocuments(_ context.Context, limit, offset int) ([]models.DocumentResponse, error) {
	return nil, nil
}

func (s *stubDocumentService) UpdateDocument(_ context.Context, id uuid.UUID, req models.UpdateDocumentRequest) (*models.DocumentResponse, error) {
	s.updateCalled = true
	s.updateID = id
	s.updateReq = req
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &models.DocumentResponse{ID: id}, nil
}

func (s *stubDocumentService) DeleteDocument(_ context.Context, id uuid.UUID) error {
	return nil
}

func doUpdateRequest(t *testing.T, svc *stubDocumentService, docID, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewDocumentHandler(svc)

	r := chi.NewRouter()
	r.Put("/v1/documents/{documentID}", h.HandleUpdateDocument)

	req := httptest.NewRequest(http.MethodPut, "/v1/documents/"+docID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleUpdateDocumentKnownFields(t *testing.T) {
	svc := &stubDocumentService{}
	docID := uuid.New()

	rec := doUpdateRequest(t, svc, docID.String(), `{"title":"New Title","is_active":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if !svc.updateCalled {
		t.Fatal("service not called")
	}
	if svc.updateID != docID {
		t.Errorf("update id = %s, want %s", svc.updateID, docID)
	}
	if svc.updateReq.Title == nil || *svc.updateReq.Title != "New Title" {
		t.Error("title not carried through")
	}
	if svc.updateReq.IsActive == nil || *svc.updateReq.IsActive != false {
		t.Error("is_active not carried through")
	}
	if svc.updateReq.Content != nil {
		t.Error("absent field decoded as non-nil")
	}
}

func TestHandleUpdateDocumentRejectsUnknownField(t *testing.T) {
	svc := &stubDocumentService{}

	rec := doUpdateRequest(t, svc, uuid.New().String(), `{"title":"x","password_hash":"sneaky"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown field", rec.Code)
	}
	if svc.updateCalled {
		t.Error("service called despite unknown field in payload")
	}
}

func TestHandleUpdateDocumentInvalidID(t *testing.T) {
	svc := &stubDocumentService{}

	rec := doUpdateRequest(t, svc, "not-a-uuid", `{"title":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for bad id", rec.Code)
	}
	if svc.updateCalled {
		t.Error("service called despite invalid id")
	}
}

func TestHandleUpdateDocumentNotFound(t *testing.T) {
	svc := &stubDocumentService{updateErr: services.ErrDocumentNotFound}

	rec := doUpdateRequest(t, svc, uuid.New().String(), `{"title":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
