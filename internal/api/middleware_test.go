package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"weatherchat-backend/internal/auth"
	"weatherchat-backend/internal/models"
)

const testSecret = "middleware-test-secret"

// okHandler records the identity the middleware injected.
type okHandler struct {
	called   bool
	userID   uuid.UUID
	username string
	role     string
}

func (h *okHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.userID, _ = auth.GetUserIDFromContext(r.Context())
	h.username, _ = auth.GetUsernameFromContext(r.Context())
	h.role, _ = auth.GetRoleFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func doAuthRequest(t *testing.T, authorization string) (*httptest.ResponseRecorder, *okHandler) {
	t.Helper()
	next := &okHandler{}
	handler := JwtAuthMiddleware(testSecret)(next)

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/conversations", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, next
}

func TestJwtMiddlewareMissingHeader(t *testing.T) {
	rec, next := doAuthRequest(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if next.called {
		t.Error("handler reached without a token")
	}
}

func TestJwtMiddlewareMalformedHeader(t *testing.T) {
	rec, next := doAuthRequest(t, "Token abc.def.ghi")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if next.called {
		t.Error("handler reached with a malformed header")
	}
}

func TestJwtMiddlewareGarbageToken(t *testing.T) {
	rec, next := doAuthRequest(t, "Bearer not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if next.called {
		t.Error("handler reached with a garbage token")
	}
}

func TestJwtMiddlewareExpiredToken(t *testing.T) {
	token, err := auth.NewAccessToken(uuid.New(), "alice", models.RoleUser, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	rec, next := doAuthRequest(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if next.called {
		t.Error("handler reached with an expired token")
	}
}

func TestJwtMiddlewareWrongSignature(t *testing.T) {
	token, err := auth.NewAccessToken(uuid.New(), "alice", models.RoleUser, "another-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	rec, next := doAuthRequest(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if next.called {
		t.Error("handler reached with a forged token")
	}
}

func TestJwtMiddlewareValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := auth.NewAccessToken(userID, "alice", models.RoleAdmin, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	rec, next := doAuthRequest(t, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !next.called {
		t.Fatal("handler not reached with a valid token")
	}
	if next.userID != userID {
		t.Errorf("context user id = %s, want %s", next.userID, userID)
	}
	if next.username != "alice" {
		t.Errorf("context username = %q, want %q", next.username, "alice")
	}
	if next.role != models.RoleAdmin {
		t.Errorf("context role = %q, want %q", next.role, models.RoleAdmin)
	}
}

func TestRequireAdmin(t *testing.T) {
	next := &okHandler{}
	handler := RequireAdmin(next)

	// Non-admin role is rejected.
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", nil)
	ctx := context.WithValue(req.Context(), auth.RoleKey, models.RoleUser)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for non-admin", rec.Code)
	}
	if next.called {
		t.Error("handler reached by non-admin")
	}

	// Admin role passes through.
	req = httptest.NewRequest(http.MethodPost, "/v1/documents", nil)
	ctx = context.WithValue(req.Context(), auth.RoleKey, models.RoleAdmin)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for admin", rec.Code)
	}
	if !next.called {
		t.Error("handler not reached by admin")
	}
}
