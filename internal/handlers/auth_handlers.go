package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	api_models "weatherchat-backend/internal/models"
	db_models "weatherchat-backend/internal/models"
	"weatherchat-backend/internal/services"
	"weatherchat-backend/pkg/httputil"
)

// AuthService defines the interface expected from the auth service.
// This promotes loose coupling and testability.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*db_models.User, error)
	Login(ctx context.Context, username, password string) (string, *db_models.User, error)
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authSvc AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authSvc,
	}
}

// HandleRegister handles the POST /v1/auth/register request.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req api_models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Username == "" || req.Email == "" || req.Password == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		log.Printf("Register handler failed for username %s: %v", req.Username, err)
		// Error Mapping: Map service errors to HTTP status codes
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			httputil.RespondError(w, http.StatusConflict, err.Error()) // 409
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error()) // 400
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to register user") // 500
		}
		return
	}

	resp := api_models.RegisterResponse{
		Message: "User registered successfully",
		UserID:  user.ID,
	}
	httputil.RespondJSON(w, http.StatusCreated, resp) // 201 Created
}

// HandleLogin handles the POST /v1/auth/login request.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req api_models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if req.Username == "" || req.Password == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Printf("Login handler failed for username %s: %v", req.Username, err)
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			httputil.RespondError(w, http.StatusUnauthorized, err.Error()) // 401
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to login") // 500
		}
		return
	}

	resp := api_models.AuthResponse{
		Message:     "Login successful",
		AccessToken: token,
		User: api_models.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	}
	httputil.RespondJSON(w, http.StatusOK, resp) // 200 OK
}
