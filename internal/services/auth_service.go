package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"weatherchat-backend/internal/auth"
	"weatherchat-backend/internal/config"
	"weatherchat-backend/internal/models"
	"weatherchat-backend/internal/store"
)

// Custom errors for auth service
var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrHashingPassword    = errors.New("failed to hash password")
	ErrCreatingToken      = errors.New("failed to create access token")
	ErrValidation         = errors.New("input validation failed") // Generic validation error
)

type AuthService struct {
	store store.Store
	cfg   *config.Config
}

func NewAuthService(s store.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		store: s,
		cfg:   cfg,
	}
}

// Register creates a new user with a bcrypt-hashed password.
// The username existence pre-check is not atomic with the insert; the
// unique index backstops the race and surfaces as ErrUsernameTaken too.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password cannot be empty", ErrValidation)
	}

	// Check if the username is already taken
	_, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("Error checking user existence for %s: %v", username, err)
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		log.Printf("Error hashing password for %s: %v", username, err)
		return nil, ErrHashingPassword
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost the race against a concurrent registration.
			return nil, ErrUsernameTaken
		}
		log.Printf("Error creating user %s: %v", username, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("Successfully registered user %s (ID: %s)", username, user.ID)
	return user, nil
}

// Login verifies user credentials and returns an access token and user info.
// An unknown username and a wrong password are indistinguishable to the
// caller; both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials // Basic check before hitting DB
	}

	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials // Don't reveal if user exists or password is wrong
		}
		log.Printf("Error retrieving user %s during login: %v", username, err)
		return "", nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(user.ID, user.Username, user.Role, s.cfg.JWTSecret, s.cfg.TokenExpiration)
	if err != nil {
		log.Printf("Error generating JWT for user %s (ID: %s): %v", username, user.ID, err)
		return "", nil, ErrCreatingToken
	}

	if err := s.store.UpdateUserLastLogin(ctx, user.ID); err != nil {
		// Non-fatal: the login itself succeeded.
		log.Printf("Warning: Failed to update last login for user %s: %v", user.ID, err)
	}

	log.Printf("Successfully logged in user %s (ID: %s)", username, user.ID)
	return token, user, nil
}
