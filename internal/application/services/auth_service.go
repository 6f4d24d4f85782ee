package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/providers"
	"github.com/hal-directory/backend/internal/domain/repositories"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

const (
	msgInvalidCredentials = "Incorrect email or password"
	msgInvalidToken       = "Invalid authentication credentials"
)

// RegisterInput is the payload for creating an account
type RegisterInput struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
}

// LoginInput is the payload for signing in
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	User  *entities.User `json:"user"`
	Token string         `json:"token"`
}

// AuthService handles accounts and bearer tokens
type AuthService struct {
	users       repositories.UserRepository
	credentials providers.CredentialProvider
}

// NewAuthService creates a new auth service
func NewAuthService(users repositories.UserRepository, credentials providers.CredentialProvider) *AuthService {
	return &AuthService{users: users, credentials: credentials}
}

// Register creates a user with the user role and signs them in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("Email already registered")
	}

	hash, err := s.credentials.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &entities.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         entities.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(ctx, user)
}

// Login verifies credentials and returns a fresh token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}
	if !s.credentials.ComparePassword(user.PasswordHash, input.Password) {
		return nil, apperrors.NewUnauthorizedError(msgInvalidCredentials)
	}

	return s.issue(ctx, user)
}

// Authenticate resolves a bearer token to the principal it was issued for
func (s *AuthService) Authenticate(ctx context.Context, token string) (entities.Principal, error) {
	if token == "" {
		return entities.Principal{}, apperrors.NewUnauthorizedError(msgInvalidToken)
	}

	userID, err := s.credentials.VerifyToken(ctx, token)
	if err != nil {
		return entities.Principal{}, apperrors.NewUnauthorizedError(msgInvalidToken)
	}

	user, err := s.users.GetByID(ctx, userID)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return entities.Principal{}, apperrors.NewUnauthorizedError("User not found")
	}
	if err != nil {
		return entities.Principal{}, err
	}
	return user.Principal(), nil
}

// Me returns the principal's account
func (s *AuthService) Me(ctx context.Context, principal entities.Principal) (*entities.User, error) {
	user, err := s.users.GetByID(ctx, principal.UserID)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, apperrors.NewUnauthorizedError("User not found")
	}
	return user, err
}

func (s *AuthService) issue(ctx context.Context, user *entities.User) (*AuthResult, error) {
	token, err := s.credentials.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
