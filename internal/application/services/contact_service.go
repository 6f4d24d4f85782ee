package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
)

// ContactInput is a contact form submission
type ContactInput struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Subject *string `json:"subject" validate:"omitempty,max=200"`
	Message string  `json:"message" validate:"required,max=5000"`
}

// ContactService stores contact form submissions
type ContactService struct {
	repo repositories.ContactRepository
}

// NewContactService creates a new contact service
func NewContactService(repo repositories.ContactRepository) *ContactService {
	return &ContactService{repo: repo}
}

// Validate trims the text fields and checks them
func (in *ContactInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)
	return validateStruct(*in)
}

// Submit validates and stores a message
func (s *ContactService) Submit(ctx context.Context, input ContactInput) (*entities.ContactMessage, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	message := &entities.ContactMessage{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Subject:   input.Subject,
		Message:   input.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}
