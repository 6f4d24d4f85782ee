package repositories

import (
	"context"

	"github.com/hal-directory/backend/internal/domain/entities"
)

// ContactRepository stores contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, message *entities.ContactMessage) error
}
