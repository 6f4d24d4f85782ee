package repositories

import (
	"context"

	"github.com/hal-directory/backend/internal/domain/entities"
)

// BlogRepository defines the interface for blog post operations
type BlogRepository interface {
	Create(ctx context.Context, post *entities.BlogPost) error
	GetByID(ctx context.Context, id string) (*entities.BlogPost, error)
	// List returns posts newest published first
	List(ctx context.Context, offset, limit int) ([]*entities.BlogPost, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
