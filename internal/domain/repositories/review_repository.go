package repositories

import (
	"context"

	"github.com/hal-directory/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create inserts a review; a second review by the same user is a conflict
	Create(ctx context.Context, review *entities.Review) error

	// FindByCompanyAndUser returns the user's review of a company, or nil
	FindByCompanyAndUser(ctx context.Context, companyID, userID string) (*entities.Review, error)

	// ListByCompany returns reviews newest first
	ListByCompany(ctx context.Context, companyID string, offset, limit int) ([]*entities.Review, error)

	// CountByCompany returns the number of reviews of a company
	CountByCompany(ctx context.Context, companyID string) (int, error)

	// RatingsByCompany returns the rating of every review of a company
	RatingsByCompany(ctx context.Context, companyID string) ([]int, error)
}
