package repositories

import (
	"context"

	"github.com/hal-directory/backend/internal/domain/entities"
)

// Sortable company columns
const (
	SortFieldCreatedAt   = "created_at"
	SortFieldReviewCount = "review_count"
	SortFieldRating      = "rating"
	SortFieldID          = "id"
)

// SortKey is one ORDER BY term
type SortKey struct {
	Field string
	Desc  bool
}

// CompanyFilter narrows a company query. Zero values impose no constraint.
type CompanyFilter struct {
	ActiveOnly bool
	Category   entities.Category
	IsNew      *bool
	// Search is a case-insensitive literal substring matched against
	// name, name_ru, description and description_ru.
	Search string
}

// CompanyQuery is a filtered, sorted and paginated company query
type CompanyQuery struct {
	Filter CompanyFilter
	Sort   []SortKey
	Offset int
	Limit  int
}

// CompanyUpdate is a partial update. Nil fields are left untouched.
type CompanyUpdate struct {
	Name          *string
	NameRu        *string
	Description   *string
	DescriptionRu *string
	Category      *entities.Category
	Location      *entities.Location
	Contacts      *entities.Contacts
	Image         *string
	Images        *[]string
	IsNew         *bool
	IsActive      *bool
}

// CompanyRepository defines the interface for company data operations
type CompanyRepository interface {
	// Create inserts a new company
	Create(ctx context.Context, company *entities.Company) error

	// GetByID retrieves a company by ID regardless of its active flag
	GetByID(ctx context.Context, id string) (*entities.Company, error)

	// Update applies a partial update and refreshes updated_at
	Update(ctx context.Context, id string, update CompanyUpdate) (*entities.Company, error)

	// SetRating writes the aggregate rating fields in a single statement
	SetRating(ctx context.Context, id string, rating float64, reviewCount int) error

	// Delete removes a company together with its reviews
	Delete(ctx context.Context, id string) error

	// DeleteAll removes every company and review
	DeleteAll(ctx context.Context) error

	// List returns one page of companies matching the query
	List(ctx context.Context, query CompanyQuery) ([]*entities.Company, error)

	// Count returns the number of companies matching the filter
	Count(ctx context.Context, filter CompanyFilter) (int, error)

	// ListIDs returns the id of every company
	ListIDs(ctx context.Context) ([]string, error)
}
