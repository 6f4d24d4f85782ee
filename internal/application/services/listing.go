package services

import (
	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

// Pagination bounds shared by every list endpoint
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListParams are the inputs of a company listing
type ListParams struct {
	Page     int
	Limit    int
	Category entities.Category
	Search   string
	Sort     entities.CompanySort
	IsNew    *bool
}

// Validate rejects out-of-range pagination and unknown sort or category values
func (p ListParams) Validate() error {
	if err := validatePage(p.Page, p.Limit); err != nil {
		return err
	}
	if p.Sort != "" && !p.Sort.IsValid() {
		return apperrors.NewValidationError("sort must be one of: recent, popular, rating")
	}
	if p.Category != "" && !p.Category.IsValid() {
		return apperrors.NewValidationError("unknown category")
	}
	return nil
}

func validatePage(page, limit int) error {
	if page < 1 {
		return apperrors.NewValidationError("page must be at least 1")
	}
	if limit < 1 || limit > MaxLimit {
		return apperrors.NewValidationError("limit must be between 1 and 100")
	}
	return nil
}

// Filter returns the store filter. Only active companies are listed.
func (p ListParams) Filter() repositories.CompanyFilter {
	return repositories.CompanyFilter{
		ActiveOnly: true,
		Category:   p.Category,
		IsNew:      p.IsNew,
		Search:     p.Search,
	}
}

// sortKeys maps a sort mode to ORDER BY keys. id DESC is always last so
// pages are stable when the other keys tie.
func sortKeys(mode entities.CompanySort) []repositories.SortKey {
	switch mode {
	case entities.CompanySortPopular:
		return []repositories.SortKey{
			{Field: repositories.SortFieldReviewCount, Desc: true},
			{Field: repositories.SortFieldRating, Desc: true},
			{Field: repositories.SortFieldID, Desc: true},
		}
	case entities.CompanySortRating:
		return []repositories.SortKey{
			{Field: repositories.SortFieldRating, Desc: true},
			{Field: repositories.SortFieldReviewCount, Desc: true},
			{Field: repositories.SortFieldID, Desc: true},
		}
	default:
		return []repositories.SortKey{
			{Field: repositories.SortFieldCreatedAt, Desc: true},
			{Field: repositories.SortFieldID, Desc: true},
		}
	}
}

func offset(page, limit int) int {
	return (page - 1) * limit
}

// pageCount is ceil(total/limit); 0 when there is nothing to show
func pageCount(total, limit int) int {
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
