package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
)

// CategoryService reports the fixed categories with their company counts
type CategoryService struct {
	companies repositories.CompanyRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(companies repositories.CompanyRepository) *CategoryService {
	return &CategoryService{companies: companies}
}

// List returns every category with the number of active companies in it
func (s *CategoryService) List(ctx context.Context) ([]entities.CategoryWithCount, error) {
	infos := entities.Categories()
	result := make([]entities.CategoryWithCount, len(infos))

	g, gctx := errgroup.WithContext(ctx)
	for i, info := range infos {
		result[i].CategoryInfo = info
		g.Go(func() error {
			count, err := s.companies.Count(gctx, repositories.CompanyFilter{
				ActiveOnly: true,
				Category:   info.ID,
			})
			if err != nil {
				return err
			}
			result[i].Count = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
