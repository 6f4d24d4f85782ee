package services

import (
	"context"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
)

// BlogService serves published blog posts
type BlogService struct {
	repo repositories.BlogRepository
}

// NewBlogService creates a new blog service
func NewBlogService(repo repositories.BlogRepository) *BlogService {
	return &BlogService{repo: repo}
}

// List returns one page of posts, newest published first
func (s *BlogService) List(ctx context.Context, page, limit int) (*entities.BlogPage, error) {
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}

	posts, err := s.repo.List(ctx, offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	if posts == nil {
		posts = []*entities.BlogPost{}
	}
	return &entities.BlogPage{Posts: posts, Total: total}, nil
}

// Get returns a post by id
func (s *BlogService) Get(ctx context.Context, id string) (*entities.BlogPost, error) {
	if err := ValidateID(id, "post"); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}
