package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
)

// SeedFile is the fixture format read by Seed
type SeedFile struct {
	Companies []SeedCompany      `yaml:"companies"`
	Posts     []entities.BlogPost `yaml:"posts"`
}

// SeedCompany is a company entry in a seed fixture
type SeedCompany struct {
	Name          string            `yaml:"name"`
	NameRu        string            `yaml:"nameRu"`
	Description   string            `yaml:"description"`
	DescriptionRu string            `yaml:"descriptionRu"`
	Category      entities.Category `yaml:"category"`
	Location      entities.Location `yaml:"location"`
	Contacts      entities.Contacts `yaml:"contacts"`
	Image         string            `yaml:"image"`
	Images        []string          `yaml:"images"`
	IsNew         bool              `yaml:"isNew"`
	IsActive      *bool             `yaml:"isActive"`
}

// SeedResult counts what a seed run wrote
type SeedResult struct {
	Companies int
	Posts     int
}

// SeedService loads fixtures and bulk imports into the store
type SeedService struct {
	companies repositories.CompanyRepository
	blog      repositories.BlogRepository
}

// NewSeedService creates a new seed service
func NewSeedService(companies repositories.CompanyRepository, blog repositories.BlogRepository) *SeedService {
	return &SeedService{companies: companies, blog: blog}
}

// Seed reads a YAML fixture and inserts its companies and posts. With
// reset, existing companies (with their reviews) and posts are removed
// first. Seeded companies start with no rating; ratings only come from
// reviews.
func (s *SeedService) Seed(ctx context.Context, r io.Reader, reset bool) (*SeedResult, error) {
	var file SeedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	for i, c := range file.Companies {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("company %d: name is required", i+1)
		}
		if !c.Category.IsValid() {
			return nil, fmt.Errorf("company %d (%s): unknown category %q", i+1, c.Name, c.Category)
		}
	}

	if reset {
		if err := s.companies.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear companies: %w", err)
		}
		if err := s.blog.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear blog posts: %w", err)
		}
		log.Info().Msg("Cleared existing companies and blog posts")
	}

	result := &SeedResult{}
	now := time.Now().UTC()
	for _, c := range file.Companies {
		company := &entities.Company{
			ID:            uuid.New().String(),
			Name:          strings.TrimSpace(c.Name),
			NameRu:        fallback(c.NameRu, c.Name),
			Description:   strings.TrimSpace(c.Description),
			DescriptionRu: fallback(c.DescriptionRu, c.Description),
			Category:      c.Category,
			Location:      c.Location,
			Contacts:      c.Contacts,
			Image:         c.Image,
			Images:        nonNil(c.Images),
			IsNew:         c.IsNew,
			IsActive:      c.IsActive == nil || *c.IsActive,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.companies.Create(ctx, company); err != nil {
			return result, fmt.Errorf("failed to create company %q: %w", company.Name, err)
		}
		result.Companies++
	}

	for i := range file.Posts {
		post := file.Posts[i]
		post.ID = uuid.New().String()
		if post.Author == "" {
			post.Author = entities.DefaultBlogAuthor
		}
		if post.PublishedAt.IsZero() {
			post.PublishedAt = now
		}
		post.CreatedAt = now
		post.UpdatedAt = now
		if err := s.blog.Create(ctx, &post); err != nil {
			return result, fmt.Errorf("failed to create post %q: %w", post.TitleUk, err)
		}
		result.Posts++
	}

	return result, nil
}
