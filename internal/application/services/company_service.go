package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

// LocationInput is the location part of a company payload
type LocationInput struct {
	City    string `json:"city" validate:"required,max=100"`
	Address string `json:"address" validate:"required,max=300"`
}

// ContactsInput is the contacts part of a company payload
type ContactsInput struct {
	Phone   string  `json:"phone" validate:"required,max=50"`
	Email   string  `json:"email" validate:"omitempty,email"`
	Website *string `json:"website" validate:"omitempty,url"`
}

// CreateCompanyInput is the payload for creating a company
type CreateCompanyInput struct {
	Name          string            `json:"name" validate:"required,max=200"`
	NameRu        string            `json:"nameRu" validate:"max=200"`
	Description   string            `json:"description" validate:"required,max=5000"`
	DescriptionRu string            `json:"descriptionRu" validate:"max=5000"`
	Category      entities.Category `json:"category" validate:"required"`
	Location      LocationInput     `json:"location"`
	Contacts      ContactsInput     `json:"contacts"`
	Image         string            `json:"image" validate:"omitempty,url"`
	Images        []string          `json:"images" validate:"omitempty,dive,url"`
	IsNew         bool              `json:"isNew"`
	IsActive      *bool             `json:"isActive"`
}

// UpdateCompanyInput is a partial company payload. Absent or null fields
// are left unchanged. Rating, review count, owner and creation time are
// not updatable.
type UpdateCompanyInput struct {
	Name          *string            `json:"name" validate:"omitempty,min=1,max=200"`
	NameRu        *string            `json:"nameRu" validate:"omitempty,max=200"`
	Description   *string            `json:"description" validate:"omitempty,min=1,max=5000"`
	DescriptionRu *string            `json:"descriptionRu" validate:"omitempty,max=5000"`
	Category      *entities.Category `json:"category"`
	Location      *LocationInput     `json:"location"`
	Contacts      *ContactsInput     `json:"contacts"`
	Image         *string            `json:"image" validate:"omitempty,url"`
	Images        *[]string          `json:"images" validate:"omitempty,dive,url"`
	IsNew         *bool              `json:"isNew"`
	IsActive      *bool              `json:"isActive"`
}

// CompanyService handles company listing and lifecycle
type CompanyService struct {
	repo repositories.CompanyRepository
}

// NewCompanyService creates a new company service
func NewCompanyService(repo repositories.CompanyRepository) *CompanyService {
	return &CompanyService{repo: repo}
}

// List returns one page of active companies. The page and the total are
// read concurrently with the same filter.
func (s *CompanyService) List(ctx context.Context, params ListParams) (*entities.CompanyPage, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	filter := params.Filter()
	query := repositories.CompanyQuery{
		Filter: filter,
		Sort:   sortKeys(params.Sort),
		Offset: offset(params.Page, params.Limit),
		Limit:  params.Limit,
	}

	var (
		companies []*entities.Company
		total     int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		companies, err = s.repo.List(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if companies == nil {
		companies = []*entities.Company{}
	}
	return &entities.CompanyPage{
		Companies: companies,
		Total:     total,
		Page:      params.Page,
		Pages:     pageCount(total, params.Limit),
	}, nil
}

// Get returns a company by id, active or not
func (s *CompanyService) Get(ctx context.Context, id string) (*entities.Company, error) {
	if err := ValidateID(id, "company"); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Create stores a new company owned by principal
func (s *CompanyService) Create(ctx context.Context, principal entities.Principal, input CreateCompanyInput) (*entities.Company, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if !input.Category.IsValid() {
		return nil, apperrors.NewValidationError("unknown category")
	}

	now := time.Now().UTC()
	owner := principal.UserID
	company := &entities.Company{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(input.Name),
		NameRu:        fallback(input.NameRu, input.Name),
		Description:   strings.TrimSpace(input.Description),
		DescriptionRu: fallback(input.DescriptionRu, input.Description),
		Category:      input.Category,
		Location:      entities.Location(input.Location),
		Contacts:      toContacts(input.Contacts),
		Image:         input.Image,
		Images:        nonNil(input.Images),
		Rating:        0,
		ReviewCount:   0,
		IsNew:         input.IsNew,
		IsActive:      input.IsActive == nil || *input.IsActive,
		UserID:        &owner,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// Update applies a partial update after checking that principal may
// change the company
func (s *CompanyService) Update(ctx context.Context, principal entities.Principal, id string, input UpdateCompanyInput) (*entities.Company, error) {
	if err := ValidateID(id, "company"); err != nil {
		return nil, err
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.Category != nil && !input.Category.IsValid() {
		return nil, apperrors.NewValidationError("unknown category")
	}

	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeCompanyMutation(principal, company, "update"); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, toCompanyUpdate(input))
}

// Delete removes a company and its reviews after checking that principal
// may change the company
func (s *CompanyService) Delete(ctx context.Context, principal entities.Principal, id string) error {
	if err := ValidateID(id, "company"); err != nil {
		return err
	}

	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeCompanyMutation(principal, company, "delete"); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func toCompanyUpdate(input UpdateCompanyInput) repositories.CompanyUpdate {
	update := repositories.CompanyUpdate{
		Name:          input.Name,
		NameRu:        input.NameRu,
		Description:   input.Description,
		DescriptionRu: input.DescriptionRu,
		Category:      input.Category,
		Image:         input.Image,
		Images:        input.Images,
		IsNew:         input.IsNew,
		IsActive:      input.IsActive,
	}
	if input.Location != nil {
		location := entities.Location(*input.Location)
		update.Location = &location
	}
	if input.Contacts != nil {
		contacts := toContacts(*input.Contacts)
		update.Contacts = &contacts
	}
	return update
}

func toContacts(in ContactsInput) entities.Contacts {
	return entities.Contacts{
		Phone:   in.Phone,
		Email:   in.Email,
		Website: in.Website,
	}
}

// fallback returns value, or primary when value is blank
func fallback(value, primary string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return strings.TrimSpace(primary)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
