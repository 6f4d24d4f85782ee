package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
	"github.com/hal-directory/backend/internal/infrastructure/observability"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

// CreateReviewInput is the payload for reviewing a company
type CreateReviewInput struct {
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Comment   string  `json:"comment" validate:"required,max=5000"`
	CommentRu *string `json:"commentRu" validate:"omitempty,max=5000"`
}

// ReviewService handles company reviews
type ReviewService struct {
	companies  repositories.CompanyRepository
	reviews    repositories.ReviewRepository
	aggregator *RatingAggregator
	metrics    *observability.Metrics
}

// NewReviewService creates a new review service. metrics may be nil.
func NewReviewService(
	companies repositories.CompanyRepository,
	reviews repositories.ReviewRepository,
	aggregator *RatingAggregator,
	metrics *observability.Metrics,
) *ReviewService {
	return &ReviewService{
		companies:  companies,
		reviews:    reviews,
		aggregator: aggregator,
		metrics:    metrics,
	}
}

// ListByCompany returns one page of a company's reviews, newest first
func (s *ReviewService) ListByCompany(ctx context.Context, companyID string, page, limit int) (*entities.ReviewPage, error) {
	if err := ValidateID(companyID, "company"); err != nil {
		return nil, err
	}
	if err := validatePage(page, limit); err != nil {
		return nil, err
	}

	var (
		reviews []*entities.Review
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reviews, err = s.reviews.ListByCompany(gctx, companyID, offset(page, limit), limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.reviews.CountByCompany(gctx, companyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if reviews == nil {
		reviews = []*entities.Review{}
	}
	return &entities.ReviewPage{Reviews: reviews, Total: total}, nil
}

// Create stores principal's review of a company and refreshes the
// company's rating.
//
// The review is returned once it is stored even if the rating refresh
// fails; the failure is logged and the aggregate is reconciled by the
// next review or by RecomputeAll.
func (s *ReviewService) Create(ctx context.Context, principal entities.Principal, companyID string, input CreateReviewInput) (*entities.Review, error) {
	if err := ValidateID(companyID, "company"); err != nil {
		return nil, err
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		return nil, err
	}

	existing, err := s.reviews.FindByCompanyAndUser(ctx, companyID, principal.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("You have already reviewed this company")
	}

	now := time.Now().UTC()
	review := &entities.Review{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		UserID:    principal.UserID,
		UserName:  principal.Name,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		CommentRu: input.CommentRu,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	observability.RecordReviewCreated(ctx, s.metrics, companyID)

	if _, _, err := s.aggregator.Recompute(ctx, companyID); err != nil {
		observability.LoggerFromContext(ctx).Error().
			Err(err).
			Str("company_id", companyID).
			Str("review_id", review.ID).
			Msg("Failed to refresh company rating after review")
		observability.RecordAggregateFailure(ctx, s.metrics)
	}

	return review, nil
}
