package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
	"github.com/hal-directory/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

const reviewsTable = "reviews"

var reviewColumns = []interface{}{
	"id", "company_id", "user_id", "user_name", "rating", "comment", "comment_ru", "created_at", "updated_at",
}

// ReviewAdapter implements ReviewRepository
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	record := goqu.Record{
		"id":         review.ID,
		"company_id": review.CompanyID,
		"user_id":    review.UserID,
		"user_name":  review.UserName,
		"rating":     review.Rating,
		"comment":    review.Comment,
		"comment_ru": nullString(review.CommentRu),
		"created_at": review.CreatedAt,
		"updated_at": review.UpdatedAt,
	}

	query, args, err := a.db.Insert(reviewsTable).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return writeError(err, "You have already reviewed this company", "Company not found", "failed to create review")
	}
	return nil
}

// FindByCompanyAndUser returns the user's review of the company, or nil when there is none
func (a *ReviewAdapter) FindByCompanyAndUser(ctx context.Context, companyID, userID string) (*entities.Review, error) {
	query, args, err := a.db.From(reviewsTable).Prepared(true).
		Select(reviewColumns...).
		Where(goqu.C("company_id").Eq(companyID), goqu.C("user_id").Eq(userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build select query", err)
	}

	review, err := scanReview(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}
	return review, nil
}

// ListByCompany returns reviews newest first
func (a *ReviewAdapter) ListByCompany(ctx context.Context, companyID string, offset, limit int) ([]*entities.Review, error) {
	ds := a.db.From(reviewsTable).Prepared(true).
		Select(reviewColumns...).
		Where(goqu.C("company_id").Eq(companyID)).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := make([]*entities.Review, 0, limit)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate reviews", err)
	}
	return reviews, nil
}

// CountByCompany returns the number of reviews of a company
func (a *ReviewAdapter) CountByCompany(ctx context.Context, companyID string) (int, error) {
	query, args, err := a.db.From(reviewsTable).Prepared(true).
		Select(goqu.COUNT("*")).
		Where(goqu.C("company_id").Eq(companyID)).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, apperrors.NewInternalError("failed to count reviews", err)
	}
	return total, nil
}

// RatingsByCompany returns every rating of a company's reviews
func (a *ReviewAdapter) RatingsByCompany(ctx context.Context, companyID string) ([]int, error) {
	query, args, err := a.db.From(reviewsTable).Prepared(true).
		Select("rating").
		Where(goqu.C("company_id").Eq(companyID)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build ratings query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read ratings", err)
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, apperrors.NewInternalError("failed to scan rating", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate ratings", err)
	}
	return ratings, nil
}

func scanReview(row rowScanner) (*entities.Review, error) {
	review := &entities.Review{}
	var commentRu sql.NullString
	err := row.Scan(
		&review.ID,
		&review.CompanyID,
		&review.UserID,
		&review.UserName,
		&review.Rating,
		&review.Comment,
		&commentRu,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	review.CommentRu = stringPtr(commentRu)
	return review, nil
}
