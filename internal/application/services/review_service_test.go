package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hal-directory/backend/internal/adapters/memory"
	"github.com/hal-directory/backend/internal/application/services"
	"github.com/hal-directory/backend/internal/domain/entities"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

func newReviewService(store *memory.Store) *services.ReviewService {
	aggregator := services.NewRatingAggregator(store.Companies(), store.Reviews())
	return services.NewReviewService(store.Companies(), store.Reviews(), aggregator, nil)
}

func TestReviewService_Create(t *testing.T) {
	store := memory.NewStore()
	company := addCompany(t, store, "Компанія")
	service := newReviewService(store)
	ctx := context.Background()

	review, err := service.Create(ctx, owner, company.ID, services.CreateReviewInput{Rating: 5, Comment: "Чудово"})
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, review.UserID)
	assert.Equal(t, owner.Name, review.UserName)
	assert.Equal(t, company.ID, review.CompanyID)

	_, err = service.Create(ctx, other, company.ID, services.CreateReviewInput{Rating: 2, Comment: "Так собі"})
	require.NoError(t, err)

	got, err := store.Companies().GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.5, got.Rating)
	assert.Equal(t, 2, got.ReviewCount)
}

func TestReviewService_Create_Duplicate(t *testing.T) {
	store := memory.NewStore()
	company := addCompany(t, store, "Компанія")
	service := newReviewService(store)
	ctx := context.Background()

	_, err := service.Create(ctx, owner, company.ID, services.CreateReviewInput{Rating: 4, Comment: "Добре"})
	require.NoError(t, err)

	_, err = service.Create(ctx, owner, company.ID, services.CreateReviewInput{Rating: 1, Comment: "Погано"})
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	assert.Equal(t, "You have already reviewed this company", err.Error())

	got, err := store.Companies().GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, 1, got.ReviewCount)
}

func TestReviewService_Create_Validation(t *testing.T) {
	store := memory.NewStore()
	company := addCompany(t, store, "Компанія")
	service := newReviewService(store)
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		input   services.CreateReviewInput
		message string
	}{
		{"rating too high", company.ID, services.CreateReviewInput{Rating: 6, Comment: "x"}, "rating must be at most 5"},
		{"rating missing", company.ID, services.CreateReviewInput{Comment: "x"}, "rating is required"},
		{"comment missing", company.ID, services.CreateReviewInput{Rating: 3}, "comment is required"},
		{"malformed id", "abc", services.CreateReviewInput{Rating: 3, Comment: "x"}, "Invalid company ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, owner, tt.id, tt.input)
			require.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
			assert.Equal(t, tt.message, err.Error())
		})
	}

	count, err := store.Reviews().CountByCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReviewService_Create_CompanyMissing(t *testing.T) {
	store := memory.NewStore()
	service := newReviewService(store)

	_, err := service.Create(context.Background(), owner, uuid.New().String(), services.CreateReviewInput{Rating: 5, Comment: "x"})
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Equal(t, "Company not found", err.Error())
}

func TestReviewService_Create_AggregateFailureKeepsReview(t *testing.T) {
	store := memory.NewStore()
	companyID := addCompany(t, store, "Компанія").ID

	companies := new(MockCompanyRepository)
	companies.On("GetByID", mock.Anything, companyID).Return(&entities.Company{ID: companyID, IsActive: true}, nil)
	companies.On("SetRating", mock.Anything, companyID, 5.0, 1).Return(errors.New("write timeout"))

	aggregator := services.NewRatingAggregator(companies, store.Reviews())
	service := services.NewReviewService(companies, store.Reviews(), aggregator, nil)

	review, err := service.Create(context.Background(), owner, companyID, services.CreateReviewInput{Rating: 5, Comment: "Супер"})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)

	count, err := store.Reviews().CountByCompany(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	companies.AssertExpectations(t)
}

func TestReviewService_Create_CompanyDeletedBeforeInsert(t *testing.T) {
	store := memory.NewStore()
	companyID := uuid.New().String()
	companies := new(MockCompanyRepository)
	companies.On("GetByID", mock.Anything, companyID).Return(&entities.Company{ID: companyID, IsActive: true}, nil)

	service := services.NewReviewService(companies, store.Reviews(), services.NewRatingAggregator(companies, store.Reviews()), nil)

	_, err := service.Create(context.Background(), owner, companyID, services.CreateReviewInput{Rating: 4, Comment: "Добре"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	companies.AssertNotCalled(t, "SetRating", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewService_Create_StoreConflictIsConflict(t *testing.T) {
	companyID := uuid.New().String()
	companies := new(MockCompanyRepository)
	reviews := new(MockReviewRepository)
	companies.On("GetByID", mock.Anything, companyID).Return(&entities.Company{ID: companyID}, nil)
	reviews.On("FindByCompanyAndUser", mock.Anything, companyID, owner.UserID).Return(nil, nil)
	reviews.On("Create", mock.Anything, mock.Anything).Return(apperrors.NewConflictError("You have already reviewed this company"))

	service := services.NewReviewService(companies, reviews, services.NewRatingAggregator(companies, reviews), nil)

	_, err := service.Create(context.Background(), owner, companyID, services.CreateReviewInput{Rating: 5, Comment: "x"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	reviews.AssertNotCalled(t, "RatingsByCompany", mock.Anything, mock.Anything)
}

func TestReviewService_ListByCompany(t *testing.T) {
	store := memory.NewStore()
	company := addCompany(t, store, "Компанія")
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Reviews().Create(context.Background(), &entities.Review{
			ID:        uuid.New().String(),
			CompanyID: company.ID,
			UserID:    uuid.New().String(),
			Rating:    i + 1,
			Comment:   "Відгук",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	service := newReviewService(store)
	ctx := context.Background()

	page, err := service.ListByCompany(ctx, company.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Reviews, 2)
	assert.Equal(t, 3, page.Reviews[0].Rating)
	assert.Equal(t, 2, page.Reviews[1].Rating)

	page, err = service.ListByCompany(ctx, company.ID, 3, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Reviews)
	assert.NotNil(t, page.Reviews)
	assert.Equal(t, 3, page.Total)

	_, err = service.ListByCompany(ctx, company.ID, 1, 101)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = service.ListByCompany(ctx, "bad", 1, 20)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}
