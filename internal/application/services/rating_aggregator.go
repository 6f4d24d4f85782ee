package services

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/hal-directory/backend/internal/domain/repositories"
)

// RatingAggregator derives a company's rating and review count from its reviews.
//
// Every run re-reads the full review set instead of keeping a running
// average. The read and the write are not atomic, so concurrent inserts for
// the same company resolve last-writer-wins; the next run corrects any
// stale value.
type RatingAggregator struct {
	companies repositories.CompanyRepository
	reviews   repositories.ReviewRepository
}

// NewRatingAggregator creates a new rating aggregator
func NewRatingAggregator(companies repositories.CompanyRepository, reviews repositories.ReviewRepository) *RatingAggregator {
	return &RatingAggregator{companies: companies, reviews: reviews}
}

// Recompute rewrites rating and review_count for one company
func (a *RatingAggregator) Recompute(ctx context.Context, companyID string) (float64, int, error) {
	ratings, err := a.reviews.RatingsByCompany(ctx, companyID)
	if err != nil {
		return 0, 0, err
	}

	rating, count := aggregate(ratings)
	if err := a.companies.SetRating(ctx, companyID, rating, count); err != nil {
		return 0, 0, err
	}
	return rating, count, nil
}

// RecomputeAll reconciles every company. It keeps going past failures and
// returns the number of companies updated together with the joined errors.
func (a *RatingAggregator) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := a.companies.ListIDs(ctx)
	if err != nil {
		return 0, err
	}

	var errs []error
	updated := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, _, err := a.Recompute(ctx, id); err != nil {
			log.Error().Err(err).Str("company_id", id).Msg("Failed to recompute rating")
			errs = append(errs, err)
			continue
		}
		updated++
	}
	return updated, errors.Join(errs...)
}

// aggregate returns the rounded mean and the count. An empty set is 0/0.
func aggregate(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return roundRating(float64(sum) / float64(len(ratings))), len(ratings)
}

// roundRating rounds to one decimal, half away from zero
func roundRating(mean float64) float64 {
	return math.Round(mean*10) / 10
}
